package handlers

import (
	"errors"
	"net/http"

	"github.com/kashodiya/milan/internal/domain/enums"
	"github.com/kashodiya/milan/internal/domain/model"
	authsvc "github.com/kashodiya/milan/internal/services/auth"
	membershipssvc "github.com/kashodiya/milan/internal/services/memberships"
	"github.com/kashodiya/milan/internal/transport/http/dto"
	httperrors "github.com/kashodiya/milan/internal/transport/http/errors"
)

type MembershipHandler struct {
	service *membershipssvc.Service
}

func NewMembershipHandler(service *membershipssvc.Service) *MembershipHandler {
	return &MembershipHandler{service: service}
}

func (h *MembershipHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEMBERSHIP_SERVICE_UNAVAILABLE", "membership service is unavailable")
		return
	}

	var req dto.MembershipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	membership, err := h.service.Create(r.Context(), identity.UserID, membershipInput(req))
	if err != nil {
		switch {
		case errors.Is(err, membershipssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid membership payload")
		case errors.Is(err, membershipssvc.ErrMembershipExists):
			writeConflict(w, "MEMBERSHIP_EXISTS", "membership already exists")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create membership")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, membershipResponse(membership))
}

func (h *MembershipHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEMBERSHIP_SERVICE_UNAVAILABLE", "membership service is unavailable")
		return
	}

	membership, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, membershipssvc.ErrMembershipNotFound):
			writeNotFound(w, "MEMBERSHIP_NOT_FOUND", "membership not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load membership")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, membershipResponse(membership))
}

func (h *MembershipHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "MEMBERSHIP_SERVICE_UNAVAILABLE", "membership service is unavailable")
		return
	}

	var req dto.MembershipRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	membership, err := h.service.Update(r.Context(), identity.UserID, membershipInput(req))
	if err != nil {
		switch {
		case errors.Is(err, membershipssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid membership payload")
		case errors.Is(err, membershipssvc.ErrMembershipNotFound):
			writeNotFound(w, "MEMBERSHIP_NOT_FOUND", "membership not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update membership")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, membershipResponse(membership))
}

func membershipInput(req dto.MembershipRequest) membershipssvc.Input {
	return membershipssvc.Input{
		Tier:          enums.MembershipTier(req.Tier),
		StartAt:       req.StartAt,
		EndAt:         req.EndAt,
		PaymentStatus: req.PaymentStatus,
	}
}

func membershipResponse(membership model.Membership) dto.MembershipResponse {
	return dto.MembershipResponse{
		UserID:        membership.UserID,
		Tier:          string(membership.Tier),
		StartAt:       membership.StartAt,
		EndAt:         membership.EndAt,
		PaymentStatus: membership.PaymentStatus,
	}
}
