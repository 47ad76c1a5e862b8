package handlers

import (
	"errors"
	"net/http"

	authsvc "github.com/kashodiya/milan/internal/services/auth"
	discoverysvc "github.com/kashodiya/milan/internal/services/discovery"
	"github.com/kashodiya/milan/internal/transport/http/dto"
	httperrors "github.com/kashodiya/milan/internal/transport/http/errors"
)

type MatchesHandler struct {
	service *discoverysvc.Service
}

func NewMatchesHandler(service *discoverysvc.Service) *MatchesHandler {
	return &MatchesHandler{service: service}
}

func (h *MatchesHandler) Find(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "DISCOVERY_SERVICE_UNAVAILABLE", "discovery service is unavailable")
		return
	}

	offset := parseIntOrDefault(r.URL.Query().Get("offset"), 0)
	limit := parseIntOrDefault(r.URL.Query().Get("limit"), 20)

	items, err := h.service.FindCandidates(r.Context(), identity.UserID, offset, limit)
	if err != nil {
		switch {
		case errors.Is(err, discoverysvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid pagination parameters")
		case errors.Is(err, discoverysvc.ErrProfileNotFound):
			writeBadRequest(w, "PROFILE_REQUIRED", "complete your profile before searching")
		case errors.Is(err, discoverysvc.ErrPreferenceNotFound):
			writeBadRequest(w, "PREFERENCE_REQUIRED", "set your match preferences before searching")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to find matches")
		}
		return
	}

	responseItems := make([]dto.MatchItemResponse, 0, len(items))
	for _, item := range items {
		responseItems = append(responseItems, dto.MatchItemResponse{
			UserID:          item.UserID,
			FirstName:       item.FirstName,
			LastName:        item.LastName,
			Gender:          item.Gender,
			Age:             item.Age,
			HeightCM:        item.HeightCM,
			Religion:        item.Religion,
			LocationCity:    item.LocationCity,
			LocationState:   item.LocationState,
			LocationCountry: item.LocationCountry,
			LastLoginAt:     item.LastLoginAt,
		})
	}

	httperrors.Write(w, http.StatusOK, dto.MatchesResponse{Items: responseItems})
}
