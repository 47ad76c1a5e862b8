package handlers

import (
	"errors"
	"net/http"

	"github.com/kashodiya/milan/internal/domain/enums"
	"github.com/kashodiya/milan/internal/domain/model"
	authsvc "github.com/kashodiya/milan/internal/services/auth"
	userssvc "github.com/kashodiya/milan/internal/services/users"
	"github.com/kashodiya/milan/internal/transport/http/dto"
	httperrors "github.com/kashodiya/milan/internal/transport/http/errors"
)

type UsersHandler struct {
	service *userssvc.Service
}

func NewUsersHandler(service *userssvc.Service) *UsersHandler {
	return &UsersHandler{service: service}
}

func (h *UsersHandler) Register(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	var req dto.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	user, err := h.service.Register(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid email or password")
		case errors.Is(err, userssvc.ErrEmailTaken):
			writeConflict(w, "EMAIL_TAKEN", "email is already registered")
		default:
			writeInternal(w, "INTERNAL_ERROR", "registration failed")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, userResponse(user))
}

func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	user, err := h.service.Get(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load user")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, userResponse(user))
}

func (h *UsersHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "USERS_SERVICE_UNAVAILABLE", "users service is unavailable")
		return
	}

	var req dto.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	params := userssvc.UpdateParams{Email: req.Email}
	if req.Status != nil {
		status := enums.AccountStatus(*req.Status)
		params.Status = &status
	}

	user, err := h.service.Update(r.Context(), identity.UserID, params)
	if err != nil {
		switch {
		case errors.Is(err, userssvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid user update")
		case errors.Is(err, userssvc.ErrEmailTaken):
			writeConflict(w, "EMAIL_TAKEN", "email is already registered")
		case errors.Is(err, userssvc.ErrUserNotFound):
			writeNotFound(w, "USER_NOT_FOUND", "user not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update user")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, userResponse(user))
}

func userResponse(user model.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              user.ID,
		Email:           user.Email,
		Status:          string(user.Status),
		ProfileComplete: user.ProfileComplete,
		RegisteredAt:    user.RegisteredAt,
		LastLoginAt:     user.LastLoginAt,
	}
}
