package handlers

import (
	"errors"
	"net/http"
	"time"

	authsvc "github.com/kashodiya/milan/internal/services/auth"
	"github.com/kashodiya/milan/internal/transport/http/dto"
	httperrors "github.com/kashodiya/milan/internal/transport/http/errors"
)

type AuthHandler struct {
	service *authsvc.Service
}

func NewAuthHandler(service *authsvc.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	var req dto.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	res, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, authsvc.ErrInvalidInput):
			writeBadRequest(w, "VALIDATION_ERROR", "email and password are required")
		case errors.Is(err, authsvc.ErrInvalidCredentials):
			writeUnauthorized(w, "INVALID_CREDENTIALS", "email or password is incorrect")
		default:
			writeInternal(w, "INTERNAL_ERROR", "login failed")
		}
		return
	}

	expiresIn := int64(time.Until(res.ExpiresAt).Seconds())
	if expiresIn < 0 {
		expiresIn = 0
	}

	httperrors.Write(w, http.StatusOK, dto.TokenResponse{
		AccessToken:  res.AccessToken,
		TokenType:    "bearer",
		ExpiresInSec: expiresIn,
		UserID:       res.UserID,
	})
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	if err := h.service.Logout(r.Context(), identity.SID); err != nil {
		writeInternal(w, "INTERNAL_ERROR", "logout failed")
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}

func (h *AuthHandler) LogoutAll(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "AUTH_SERVICE_UNAVAILABLE", "auth service is unavailable")
		return
	}

	if err := h.service.LogoutAll(r.Context(), identity.UserID); err != nil {
		writeInternal(w, "INTERNAL_ERROR", "logout failed")
		return
	}

	httperrors.Write(w, http.StatusOK, struct {
		OK bool `json:"ok"`
	}{OK: true})
}
