package handlers

import (
	"errors"
	"net/http"

	"github.com/kashodiya/milan/internal/domain/model"
	authsvc "github.com/kashodiya/milan/internal/services/auth"
	profilessvc "github.com/kashodiya/milan/internal/services/profiles"
	"github.com/kashodiya/milan/internal/transport/http/dto"
	httperrors "github.com/kashodiya/milan/internal/transport/http/errors"
)

type PreferenceHandler struct {
	service *profilessvc.Service
}

func NewPreferenceHandler(service *profilessvc.Service) *PreferenceHandler {
	return &PreferenceHandler{service: service}
}

func (h *PreferenceHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PREFERENCE_SERVICE_UNAVAILABLE", "preference service is unavailable")
		return
	}

	var req dto.PreferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	pref, err := h.service.CreatePreference(r.Context(), identity.UserID, preferenceInput(req))
	if err != nil {
		switch {
		case errors.Is(err, profilessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid preference payload")
		case errors.Is(err, profilessvc.ErrPreferenceExists):
			writeConflict(w, "PREFERENCE_EXISTS", "match preference already exists")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create preference")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, preferenceResponse(pref))
}

func (h *PreferenceHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PREFERENCE_SERVICE_UNAVAILABLE", "preference service is unavailable")
		return
	}

	pref, err := h.service.GetPreference(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, profilessvc.ErrPreferenceNotFound):
			writeNotFound(w, "PREFERENCE_NOT_FOUND", "match preference not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load preference")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, preferenceResponse(pref))
}

func (h *PreferenceHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PREFERENCE_SERVICE_UNAVAILABLE", "preference service is unavailable")
		return
	}

	var req dto.PreferenceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return
	}

	pref, err := h.service.UpdatePreference(r.Context(), identity.UserID, preferenceInput(req))
	if err != nil {
		switch {
		case errors.Is(err, profilessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid preference payload")
		case errors.Is(err, profilessvc.ErrPreferenceNotFound):
			writeNotFound(w, "PREFERENCE_NOT_FOUND", "match preference not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update preference")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, preferenceResponse(pref))
}

func preferenceInput(req dto.PreferenceRequest) profilessvc.PreferenceInput {
	return profilessvc.PreferenceInput{
		MinAge:                 req.MinAge,
		MaxAge:                 req.MaxAge,
		HeightMin:              req.HeightMin,
		HeightMax:              req.HeightMax,
		Religion:               req.Religion,
		LocationPreferenceText: req.LocationPreferenceText,
	}
}

func preferenceResponse(pref model.MatchPreference) dto.PreferenceResponse {
	return dto.PreferenceResponse{
		UserID:                 pref.UserID,
		MinAge:                 pref.MinAge,
		MaxAge:                 pref.MaxAge,
		HeightMin:              pref.HeightMin,
		HeightMax:              pref.HeightMax,
		Religion:               pref.Religion,
		LocationPreferenceText: pref.LocationPreferenceText,
		LocationScope:          string(pref.LocationScope),
	}
}
