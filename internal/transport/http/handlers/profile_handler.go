package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/kashodiya/milan/internal/domain/enums"
	"github.com/kashodiya/milan/internal/domain/model"
	authsvc "github.com/kashodiya/milan/internal/services/auth"
	profilessvc "github.com/kashodiya/milan/internal/services/profiles"
	"github.com/kashodiya/milan/internal/transport/http/dto"
	httperrors "github.com/kashodiya/milan/internal/transport/http/errors"
)

const birthDateLayout = "2006-01-02"

type ProfileHandler struct {
	service *profilessvc.Service
}

func NewProfileHandler(service *profilessvc.Service) *ProfileHandler {
	return &ProfileHandler{service: service}
}

func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	input, ok := profileInputFromRequest(w, r)
	if !ok {
		return
	}

	profile, err := h.service.CreateProfile(r.Context(), identity.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, profilessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid profile payload")
		case errors.Is(err, profilessvc.ErrProfileExists):
			writeConflict(w, "PROFILE_EXISTS", "profile already exists")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to create profile")
		}
		return
	}

	httperrors.Write(w, http.StatusCreated, profileResponse(profile))
}

func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), identity.UserID)
	if err != nil {
		switch {
		case errors.Is(err, profilessvc.ErrProfileNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(profile))
}

// GetByUserID serves another member's profile card.
func (h *ProfileHandler) GetByUserID(w http.ResponseWriter, r *http.Request) {
	if _, ok := authsvc.IdentityFromContext(r.Context()); !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	userID, ok := parseID(chi.URLParam(r, "userID"))
	if !ok {
		writeBadRequest(w, "VALIDATION_ERROR", "userID must be a positive integer")
		return
	}

	profile, err := h.service.GetProfile(r.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, profilessvc.ErrProfileNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to load profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(profile))
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := authsvc.IdentityFromContext(r.Context())
	if !ok {
		writeUnauthorized(w, "UNAUTHORIZED", "authentication required")
		return
	}
	if h.service == nil {
		writeInternal(w, "PROFILE_SERVICE_UNAVAILABLE", "profile service is unavailable")
		return
	}

	input, ok := profileInputFromRequest(w, r)
	if !ok {
		return
	}

	profile, err := h.service.UpdateProfile(r.Context(), identity.UserID, input)
	if err != nil {
		switch {
		case errors.Is(err, profilessvc.ErrValidation):
			writeBadRequest(w, "VALIDATION_ERROR", "invalid profile payload")
		case errors.Is(err, profilessvc.ErrProfileNotFound):
			writeNotFound(w, "PROFILE_NOT_FOUND", "profile not found")
		default:
			writeInternal(w, "INTERNAL_ERROR", "failed to update profile")
		}
		return
	}

	httperrors.Write(w, http.StatusOK, profileResponse(profile))
}

func profileInputFromRequest(w http.ResponseWriter, r *http.Request) (profilessvc.ProfileInput, bool) {
	var req dto.ProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, "INVALID_REQUEST", "invalid request body")
		return profilessvc.ProfileInput{}, false
	}

	birthDate, err := time.Parse(birthDateLayout, req.BirthDate)
	if err != nil {
		writeBadRequest(w, "VALIDATION_ERROR", "birth_date must be formatted as YYYY-MM-DD")
		return profilessvc.ProfileInput{}, false
	}

	return profilessvc.ProfileInput{
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Gender:          enums.Gender(req.Gender),
		BirthDate:       birthDate,
		HeightCM:        req.HeightCM,
		Religion:        req.Religion,
		MotherTongue:    req.MotherTongue,
		MaritalStatus:   req.MaritalStatus,
		AboutMe:         req.AboutMe,
		Occupation:      req.Occupation,
		Education:       req.Education,
		LocationCity:    req.LocationCity,
		LocationState:   req.LocationState,
		LocationCountry: req.LocationCountry,
	}, true
}

func profileResponse(profile model.Profile) dto.ProfileResponse {
	return dto.ProfileResponse{
		UserID:          profile.UserID,
		FirstName:       profile.FirstName,
		LastName:        profile.LastName,
		Gender:          string(profile.Gender),
		BirthDate:       profile.BirthDate.Format(birthDateLayout),
		HeightCM:        profile.HeightCM,
		Religion:        profile.Religion,
		MotherTongue:    profile.MotherTongue,
		MaritalStatus:   profile.MaritalStatus,
		AboutMe:         profile.AboutMe,
		Occupation:      profile.Occupation,
		Education:       profile.Education,
		LocationCity:    profile.LocationCity,
		LocationState:   profile.LocationState,
		LocationCountry: profile.LocationCountry,
		UpdatedAt:       profile.UpdatedAt,
	}
}
