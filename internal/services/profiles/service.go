package profiles

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kashodiya/milan/internal/domain/enums"
	"github.com/kashodiya/milan/internal/domain/model"
	"github.com/kashodiya/milan/internal/domain/rules"
	pgrepo "github.com/kashodiya/milan/internal/repo/postgres"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrProfileExists      = errors.New("profile already exists")
	ErrPreferenceNotFound = errors.New("match preference not found")
	ErrPreferenceExists   = errors.New("match preference already exists")
)

type ProfileStore interface {
	Create(ctx context.Context, rec pgrepo.ProfileRecord) (pgrepo.ProfileRecord, error)
	GetByUserID(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
	Update(ctx context.Context, rec pgrepo.ProfileRecord) (pgrepo.ProfileRecord, error)
}

type PreferenceStore interface {
	Create(ctx context.Context, rec pgrepo.PreferenceRecord) (pgrepo.PreferenceRecord, error)
	GetByUserID(ctx context.Context, userID int64) (pgrepo.PreferenceRecord, error)
	Update(ctx context.Context, rec pgrepo.PreferenceRecord) (pgrepo.PreferenceRecord, error)
}

// ProfileInput carries every writable profile field. Optional fields stay
// nil when the caller omits them.
type ProfileInput struct {
	FirstName       string
	LastName        string
	Gender          enums.Gender
	BirthDate       time.Time
	HeightCM        *float64
	Religion        *string
	MotherTongue    *string
	MaritalStatus   string
	AboutMe         string
	Occupation      string
	Education       string
	LocationCity    *string
	LocationState   *string
	LocationCountry *string
}

type PreferenceInput struct {
	MinAge                 *int
	MaxAge                 *int
	HeightMin              *float64
	HeightMax              *float64
	Religion               *string
	LocationPreferenceText *string
}

type Service struct {
	profiles    ProfileStore
	preferences PreferenceStore
	now         func() time.Time
}

func NewService(profiles ProfileStore, preferences PreferenceStore) *Service {
	return &Service{
		profiles:    profiles,
		preferences: preferences,
		now:         time.Now,
	}
}

// CreateProfile stores the profile and marks the owning account complete,
// which is what admits the account into discovery results.
func (s *Service) CreateProfile(ctx context.Context, userID int64, input ProfileInput) (model.Profile, error) {
	if err := validateProfileInput(userID, input, s.now()); err != nil {
		return model.Profile{}, err
	}
	if s.profiles == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	rec, err := s.profiles.Create(ctx, profileRecord(userID, input, s.now().UTC()))
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileExists) {
			return model.Profile{}, ErrProfileExists
		}
		return model.Profile{}, err
	}

	return mapProfile(rec), nil
}

func (s *Service) GetProfile(ctx context.Context, userID int64) (model.Profile, error) {
	if userID <= 0 {
		return model.Profile{}, ErrValidation
	}
	if s.profiles == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	rec, err := s.profiles.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, err
	}

	return mapProfile(rec), nil
}

func (s *Service) UpdateProfile(ctx context.Context, userID int64, input ProfileInput) (model.Profile, error) {
	if err := validateProfileInput(userID, input, s.now()); err != nil {
		return model.Profile{}, err
	}
	if s.profiles == nil {
		return model.Profile{}, fmt.Errorf("profile store is nil")
	}

	rec, err := s.profiles.Update(ctx, profileRecord(userID, input, s.now().UTC()))
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return model.Profile{}, ErrProfileNotFound
		}
		return model.Profile{}, err
	}

	return mapProfile(rec), nil
}

// CreatePreference derives the location scope from the free-text field
// before persisting. The raw text is kept alongside the derived scope.
func (s *Service) CreatePreference(ctx context.Context, userID int64, input PreferenceInput) (model.MatchPreference, error) {
	if err := validatePreferenceInput(userID, input); err != nil {
		return model.MatchPreference{}, err
	}
	if s.preferences == nil {
		return model.MatchPreference{}, fmt.Errorf("preference store is nil")
	}

	rec, err := s.preferences.Create(ctx, preferenceRecord(userID, input))
	if err != nil {
		if errors.Is(err, pgrepo.ErrPreferenceExists) {
			return model.MatchPreference{}, ErrPreferenceExists
		}
		return model.MatchPreference{}, err
	}

	return mapPreference(rec), nil
}

func (s *Service) GetPreference(ctx context.Context, userID int64) (model.MatchPreference, error) {
	if userID <= 0 {
		return model.MatchPreference{}, ErrValidation
	}
	if s.preferences == nil {
		return model.MatchPreference{}, fmt.Errorf("preference store is nil")
	}

	rec, err := s.preferences.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPreferenceNotFound) {
			return model.MatchPreference{}, ErrPreferenceNotFound
		}
		return model.MatchPreference{}, err
	}

	return mapPreference(rec), nil
}

func (s *Service) UpdatePreference(ctx context.Context, userID int64, input PreferenceInput) (model.MatchPreference, error) {
	if err := validatePreferenceInput(userID, input); err != nil {
		return model.MatchPreference{}, err
	}
	if s.preferences == nil {
		return model.MatchPreference{}, fmt.Errorf("preference store is nil")
	}

	rec, err := s.preferences.Update(ctx, preferenceRecord(userID, input))
	if err != nil {
		if errors.Is(err, pgrepo.ErrPreferenceNotFound) {
			return model.MatchPreference{}, ErrPreferenceNotFound
		}
		return model.MatchPreference{}, err
	}

	return mapPreference(rec), nil
}

func validateProfileInput(userID int64, input ProfileInput, now time.Time) error {
	if userID <= 0 {
		return ErrValidation
	}
	if strings.TrimSpace(input.FirstName) == "" || strings.TrimSpace(input.LastName) == "" {
		return ErrValidation
	}
	if !input.Gender.Valid() {
		return ErrValidation
	}
	if input.BirthDate.IsZero() || input.BirthDate.After(now) {
		return ErrValidation
	}
	if input.HeightCM != nil && *input.HeightCM <= 0 {
		return ErrValidation
	}
	return nil
}

func validatePreferenceInput(userID int64, input PreferenceInput) error {
	if userID <= 0 {
		return ErrValidation
	}
	if input.MinAge != nil && *input.MinAge < 0 {
		return ErrValidation
	}
	if input.MaxAge != nil && *input.MaxAge < 0 {
		return ErrValidation
	}
	if input.MinAge != nil && input.MaxAge != nil && *input.MinAge > *input.MaxAge {
		return ErrValidation
	}
	if input.HeightMin != nil && input.HeightMax != nil && *input.HeightMin > *input.HeightMax {
		return ErrValidation
	}
	return nil
}

func profileRecord(userID int64, input ProfileInput, now time.Time) pgrepo.ProfileRecord {
	return pgrepo.ProfileRecord{
		UserID:          userID,
		FirstName:       strings.TrimSpace(input.FirstName),
		LastName:        strings.TrimSpace(input.LastName),
		Gender:          string(input.Gender),
		BirthDate:       input.BirthDate,
		HeightCM:        input.HeightCM,
		Religion:        input.Religion,
		MotherTongue:    input.MotherTongue,
		MaritalStatus:   input.MaritalStatus,
		AboutMe:         input.AboutMe,
		Occupation:      input.Occupation,
		Education:       input.Education,
		LocationCity:    input.LocationCity,
		LocationState:   input.LocationState,
		LocationCountry: input.LocationCountry,
		UpdatedAt:       now,
	}
}

func preferenceRecord(userID int64, input PreferenceInput) pgrepo.PreferenceRecord {
	scope := enums.LocationScopeNone
	if input.LocationPreferenceText != nil {
		scope = rules.LocationScopeFromText(*input.LocationPreferenceText)
	}
	return pgrepo.PreferenceRecord{
		UserID:                 userID,
		MinAge:                 input.MinAge,
		MaxAge:                 input.MaxAge,
		HeightMin:              input.HeightMin,
		HeightMax:              input.HeightMax,
		Religion:               input.Religion,
		LocationPreferenceText: input.LocationPreferenceText,
		LocationScope:          string(scope),
	}
}

func mapProfile(rec pgrepo.ProfileRecord) model.Profile {
	return model.Profile{
		UserID:          rec.UserID,
		FirstName:       rec.FirstName,
		LastName:        rec.LastName,
		Gender:          enums.Gender(rec.Gender),
		BirthDate:       rec.BirthDate,
		HeightCM:        rec.HeightCM,
		Religion:        rec.Religion,
		MotherTongue:    rec.MotherTongue,
		MaritalStatus:   rec.MaritalStatus,
		AboutMe:         rec.AboutMe,
		Occupation:      rec.Occupation,
		Education:       rec.Education,
		LocationCity:    rec.LocationCity,
		LocationState:   rec.LocationState,
		LocationCountry: rec.LocationCountry,
		UpdatedAt:       rec.UpdatedAt,
	}
}

func mapPreference(rec pgrepo.PreferenceRecord) model.MatchPreference {
	return model.MatchPreference{
		UserID:                 rec.UserID,
		MinAge:                 rec.MinAge,
		MaxAge:                 rec.MaxAge,
		HeightMin:              rec.HeightMin,
		HeightMax:              rec.HeightMax,
		Religion:               rec.Religion,
		LocationPreferenceText: rec.LocationPreferenceText,
		LocationScope:          enums.LocationScope(rec.LocationScope),
	}
}
