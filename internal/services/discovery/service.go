package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/kashodiya/milan/internal/domain/enums"
	"github.com/kashodiya/milan/internal/domain/rules"
	pgrepo "github.com/kashodiya/milan/internal/repo/postgres"
)

const defaultPageSize = 20

var (
	ErrValidation         = errors.New("validation error")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrPreferenceNotFound = errors.New("match preference not found")
)

type ProfileStore interface {
	GetByUserID(ctx context.Context, userID int64) (pgrepo.ProfileRecord, error)
}

type PreferenceStore interface {
	GetByUserID(ctx context.Context, userID int64) (pgrepo.PreferenceRecord, error)
}

type CandidateStore interface {
	ListEligibleByGender(ctx context.Context, gender string) ([]pgrepo.CandidateRecord, error)
}

// Ledger answers which partners are joined to a user by a blocked
// connection, whichever side initiated the block.
type Ledger interface {
	BlockedPartners(ctx context.Context, userID int64) ([]int64, error)
}

// Candidate is one discovery result with the age evaluated at request time.
type Candidate struct {
	UserID          int64      `json:"user_id"`
	FirstName       string     `json:"first_name"`
	LastName        string     `json:"last_name"`
	Gender          string     `json:"gender"`
	Age             int        `json:"age"`
	HeightCM        *float64   `json:"height_cm"`
	Religion        *string    `json:"religion"`
	LocationCity    *string    `json:"location_city"`
	LocationState   *string    `json:"location_state"`
	LocationCountry *string    `json:"location_country"`
	LastLoginAt     *time.Time `json:"last_login_at"`
}

type Service struct {
	profiles    ProfileStore
	preferences PreferenceStore
	candidates  CandidateStore
	ledger      Ledger
	now         func() time.Time
}

func NewService(profiles ProfileStore, preferences PreferenceStore, candidates CandidateStore, ledger Ledger) *Service {
	return &Service{
		profiles:    profiles,
		preferences: preferences,
		candidates:  candidates,
		ledger:      ledger,
		now:         time.Now,
	}
}

// FindCandidates returns a ranked page of profiles matching the requester's
// preferences. The requester must already have a profile and a preference
// row; their absence is an error, not an empty page. All filters evaluate
// against one instant captured at entry.
func (s *Service) FindCandidates(ctx context.Context, requesterID int64, offset, limit int) ([]Candidate, error) {
	if requesterID <= 0 || offset < 0 || limit < 0 {
		return nil, ErrValidation
	}
	if s.profiles == nil || s.preferences == nil || s.candidates == nil || s.ledger == nil {
		return nil, fmt.Errorf("discovery dependencies are not configured")
	}
	if limit == 0 {
		limit = defaultPageSize
	}

	asOf := s.now().UTC()

	requester, err := s.profiles.GetByUserID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrProfileNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, err
	}

	pref, err := s.preferences.GetByUserID(ctx, requesterID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrPreferenceNotFound) {
			return nil, ErrPreferenceNotFound
		}
		return nil, err
	}

	target := enums.OppositeGender(enums.Gender(requester.Gender))
	pool, err := s.candidates.ListEligibleByGender(ctx, string(target))
	if err != nil {
		return nil, err
	}

	blocked, err := s.ledger.BlockedPartners(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	excluded := make(map[int64]struct{}, len(blocked)+1)
	excluded[requesterID] = struct{}{}
	for _, id := range blocked {
		excluded[id] = struct{}{}
	}

	eligible := filter(pool, requester, pref, excluded, asOf)
	rank(eligible)

	return paginate(eligible, offset, limit, asOf), nil
}

func filter(pool []pgrepo.CandidateRecord, requester pgrepo.ProfileRecord, pref pgrepo.PreferenceRecord, excluded map[int64]struct{}, asOf time.Time) []pgrepo.CandidateRecord {
	// The age window only applies when both bounds are set; a lone bound
	// is ignored entirely rather than applied partially.
	ageFiltered := pref.MinAge != nil && pref.MaxAge != nil
	var earliest, latest time.Time
	if ageFiltered {
		earliest, latest = rules.BirthDateRange(*pref.MinAge, *pref.MaxAge, asOf)
	}

	sameCountry := enums.LocationScope(pref.LocationScope) == enums.LocationScopeSameCountry

	out := make([]pgrepo.CandidateRecord, 0, len(pool))
	for _, c := range pool {
		if _, skip := excluded[c.UserID]; skip {
			continue
		}
		if ageFiltered && !rules.WithinBirthDateRange(c.BirthDate, earliest, latest) {
			continue
		}
		if pref.HeightMin != nil && (c.HeightCM == nil || *c.HeightCM < *pref.HeightMin) {
			continue
		}
		if pref.HeightMax != nil && (c.HeightCM == nil || *c.HeightCM > *pref.HeightMax) {
			continue
		}
		if pref.Religion != nil && (c.Religion == nil || *c.Religion != *pref.Religion) {
			continue
		}
		if sameCountry {
			if requester.LocationCountry == nil || c.LocationCountry == nil || *c.LocationCountry != *requester.LocationCountry {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

// rank orders by most recent login first, never-logged-in last, with user id
// ascending as the tiebreak so pagination stays deterministic.
func rank(candidates []pgrepo.CandidateRecord) {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i].LastLoginAt, candidates[j].LastLoginAt
		switch {
		case a == nil && b == nil:
			return candidates[i].UserID < candidates[j].UserID
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return candidates[i].UserID < candidates[j].UserID
		default:
			return a.After(*b)
		}
	})
}

func paginate(candidates []pgrepo.CandidateRecord, offset, limit int, asOf time.Time) []Candidate {
	if offset >= len(candidates) {
		return []Candidate{}
	}
	end := offset + limit
	if end > len(candidates) {
		end = len(candidates)
	}

	out := make([]Candidate, 0, end-offset)
	for _, c := range candidates[offset:end] {
		out = append(out, Candidate{
			UserID:          c.UserID,
			FirstName:       c.FirstName,
			LastName:        c.LastName,
			Gender:          c.Gender,
			Age:             rules.AgeAt(c.BirthDate, asOf),
			HeightCM:        c.HeightCM,
			Religion:        c.Religion,
			LocationCity:    c.LocationCity,
			LocationState:   c.LocationState,
			LocationCountry: c.LocationCountry,
			LastLoginAt:     c.LastLoginAt,
		})
	}
	return out
}
