package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	pgrepo "github.com/kashodiya/milan/internal/repo/postgres"
	authsvc "github.com/kashodiya/milan/internal/services/auth"
	discoverysvc "github.com/kashodiya/milan/internal/services/discovery"
)

type profileStoreStub struct {
	profiles map[int64]pgrepo.ProfileRecord
}

func (s profileStoreStub) GetByUserID(_ context.Context, userID int64) (pgrepo.ProfileRecord, error) {
	rec, ok := s.profiles[userID]
	if !ok {
		return pgrepo.ProfileRecord{}, pgrepo.ErrProfileNotFound
	}
	return rec, nil
}

type preferenceStoreStub struct {
	prefs map[int64]pgrepo.PreferenceRecord
}

func (s preferenceStoreStub) GetByUserID(_ context.Context, userID int64) (pgrepo.PreferenceRecord, error) {
	rec, ok := s.prefs[userID]
	if !ok {
		return pgrepo.PreferenceRecord{}, pgrepo.ErrPreferenceNotFound
	}
	return rec, nil
}

type candidateStoreStub struct {
	records []pgrepo.CandidateRecord
}

func (s candidateStoreStub) ListEligibleByGender(_ context.Context, gender string) ([]pgrepo.CandidateRecord, error) {
	var out []pgrepo.CandidateRecord
	for _, rec := range s.records {
		if rec.Gender == gender {
			out = append(out, rec)
		}
	}
	return out, nil
}

type ledgerStub struct{}

func (ledgerStub) BlockedPartners(context.Context, int64) ([]int64, error) {
	return nil, nil
}

func authedRequest(method, target string, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(authsvc.WithIdentity(req.Context(), authsvc.Identity{
		UserID: userID,
		SID:    "sid-test",
	}))
}

func TestFindRequiresProfile(t *testing.T) {
	svc := discoverysvc.NewService(
		profileStoreStub{profiles: map[int64]pgrepo.ProfileRecord{}},
		preferenceStoreStub{prefs: map[int64]pgrepo.PreferenceRecord{}},
		candidateStoreStub{},
		ledgerStub{},
	)
	h := NewMatchesHandler(svc)

	rr := httptest.NewRecorder()
	h.Find(rr, authedRequest(http.MethodGet, "/matches", 1))

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusBadRequest)
	}

	var payload struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Code != "PROFILE_REQUIRED" {
		t.Fatalf("unexpected error code: got %q want %q", payload.Code, "PROFILE_REQUIRED")
	}
}

func TestFindReturnsRankedItems(t *testing.T) {
	lastLogin := time.Date(2024, time.June, 1, 10, 0, 0, 0, time.UTC)
	svc := discoverysvc.NewService(
		profileStoreStub{profiles: map[int64]pgrepo.ProfileRecord{
			1: {UserID: 1, Gender: "male"},
		}},
		preferenceStoreStub{prefs: map[int64]pgrepo.PreferenceRecord{
			1: {UserID: 1},
		}},
		candidateStoreStub{records: []pgrepo.CandidateRecord{
			{UserID: 2, FirstName: "Anjali", Gender: "female", BirthDate: time.Date(1992, time.May, 20, 0, 0, 0, 0, time.UTC)},
			{UserID: 3, FirstName: "Meera", Gender: "female", BirthDate: time.Date(1994, time.March, 1, 0, 0, 0, 0, time.UTC), LastLoginAt: &lastLogin},
		}},
		ledgerStub{},
	)
	h := NewMatchesHandler(svc)

	rr := httptest.NewRecorder()
	h.Find(rr, authedRequest(http.MethodGet, "/matches?limit=10", 1))

	if rr.Code != http.StatusOK {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusOK)
	}

	var payload struct {
		Items []struct {
			UserID    int64  `json:"user_id"`
			FirstName string `json:"first_name"`
		} `json:"items"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.Items) != 2 {
		t.Fatalf("unexpected item count: got %d want 2", len(payload.Items))
	}
	if payload.Items[0].UserID != 3 {
		t.Fatalf("recently active candidate should rank first, got %d", payload.Items[0].UserID)
	}
}

func TestFindUnauthenticated(t *testing.T) {
	h := NewMatchesHandler(nil)

	rr := httptest.NewRecorder()
	h.Find(rr, httptest.NewRequest(http.MethodGet, "/matches", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status: got %d want %d", rr.Code, http.StatusUnauthorized)
	}
}
