package discovery

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	pgrepo "github.com/kashodiya/milan/internal/repo/postgres"
)

type fakeProfileStore struct {
	profiles map[int64]pgrepo.ProfileRecord
}

func (f *fakeProfileStore) GetByUserID(_ context.Context, userID int64) (pgrepo.ProfileRecord, error) {
	rec, ok := f.profiles[userID]
	if !ok {
		return pgrepo.ProfileRecord{}, pgrepo.ErrProfileNotFound
	}
	return rec, nil
}

type fakePreferenceStore struct {
	prefs map[int64]pgrepo.PreferenceRecord
}

func (f *fakePreferenceStore) GetByUserID(_ context.Context, userID int64) (pgrepo.PreferenceRecord, error) {
	rec, ok := f.prefs[userID]
	if !ok {
		return pgrepo.PreferenceRecord{}, pgrepo.ErrPreferenceNotFound
	}
	return rec, nil
}

type fakeCandidateStore struct {
	byGender map[string][]pgrepo.CandidateRecord
}

func (f *fakeCandidateStore) ListEligibleByGender(_ context.Context, gender string) ([]pgrepo.CandidateRecord, error) {
	return f.byGender[gender], nil
}

type fakeLedger struct {
	blocked map[int64][]int64
}

func (f *fakeLedger) BlockedPartners(_ context.Context, userID int64) ([]int64, error) {
	return f.blocked[userID], nil
}

func strptr(s string) *string       { return &s }
func f64ptr(v float64) *float64     { return &v }
func intptr(v int) *int             { return &v }
func timeptr(t time.Time) *time.Time { return &t }

type fixture struct {
	profiles   *fakeProfileStore
	prefs      *fakePreferenceStore
	candidates *fakeCandidateStore
	ledger     *fakeLedger
	svc        *Service
}

func newFixture(asOf time.Time) *fixture {
	f := &fixture{
		profiles:   &fakeProfileStore{profiles: map[int64]pgrepo.ProfileRecord{}},
		prefs:      &fakePreferenceStore{prefs: map[int64]pgrepo.PreferenceRecord{}},
		candidates: &fakeCandidateStore{byGender: map[string][]pgrepo.CandidateRecord{}},
		ledger:     &fakeLedger{blocked: map[int64][]int64{}},
	}
	f.svc = NewService(f.profiles, f.prefs, f.candidates, f.ledger)
	f.svc.now = func() time.Time { return asOf }
	return f
}

func (f *fixture) addRequester(id int64, gender string, pref pgrepo.PreferenceRecord) {
	f.profiles.profiles[id] = pgrepo.ProfileRecord{UserID: id, Gender: gender}
	pref.UserID = id
	f.prefs.prefs[id] = pref
}

func (f *fixture) addCandidate(rec pgrepo.CandidateRecord) {
	f.candidates.byGender[rec.Gender] = append(f.candidates.byGender[rec.Gender], rec)
}

var asOf = time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

func TestFindCandidatesMissingProfileOrPreference(t *testing.T) {
	f := newFixture(asOf)

	if _, err := f.svc.FindCandidates(context.Background(), 1, 0, 10); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}

	f.profiles.profiles[1] = pgrepo.ProfileRecord{UserID: 1, Gender: "male"}
	if _, err := f.svc.FindCandidates(context.Background(), 1, 0, 10); !errors.Is(err, ErrPreferenceNotFound) {
		t.Fatalf("expected ErrPreferenceNotFound, got %v", err)
	}
}

func TestFindCandidatesGenderPairing(t *testing.T) {
	birth := time.Date(1995, time.January, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		requesterGender string
		wantGender      string
	}{
		{"male", "female"},
		{"female", "male"},
		{"other", "male"},
	}
	for _, tc := range cases {
		t.Run(tc.requesterGender, func(t *testing.T) {
			f := newFixture(asOf)
			f.addRequester(1, tc.requesterGender, pgrepo.PreferenceRecord{})
			f.addCandidate(pgrepo.CandidateRecord{UserID: 2, Gender: "male", BirthDate: birth})
			f.addCandidate(pgrepo.CandidateRecord{UserID: 3, Gender: "female", BirthDate: birth})

			got, err := f.svc.FindCandidates(context.Background(), 1, 0, 10)
			if err != nil {
				t.Fatalf("find candidates: %v", err)
			}
			if len(got) != 1 || got[0].Gender != tc.wantGender {
				t.Fatalf("requester %s: got %+v want one %s candidate", tc.requesterGender, got, tc.wantGender)
			}
		})
	}
}

func TestFindCandidatesAgeFilterNeedsBothBounds(t *testing.T) {
	tooYoung := pgrepo.CandidateRecord{UserID: 2, Gender: "female", BirthDate: time.Date(2004, time.July, 1, 0, 0, 0, 0, time.UTC)}
	inRange := pgrepo.CandidateRecord{UserID: 3, Gender: "female", BirthDate: time.Date(1994, time.March, 1, 0, 0, 0, 0, time.UTC)}

	t.Run("both bounds filter", func(t *testing.T) {
		f := newFixture(asOf)
		f.addRequester(1, "male", pgrepo.PreferenceRecord{MinAge: intptr(25), MaxAge: intptr(35)})
		f.addCandidate(tooYoung)
		f.addCandidate(inRange)

		got, err := f.svc.FindCandidates(context.Background(), 1, 0, 10)
		if err != nil {
			t.Fatalf("find candidates: %v", err)
		}
		if len(got) != 1 || got[0].UserID != 3 {
			t.Fatalf("got %+v want only user 3", got)
		}
	})

	t.Run("lone bound is ignored", func(t *testing.T) {
		f := newFixture(asOf)
		f.addRequester(1, "male", pgrepo.PreferenceRecord{MinAge: intptr(25)})
		f.addCandidate(tooYoung)
		f.addCandidate(inRange)

		got, err := f.svc.FindCandidates(context.Background(), 1, 0, 10)
		if err != nil {
			t.Fatalf("find candidates: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d candidates want 2; a single age bound must not filter", len(got))
		}
	})
}

func TestFindCandidatesAgeWindowInclusiveEdges(t *testing.T) {
	eval := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(eval)
	f.addRequester(1, "male", pgrepo.PreferenceRecord{MinAge: intptr(25), MaxAge: intptr(35)})

	// Window for 25..35 at 2024-01-01 is [1988-01-01, 1999-01-01] inclusive.
	f.addCandidate(pgrepo.CandidateRecord{UserID: 2, Gender: "female", BirthDate: time.Date(1988, time.January, 1, 0, 0, 0, 0, time.UTC)})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 3, Gender: "female", BirthDate: time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 4, Gender: "female", BirthDate: time.Date(1987, time.December, 31, 0, 0, 0, 0, time.UTC)})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 5, Gender: "female", BirthDate: time.Date(1999, time.January, 2, 0, 0, 0, 0, time.UTC)})

	got, err := f.svc.FindCandidates(context.Background(), 1, 0, 10)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	ids := candidateIDs(got)
	if !reflect.DeepEqual(ids, []int64{2, 3}) {
		t.Fatalf("got ids %v want [2 3]", ids)
	}
}

func TestFindCandidatesHeightBoundsIndependent(t *testing.T) {
	birth := time.Date(1994, time.March, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(asOf)
	f.addRequester(1, "male", pgrepo.PreferenceRecord{HeightMin: f64ptr(155)})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 2, Gender: "female", BirthDate: birth, HeightCM: f64ptr(150)})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 3, Gender: "female", BirthDate: birth, HeightCM: f64ptr(155)})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 4, Gender: "female", BirthDate: birth, HeightCM: f64ptr(170)})

	got, err := f.svc.FindCandidates(context.Background(), 1, 0, 10)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	ids := candidateIDs(got)
	if !reflect.DeepEqual(ids, []int64{3, 4}) {
		t.Fatalf("got ids %v want [3 4]", ids)
	}
}

func TestFindCandidatesExcludesSelfAndBlocked(t *testing.T) {
	birth := time.Date(1994, time.March, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(asOf)
	f.addRequester(1, "female", pgrepo.PreferenceRecord{})
	f.ledger.blocked[1] = []int64{3}

	// Requester appearing in its own pool must still be dropped.
	f.addCandidate(pgrepo.CandidateRecord{UserID: 1, Gender: "male", BirthDate: birth})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 2, Gender: "male", BirthDate: birth})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 3, Gender: "male", BirthDate: birth})

	got, err := f.svc.FindCandidates(context.Background(), 1, 0, 10)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	ids := candidateIDs(got)
	if !reflect.DeepEqual(ids, []int64{2}) {
		t.Fatalf("got ids %v want [2]", ids)
	}
}

func TestFindCandidatesSameCountryScope(t *testing.T) {
	birth := time.Date(1994, time.March, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(asOf)
	f.addRequester(1, "male", pgrepo.PreferenceRecord{LocationScope: "same_country"})
	f.profiles.profiles[1] = pgrepo.ProfileRecord{UserID: 1, Gender: "male", LocationCountry: strptr("India")}

	f.addCandidate(pgrepo.CandidateRecord{UserID: 2, Gender: "female", BirthDate: birth, LocationCountry: strptr("India")})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 3, Gender: "female", BirthDate: birth, LocationCountry: strptr("Canada")})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 4, Gender: "female", BirthDate: birth})

	got, err := f.svc.FindCandidates(context.Background(), 1, 0, 10)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	ids := candidateIDs(got)
	if !reflect.DeepEqual(ids, []int64{2}) {
		t.Fatalf("got ids %v want [2]", ids)
	}
}

func TestFindCandidatesRankingAndPagination(t *testing.T) {
	birth := time.Date(1994, time.March, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(asOf)
	f.addRequester(1, "male", pgrepo.PreferenceRecord{})

	f.addCandidate(pgrepo.CandidateRecord{UserID: 2, Gender: "female", BirthDate: birth})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 3, Gender: "female", BirthDate: birth, LastLoginAt: timeptr(asOf.Add(-time.Hour))})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 4, Gender: "female", BirthDate: birth, LastLoginAt: timeptr(asOf.Add(-time.Minute))})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 5, Gender: "female", BirthDate: birth, LastLoginAt: timeptr(asOf.Add(-time.Hour))})
	f.addCandidate(pgrepo.CandidateRecord{UserID: 6, Gender: "female", BirthDate: birth})

	got, err := f.svc.FindCandidates(context.Background(), 1, 0, 10)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	// Most recent login first, equal logins by id, never-logged-in last.
	want := []int64{4, 3, 5, 2, 6}
	if ids := candidateIDs(got); !reflect.DeepEqual(ids, want) {
		t.Fatalf("ranking: got %v want %v", ids, want)
	}

	page, err := f.svc.FindCandidates(context.Background(), 1, 2, 2)
	if err != nil {
		t.Fatalf("find candidates page: %v", err)
	}
	if ids := candidateIDs(page); !reflect.DeepEqual(ids, []int64{5, 2}) {
		t.Fatalf("page: got %v want [5 2]", ids)
	}

	empty, err := f.svc.FindCandidates(context.Background(), 1, 50, 10)
	if err != nil {
		t.Fatalf("out of range offset: %v", err)
	}
	if len(empty) != 0 {
		t.Fatalf("out of range offset must yield an empty page, got %v", candidateIDs(empty))
	}
}

func TestFindCandidatesStableAcrossCalls(t *testing.T) {
	birth := time.Date(1994, time.March, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(asOf)
	f.addRequester(1, "male", pgrepo.PreferenceRecord{})
	for id := int64(2); id <= 8; id++ {
		f.addCandidate(pgrepo.CandidateRecord{UserID: id, Gender: "female", BirthDate: birth})
	}

	first, err := f.svc.FindCandidates(context.Background(), 1, 1, 3)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := f.svc.FindCandidates(context.Background(), 1, 1, 3)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if !reflect.DeepEqual(candidateIDs(first), candidateIDs(second)) {
		t.Fatalf("pagination unstable: %v vs %v", candidateIDs(first), candidateIDs(second))
	}
}

func TestFindCandidatesEndToEnd(t *testing.T) {
	eval := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	f := newFixture(eval)

	f.profiles.profiles[1] = pgrepo.ProfileRecord{
		UserID:          1,
		Gender:          "male",
		BirthDate:       time.Date(1990, time.January, 15, 0, 0, 0, 0, time.UTC),
		HeightCM:        f64ptr(175.5),
		LocationCity:    strptr("Mumbai"),
		LocationCountry: strptr("India"),
	}
	f.prefs.prefs[1] = pgrepo.PreferenceRecord{
		UserID:   1,
		MinAge:   intptr(28),
		MaxAge:   intptr(36),
		Religion: strptr("Hindu"),
	}
	f.ledger.blocked[1] = []int64{3}

	f.addCandidate(pgrepo.CandidateRecord{
		UserID:          2,
		FirstName:       "Anjali",
		Gender:          "female",
		BirthDate:       time.Date(1992, time.May, 20, 0, 0, 0, 0, time.UTC),
		HeightCM:        f64ptr(165),
		Religion:        strptr("Hindu"),
		LocationCity:    strptr("Delhi"),
		LocationCountry: strptr("India"),
	})
	f.addCandidate(pgrepo.CandidateRecord{
		UserID:          3,
		Gender:          "female",
		BirthDate:       time.Date(1992, time.May, 20, 0, 0, 0, 0, time.UTC),
		HeightCM:        f64ptr(165),
		Religion:        strptr("Hindu"),
		LocationCountry: strptr("India"),
	})

	got, err := f.svc.FindCandidates(context.Background(), 1, 0, 10)
	if err != nil {
		t.Fatalf("find candidates: %v", err)
	}
	if len(got) != 1 || got[0].UserID != 2 {
		t.Fatalf("got %+v want exactly user 2", got)
	}
	if got[0].Age != 32 {
		t.Fatalf("age at 2024-06-01 for 1992-05-20: got %d want 32", got[0].Age)
	}
}

func candidateIDs(candidates []Candidate) []int64 {
	ids := make([]int64, 0, len(candidates))
	for _, c := range candidates {
		ids = append(ids, c.UserID)
	}
	return ids
}
