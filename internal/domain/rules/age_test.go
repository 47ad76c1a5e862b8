package rules

import (
	"testing"
	"time"
)

func TestAgeAtCountsBirthdayOnlyWhenReached(t *testing.T) {
	birth := time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		asOf time.Time
		want int
	}{
		{name: "day before birthday", asOf: time.Date(2024, 6, 14, 0, 0, 0, 0, time.UTC), want: 33},
		{name: "on birthday", asOf: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), want: 34},
		{name: "day after birthday", asOf: time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC), want: 34},
		{name: "earlier month", asOf: time.Date(2024, 5, 20, 0, 0, 0, 0, time.UTC), want: 33},
		{name: "later month", asOf: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), want: 34},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := AgeAt(birth, tc.asOf); got != tc.want {
				t.Fatalf("unexpected age: got %d want %d", got, tc.want)
			}
		})
	}
}

func TestBirthDateRangeUsesOneEvaluationInstant(t *testing.T) {
	asOf := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	earliest, latest := BirthDateRange(25, 35, asOf)

	wantEarliest := time.Date(1988, 1, 1, 0, 0, 0, 0, time.UTC)
	wantLatest := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)
	if !earliest.Equal(wantEarliest) {
		t.Fatalf("unexpected earliest birth date: got %v want %v", earliest, wantEarliest)
	}
	if !latest.Equal(wantLatest) {
		t.Fatalf("unexpected latest birth date: got %v want %v", latest, wantLatest)
	}
}

func TestWithinBirthDateRangeBoundsAreInclusive(t *testing.T) {
	asOf := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	earliest, latest := BirthDateRange(25, 35, asOf)

	tests := []struct {
		name  string
		birth time.Time
		want  bool
	}{
		{name: "earliest edge", birth: time.Date(1988, 1, 1, 0, 0, 0, 0, time.UTC), want: true},
		{name: "latest edge", birth: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC), want: true},
		{name: "inside", birth: time.Date(1992, 5, 20, 0, 0, 0, 0, time.UTC), want: true},
		{name: "too old", birth: time.Date(1987, 12, 31, 0, 0, 0, 0, time.UTC), want: false},
		{name: "too young", birth: time.Date(1999, 1, 2, 0, 0, 0, 0, time.UTC), want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := WithinBirthDateRange(tc.birth, earliest, latest); got != tc.want {
				t.Fatalf("unexpected range membership for %v: got %t want %t", tc.birth, got, tc.want)
			}
		})
	}
}
