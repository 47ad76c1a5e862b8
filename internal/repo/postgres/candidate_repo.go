package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CandidateRepo struct {
	pool *pgxpool.Pool
}

// CandidateRecord is a discovery snapshot of one profile joined with its
// owning account. Preference filters and ranking run over these in memory.
type CandidateRecord struct {
	UserID          int64
	FirstName       string
	LastName        string
	Gender          string
	BirthDate       time.Time
	HeightCM        *float64
	Religion        *string
	LocationCity    *string
	LocationState   *string
	LocationCountry *string
	LastLoginAt     *time.Time
}

func NewCandidateRepo(pool *pgxpool.Pool) *CandidateRepo {
	return &CandidateRepo{pool: pool}
}

// ListEligibleByGender returns the base eligible pool: profiles of the given
// gender whose account is active and marked profile-complete.
func (r *CandidateRepo) ListEligibleByGender(ctx context.Context, gender string) ([]CandidateRecord, error) {
	if strings.TrimSpace(gender) == "" {
		return nil, fmt.Errorf("invalid gender")
	}
	if r.pool == nil {
		return []CandidateRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT
	p.user_id,
	p.first_name,
	p.last_name,
	p.gender,
	p.birth_date,
	p.height_cm,
	p.religion,
	p.location_city,
	p.location_state,
	p.location_country,
	u.last_login_at
FROM profiles p
JOIN users u ON u.id = p.user_id
WHERE u.account_status = 'active'
	AND u.profile_complete = TRUE
	AND p.gender = $1
`, gender)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}
	defer rows.Close()

	var items []CandidateRecord
	for rows.Next() {
		var rec CandidateRecord
		if err := rows.Scan(
			&rec.UserID,
			&rec.FirstName,
			&rec.LastName,
			&rec.Gender,
			&rec.BirthDate,
			&rec.HeightCM,
			&rec.Religion,
			&rec.LocationCity,
			&rec.LocationState,
			&rec.LocationCountry,
			&rec.LastLoginAt,
		); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}

	return items, nil
}
