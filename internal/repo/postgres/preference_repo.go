package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrPreferenceNotFound = errors.New("match preference not found")
	ErrPreferenceExists   = errors.New("match preference already exists")
)

type PreferenceRepo struct {
	pool *pgxpool.Pool
}

type PreferenceRecord struct {
	UserID                 int64
	MinAge                 *int
	MaxAge                 *int
	HeightMin              *float64
	HeightMax              *float64
	Religion               *string
	LocationPreferenceText *string
	LocationScope          string
}

func NewPreferenceRepo(pool *pgxpool.Pool) *PreferenceRepo {
	return &PreferenceRepo{pool: pool}
}

func (r *PreferenceRepo) Create(ctx context.Context, rec PreferenceRecord) (PreferenceRecord, error) {
	if rec.UserID <= 0 {
		return PreferenceRecord{}, fmt.Errorf("invalid preference payload")
	}
	if r.pool == nil {
		return PreferenceRecord{}, fmt.Errorf("postgres pool is nil")
	}

	created, err := scanPreference(r.pool.QueryRow(ctx, `
INSERT INTO match_preferences (
	user_id,
	min_age,
	max_age,
	height_min,
	height_max,
	religion,
	location_preference_text,
	location_scope
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING `+preferenceColumns, rec.UserID,
		rec.MinAge,
		rec.MaxAge,
		rec.HeightMin,
		rec.HeightMax,
		rec.Religion,
		rec.LocationPreferenceText,
		rec.LocationScope,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return PreferenceRecord{}, ErrPreferenceExists
		}
		return PreferenceRecord{}, err
	}

	return created, nil
}

func (r *PreferenceRepo) GetByUserID(ctx context.Context, userID int64) (PreferenceRecord, error) {
	if userID <= 0 {
		return PreferenceRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return PreferenceRecord{}, ErrPreferenceNotFound
	}

	return scanPreference(r.pool.QueryRow(ctx, `
SELECT `+preferenceColumns+`
FROM match_preferences
WHERE user_id = $1
LIMIT 1
`, userID))
}

func (r *PreferenceRepo) Update(ctx context.Context, rec PreferenceRecord) (PreferenceRecord, error) {
	if rec.UserID <= 0 {
		return PreferenceRecord{}, fmt.Errorf("invalid preference payload")
	}
	if r.pool == nil {
		return PreferenceRecord{}, ErrPreferenceNotFound
	}

	return scanPreference(r.pool.QueryRow(ctx, `
UPDATE match_preferences SET
	min_age = $2,
	max_age = $3,
	height_min = $4,
	height_max = $5,
	religion = $6,
	location_preference_text = $7,
	location_scope = $8
WHERE user_id = $1
RETURNING `+preferenceColumns, rec.UserID,
		rec.MinAge,
		rec.MaxAge,
		rec.HeightMin,
		rec.HeightMax,
		rec.Religion,
		rec.LocationPreferenceText,
		rec.LocationScope,
	))
}

const preferenceColumns = `user_id, min_age, max_age, height_min, height_max, religion,
	location_preference_text, location_scope`

func scanPreference(row pgx.Row) (PreferenceRecord, error) {
	var rec PreferenceRecord
	err := row.Scan(
		&rec.UserID,
		&rec.MinAge,
		&rec.MaxAge,
		&rec.HeightMin,
		&rec.HeightMax,
		&rec.Religion,
		&rec.LocationPreferenceText,
		&rec.LocationScope,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return PreferenceRecord{}, ErrPreferenceNotFound
		}
		return PreferenceRecord{}, fmt.Errorf("scan match preference: %w", err)
	}

	return rec, nil
}
