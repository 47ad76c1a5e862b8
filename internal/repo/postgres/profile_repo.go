package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrProfileNotFound = errors.New("profile not found")
	ErrProfileExists   = errors.New("profile already exists")
)

type ProfileRepo struct {
	pool *pgxpool.Pool
}

type ProfileRecord struct {
	UserID          int64
	FirstName       string
	LastName        string
	Gender          string
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
	UpdatedAt       time.Time
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

// Create inserts the profile and flips the owning account's profile_complete
// flag in the same transaction, mirroring what profile setup means for the
// account lifecycle.
func (r *ProfileRepo) Create(ctx context.Context, rec ProfileRecord) (ProfileRecord, error) {
	if rec.UserID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid profile payload")
	}
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var created ProfileRecord
	err := WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		row := tx.QueryRow(txCtx, `
INSERT INTO profiles (
	user_id,
	first_name,
	last_name,
	gender,
	birth_date,
	height_cm,
	religion,
	mother_tongue,
	marital_status,
	about_me,
	occupation,
	education,
	location_city,
	location_state,
	location_country,
	updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, NOW())
RETURNING `+profileColumns, rec.UserID,
			rec.FirstName,
			rec.LastName,
			rec.Gender,
			rec.BirthDate,
			rec.HeightCM,
			rec.Religion,
			rec.MotherTongue,
			rec.MaritalStatus,
			rec.AboutMe,
			rec.Occupation,
			rec.Education,
			rec.LocationCity,
			rec.LocationState,
			rec.LocationCountry,
		)

		var scanErr error
		created, scanErr = scanProfile(row)
		if scanErr != nil {
			if isUniqueViolation(scanErr) {
				return ErrProfileExists
			}
			return scanErr
		}

		if _, err := tx.Exec(txCtx, `
UPDATE users SET profile_complete = TRUE WHERE id = $1
`, rec.UserID); err != nil {
			return fmt.Errorf("mark profile complete: %w", err)
		}

		return nil
	})
	if err != nil {
		return ProfileRecord{}, err
	}

	return created, nil
}

func (r *ProfileRepo) GetByUserID(ctx context.Context, userID int64) (ProfileRecord, error) {
	if userID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ProfileRecord{}, ErrProfileNotFound
	}

	return scanProfile(r.pool.QueryRow(ctx, `
SELECT `+profileColumns+`
FROM profiles
WHERE user_id = $1
LIMIT 1
`, userID))
}

func (r *ProfileRepo) Update(ctx context.Context, rec ProfileRecord) (ProfileRecord, error) {
	if rec.UserID <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid profile payload")
	}
	if r.pool == nil {
		return ProfileRecord{}, ErrProfileNotFound
	}

	return scanProfile(r.pool.QueryRow(ctx, `
UPDATE profiles SET
	first_name = $2,
	last_name = $3,
	gender = $4,
	birth_date = $5,
	height_cm = $6,
	religion = $7,
	mother_tongue = $8,
	marital_status = $9,
	about_me = $10,
	occupation = $11,
	education = $12,
	location_city = $13,
	location_state = $14,
	location_country = $15,
	updated_at = NOW()
WHERE user_id = $1
RETURNING `+profileColumns, rec.UserID,
		rec.FirstName,
		rec.LastName,
		rec.Gender,
		rec.BirthDate,
		rec.HeightCM,
		rec.Religion,
		rec.MotherTongue,
		rec.MaritalStatus,
		rec.AboutMe,
		rec.Occupation,
		rec.Education,
		rec.LocationCity,
		rec.LocationState,
		rec.LocationCountry,
	))
}

const profileColumns = `user_id, first_name, last_name, gender, birth_date, height_cm, religion,
	mother_tongue, marital_status, about_me, occupation, education,
	location_city, location_state, location_country, updated_at`

func scanProfile(row pgx.Row) (ProfileRecord, error) {
	var rec ProfileRecord
	err := row.Scan(
		&rec.UserID,
		&rec.FirstName,
		&rec.LastName,
		&rec.Gender,
		&rec.BirthDate,
		&rec.HeightCM,
		&rec.Religion,
		&rec.MotherTongue,
		&rec.MaritalStatus,
		&rec.AboutMe,
		&rec.Occupation,
		&rec.Education,
		&rec.LocationCity,
		&rec.LocationState,
		&rec.LocationCountry,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("scan profile: %w", err)
	}

	return rec, nil
}
