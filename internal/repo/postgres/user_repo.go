package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrEmailTaken   = errors.New("email already registered")
)

type UserRepo struct {
	pool *pgxpool.Pool
}

type UserRecord struct {
	ID              int64
	Email           string
	PasswordHash    string
	Status          string
	ProfileComplete bool
	RegisteredAt    time.Time
	LastLoginAt     *time.Time
}

type UserUpdate struct {
	Email  *string
	Status *string
}

func NewUserRepo(pool *pgxpool.Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func (r *UserRepo) Create(ctx context.Context, email, passwordHash string, registeredAt time.Time) (UserRecord, error) {
	if strings.TrimSpace(email) == "" || passwordHash == "" {
		return UserRecord{}, fmt.Errorf("invalid user payload")
	}
	if r.pool == nil {
		return UserRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var rec UserRecord
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (
	email,
	password_hash,
	account_status,
	profile_complete,
	registered_at
) VALUES ($1, $2, 'active', FALSE, $3)
RETURNING id, email, password_hash, account_status, profile_complete, registered_at, last_login_at
`, strings.ToLower(strings.TrimSpace(email)), passwordHash, registeredAt).Scan(
		&rec.ID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.Status,
		&rec.ProfileComplete,
		&rec.RegisteredAt,
		&rec.LastLoginAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return UserRecord{}, ErrEmailTaken
		}
		return UserRecord{}, fmt.Errorf("create user: %w", err)
	}

	return rec, nil
}

func (r *UserRepo) GetByID(ctx context.Context, userID int64) (UserRecord, error) {
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return UserRecord{}, ErrUserNotFound
	}

	return r.scanOne(r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, account_status, profile_complete, registered_at, last_login_at
FROM users
WHERE id = $1
LIMIT 1
`, userID))
}

func (r *UserRepo) GetByEmail(ctx context.Context, email string) (UserRecord, error) {
	if strings.TrimSpace(email) == "" {
		return UserRecord{}, fmt.Errorf("invalid email")
	}
	if r.pool == nil {
		return UserRecord{}, ErrUserNotFound
	}

	return r.scanOne(r.pool.QueryRow(ctx, `
SELECT id, email, password_hash, account_status, profile_complete, registered_at, last_login_at
FROM users
WHERE email = $1
LIMIT 1
`, strings.ToLower(strings.TrimSpace(email))))
}

func (r *UserRepo) Update(ctx context.Context, userID int64, update UserUpdate) (UserRecord, error) {
	if userID <= 0 {
		return UserRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return UserRecord{}, ErrUserNotFound
	}

	rec, err := r.scanOne(r.pool.QueryRow(ctx, `
UPDATE users SET
	email = COALESCE($2, email),
	account_status = COALESCE($3, account_status)
WHERE id = $1
RETURNING id, email, password_hash, account_status, profile_complete, registered_at, last_login_at
`, userID, update.Email, update.Status))
	if err != nil {
		if isUniqueViolation(err) {
			return UserRecord{}, ErrEmailTaken
		}
		return UserRecord{}, err
	}

	return rec, nil
}

func (r *UserRepo) SetLastLogin(ctx context.Context, userID int64, at time.Time) error {
	if userID <= 0 {
		return fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return nil
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE users SET last_login_at = $2 WHERE id = $1
`, userID, at); err != nil {
		return fmt.Errorf("set last login: %w", err)
	}

	return nil
}

func (r *UserRepo) scanOne(row pgx.Row) (UserRecord, error) {
	var rec UserRecord
	err := row.Scan(
		&rec.ID,
		&rec.Email,
		&rec.PasswordHash,
		&rec.Status,
		&rec.ProfileComplete,
		&rec.RegisteredAt,
		&rec.LastLoginAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return UserRecord{}, ErrUserNotFound
		}
		return UserRecord{}, fmt.Errorf("scan user: %w", err)
	}

	return rec, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
