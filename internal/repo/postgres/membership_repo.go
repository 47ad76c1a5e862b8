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
	ErrMembershipNotFound = errors.New("membership not found")
	ErrMembershipExists   = errors.New("membership already exists")
)

type MembershipRepo struct {
	pool *pgxpool.Pool
}

type MembershipRecord struct {
	UserID        int64
	Tier          string
	StartAt       time.Time
	EndAt         time.Time
	PaymentStatus string
}

// MembershipSnapshot is the read messaging authorization consumes.
type MembershipSnapshot struct {
	Tier  string
	EndAt time.Time
}

func NewMembershipRepo(pool *pgxpool.Pool) *MembershipRepo {
	return &MembershipRepo{pool: pool}
}

func (r *MembershipRepo) Create(ctx context.Context, rec MembershipRecord) (MembershipRecord, error) {
	if rec.UserID <= 0 {
		return MembershipRecord{}, fmt.Errorf("invalid membership payload")
	}
	if r.pool == nil {
		return MembershipRecord{}, fmt.Errorf("postgres pool is nil")
	}

	created, err := scanMembership(r.pool.QueryRow(ctx, `
INSERT INTO memberships (
	user_id,
	tier,
	start_at,
	end_at,
	payment_status
) VALUES ($1, $2, $3, $4, $5)
RETURNING `+membershipColumns, rec.UserID, rec.Tier, rec.StartAt, rec.EndAt, rec.PaymentStatus))
	if err != nil {
		if isUniqueViolation(err) {
			return MembershipRecord{}, ErrMembershipExists
		}
		return MembershipRecord{}, err
	}

	return created, nil
}

func (r *MembershipRepo) GetByUserID(ctx context.Context, userID int64) (MembershipRecord, error) {
	if userID <= 0 {
		return MembershipRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return MembershipRecord{}, ErrMembershipNotFound
	}

	return scanMembership(r.pool.QueryRow(ctx, `
SELECT `+membershipColumns+`
FROM memberships
WHERE user_id = $1
LIMIT 1
`, userID))
}

func (r *MembershipRepo) Update(ctx context.Context, rec MembershipRecord) (MembershipRecord, error) {
	if rec.UserID <= 0 {
		return MembershipRecord{}, fmt.Errorf("invalid membership payload")
	}
	if r.pool == nil {
		return MembershipRecord{}, ErrMembershipNotFound
	}

	return scanMembership(r.pool.QueryRow(ctx, `
UPDATE memberships SET
	tier = $2,
	end_at = $3,
	payment_status = $4
WHERE user_id = $1
RETURNING `+membershipColumns, rec.UserID, rec.Tier, rec.EndAt, rec.PaymentStatus))
}

func (r *MembershipRepo) GetSnapshot(ctx context.Context, userID int64) (MembershipSnapshot, error) {
	if userID <= 0 {
		return MembershipSnapshot{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return MembershipSnapshot{}, ErrMembershipNotFound
	}

	var snap MembershipSnapshot
	err := r.pool.QueryRow(ctx, `
SELECT tier, end_at
FROM memberships
WHERE user_id = $1
LIMIT 1
`, userID).Scan(&snap.Tier, &snap.EndAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MembershipSnapshot{}, ErrMembershipNotFound
		}
		return MembershipSnapshot{}, fmt.Errorf("get membership snapshot: %w", err)
	}

	return snap, nil
}

// DowngradeExpired flips paid memberships whose end date passed before the
// cutoff back to free. Messaging ignores expired tiers either way, so this is
// housekeeping, not an authorization change.
func (r *MembershipRepo) DowngradeExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	if r.pool == nil {
		return 0, nil
	}

	tag, err := r.pool.Exec(ctx, `
UPDATE memberships SET tier = 'free'
WHERE tier <> 'free' AND end_at < $1
`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("downgrade expired memberships: %w", err)
	}

	return tag.RowsAffected(), nil
}

const membershipColumns = `user_id, tier, start_at, end_at, payment_status`

func scanMembership(row pgx.Row) (MembershipRecord, error) {
	var rec MembershipRecord
	err := row.Scan(
		&rec.UserID,
		&rec.Tier,
		&rec.StartAt,
		&rec.EndAt,
		&rec.PaymentStatus,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MembershipRecord{}, ErrMembershipNotFound
		}
		return MembershipRecord{}, fmt.Errorf("scan membership: %w", err)
	}

	return rec, nil
}
