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
	ErrConnectionNotFound   = errors.New("connection not found")
	ErrConnectionPairExists = errors.New("connection already exists for this pair")
)

type ConnectionRepo struct {
	pool *pgxpool.Pool
}

type ConnectionRecord struct {
	ID         int64
	SenderID   int64
	ReceiverID int64
	Status     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func NewConnectionRepo(pool *pgxpool.Pool) *ConnectionRepo {
	return &ConnectionRepo{pool: pool}
}

// Create inserts a connection after verifying no edge links the pair in either
// direction. Both steps run in one transaction holding an advisory lock on the
// unordered pair, so concurrent creation attempts for the same two users
// serialize instead of racing past the duplicate check.
func (r *ConnectionRepo) Create(ctx context.Context, senderID, receiverID int64, status string, now time.Time) (ConnectionRecord, error) {
	if senderID <= 0 || receiverID <= 0 || senderID == receiverID {
		return ConnectionRecord{}, fmt.Errorf("invalid connection payload")
	}
	if r.pool == nil {
		return ConnectionRecord{}, fmt.Errorf("postgres pool is nil")
	}

	var created ConnectionRecord
	err := WithTx(ctx, r.pool, func(txCtx context.Context, tx pgx.Tx) error {
		if _, err := tx.Exec(txCtx, `
SELECT pg_advisory_xact_lock(hashtextextended(LEAST($1::bigint, $2::bigint)::text || ':' || GREATEST($1::bigint, $2::bigint)::text, 0))
`, senderID, receiverID); err != nil {
			return fmt.Errorf("lock connection pair: %w", err)
		}

		var exists bool
		if err := tx.QueryRow(txCtx, `
SELECT EXISTS (
	SELECT 1
	FROM connections
	WHERE (sender_id = $1 AND receiver_id = $2)
		OR (sender_id = $2 AND receiver_id = $1)
)
`, senderID, receiverID).Scan(&exists); err != nil {
			return fmt.Errorf("check connection pair: %w", err)
		}
		if exists {
			return ErrConnectionPairExists
		}

		row := tx.QueryRow(txCtx, `
INSERT INTO connections (
	sender_id,
	receiver_id,
	status,
	created_at,
	updated_at
) VALUES ($1, $2, $3, $4, $4)
RETURNING `+connectionColumns, senderID, receiverID, status, now)

		var scanErr error
		created, scanErr = scanConnection(row)
		return scanErr
	})
	if err != nil {
		return ConnectionRecord{}, err
	}

	return created, nil
}

func (r *ConnectionRepo) GetByID(ctx context.Context, connectionID int64) (ConnectionRecord, error) {
	if connectionID <= 0 {
		return ConnectionRecord{}, fmt.Errorf("invalid connection id")
	}
	if r.pool == nil {
		return ConnectionRecord{}, ErrConnectionNotFound
	}

	return scanConnection(r.pool.QueryRow(ctx, `
SELECT `+connectionColumns+`
FROM connections
WHERE id = $1
LIMIT 1
`, connectionID))
}

// GetBetween returns the connection linking two users regardless of which one
// stored the edge as sender.
func (r *ConnectionRepo) GetBetween(ctx context.Context, a, b int64) (ConnectionRecord, error) {
	if a <= 0 || b <= 0 {
		return ConnectionRecord{}, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return ConnectionRecord{}, ErrConnectionNotFound
	}

	return scanConnection(r.pool.QueryRow(ctx, `
SELECT `+connectionColumns+`
FROM connections
WHERE (sender_id = $1 AND receiver_id = $2)
	OR (sender_id = $2 AND receiver_id = $1)
LIMIT 1
`, a, b))
}

func (r *ConnectionRepo) ListForUser(ctx context.Context, userID int64, status string) ([]ConnectionRecord, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []ConnectionRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+connectionColumns+`
FROM connections
WHERE (sender_id = $1 OR receiver_id = $1)
	AND ($2 = '' OR status = $2)
ORDER BY created_at DESC, id DESC
`, userID, status)
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	defer rows.Close()

	var items []ConnectionRecord
	for rows.Next() {
		rec, err := scanConnection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate connections: %w", err)
	}

	return items, nil
}

// ListBlockedPartnerIDs returns every counterparty sharing a blocked edge with
// the user, whichever side placed the block.
func (r *ConnectionRepo) ListBlockedPartnerIDs(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if r.pool == nil {
		return []int64{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT CASE WHEN sender_id = $1 THEN receiver_id ELSE sender_id END
FROM connections
WHERE (sender_id = $1 OR receiver_id = $1)
	AND status = 'blocked'
`, userID)
	if err != nil {
		return nil, fmt.Errorf("list blocked partners: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan blocked partner: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate blocked partners: %w", err)
	}

	return ids, nil
}

func (r *ConnectionRepo) UpdateStatus(ctx context.Context, connectionID int64, status string, now time.Time) (ConnectionRecord, error) {
	if connectionID <= 0 {
		return ConnectionRecord{}, fmt.Errorf("invalid connection id")
	}
	if r.pool == nil {
		return ConnectionRecord{}, ErrConnectionNotFound
	}

	return scanConnection(r.pool.QueryRow(ctx, `
UPDATE connections SET
	status = $2,
	updated_at = $3
WHERE id = $1
RETURNING `+connectionColumns, connectionID, status, now))
}

const connectionColumns = `id, sender_id, receiver_id, status, created_at, updated_at`

func scanConnection(row pgx.Row) (ConnectionRecord, error) {
	var rec ConnectionRecord
	err := row.Scan(
		&rec.ID,
		&rec.SenderID,
		&rec.ReceiverID,
		&rec.Status,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ConnectionRecord{}, ErrConnectionNotFound
		}
		return ConnectionRecord{}, fmt.Errorf("scan connection: %w", err)
	}

	return rec, nil
}
