package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrMessageNotFound = errors.New("message not found")

type MessageRepo struct {
	pool *pgxpool.Pool
}

type MessageRecord struct {
	ID         int64
	SenderID   int64
	ReceiverID int64
	Text       string
	SentAt     time.Time
	ReadAt     *time.Time
}

func NewMessageRepo(pool *pgxpool.Pool) *MessageRepo {
	return &MessageRepo{pool: pool}
}

func (r *MessageRepo) Create(ctx context.Context, senderID, receiverID int64, text string, sentAt time.Time) (MessageRecord, error) {
	if senderID <= 0 || receiverID <= 0 {
		return MessageRecord{}, fmt.Errorf("invalid message payload")
	}
	if r.pool == nil {
		return MessageRecord{}, fmt.Errorf("postgres pool is nil")
	}

	return scanMessage(r.pool.QueryRow(ctx, `
INSERT INTO messages (
	sender_id,
	receiver_id,
	message_text,
	sent_at
) VALUES ($1, $2, $3, $4)
RETURNING `+messageColumns, senderID, receiverID, text, sentAt))
}

func (r *MessageRepo) GetByID(ctx context.Context, messageID int64) (MessageRecord, error) {
	if messageID <= 0 {
		return MessageRecord{}, fmt.Errorf("invalid message id")
	}
	if r.pool == nil {
		return MessageRecord{}, ErrMessageNotFound
	}

	return scanMessage(r.pool.QueryRow(ctx, `
SELECT `+messageColumns+`
FROM messages
WHERE id = $1
LIMIT 1
`, messageID))
}

// ListBetween returns the conversation between two users in either direction,
// newest first.
func (r *MessageRepo) ListBetween(ctx context.Context, a, b int64, offset, limit int) ([]MessageRecord, error) {
	if a <= 0 || b <= 0 {
		return nil, fmt.Errorf("invalid user id")
	}
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	if r.pool == nil {
		return []MessageRecord{}, nil
	}

	rows, err := r.pool.Query(ctx, `
SELECT `+messageColumns+`
FROM messages
WHERE (sender_id = $1 AND receiver_id = $2)
	OR (sender_id = $2 AND receiver_id = $1)
ORDER BY sent_at DESC, id DESC
OFFSET $3
LIMIT $4
`, a, b, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	var items []MessageRecord
	for rows.Next() {
		rec, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	return items, nil
}

// MarkRead stamps the read time once; later calls keep the first stamp.
func (r *MessageRepo) MarkRead(ctx context.Context, messageID int64, at time.Time) error {
	if messageID <= 0 {
		return fmt.Errorf("invalid message id")
	}
	if r.pool == nil {
		return ErrMessageNotFound
	}

	if _, err := r.pool.Exec(ctx, `
UPDATE messages SET read_at = $2
WHERE id = $1 AND read_at IS NULL
`, messageID, at); err != nil {
		return fmt.Errorf("mark message read: %w", err)
	}

	return nil
}

const messageColumns = `id, sender_id, receiver_id, message_text, sent_at, read_at`

func scanMessage(row pgx.Row) (MessageRecord, error) {
	var rec MessageRecord
	err := row.Scan(
		&rec.ID,
		&rec.SenderID,
		&rec.ReceiverID,
		&rec.Text,
		&rec.SentAt,
		&rec.ReadAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return MessageRecord{}, ErrMessageNotFound
		}
		return MessageRecord{}, fmt.Errorf("scan message: %w", err)
	}

	return rec, nil
}
