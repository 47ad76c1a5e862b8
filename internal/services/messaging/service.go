package messaging

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kashodiya/milan/internal/domain/model"
	pgrepo "github.com/kashodiya/milan/internal/repo/postgres"
)

const maxMessageLength = 4000

var (
	ErrValidation          = errors.New("validation error")
	ErrMessagingNotAllowed = errors.New("messaging not allowed")
	ErrMessageNotFound     = errors.New("message not found")
	ErrNotMessageReceiver  = errors.New("only the receiver may mark a message read")
)

type Store interface {
	Create(ctx context.Context, senderID, receiverID int64, text string, sentAt time.Time) (pgrepo.MessageRecord, error)
	GetByID(ctx context.Context, messageID int64) (pgrepo.MessageRecord, error)
	ListBetween(ctx context.Context, a, b int64, offset, limit int) ([]pgrepo.MessageRecord, error)
	MarkRead(ctx context.Context, messageID int64, at time.Time) error
}

// Entitlements reports whether a user holds an active paid membership.
type Entitlements interface {
	IsPremiumActive(ctx context.Context, userID int64, at time.Time) (bool, error)
}

// Ledger answers whether two users share an accepted connection.
type Ledger interface {
	HasAcceptedConnection(ctx context.Context, a, b int64) (bool, error)
}

type Service struct {
	store        Store
	entitlements Entitlements
	ledger       Ledger
	now          func() time.Time
}

func NewService(store Store, entitlements Entitlements, ledger Ledger) *Service {
	return &Service{
		store:        store,
		entitlements: entitlements,
		ledger:       ledger,
		now:          time.Now,
	}
}

// CanMessage decides whether sender may message receiver at this instant.
// An active paid membership on the sender's side alone opens every inbox;
// otherwise only an accepted connection does. Nothing about the receiver's
// membership is consulted.
func (s *Service) CanMessage(ctx context.Context, senderID, receiverID int64) (bool, error) {
	if senderID <= 0 || receiverID <= 0 || senderID == receiverID {
		return false, ErrValidation
	}
	if s.entitlements == nil || s.ledger == nil {
		return false, fmt.Errorf("messaging dependencies are not configured")
	}

	premium, err := s.entitlements.IsPremiumActive(ctx, senderID, s.now().UTC())
	if err != nil {
		return false, err
	}
	if premium {
		return true, nil
	}

	return s.ledger.HasAcceptedConnection(ctx, senderID, receiverID)
}

// SendMessage persists a message after the authorization check passes.
func (s *Service) SendMessage(ctx context.Context, senderID, receiverID int64, text string) (model.Message, error) {
	text = strings.TrimSpace(text)
	if text == "" || len(text) > maxMessageLength {
		return model.Message{}, ErrValidation
	}
	if s.store == nil {
		return model.Message{}, fmt.Errorf("message store is nil")
	}

	allowed, err := s.CanMessage(ctx, senderID, receiverID)
	if err != nil {
		return model.Message{}, err
	}
	if !allowed {
		return model.Message{}, ErrMessagingNotAllowed
	}

	rec, err := s.store.Create(ctx, senderID, receiverID, text, s.now().UTC())
	if err != nil {
		return model.Message{}, err
	}

	return mapMessage(rec), nil
}

// ListConversation returns the messages exchanged between two users,
// newest first.
func (s *Service) ListConversation(ctx context.Context, userID, partnerID int64, offset, limit int) ([]model.Message, error) {
	if userID <= 0 || partnerID <= 0 || offset < 0 || limit <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("message store is nil")
	}

	recs, err := s.store.ListBetween(ctx, userID, partnerID, offset, limit)
	if err != nil {
		return nil, err
	}

	out := make([]model.Message, 0, len(recs))
	for _, rec := range recs {
		out = append(out, mapMessage(rec))
	}
	return out, nil
}

// MarkRead records that the receiver has seen a message. The ownership
// check runs before any write, so a sender probing someone else's message
// learns only that they are not its receiver.
func (s *Service) MarkRead(ctx context.Context, messageID, actorID int64) error {
	if messageID <= 0 || actorID <= 0 {
		return ErrValidation
	}
	if s.store == nil {
		return fmt.Errorf("message store is nil")
	}

	rec, err := s.store.GetByID(ctx, messageID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return err
	}
	if rec.ReceiverID != actorID {
		return ErrNotMessageReceiver
	}
	if rec.ReadAt != nil {
		return nil
	}

	return s.store.MarkRead(ctx, messageID, s.now().UTC())
}

func mapMessage(rec pgrepo.MessageRecord) model.Message {
	return model.Message{
		ID:         rec.ID,
		SenderID:   rec.SenderID,
		ReceiverID: rec.ReceiverID,
		Text:       rec.Text,
		SentAt:     rec.SentAt,
		ReadAt:     rec.ReadAt,
	}
}
