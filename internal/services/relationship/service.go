package relationship

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/kashodiya/milan/internal/domain/enums"
	"github.com/kashodiya/milan/internal/domain/model"
	pgrepo "github.com/kashodiya/milan/internal/repo/postgres"
)

var (
	ErrValidation         = errors.New("validation error")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrConnectionExists   = errors.New("connection already exists for this pair")
	ErrNotReceiver        = errors.New("only the receiver may update a connection")
)

type Store interface {
	Create(ctx context.Context, senderID, receiverID int64, status string, now time.Time) (pgrepo.ConnectionRecord, error)
	GetByID(ctx context.Context, connectionID int64) (pgrepo.ConnectionRecord, error)
	GetBetween(ctx context.Context, a, b int64) (pgrepo.ConnectionRecord, error)
	ListForUser(ctx context.Context, userID int64, status string) ([]pgrepo.ConnectionRecord, error)
	ListBlockedPartnerIDs(ctx context.Context, userID int64) ([]int64, error)
	UpdateStatus(ctx context.Context, connectionID int64, status string, now time.Time) (pgrepo.ConnectionRecord, error)
}

type Service struct {
	store Store
	now   func() time.Time
}

func NewService(store Store) *Service {
	return &Service{
		store: store,
		now:   time.Now,
	}
}

// Create records a new directed connection. The unordered pair may hold at
// most one connection in any status, in either direction.
func (s *Service) Create(ctx context.Context, senderID, receiverID int64, status enums.ConnectionStatus) (model.Connection, error) {
	if senderID <= 0 || receiverID <= 0 || senderID == receiverID {
		return model.Connection{}, ErrValidation
	}
	if !status.ValidInitial() {
		return model.Connection{}, ErrValidation
	}
	if s.store == nil {
		return model.Connection{}, fmt.Errorf("connection store is nil")
	}

	rec, err := s.store.Create(ctx, senderID, receiverID, string(status), s.now().UTC())
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionPairExists) {
			return model.Connection{}, ErrConnectionExists
		}
		return model.Connection{}, err
	}

	return mapConnection(rec), nil
}

func (s *Service) Get(ctx context.Context, connectionID int64) (model.Connection, error) {
	if connectionID <= 0 {
		return model.Connection{}, ErrValidation
	}
	if s.store == nil {
		return model.Connection{}, fmt.Errorf("connection store is nil")
	}

	rec, err := s.store.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return model.Connection{}, ErrConnectionNotFound
		}
		return model.Connection{}, err
	}

	return mapConnection(rec), nil
}

// ListForUser returns connections where userID is sender or receiver,
// optionally narrowed to one status.
func (s *Service) ListForUser(ctx context.Context, userID int64, status enums.ConnectionStatus) ([]model.Connection, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if status != "" && !status.Valid() {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("connection store is nil")
	}

	recs, err := s.store.ListForUser(ctx, userID, string(status))
	if err != nil {
		return nil, err
	}

	out := make([]model.Connection, 0, len(recs))
	for _, rec := range recs {
		out = append(out, mapConnection(rec))
	}
	return out, nil
}

// UpdateStatus moves a connection to a new status. Only the receiver of
// the original request may respond; the sender cannot accept on their own
// behalf. Any valid status is accepted regardless of the current one.
func (s *Service) UpdateStatus(ctx context.Context, connectionID, actorID int64, status enums.ConnectionStatus) (model.Connection, error) {
	if connectionID <= 0 || actorID <= 0 {
		return model.Connection{}, ErrValidation
	}
	if !status.Valid() {
		return model.Connection{}, ErrValidation
	}
	if s.store == nil {
		return model.Connection{}, fmt.Errorf("connection store is nil")
	}

	current, err := s.store.GetByID(ctx, connectionID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return model.Connection{}, ErrConnectionNotFound
		}
		return model.Connection{}, err
	}
	if current.ReceiverID != actorID {
		return model.Connection{}, ErrNotReceiver
	}

	rec, err := s.store.UpdateStatus(ctx, connectionID, string(status), s.now().UTC())
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return model.Connection{}, ErrConnectionNotFound
		}
		return model.Connection{}, err
	}

	return mapConnection(rec), nil
}

// Between returns the connection joining two users in either direction, or
// ErrConnectionNotFound when none exists.
func (s *Service) Between(ctx context.Context, a, b int64) (model.Connection, error) {
	if a <= 0 || b <= 0 || a == b {
		return model.Connection{}, ErrValidation
	}
	if s.store == nil {
		return model.Connection{}, fmt.Errorf("connection store is nil")
	}

	rec, err := s.store.GetBetween(ctx, a, b)
	if err != nil {
		if errors.Is(err, pgrepo.ErrConnectionNotFound) {
			return model.Connection{}, ErrConnectionNotFound
		}
		return model.Connection{}, err
	}

	return mapConnection(rec), nil
}

// BlockedPartners returns the IDs of everyone joined to userID by a blocked
// connection, whichever side initiated the block. Discovery removes these
// from both users' result sets.
func (s *Service) BlockedPartners(ctx context.Context, userID int64) ([]int64, error) {
	if userID <= 0 {
		return nil, ErrValidation
	}
	if s.store == nil {
		return nil, fmt.Errorf("connection store is nil")
	}
	return s.store.ListBlockedPartnerIDs(ctx, userID)
}

// HasAcceptedConnection reports whether the two users share an accepted
// connection in either direction.
func (s *Service) HasAcceptedConnection(ctx context.Context, a, b int64) (bool, error) {
	conn, err := s.Between(ctx, a, b)
	if err != nil {
		if errors.Is(err, ErrConnectionNotFound) {
			return false, nil
		}
		return false, err
	}
	return conn.Status == enums.ConnectionAccepted, nil
}

func mapConnection(rec pgrepo.ConnectionRecord) model.Connection {
	return model.Connection{
		ID:         rec.ID,
		SenderID:   rec.SenderID,
		ReceiverID: rec.ReceiverID,
		Status:     enums.ConnectionStatus(rec.Status),
		CreatedAt:  rec.CreatedAt,
		UpdatedAt:  rec.UpdatedAt,
	}
}
