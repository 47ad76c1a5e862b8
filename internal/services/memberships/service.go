package memberships

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
	ErrMembershipNotFound = errors.New("membership not found")
	ErrMembershipExists   = errors.New("membership already exists")
)

type Store interface {
	Create(ctx context.Context, rec pgrepo.MembershipRecord) (pgrepo.MembershipRecord, error)
	GetByUserID(ctx context.Context, userID int64) (pgrepo.MembershipRecord, error)
	Update(ctx context.Context, rec pgrepo.MembershipRecord) (pgrepo.MembershipRecord, error)
	GetSnapshot(ctx context.Context, userID int64) (pgrepo.MembershipSnapshot, error)
}

type Input struct {
	Tier          enums.MembershipTier
	StartAt       time.Time
	EndAt         time.Time
	PaymentStatus string
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

func (s *Service) Create(ctx context.Context, userID int64, input Input) (model.Membership, error) {
	if err := validateInput(userID, input); err != nil {
		return model.Membership{}, err
	}
	if s.store == nil {
		return model.Membership{}, fmt.Errorf("membership store is nil")
	}

	rec, err := s.store.Create(ctx, record(userID, input))
	if err != nil {
		if errors.Is(err, pgrepo.ErrMembershipExists) {
			return model.Membership{}, ErrMembershipExists
		}
		return model.Membership{}, err
	}

	return mapMembership(rec), nil
}

func (s *Service) Get(ctx context.Context, userID int64) (model.Membership, error) {
	if userID <= 0 {
		return model.Membership{}, ErrValidation
	}
	if s.store == nil {
		return model.Membership{}, fmt.Errorf("membership store is nil")
	}

	rec, err := s.store.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMembershipNotFound) {
			return model.Membership{}, ErrMembershipNotFound
		}
		return model.Membership{}, err
	}

	return mapMembership(rec), nil
}

func (s *Service) Update(ctx context.Context, userID int64, input Input) (model.Membership, error) {
	if err := validateInput(userID, input); err != nil {
		return model.Membership{}, err
	}
	if s.store == nil {
		return model.Membership{}, fmt.Errorf("membership store is nil")
	}

	rec, err := s.store.Update(ctx, record(userID, input))
	if err != nil {
		if errors.Is(err, pgrepo.ErrMembershipNotFound) {
			return model.Membership{}, ErrMembershipNotFound
		}
		return model.Membership{}, err
	}

	return mapMembership(rec), nil
}

// IsPremiumActive reports whether userID holds a paid tier whose window is
// still open at the given instant. A missing membership row means free.
func (s *Service) IsPremiumActive(ctx context.Context, userID int64, at time.Time) (bool, error) {
	if userID <= 0 {
		return false, ErrValidation
	}
	if s.store == nil {
		return false, fmt.Errorf("membership store is nil")
	}

	snap, err := s.store.GetSnapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrMembershipNotFound) {
			return false, nil
		}
		return false, err
	}

	return enums.MembershipTier(snap.Tier).Paid() && snap.EndAt.After(at), nil
}

func validateInput(userID int64, input Input) error {
	if userID <= 0 {
		return ErrValidation
	}
	if !input.Tier.Valid() {
		return ErrValidation
	}
	if input.StartAt.IsZero() || input.EndAt.IsZero() || !input.EndAt.After(input.StartAt) {
		return ErrValidation
	}
	return nil
}

func record(userID int64, input Input) pgrepo.MembershipRecord {
	return pgrepo.MembershipRecord{
		UserID:        userID,
		Tier:          string(input.Tier),
		StartAt:       input.StartAt,
		EndAt:         input.EndAt,
		PaymentStatus: input.PaymentStatus,
	}
}

func mapMembership(rec pgrepo.MembershipRecord) model.Membership {
	return model.Membership{
		UserID:        rec.UserID,
		Tier:          enums.MembershipTier(rec.Tier),
		StartAt:       rec.StartAt,
		EndAt:         rec.EndAt,
		PaymentStatus: rec.PaymentStatus,
	}
}
