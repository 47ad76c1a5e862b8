package users

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/kashodiya/milan/internal/domain/enums"
	"github.com/kashodiya/milan/internal/domain/model"
	pgrepo "github.com/kashodiya/milan/internal/repo/postgres"
	authsvc "github.com/kashodiya/milan/internal/services/auth"
)

const minPasswordLength = 8

var (
	ErrValidation   = errors.New("validation error")
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

type Store interface {
	Create(ctx context.Context, email, passwordHash string, registeredAt time.Time) (pgrepo.UserRecord, error)
	GetByID(ctx context.Context, userID int64) (pgrepo.UserRecord, error)
	Update(ctx context.Context, userID int64, update pgrepo.UserUpdate) (pgrepo.UserRecord, error)
}

type UpdateParams struct {
	Email  *string
	Status *enums.AccountStatus
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

// Register creates an account in active status with an incomplete profile.
// Discovery will not surface the account until profile setup completes it.
func (s *Service) Register(ctx context.Context, email, password string) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return model.User{}, ErrValidation
	}
	if len(password) < minPasswordLength {
		return model.User{}, ErrValidation
	}
	if s.store == nil {
		return model.User{}, fmt.Errorf("user store is nil")
	}

	hash, err := authsvc.HashPassword(password)
	if err != nil {
		return model.User{}, err
	}

	rec, err := s.store.Create(ctx, email, hash, s.now().UTC())
	if err != nil {
		if errors.Is(err, pgrepo.ErrEmailTaken) {
			return model.User{}, ErrEmailTaken
		}
		return model.User{}, err
	}

	return mapUser(rec), nil
}

func (s *Service) Get(ctx context.Context, userID int64) (model.User, error) {
	if userID <= 0 {
		return model.User{}, ErrValidation
	}
	if s.store == nil {
		return model.User{}, fmt.Errorf("user store is nil")
	}

	rec, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return model.User{}, ErrUserNotFound
		}
		return model.User{}, err
	}

	return mapUser(rec), nil
}

func (s *Service) Update(ctx context.Context, userID int64, params UpdateParams) (model.User, error) {
	if userID <= 0 {
		return model.User{}, ErrValidation
	}
	if s.store == nil {
		return model.User{}, fmt.Errorf("user store is nil")
	}

	update := pgrepo.UserUpdate{}
	if params.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*params.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return model.User{}, ErrValidation
		}
		update.Email = &email
	}
	if params.Status != nil {
		if !params.Status.Valid() {
			return model.User{}, ErrValidation
		}
		status := string(*params.Status)
		update.Status = &status
	}

	rec, err := s.store.Update(ctx, userID, update)
	if err != nil {
		switch {
		case errors.Is(err, pgrepo.ErrUserNotFound):
			return model.User{}, ErrUserNotFound
		case errors.Is(err, pgrepo.ErrEmailTaken):
			return model.User{}, ErrEmailTaken
		default:
			return model.User{}, err
		}
	}

	return mapUser(rec), nil
}

func mapUser(rec pgrepo.UserRecord) model.User {
	return model.User{
		ID:              rec.ID,
		Email:           rec.Email,
		Status:          enums.AccountStatus(rec.Status),
		ProfileComplete: rec.ProfileComplete,
		RegisteredAt:    rec.RegisteredAt,
		LastLoginAt:     rec.LastLoginAt,
	}
}
