package users

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kashodiya/milan/internal/domain/enums"
	pgrepo "github.com/kashodiya/milan/internal/repo/postgres"

	"golang.org/x/crypto/bcrypt"
)

type fakeStore struct {
	created    *pgrepo.UserRecord
	createErr  error
	getRecord  pgrepo.UserRecord
	getErr     error
	updateErr  error
	lastUpdate pgrepo.UserUpdate
}

func (f *fakeStore) Create(_ context.Context, email, passwordHash string, registeredAt time.Time) (pgrepo.UserRecord, error) {
	if f.createErr != nil {
		return pgrepo.UserRecord{}, f.createErr
	}
	rec := pgrepo.UserRecord{
		ID:              1,
		Email:           email,
		PasswordHash:    passwordHash,
		Status:          "active",
		ProfileComplete: false,
		RegisteredAt:    registeredAt,
	}
	f.created = &rec
	return rec, nil
}

func (f *fakeStore) GetByID(_ context.Context, _ int64) (pgrepo.UserRecord, error) {
	if f.getErr != nil {
		return pgrepo.UserRecord{}, f.getErr
	}
	return f.getRecord, nil
}

func (f *fakeStore) Update(_ context.Context, _ int64, update pgrepo.UserUpdate) (pgrepo.UserRecord, error) {
	if f.updateErr != nil {
		return pgrepo.UserRecord{}, f.updateErr
	}
	f.lastUpdate = update
	return f.getRecord, nil
}

func TestRegisterNormalizesEmailAndHashesPassword(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store)

	user, err := svc.Register(context.Background(), "  Priya@Example.COM ", "s3cret-password")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "priya@example.com" {
		t.Fatalf("email not normalized: got %q", user.Email)
	}
	if user.ProfileComplete {
		t.Fatalf("new account must start with an incomplete profile")
	}
	if store.created == nil {
		t.Fatalf("store was not called")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(store.created.PasswordHash), []byte("s3cret-password")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	svc := NewService(&fakeStore{})

	if _, err := svc.Register(context.Background(), "not-an-email", "s3cret-password"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for bad email, got %v", err)
	}
	if _, err := svc.Register(context.Background(), "priya@example.com", "short"); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for short password, got %v", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(&fakeStore{createErr: pgrepo.ErrEmailTaken})

	if _, err := svc.Register(context.Background(), "priya@example.com", "s3cret-password"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestGetUnknownUser(t *testing.T) {
	svc := NewService(&fakeStore{getErr: pgrepo.ErrUserNotFound})

	if _, err := svc.Get(context.Background(), 7); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	svc := NewService(&fakeStore{})

	bad := enums.AccountStatus("frozen")
	if _, err := svc.Update(context.Background(), 7, UpdateParams{Status: &bad}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestUpdateNormalizesEmail(t *testing.T) {
	store := &fakeStore{getRecord: pgrepo.UserRecord{ID: 7, Email: "new@example.com", Status: "active"}}
	svc := NewService(store)

	email := " New@Example.com "
	if _, err := svc.Update(context.Background(), 7, UpdateParams{Email: &email}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if store.lastUpdate.Email == nil || *store.lastUpdate.Email != "new@example.com" {
		t.Fatalf("email not normalized in update: %+v", store.lastUpdate.Email)
	}
}
