package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	pgrepo "github.com/kashodiya/milan/internal/repo/postgres"
)

type SessionStore interface {
	Create(ctx context.Context, session SessionRecord) error
	Get(ctx context.Context, sid string) (SessionRecord, error)
	Delete(ctx context.Context, sid string) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}

type UserStore interface {
	GetByEmail(ctx context.Context, email string) (pgrepo.UserRecord, error)
	SetLastLogin(ctx context.Context, userID int64, at time.Time) error
}

type Service struct {
	jwt      *JWTManager
	sessions SessionStore
	users    UserStore
	now      func() time.Time
}

func NewService(jwtManager *JWTManager, sessions SessionStore, users UserStore) *Service {
	return &Service{
		jwt:      jwtManager,
		sessions: sessions,
		users:    users,
		now:      time.Now,
	}
}

// Login verifies credentials, opens a session and records the login time.
// The login timestamp feeds discovery ranking, so it is written on every
// successful login, not best-effort.
func (s *Service) Login(ctx context.Context, email, password string) (LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return LoginResult{}, ErrInvalidInput
	}
	if s.jwt == nil || s.sessions == nil || s.users == nil {
		return LoginResult{}, fmt.Errorf("auth dependencies are not configured")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgrepo.ErrUserNotFound) {
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return LoginResult{}, ErrInvalidCredentials
	}

	sid := uuid.NewString()
	accessToken, expiresAt, err := s.jwt.GenerateAccessToken(user.ID, sid)
	if err != nil {
		return LoginResult{}, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.sessions.Create(ctx, SessionRecord{
		SID:       sid,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}); err != nil {
		return LoginResult{}, err
	}

	if err := s.users.SetLastLogin(ctx, user.ID, s.now().UTC()); err != nil {
		return LoginResult{}, err
	}

	return LoginResult{
		UserID:      user.ID,
		AccessToken: accessToken,
		ExpiresAt:   expiresAt,
	}, nil
}

// ValidateAccessToken parses the bearer token and checks the session behind
// it is still alive, so logout revokes outstanding tokens immediately.
func (s *Service) ValidateAccessToken(ctx context.Context, raw string) (AccessClaims, error) {
	if s.jwt == nil || s.sessions == nil {
		return AccessClaims{}, fmt.Errorf("auth dependencies are not configured")
	}

	claims, err := s.jwt.ParseAccessToken(raw)
	if err != nil {
		return AccessClaims{}, err
	}

	session, err := s.sessions.Get(ctx, claims.SID)
	if err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return AccessClaims{}, ErrUnauthorized
		}
		return AccessClaims{}, err
	}
	if session.UserID != claims.UserID {
		return AccessClaims{}, ErrUnauthorized
	}

	return claims, nil
}

func (s *Service) Logout(ctx context.Context, sid string) error {
	if s.sessions == nil {
		return fmt.Errorf("auth dependencies are not configured")
	}
	if strings.TrimSpace(sid) == "" {
		return ErrInvalidInput
	}

	if err := s.sessions.Delete(ctx, sid); err != nil {
		if errors.Is(err, ErrSessionNotFound) {
			return nil
		}
		return err
	}

	return nil
}

func (s *Service) LogoutAll(ctx context.Context, userID int64) error {
	if s.sessions == nil {
		return fmt.Errorf("auth dependencies are not configured")
	}
	if userID <= 0 {
		return ErrInvalidInput
	}

	return s.sessions.DeleteAllForUser(ctx, userID)
}

func HashPassword(password string) (string, error) {
	if password == "" {
		return "", ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	return string(hash), nil
}
