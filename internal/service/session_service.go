package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/it-manager/internal/auth"
	"github.com/spec-kit/it-manager/internal/domain"
	"github.com/spec-kit/it-manager/internal/repository"
	apperrors "github.com/spec-kit/it-manager/pkg/util/errorutil"
)

// Session is an issued access token.
type Session struct {
	User        *domain.User
	AccessToken string
	ExpiresAt   time.Time
}

// SessionService exchanges user credentials for access tokens.
type SessionService struct {
	users    repository.UserRepository
	tokenMgr *auth.TokenManager
}

// NewSessionService builds the service.
func NewSessionService(users repository.UserRepository, tokens *auth.TokenManager) *SessionService {
	return &SessionService{users: users, tokenMgr: tokens}
}

// Authenticate verifies email and password and issues a token. Unknown emails,
// users without a password and wrong passwords all yield the same error.
func (s *SessionService) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, apperrors.MapError(err)
	}
	if !user.CanAuthenticate() {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid credentials")
	}
	token, exp, err := s.tokenMgr.GenerateToken(user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return &Session{User: user, AccessToken: token, ExpiresAt: exp}, nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *SessionService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
