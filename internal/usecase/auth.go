package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/saralhq/admin-backend/internal/core/domain"
	"github.com/saralhq/admin-backend/internal/core/port"
	"github.com/saralhq/admin-backend/internal/infra/logger"
	"github.com/saralhq/admin-backend/internal/repository"
)

// LoginResult carries the issued token and the authenticated account.
type LoginResult struct {
	AccessToken string
	ExpiresAt   time.Time
	User        domain.User
}

// AuthService authenticates callers and resolves identities from tokens.
type AuthService struct {
	users  port.UserRepository
	hasher port.PasswordHasher
	tokens port.TokenManager
	logger *zap.Logger
}

// NewAuthService constructs an AuthService.
func NewAuthService(users port.UserRepository, hasher port.PasswordHasher, tokens port.TokenManager, log *zap.Logger) *AuthService {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthService{users: users, hasher: hasher, tokens: tokens, logger: log}
}

// Login verifies the credentials and issues an access token. Unknown email
// and wrong password produce the same failure.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if user.Status != domain.UserStatusActive {
		return nil, domain.ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		s.logger.Info("failed login attempt", zap.String("email", logger.MaskEmail(email)))
		return nil, domain.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}

	return &LoginResult{AccessToken: token, ExpiresAt: expiresAt, User: *user}, nil
}

// ParseAccessToken validates the token and returns the caller's user id.
func (s *AuthService) ParseAccessToken(_ context.Context, token string) (string, error) {
	userID, err := s.tokens.Parse(token)
	if err != nil {
		return "", domain.NewUnauthenticatedError("auth.invalid_token", "the access token is invalid or expired")
	}
	return userID, nil
}
