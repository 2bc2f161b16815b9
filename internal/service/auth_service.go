package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// AuthService handles credential verification and bearer-token authentication.
type AuthService interface {
	// Login verifies username/password and issues a bearer token with the
	// configured TTL and subject = username. Unknown user and wrong password
	// produce the same error so callers cannot enumerate accounts. A disabled
	// user can still log in; the gate rejects the token afterwards.
	Login(ctx context.Context, username, password string) (string, error)
	// Authenticate resolves a bearer token to an existing, active user.
	Authenticate(ctx context.Context, token string) (*model.User, error)
	// ResolveActiveUser looks up an already-verified subject and rejects
	// disabled accounts.
	ResolveActiveUser(ctx context.Context, username string) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	jwtService *auth.JWTService
	tokenTTL   time.Duration
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, jwtService *auth.JWTService, tokenTTL time.Duration) AuthService {
	return &authService{
		userRepo:   userRepo,
		jwtService: jwtService,
		tokenTTL:   tokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return "", apperrors.ErrInvalidCredentials
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.IssueToken(user.Username, s.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}

// Authenticate runs two sequential checks, terminal on the first failure:
// token verification plus user lookup, then the active-account gate. A bad
// token and a user deleted after issuance are indistinguishable to the caller.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	subject, err := s.jwtService.VerifyToken(token)
	if err != nil {
		return nil, apperrors.ErrUnauthenticated
	}
	return s.ResolveActiveUser(ctx, subject)
}

func (s *authService) ResolveActiveUser(ctx context.Context, username string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if user.Disabled {
		return nil, apperrors.ErrAccountDisabled
	}
	return user, nil
}
