package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogapi/internal/auth"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// UserCreateInput carries the fields for creating a user. The plaintext
// password is hashed before anything is persisted and is never stored.
type UserCreateInput struct {
	Username string
	FullName string
	Email    string
	Password string
}

// UserService handles user records. Creation is an administrative operation
// behind the auth gate; the core never deletes users.
type UserService interface {
	Create(ctx context.Context, input UserCreateInput) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	List(ctx context.Context) ([]model.User, error)
}

type userService struct {
	repo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) Create(ctx context.Context, input UserCreateInput) (*model.User, error) {
	if _, err := s.repo.FindByUsername(ctx, input.Username); err == nil {
		return nil, apperrors.ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if _, err := s.repo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.ErrUserExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Username:     input.Username,
		FullName:     input.FullName,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrUserExists
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return user, nil
}

func (s *userService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return users, nil
}
