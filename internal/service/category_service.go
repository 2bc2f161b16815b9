package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"blogapi/internal/cache"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
	"blogapi/internal/slug"
)

// CategoryUpdateInput names every mutable category field; nil fields are left
// untouched.
type CategoryUpdateInput struct {
	Name *string
}

// CategoryService handles category CRUD with slug derivation and
// name-uniqueness enforcement.
type CategoryService interface {
	Create(ctx context.Context, name string) (*model.Category, error)
	Get(ctx context.Context, id uint) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, id uint, input CategoryUpdateInput) (*model.Category, error)
	Delete(ctx context.Context, id uint) error
}

type categoryService struct {
	repo  repository.CategoryRepository
	cache *cache.Client
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository, cache *cache.Client) CategoryService {
	return &categoryService{
		repo:  repo,
		cache: cache,
	}
}

func (s *categoryService) cacheKey(id uint) string {
	return fmt.Sprintf("category:%d", id)
}

// Create derives the slug and persists the category inside one transaction.
// The name-taken pre-check and the insert share the transaction, so two
// concurrent creates with the same name are serialized by the unique index:
// at most one wins, the other gets ErrDuplicateName.
func (s *categoryService) Create(ctx context.Context, name string) (*model.Category, error) {
	slugValue := slug.Make(name)
	if slugValue == "" {
		return nil, apperrors.ErrInvalidName
	}

	category := &model.Category{Name: name, Slug: slugValue}
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.CategoryRepository) error {
		taken, err := txRepo.NameOrSlugTaken(ctx, name, slugValue, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrDuplicateName
		}
		return txRepo.Create(ctx, category)
	})
	if err != nil {
		return nil, classifyWriteError(err)
	}
	return category, nil
}

// Get retrieves a category by ID with caching.
func (s *categoryService) Get(ctx context.Context, id uint) (*model.Category, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Category
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	category, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if payload, err := json.Marshal(category); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, entityCacheTTL)
	}
	return category, nil
}

func (s *categoryService) List(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return categories, nil
}

// Update applies only the provided fields. A name change recomputes the slug
// and re-validates uniqueness in the same transactional shape as Create.
func (s *categoryService) Update(ctx context.Context, id uint, input CategoryUpdateInput) (*model.Category, error) {
	var updated *model.Category
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.CategoryRepository) error {
		category, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if input.Name != nil && *input.Name != category.Name {
			newSlug := slug.Make(*input.Name)
			if newSlug == "" {
				return apperrors.ErrInvalidName
			}
			taken, err := txRepo.NameOrSlugTaken(ctx, *input.Name, newSlug, category.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.ErrDuplicateName
			}
			category.Name = *input.Name
			category.Slug = newSlug
		}

		if err := txRepo.Update(ctx, category); err != nil {
			return err
		}
		updated = category
		return nil
	})
	if err != nil {
		return nil, classifyWriteError(err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return updated, nil
}

func (s *categoryService) Delete(ctx context.Context, id uint) error {
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.CategoryRepository) error {
		category, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		return txRepo.Delete(ctx, category)
	})
	if err != nil {
		return classifyWriteError(err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
