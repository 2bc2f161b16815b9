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

// TagUpdateInput names every mutable tag field; nil fields are left untouched.
type TagUpdateInput struct {
	Name *string
}

// TagService handles tag CRUD with slug derivation and name-uniqueness
// enforcement. Same contract as categories.
type TagService interface {
	Create(ctx context.Context, name string) (*model.Tag, error)
	Get(ctx context.Context, id uint) (*model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	Update(ctx context.Context, id uint, input TagUpdateInput) (*model.Tag, error)
	Delete(ctx context.Context, id uint) error
}

type tagService struct {
	repo  repository.TagRepository
	cache *cache.Client
}

// NewTagService creates a new tag service.
func NewTagService(repo repository.TagRepository, cache *cache.Client) TagService {
	return &tagService{
		repo:  repo,
		cache: cache,
	}
}

func (s *tagService) cacheKey(id uint) string {
	return fmt.Sprintf("tag:%d", id)
}

func (s *tagService) Create(ctx context.Context, name string) (*model.Tag, error) {
	slugValue := slug.Make(name)
	if slugValue == "" {
		return nil, apperrors.ErrInvalidName
	}

	tag := &model.Tag{Name: name, Slug: slugValue}
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.TagRepository) error {
		taken, err := txRepo.NameOrSlugTaken(ctx, name, slugValue, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrDuplicateName
		}
		return txRepo.Create(ctx, tag)
	})
	if err != nil {
		return nil, classifyWriteError(err)
	}
	return tag, nil
}

func (s *tagService) Get(ctx context.Context, id uint) (*model.Tag, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Tag
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	tag, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if payload, err := json.Marshal(tag); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, entityCacheTTL)
	}
	return tag, nil
}

func (s *tagService) List(ctx context.Context) ([]model.Tag, error) {
	tags, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return tags, nil
}

func (s *tagService) Update(ctx context.Context, id uint, input TagUpdateInput) (*model.Tag, error) {
	var updated *model.Tag
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.TagRepository) error {
		tag, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if input.Name != nil && *input.Name != tag.Name {
			newSlug := slug.Make(*input.Name)
			if newSlug == "" {
				return apperrors.ErrInvalidName
			}
			taken, err := txRepo.NameOrSlugTaken(ctx, *input.Name, newSlug, tag.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.ErrDuplicateName
			}
			tag.Name = *input.Name
			tag.Slug = newSlug
		}

		if err := txRepo.Update(ctx, tag); err != nil {
			return err
		}
		updated = tag
		return nil
	})
	if err != nil {
		return nil, classifyWriteError(err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return updated, nil
}

func (s *tagService) Delete(ctx context.Context, id uint) error {
	err := s.repo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.TagRepository) error {
		tag, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		return txRepo.Delete(ctx, tag)
	})
	if err != nil {
		return classifyWriteError(err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
