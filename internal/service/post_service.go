package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"blogapi/internal/cache"
	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
	"blogapi/internal/slug"
)

// PostCreateInput carries the fields needed to create a post. The author is
// not part of the input; it is the authenticated user.
type PostCreateInput struct {
	Name        string
	Description string
	CategoryID  uint
	TagIDs      []uint
}

// PostUpdateInput names every mutable post field; nil fields are left
// untouched. A nil TagIDs keeps the current tag set, an empty slice clears it.
type PostUpdateInput struct {
	Name        *string
	Description *string
	CategoryID  *uint
	TagIDs      *[]uint
}

// PostService handles post CRUD. Posts follow the named-entity contract
// (unique name, derived slug) and additionally require an existing category
// and an authenticated author.
type PostService interface {
	Create(ctx context.Context, authorID uuid.UUID, input PostCreateInput) (*model.Post, error)
	Get(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	Update(ctx context.Context, id uint, input PostUpdateInput) (*model.Post, error)
	Delete(ctx context.Context, id uint) error
}

type postService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	cache        *cache.Client
}

// NewPostService creates a new post service.
func NewPostService(
	postRepo repository.PostRepository,
	categoryRepo repository.CategoryRepository,
	tagRepo repository.TagRepository,
	cache *cache.Client,
) PostService {
	return &postService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
		tagRepo:      tagRepo,
		cache:        cache,
	}
}

func (s *postService) cacheKey(id uint) string {
	return fmt.Sprintf("post:%d", id)
}

// resolveCategory confirms the referenced category exists.
func (s *postService) resolveCategory(ctx context.Context, id uint) (*model.Category, error) {
	category, err := s.categoryRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return category, nil
}

// resolveTags loads the referenced tags and fails if any id is unknown.
func (s *postService) resolveTags(ctx context.Context, ids []uint) ([]model.Tag, error) {
	tags, err := s.tagRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	if len(tags) != len(ids) {
		return nil, apperrors.ErrNotFound
	}
	return tags, nil
}

func (s *postService) Create(ctx context.Context, authorID uuid.UUID, input PostCreateInput) (*model.Post, error) {
	slugValue := slug.Make(input.Name)
	if slugValue == "" {
		return nil, apperrors.ErrInvalidName
	}

	category, err := s.resolveCategory(ctx, input.CategoryID)
	if err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, input.TagIDs)
	if err != nil {
		return nil, err
	}

	post := &model.Post{
		Name:        input.Name,
		Slug:        slugValue,
		Description: input.Description,
		AuthorID:    authorID,
		CategoryID:  category.ID,
		Tags:        tags,
	}
	err = s.postRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.PostRepository) error {
		taken, err := txRepo.NameOrSlugTaken(ctx, input.Name, slugValue, 0)
		if err != nil {
			return err
		}
		if taken {
			return apperrors.ErrDuplicateName
		}
		return txRepo.Create(ctx, post)
	})
	if err != nil {
		return nil, classifyWriteError(err)
	}

	post.Category = *category
	return post, nil
}

// Get retrieves a post by ID with caching.
func (s *postService) Get(ctx context.Context, id uint) (*model.Post, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Post
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	post, err := s.postRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}

	if payload, err := json.Marshal(post); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, entityCacheTTL)
	}
	return post, nil
}

func (s *postService) List(ctx context.Context) ([]model.Post, error) {
	posts, err := s.postRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrStorage, err)
	}
	return posts, nil
}

func (s *postService) Update(ctx context.Context, id uint, input PostUpdateInput) (*model.Post, error) {
	var category *model.Category
	if input.CategoryID != nil {
		var err error
		category, err = s.resolveCategory(ctx, *input.CategoryID)
		if err != nil {
			return nil, err
		}
	}
	var tags []model.Tag
	if input.TagIDs != nil {
		var err error
		tags, err = s.resolveTags(ctx, *input.TagIDs)
		if err != nil {
			return nil, err
		}
	}

	var updated *model.Post
	err := s.postRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.PostRepository) error {
		post, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}

		if input.Name != nil && *input.Name != post.Name {
			newSlug := slug.Make(*input.Name)
			if newSlug == "" {
				return apperrors.ErrInvalidName
			}
			taken, err := txRepo.NameOrSlugTaken(ctx, *input.Name, newSlug, post.ID)
			if err != nil {
				return err
			}
			if taken {
				return apperrors.ErrDuplicateName
			}
			post.Name = *input.Name
			post.Slug = newSlug
		}
		if input.Description != nil {
			post.Description = *input.Description
		}
		if category != nil {
			post.CategoryID = category.ID
			post.Category = *category
		}

		if input.TagIDs != nil {
			if err := txRepo.SetTags(ctx, post, tags); err != nil {
				return err
			}
			post.Tags = tags
		}
		if err := txRepo.Update(ctx, post); err != nil {
			return err
		}
		updated = post
		return nil
	})
	if err != nil {
		return nil, classifyWriteError(err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return updated, nil
}

func (s *postService) Delete(ctx context.Context, id uint) error {
	err := s.postRepo.WithTransaction(ctx, func(ctx context.Context, txRepo repository.PostRepository) error {
		post, err := txRepo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrNotFound
			}
			return err
		}
		return txRepo.Delete(ctx, post)
	})
	if err != nil {
		return classifyWriteError(err)
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
