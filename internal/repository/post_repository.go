package repository

import (
	"context"

	"gorm.io/gorm"

	"blogapi/internal/model"
)

// PostRepository defines post persistence operations.
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Update(ctx context.Context, post *model.Post) error
	Delete(ctx context.Context, post *model.Post) error
	SetTags(ctx context.Context, post *model.Post, tags []model.Tag) error
	FindByID(ctx context.Context, id uint) (*model.Post, error)
	List(ctx context.Context) ([]model.Post, error)
	NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PostRepository) error) error
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository builds a GORM-backed post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Update(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Save(post).Error
}

func (r *postRepository) Delete(ctx context.Context, post *model.Post) error {
	// Join rows go with the post; the tags themselves stay.
	return r.db.WithContext(ctx).Select("Tags").Delete(post).Error
}

// SetTags replaces the post's tag set.
func (r *postRepository) SetTags(ctx context.Context, post *model.Post, tags []model.Tag) error {
	return r.db.WithContext(ctx).Model(post).Association("Tags").Replace(&tags)
}

func (r *postRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	var post model.Post
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Category").
		Preload("Tags").
		First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Preload("Tags").
		Order("created_at DESC").
		Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// NameOrSlugTaken reports whether another post already uses the name or slug.
func (r *postRepository) NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Post{}).
		Where("name = ? OR slug = ?", name, slug)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// WithTransaction executes fn within a database transaction.
func (r *postRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo PostRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &postRepository{db: tx})
	})
}
