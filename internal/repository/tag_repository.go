package repository

import (
	"context"

	"gorm.io/gorm"

	"blogapi/internal/model"
)

// TagRepository defines tag persistence operations.
type TagRepository interface {
	Create(ctx context.Context, tag *model.Tag) error
	Update(ctx context.Context, tag *model.Tag) error
	Delete(ctx context.Context, tag *model.Tag) error
	FindByID(ctx context.Context, id uint) (*model.Tag, error)
	FindByIDs(ctx context.Context, ids []uint) ([]model.Tag, error)
	List(ctx context.Context) ([]model.Tag, error)
	NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TagRepository) error) error
}

type tagRepository struct {
	db *gorm.DB
}

// NewTagRepository builds a GORM-backed tag repository.
func NewTagRepository(db *gorm.DB) TagRepository {
	return &tagRepository{db: db}
}

func (r *tagRepository) Create(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Create(tag).Error
}

func (r *tagRepository) Update(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Save(tag).Error
}

func (r *tagRepository) Delete(ctx context.Context, tag *model.Tag) error {
	return r.db.WithContext(ctx).Delete(tag).Error
}

func (r *tagRepository) FindByID(ctx context.Context, id uint) (*model.Tag, error) {
	var tag model.Tag
	if err := r.db.WithContext(ctx).First(&tag, id).Error; err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *tagRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Tag, error) {
	var tags []model.Tag
	if len(ids) == 0 {
		return tags, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func (r *tagRepository) List(ctx context.Context) ([]model.Tag, error) {
	var tags []model.Tag
	if err := r.db.WithContext(ctx).Order("name").Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

// NameOrSlugTaken reports whether another tag already uses the name or slug.
func (r *tagRepository) NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Tag{}).
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
func (r *tagRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo TagRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &tagRepository{db: tx})
	})
}
