package repository

import (
	"context"

	"gorm.io/gorm"

	"blogapi/internal/model"
)

// CategoryRepository defines category persistence operations.
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id uint) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error)
	WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CategoryRepository) error) error
}

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository builds a GORM-backed category repository.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Save(category).Error
}

func (r *categoryRepository) Delete(ctx context.Context, category *model.Category) error {
	return r.db.WithContext(ctx).Delete(category).Error
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).First(&category, id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := r.db.WithContext(ctx).Order("name").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// NameOrSlugTaken reports whether another category already uses the name or
// slug. The check is advisory; the unique indexes remain authoritative.
func (r *categoryRepository) NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&model.Category{}).
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
func (r *categoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo CategoryRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &categoryRepository{db: tx})
	})
}
