package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// MockCategoryRepository is a mock implementation of CategoryRepository.
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) Delete(ctx context.Context, category *model.Category) error {
	args := m.Called(ctx, category)
	return args.Error(0)
}

func (m *MockCategoryRepository) FindByID(ctx context.Context, id uint) (*model.Category, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Category), args.Error(1)
}

func (m *MockCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Category), args.Error(1)
}

func (m *MockCategoryRepository) NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error) {
	args := m.Called(ctx, name, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

// WithTransaction runs fn against the mock itself; transactional scoping is
// covered by the real store's unique constraints, not here.
func (m *MockCategoryRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.CategoryRepository) error) error {
	return fn(ctx, m)
}

func TestCategoryService_Create(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		setupMock     func(*MockCategoryRepository)
		expectedError error
		expectedSlug  string
	}{
		{
			name:  "successful create derives slug",
			input: "My Category",
			setupMock: func(m *MockCategoryRepository) {
				m.On("NameOrSlugTaken", mock.Anything, "My Category", "my-category", uint(0)).Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)
			},
			expectedSlug: "my-category",
		},
		{
			name:  "duplicate caught by advisory pre-check",
			input: "My Category",
			setupMock: func(m *MockCategoryRepository) {
				m.On("NameOrSlugTaken", mock.Anything, "My Category", "my-category", uint(0)).Return(true, nil)
			},
			expectedError: apperrors.ErrDuplicateName,
		},
		{
			name:  "duplicate caught by unique index at commit",
			input: "My Category",
			setupMock: func(m *MockCategoryRepository) {
				m.On("NameOrSlugTaken", mock.Anything, "My Category", "my-category", uint(0)).Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrDuplicateName,
		},
		{
			name:          "symbols-only name yields empty slug",
			input:         "!!!???",
			setupMock:     func(m *MockCategoryRepository) {},
			expectedError: apperrors.ErrInvalidName,
		},
		{
			name:  "unrelated storage failure is opaque",
			input: "My Category",
			setupMock: func(m *MockCategoryRepository) {
				m.On("NameOrSlugTaken", mock.Anything, "My Category", "my-category", uint(0)).Return(false, nil)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.Category")).Return(errors.New("connection reset"))
			},
			expectedError: apperrors.ErrStorage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCategoryRepository)
			tt.setupMock(mockRepo)

			svc := NewCategoryService(mockRepo, nil)
			category, err := svc.Create(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, category)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, category)
				assert.Equal(t, tt.input, category.Name)
				assert.Equal(t, tt.expectedSlug, category.Slug)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCategoryService_CreatePreCheckDuplicateSkipsInsert(t *testing.T) {
	mockRepo := new(MockCategoryRepository)
	mockRepo.On("NameOrSlugTaken", mock.Anything, "Taken", "taken", uint(0)).Return(true, nil)

	svc := NewCategoryService(mockRepo, nil)
	_, err := svc.Create(context.Background(), "Taken")

	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
	mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCategoryService_Update(t *testing.T) {
	newName := "New Name"
	sameName := "Old Name"

	tests := []struct {
		name          string
		input         CategoryUpdateInput
		setupMock     func(*MockCategoryRepository)
		expectedError error
		check         func(*testing.T, *model.Category)
	}{
		{
			name:  "rename recomputes slug and revalidates uniqueness",
			input: CategoryUpdateInput{Name: &newName},
			setupMock: func(m *MockCategoryRepository) {
				m.On("FindByID", mock.Anything, uint(7)).
					Return(&model.Category{ID: 7, Name: "Old Name", Slug: "old-name"}, nil)
				m.On("NameOrSlugTaken", mock.Anything, "New Name", "new-name", uint(7)).Return(false, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)
			},
			check: func(t *testing.T, category *model.Category) {
				assert.Equal(t, "New Name", category.Name)
				assert.Equal(t, "new-name", category.Slug)
			},
		},
		{
			name:  "rename to taken name",
			input: CategoryUpdateInput{Name: &newName},
			setupMock: func(m *MockCategoryRepository) {
				m.On("FindByID", mock.Anything, uint(7)).
					Return(&model.Category{ID: 7, Name: "Old Name", Slug: "old-name"}, nil)
				m.On("NameOrSlugTaken", mock.Anything, "New Name", "new-name", uint(7)).Return(true, nil)
			},
			expectedError: apperrors.ErrDuplicateName,
		},
		{
			name:  "unchanged name skips uniqueness check",
			input: CategoryUpdateInput{Name: &sameName},
			setupMock: func(m *MockCategoryRepository) {
				m.On("FindByID", mock.Anything, uint(7)).
					Return(&model.Category{ID: 7, Name: "Old Name", Slug: "old-name"}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)
			},
			check: func(t *testing.T, category *model.Category) {
				assert.Equal(t, "old-name", category.Slug)
			},
		},
		{
			name:  "nil fields leave the record untouched",
			input: CategoryUpdateInput{},
			setupMock: func(m *MockCategoryRepository) {
				m.On("FindByID", mock.Anything, uint(7)).
					Return(&model.Category{ID: 7, Name: "Old Name", Slug: "old-name"}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)
			},
			check: func(t *testing.T, category *model.Category) {
				assert.Equal(t, "Old Name", category.Name)
				assert.Equal(t, "old-name", category.Slug)
			},
		},
		{
			name:  "missing category",
			input: CategoryUpdateInput{Name: &newName},
			setupMock: func(m *MockCategoryRepository) {
				m.On("FindByID", mock.Anything, uint(7)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockCategoryRepository)
			tt.setupMock(mockRepo)

			svc := NewCategoryService(mockRepo, nil)
			category, err := svc.Update(context.Background(), 7, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, category)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, category)
				tt.check(t, category)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCategoryService_Delete(t *testing.T) {
	t.Run("existing category", func(t *testing.T) {
		mockRepo := new(MockCategoryRepository)
		mockRepo.On("FindByID", mock.Anything, uint(3)).
			Return(&model.Category{ID: 3, Name: "General", Slug: "general"}, nil)
		mockRepo.On("Delete", mock.Anything, mock.AnythingOfType("*model.Category")).Return(nil)

		svc := NewCategoryService(mockRepo, nil)
		assert.NoError(t, svc.Delete(context.Background(), 3))
		mockRepo.AssertExpectations(t)
	})

	t.Run("missing category", func(t *testing.T) {
		mockRepo := new(MockCategoryRepository)
		mockRepo.On("FindByID", mock.Anything, uint(3)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewCategoryService(mockRepo, nil)
		assert.ErrorIs(t, svc.Delete(context.Background(), 3), apperrors.ErrNotFound)
		mockRepo.AssertExpectations(t)
	})
}

func TestCategoryService_Get(t *testing.T) {
	t.Run("missing category", func(t *testing.T) {
		mockRepo := new(MockCategoryRepository)
		mockRepo.On("FindByID", mock.Anything, uint(9)).Return(nil, gorm.ErrRecordNotFound)

		svc := NewCategoryService(mockRepo, nil)
		_, err := svc.Get(context.Background(), 9)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}
