package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	apperrors "blogapi/internal/errors"
	"blogapi/internal/model"
	"blogapi/internal/repository"
)

// MockPostRepository is a mock implementation of PostRepository.
type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Update(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, post *model.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) SetTags(ctx context.Context, post *model.Post, tags []model.Tag) error {
	args := m.Called(ctx, post, tags)
	return args.Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id uint) (*model.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Post), args.Error(1)
}

func (m *MockPostRepository) List(ctx context.Context) ([]model.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error) {
	args := m.Called(ctx, name, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.PostRepository) error) error {
	return fn(ctx, m)
}

// MockTagRepository is a mock implementation of TagRepository.
type MockTagRepository struct {
	mock.Mock
}

func (m *MockTagRepository) Create(ctx context.Context, tag *model.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Update(ctx context.Context, tag *model.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) Delete(ctx context.Context, tag *model.Tag) error {
	args := m.Called(ctx, tag)
	return args.Error(0)
}

func (m *MockTagRepository) FindByID(ctx context.Context, id uint) (*model.Tag, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Tag), args.Error(1)
}

func (m *MockTagRepository) FindByIDs(ctx context.Context, ids []uint) ([]model.Tag, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagRepository) List(ctx context.Context) ([]model.Tag, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Tag), args.Error(1)
}

func (m *MockTagRepository) NameOrSlugTaken(ctx context.Context, name, slug string, excludeID uint) (bool, error) {
	args := m.Called(ctx, name, slug, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockTagRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context, repo repository.TagRepository) error) error {
	return fn(ctx, m)
}

func TestPostService_Create(t *testing.T) {
	author := uuid.New()

	tests := []struct {
		name          string
		input         PostCreateInput
		setupMock     func(*MockPostRepository, *MockCategoryRepository, *MockTagRepository)
		expectedError error
		check         func(*testing.T, *model.Post)
	}{
		{
			name: "successful create",
			input: PostCreateInput{
				Name:        "My Post",
				Description: "Body text",
				CategoryID:  2,
				TagIDs:      []uint{5, 6},
			},
			setupMock: func(p *MockPostRepository, c *MockCategoryRepository, tg *MockTagRepository) {
				c.On("FindByID", mock.Anything, uint(2)).
					Return(&model.Category{ID: 2, Name: "General", Slug: "general"}, nil)
				tg.On("FindByIDs", mock.Anything, []uint{5, 6}).
					Return([]model.Tag{{ID: 5}, {ID: 6}}, nil)
				p.On("NameOrSlugTaken", mock.Anything, "My Post", "my-post", uint(0)).Return(false, nil)
				p.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)
			},
			check: func(t *testing.T, post *model.Post) {
				assert.Equal(t, "my-post", post.Slug)
				assert.Equal(t, author, post.AuthorID)
				assert.Equal(t, uint(2), post.CategoryID)
				assert.Len(t, post.Tags, 2)
			},
		},
		{
			name: "missing category",
			input: PostCreateInput{
				Name:        "My Post",
				Description: "Body text",
				CategoryID:  99,
			},
			setupMock: func(p *MockPostRepository, c *MockCategoryRepository, tg *MockTagRepository) {
				c.On("FindByID", mock.Anything, uint(99)).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrNotFound,
		},
		{
			name: "unknown tag",
			input: PostCreateInput{
				Name:        "My Post",
				Description: "Body text",
				CategoryID:  2,
				TagIDs:      []uint{5, 42},
			},
			setupMock: func(p *MockPostRepository, c *MockCategoryRepository, tg *MockTagRepository) {
				c.On("FindByID", mock.Anything, uint(2)).
					Return(&model.Category{ID: 2, Name: "General", Slug: "general"}, nil)
				tg.On("FindByIDs", mock.Anything, []uint{5, 42}).
					Return([]model.Tag{{ID: 5}}, nil)
			},
			expectedError: apperrors.ErrNotFound,
		},
		{
			name: "concurrent create loses to unique index",
			input: PostCreateInput{
				Name:        "My Post",
				Description: "Body text",
				CategoryID:  2,
			},
			setupMock: func(p *MockPostRepository, c *MockCategoryRepository, tg *MockTagRepository) {
				c.On("FindByID", mock.Anything, uint(2)).
					Return(&model.Category{ID: 2, Name: "General", Slug: "general"}, nil)
				tg.On("FindByIDs", mock.Anything, []uint(nil)).Return([]model.Tag{}, nil)
				p.On("NameOrSlugTaken", mock.Anything, "My Post", "my-post", uint(0)).Return(false, nil)
				p.On("Create", mock.Anything, mock.AnythingOfType("*model.Post")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrDuplicateName,
		},
		{
			name: "symbols-only name",
			input: PostCreateInput{
				Name:        "???",
				Description: "Body text",
				CategoryID:  2,
			},
			setupMock:     func(p *MockPostRepository, c *MockCategoryRepository, tg *MockTagRepository) {},
			expectedError: apperrors.ErrInvalidName,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockPosts := new(MockPostRepository)
			mockCategories := new(MockCategoryRepository)
			mockTags := new(MockTagRepository)
			tt.setupMock(mockPosts, mockCategories, mockTags)

			svc := NewPostService(mockPosts, mockCategories, mockTags, nil)
			post, err := svc.Create(context.Background(), author, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, post)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, post)
				tt.check(t, post)
			}

			mockPosts.AssertExpectations(t)
			mockCategories.AssertExpectations(t)
			mockTags.AssertExpectations(t)
		})
	}
}

func TestPostService_UpdatePartial(t *testing.T) {
	author := uuid.New()
	description := "Updated body"

	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	mockTags := new(MockTagRepository)

	mockPosts.On("FindByID", mock.Anything, uint(4)).Return(&model.Post{
		ID:          4,
		Name:        "My Post",
		Slug:        "my-post",
		Description: "Original body",
		AuthorID:    author,
		CategoryID:  2,
	}, nil)
	mockPosts.On("Update", mock.Anything, mock.AnythingOfType("*model.Post")).Return(nil)

	svc := NewPostService(mockPosts, mockCategories, mockTags, nil)
	post, err := svc.Update(context.Background(), 4, PostUpdateInput{Description: &description})

	assert.NoError(t, err)
	assert.Equal(t, "Updated body", post.Description)
	// Untouched fields keep their values.
	assert.Equal(t, "My Post", post.Name)
	assert.Equal(t, "my-post", post.Slug)
	assert.Equal(t, uint(2), post.CategoryID)

	mockPosts.AssertExpectations(t)
	mockCategories.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

func TestPostService_UpdateRenameRevalidates(t *testing.T) {
	newName := "Fresh Title"

	mockPosts := new(MockPostRepository)
	mockCategories := new(MockCategoryRepository)
	mockTags := new(MockTagRepository)

	mockPosts.On("FindByID", mock.Anything, uint(4)).Return(&model.Post{
		ID:   4,
		Name: "My Post",
		Slug: "my-post",
	}, nil)
	mockPosts.On("NameOrSlugTaken", mock.Anything, "Fresh Title", "fresh-title", uint(4)).Return(true, nil)

	svc := NewPostService(mockPosts, mockCategories, mockTags, nil)
	_, err := svc.Update(context.Background(), 4, PostUpdateInput{Name: &newName})

	assert.ErrorIs(t, err, apperrors.ErrDuplicateName)
	mockPosts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestPostService_DeleteMissing(t *testing.T) {
	mockPosts := new(MockPostRepository)
	mockPosts.On("FindByID", mock.Anything, uint(8)).Return(nil, gorm.ErrRecordNotFound)

	svc := NewPostService(mockPosts, new(MockCategoryRepository), new(MockTagRepository), nil)
	assert.ErrorIs(t, svc.Delete(context.Background(), 8), apperrors.ErrNotFound)
}
