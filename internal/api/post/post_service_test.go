package post

import (
	"context"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/careerbridge/careerbridge-api/internal/api"
)

// MockPostRepo is a mock implementation of the PostRepo interface
type MockPostRepo struct {
	mock.Mock
}

func (m *MockPostRepo) Insert(ctx context.Context, post *Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepo) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Post), args.Error(1)
}

func (m *MockPostRepo) List(ctx context.Context, authorID *uuid.UUID) ([]Post, error) {
	args := m.Called(ctx, authorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Post), args.Error(1)
}

func (m *MockPostRepo) Update(ctx context.Context, id uuid.UUID, params UpdatePostRequest) error {
	args := m.Called(ctx, id, params)
	return args.Error(0)
}

func (m *MockPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreatePost(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		mockRepo.On("Insert", ctx, mock.AnythingOfType("*post.Post")).
			Run(func(args mock.Arguments) {
				p := args.Get(1).(*Post)
				assert.Equal(t, userID, p.UserID)
				assert.Equal(t, VisibilityPublic, p.Visibility)
				assert.NotNil(t, p.Images)
			}).
			Return(nil).Once()

		post, err := service.Create(ctx, userID, CreatePostRequest{Content: "hello world"})

		assert.NoError(t, err)
		assert.Equal(t, "hello world", post.Content)
		mockRepo.AssertExpectations(t)
	})

	t.Run("EmptyContent", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		_, err := service.Create(ctx, userID, CreatePostRequest{})

		assert.ErrorIs(t, err, ErrContentRequired)
		mockRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("InvalidVisibility", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		_, err := service.Create(ctx, userID, CreatePostRequest{Content: "hi", Visibility: "everyone"})

		assert.ErrorIs(t, err, api.ErrBadRequest)
		mockRepo.AssertNotCalled(t, "Insert")
	})
}

func TestDeletePost(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()
	postID := uuid.New()

	t.Run("OwnerCanDelete", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		mockRepo.On("GetByID", ctx, postID).
			Return(&Post{ID: postID, UserID: owner}, nil).Once()
		mockRepo.On("Delete", ctx, postID).Return(nil).Once()

		assert.NoError(t, service.Delete(ctx, postID, owner))
		mockRepo.AssertExpectations(t)
	})

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		mockRepo.On("GetByID", ctx, postID).
			Return(&Post{ID: postID, UserID: owner}, nil).Once()

		assert.ErrorIs(t, service.Delete(ctx, postID, intruder), ErrNotPostOwner)
		mockRepo.AssertNotCalled(t, "Delete")
	})

	t.Run("MissingPost", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		mockRepo.On("GetByID", ctx, postID).Return(nil, api.ErrNotFound).Once()

		assert.ErrorIs(t, service.Delete(ctx, postID, owner), api.ErrNotFound)
	})
}

func TestUpdatePost(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	postID := uuid.New()

	t.Run("OwnerCanUpdate", func(t *testing.T) {
		mockRepo := new(MockPostRepo)
		service := NewPostService(mockRepo, slog.Default())

		content := "updated content"
		existing := &Post{ID: postID, UserID: owner, Content: "old"}
		mockRepo.On("GetByID", ctx, postID).Return(existing, nil).Twice()
		mockRepo.On("Update", ctx, postID, mock.AnythingOfType("post.UpdatePostRequest")).
			Return(nil).Once()

		_, err := service.Update(ctx, postID, owner, UpdatePostRequest{Content: &content})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})
}
