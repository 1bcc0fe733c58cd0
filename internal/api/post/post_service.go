package post

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

var _ PostService = (*PostServiceImpl)(nil)

// PostService orchestrates the social feed.
type PostService interface {
	Create(ctx context.Context, userID uuid.UUID, req CreatePostRequest) (*Post, error)
	List(ctx context.Context, authorID *uuid.UUID) ([]Post, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// Update and Delete are owner-only; a non-owner gets api.ErrForbidden.
	Update(ctx context.Context, id, userID uuid.UUID, req UpdatePostRequest) (*Post, error)
	Delete(ctx context.Context, id, userID uuid.UUID) error
}

type PostServiceImpl struct {
	logger *slog.Logger
	repo   PostRepo
}

func NewPostService(repo PostRepo, logger *slog.Logger) *PostServiceImpl {
	return &PostServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *PostServiceImpl) Create(ctx context.Context, userID uuid.UUID, req CreatePostRequest) (*Post, error) {
	l := s.logger.With(slog.String("method", "Create"), slog.String("userID", userID.String()))

	if req.Content == "" {
		return nil, ErrContentRequired
	}
	if req.Visibility == "" {
		req.Visibility = VisibilityPublic
	}
	if !req.Visibility.Valid() {
		return nil, fmt.Errorf("invalid visibility %q: %w", req.Visibility, ErrContentRequired)
	}

	images := req.Images
	if images == nil {
		images = []string{}
	}

	now := time.Now()
	post := &Post{
		ID:         uuid.New(),
		UserID:     userID,
		Content:    req.Content,
		Images:     images,
		Visibility: req.Visibility,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Insert(ctx, post); err != nil {
		l.ErrorContext(ctx, "Failed to create post", slog.Any("error", err))
		return nil, fmt.Errorf("error creating post: %w", err)
	}

	l.InfoContext(ctx, "Post created", slog.String("postID", post.ID.String()))
	return post, nil
}

func (s *PostServiceImpl) List(ctx context.Context, authorID *uuid.UUID) ([]Post, error) {
	posts, err := s.repo.List(ctx, authorID)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	return posts, nil
}

func (s *PostServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching post: %w", err)
	}
	return post, nil
}

func (s *PostServiceImpl) requireOwnership(ctx context.Context, id, userID uuid.UUID) (*Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching post: %w", err)
	}
	if post.UserID != userID {
		return nil, ErrNotPostOwner
	}
	return post, nil
}

func (s *PostServiceImpl) Update(ctx context.Context, id, userID uuid.UUID, req UpdatePostRequest) (*Post, error) {
	l := s.logger.With(slog.String("method", "Update"), slog.String("postID", id.String()))

	if _, err := s.requireOwnership(ctx, id, userID); err != nil {
		return nil, err
	}
	if req.Visibility != nil && !req.Visibility.Valid() {
		return nil, fmt.Errorf("invalid visibility %q: %w", *req.Visibility, ErrContentRequired)
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		l.ErrorContext(ctx, "Failed to update post", slog.Any("error", err))
		return nil, fmt.Errorf("error updating post: %w", err)
	}

	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching updated post: %w", err)
	}

	l.InfoContext(ctx, "Post updated")
	return post, nil
}

func (s *PostServiceImpl) Delete(ctx context.Context, id, userID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "Delete"), slog.String("postID", id.String()))

	if _, err := s.requireOwnership(ctx, id, userID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		l.ErrorContext(ctx, "Failed to delete post", slog.Any("error", err))
		return fmt.Errorf("error deleting post: %w", err)
	}

	l.InfoContext(ctx, "Post deleted")
	return nil
}
