package post

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-api/internal/api"
)

// Visibility controls who can see a post.
type Visibility string

const (
	VisibilityPublic      Visibility = "public"
	VisibilityConnections Visibility = "connections"
	VisibilityPrivate     Visibility = "private"
)

func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityConnections, VisibilityPrivate:
		return true
	}
	return false
}

var (
	ErrPostNotFound    = fmt.Errorf("post not found: %w", api.ErrNotFound)
	ErrNotPostOwner    = fmt.Errorf("you are not authorized to modify this post: %w", api.ErrForbidden)
	ErrContentRequired = fmt.Errorf("content is required: %w", api.ErrBadRequest)
)

// AuthorSummary is joined from the users table on reads.
type AuthorSummary struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Fullname       *string   `json:"fullname,omitempty"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
}

type Post struct {
	ID         uuid.UUID  `json:"id"`
	UserID     uuid.UUID  `json:"userId"`
	Content    string     `json:"content"`
	Images     []string   `json:"images"`
	Visibility Visibility `json:"visibility"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`

	Author *AuthorSummary `json:"author,omitempty"`
}

type CreatePostRequest struct {
	Content    string     `json:"content"`
	Images     []string   `json:"images,omitempty"`
	Visibility Visibility `json:"visibility,omitempty"`
}

// UpdatePostRequest is a partial update; nil fields are left untouched.
type UpdatePostRequest struct {
	Content    *string     `json:"content,omitempty"`
	Images     []string    `json:"images,omitempty"`
	Visibility *Visibility `json:"visibility,omitempty"`
}
