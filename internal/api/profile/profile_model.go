package profile

import (
	"fmt"

	"github.com/careerbridge/careerbridge-api/internal/api"
	"github.com/careerbridge/careerbridge-api/internal/api/auth"
)

var (
	ErrUsernameTaken = fmt.Errorf("username already exists: %w", api.ErrConflict)
	ErrEmailTaken    = fmt.Errorf("email already exists: %w", api.ErrConflict)
)

// UpdateProfileParams carries the partial-update payload; nil fields are left
// untouched. StudentInfo is only honored for students, RecruiterInfo only for
// recruiters.
type UpdateProfileParams struct {
	Username       *string             `json:"username,omitempty"`
	Email          *string             `json:"email,omitempty"`
	Fullname       *string             `json:"fullname,omitempty"`
	ProfilePicture *string             `json:"profilePicture,omitempty"`
	Bio            *string             `json:"bio,omitempty"`
	Location       *string             `json:"location,omitempty"`
	Skills         []string            `json:"skills,omitempty"`
	SocialLinks    *auth.SocialLinks   `json:"socialLinks,omitempty"`
	StudentInfo    *auth.StudentInfo   `json:"studentInfo,omitempty"`
	RecruiterInfo  *auth.RecruiterInfo `json:"recruiterInfo,omitempty"`
}
