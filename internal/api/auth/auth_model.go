package auth

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-api/internal/api"
)

// Role is the closed set of account roles. It is fixed at registration and no
// operation in this package changes it afterwards.
type Role string

const (
	RoleStudent   Role = "student"
	RoleRecruiter Role = "recruiter"
	RoleAdmin     Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleRecruiter, RoleAdmin:
		return true
	}
	return false
}

// Failure kinds for the account lifecycle. Each wraps a transport-agnostic
// sentinel so handlers can map kinds to status codes with errors.Is.
var (
	ErrDuplicateAccount      = fmt.Errorf("user with this email or username already exists: %w", api.ErrConflict)
	ErrInvalidCredentials    = fmt.Errorf("invalid credentials: %w", api.ErrUnauthenticated)
	ErrAccountDeactivated    = fmt.Errorf("account is deactivated: %w", api.ErrUnauthenticated)
	ErrInvalidToken          = fmt.Errorf("invalid or expired verification token: %w", api.ErrBadRequest)
	ErrInvalidOrExpiredToken = fmt.Errorf("invalid or expired reset token: %w", api.ErrBadRequest)
	ErrAlreadyVerified       = fmt.Errorf("user is already verified: %w", api.ErrBadRequest)
	ErrIncorrectPassword     = fmt.Errorf("current password is incorrect: %w", api.ErrBadRequest)
)

// SocialLinks is stored as a JSONB blob on the account row.
type SocialLinks struct {
	LinkedIn        *string `json:"linkedin,omitempty"`
	GitHub          *string `json:"github,omitempty"`
	Twitter         *string `json:"twitter,omitempty"`
	PersonalWebsite *string `json:"personalWebsite,omitempty"`
}

// StudentInfo carries the student-only optional fields.
type StudentInfo struct {
	University     *string `json:"university,omitempty"`
	Major          *string `json:"major,omitempty"`
	GraduationYear *int    `json:"graduationYear,omitempty"`
}

// RecruiterInfo carries the recruiter-only optional fields.
type RecruiterInfo struct {
	CompanyName        *string `json:"companyName,omitempty"`
	CompanyDescription *string `json:"companyDescription,omitempty"`
	CompanyWebsite     *string `json:"companyWebsite,omitempty"`
	Department         *string `json:"department,omitempty"`
	Designation        *string `json:"designation,omitempty"`
}

// Account is the persistent identity record. PasswordHash and the secret
// tokens are never serialized to any response payload.
type Account struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Fullname *string   `json:"fullname,omitempty"`
	Email    string    `json:"email"`
	Role     Role      `json:"role"`

	PasswordHash string `json:"-"`

	ProfilePicture *string        `json:"profilePicture,omitempty"`
	Bio            *string        `json:"bio,omitempty"`
	Location       *string        `json:"location,omitempty"`
	Skills         []string       `json:"skills,omitempty"`
	SocialLinks    *SocialLinks   `json:"socialLinks,omitempty"`
	StudentInfo    *StudentInfo   `json:"studentInfo,omitempty"`
	RecruiterInfo  *RecruiterInfo `json:"recruiterInfo,omitempty"`

	IsVerified           bool       `json:"isVerified"`
	VerificationToken    *string    `json:"-"`
	ResetPasswordToken   *string    `json:"-"`
	ResetPasswordExpires *time.Time `json:"-"`

	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserSummary is the public projection returned by register and login.
type UserSummary struct {
	ID             uuid.UUID  `json:"id"`
	Username       string     `json:"username"`
	Email          string     `json:"email"`
	Role           Role       `json:"role"`
	IsVerified     bool       `json:"isVerified"`
	ProfilePicture *string    `json:"profilePicture,omitempty"`
	LastLogin      *time.Time `json:"lastLogin,omitempty"`
}

func (a *Account) Summary() *UserSummary {
	return &UserSummary{
		ID:             a.ID,
		Username:       a.Username,
		Email:          a.Email,
		Role:           a.Role,
		IsVerified:     a.IsVerified,
		ProfilePicture: a.ProfilePicture,
		LastLogin:      a.LastLogin,
	}
}

// RegisterRequest carries the registration payload. Skills and StudentInfo are
// only honored for students, RecruiterInfo only for recruiters.
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`

	Fullname       *string        `json:"fullname,omitempty"`
	ProfilePicture *string        `json:"profilePicture,omitempty"`
	Bio            *string        `json:"bio,omitempty"`
	Location       *string        `json:"location,omitempty"`
	SocialLinks    *SocialLinks   `json:"socialLinks,omitempty"`
	Skills         []string       `json:"skills,omitempty"`
	StudentInfo    *StudentInfo   `json:"studentInfo,omitempty"`
	RecruiterInfo  *RecruiterInfo `json:"recruiterInfo,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  *UserSummary `json:"user"`
}

type EmailRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}
