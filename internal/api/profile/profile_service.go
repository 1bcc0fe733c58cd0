package profile

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-api/internal/api/auth"
)

var _ ProfileService = (*ProfileServiceImpl)(nil)

// ProfileService handles reading and editing the caller's own profile.
type ProfileService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*auth.Account, error)

	// UpdateProfile applies a partial update. Username and email moves are
	// rejected when another account already holds the value. Role-specific
	// blobs are only honored for the matching role.
	UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) (*auth.Account, error)
}

type ProfileServiceImpl struct {
	logger *slog.Logger
	repo   ProfileRepo
}

func NewProfileService(repo ProfileRepo, logger *slog.Logger) *ProfileServiceImpl {
	return &ProfileServiceImpl{
		logger: logger,
		repo:   repo,
	}
}

func (s *ProfileServiceImpl) GetProfile(ctx context.Context, userID uuid.UUID) (*auth.Account, error) {
	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}
	return account, nil
}

func (s *ProfileServiceImpl) UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) (*auth.Account, error) {
	l := s.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	account, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching profile: %w", err)
	}

	if params.Username != nil && *params.Username != account.Username {
		taken, err := s.repo.UsernameTakenByOther(ctx, userID, *params.Username)
		if err != nil {
			return nil, fmt.Errorf("error checking username: %w", err)
		}
		if taken {
			return nil, ErrUsernameTaken
		}
	}
	if params.Email != nil && *params.Email != account.Email {
		taken, err := s.repo.EmailTakenByOther(ctx, userID, *params.Email)
		if err != nil {
			return nil, fmt.Errorf("error checking email: %w", err)
		}
		if taken {
			return nil, ErrEmailTaken
		}
	}

	// Role-specific blobs only apply to the matching role.
	if account.Role != auth.RoleStudent {
		params.StudentInfo = nil
	}
	if account.Role != auth.RoleRecruiter {
		params.RecruiterInfo = nil
	}

	if err := s.repo.UpdateProfile(ctx, userID, params); err != nil {
		l.ErrorContext(ctx, "Failed to update profile", slog.Any("error", err))
		return nil, fmt.Errorf("error updating profile: %w", err)
	}

	updated, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error fetching updated profile: %w", err)
	}

	l.InfoContext(ctx, "Profile updated")
	return updated, nil
}
