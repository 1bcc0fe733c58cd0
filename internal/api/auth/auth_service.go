package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-api/app/mail"
	"github.com/careerbridge/careerbridge-api/internal/api"
)

// resetTokenTTL bounds how long a password reset link stays usable.
const resetTokenTTL = time.Hour

var _ AuthService = (*AuthServiceImpl)(nil)

// AuthService orchestrates the account lifecycle. All business failures come
// back as wrapped sentinel errors from auth_model.go / internal/api.
type AuthService interface {
	// Register creates an unverified, active account and triggers a best-effort
	// verification email. A failed send never rolls back the account.
	Register(ctx context.Context, req RegisterRequest) (*UserSummary, error)

	// Login authenticates by email and password and issues a session token.
	// Unknown email and wrong password are indistinguishable to the caller.
	Login(ctx context.Context, email, password string) (*LoginResponse, error)

	// Logout is an acknowledgment only; sessions are stateless and cannot be
	// invalidated server-side before their expiry.
	Logout(ctx context.Context) error

	// VerifyEmail consumes a verification token exactly once.
	VerifyEmail(ctx context.Context, token string) error

	// ResendVerification rotates the verification token and re-sends the email.
	// A send failure fails the operation.
	ResendVerification(ctx context.Context, email string) error

	// ForgotPassword issues a reset token valid for one hour and emails it.
	// A send failure fails the operation.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword consumes a still-valid reset token and rotates the password.
	ResetPassword(ctx context.Context, token, newPassword string) error

	// ChangePassword rotates the password for an authenticated account after
	// re-verifying the current password.
	ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error

	// GetCurrentUser returns the account without credential or token fields.
	GetCurrentUser(ctx context.Context, accountID uuid.UUID) (*Account, error)

	// DeactivateAccount is one-way; no reactivation operation exists here.
	DeactivateAccount(ctx context.Context, accountID uuid.UUID) error
}

type AuthServiceImpl struct {
	logger   *slog.Logger
	repo     AuthRepo
	hasher   PasswordHasher
	tokens   SecretTokenGenerator
	codec    *SessionTokenCodec
	notifier mail.Notifier
}

func NewAuthService(repo AuthRepo, hasher PasswordHasher, tokens SecretTokenGenerator,
	codec *SessionTokenCodec, notifier mail.Notifier, logger *slog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		logger:   logger,
		repo:     repo,
		hasher:   hasher,
		tokens:   tokens,
		codec:    codec,
		notifier: notifier,
	}
}

func (s *AuthServiceImpl) Register(ctx context.Context, req RegisterRequest) (*UserSummary, error) {
	l := s.logger.With(slog.String("method", "Register"), slog.String("username", req.Username))

	if req.Username == "" || req.Password == "" || req.Email == "" || req.Role == "" {
		return nil, fmt.Errorf("please provide username, password, email, and role: %w", api.ErrBadRequest)
	}
	if !req.Role.Valid() {
		return nil, fmt.Errorf("invalid role, must be student, recruiter, or admin: %w", api.ErrBadRequest)
	}

	// Pre-check so duplicates produce a clean error instead of a constraint
	// violation. The unique indexes still back this up at write time.
	_, err := s.repo.FindByEmailOrUsername(ctx, req.Email, req.Username)
	if err == nil {
		return nil, ErrDuplicateAccount
	}
	if !errors.Is(err, api.ErrNotFound) {
		l.ErrorContext(ctx, "Duplicate pre-check failed", slog.Any("error", err))
		return nil, fmt.Errorf("error checking existing accounts: %w", err)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	verificationToken, err := s.tokens.Generate()
	if err != nil {
		return nil, fmt.Errorf("error generating verification token: %w", err)
	}

	now := time.Now()
	account := &Account{
		ID:                uuid.New(),
		Username:          req.Username,
		Fullname:          req.Fullname,
		Email:             req.Email,
		PasswordHash:      passwordHash,
		Role:              req.Role,
		ProfilePicture:    req.ProfilePicture,
		Bio:               req.Bio,
		Location:          req.Location,
		SocialLinks:       req.SocialLinks,
		IsVerified:        false,
		VerificationToken: &verificationToken,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	// Role-conditional fields: only the matching role's set is persisted.
	switch req.Role {
	case RoleStudent:
		account.Skills = req.Skills
		account.StudentInfo = req.StudentInfo
	case RoleRecruiter:
		account.RecruiterInfo = req.RecruiterInfo
	}
	// skills is NOT NULL in the schema; an omitted list is stored as empty.
	if account.Skills == nil {
		account.Skills = []string{}
	}

	if err := s.repo.Insert(ctx, account); err != nil {
		if errors.Is(err, api.ErrConflict) {
			return nil, ErrDuplicateAccount
		}
		l.ErrorContext(ctx, "Failed to persist account", slog.Any("error", err))
		return nil, fmt.Errorf("error creating account: %w", err)
	}

	// Best effort: account creation is decoupled from the email side effect.
	if err := s.notifier.SendVerificationEmail(ctx, account.Email, verificationToken); err != nil {
		l.ErrorContext(ctx, "Failed to send verification email", slog.Any("error", err))
	}

	l.InfoContext(ctx, "Account registered", slog.String("userID", account.ID.String()))
	return account.Summary(), nil
}

func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	l := s.logger.With(slog.String("method", "Login"))

	if email == "" || password == "" {
		return nil, fmt.Errorf("please provide email and password: %w", api.ErrBadRequest)
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			// Same failure as a wrong password so account existence stays hidden.
			return nil, ErrInvalidCredentials
		}
		l.ErrorContext(ctx, "Failed to look up account", slog.Any("error", err))
		return nil, fmt.Errorf("error during login: %w", err)
	}

	// Active check runs before the password check; only the legitimate owner
	// learns the account is deactivated.
	if !account.IsActive {
		return nil, ErrAccountDeactivated
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.repo.UpdateLastLogin(ctx, account.ID, now); err != nil {
		l.ErrorContext(ctx, "Failed to update last login", slog.Any("error", err))
		return nil, fmt.Errorf("error during login: %w", err)
	}
	account.LastLogin = &now

	token, err := s.codec.Issue(account.ID, account.Role)
	if err != nil {
		return nil, fmt.Errorf("error issuing session token: %w", err)
	}

	l.InfoContext(ctx, "Login successful", slog.String("userID", account.ID.String()))
	return &LoginResponse{Token: token, User: account.Summary()}, nil
}

func (s *AuthServiceImpl) Logout(ctx context.Context) error {
	// Stateless sessions: nothing to invalidate, the client discards the token.
	s.logger.DebugContext(ctx, "Logout acknowledged")
	return nil
}

func (s *AuthServiceImpl) VerifyEmail(ctx context.Context, token string) error {
	if token == "" {
		return ErrInvalidToken
	}
	err := s.repo.ConsumeVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, api.ErrNotFound) {
			// Also the path for an already-consumed token; single use is correct.
			return ErrInvalidToken
		}
		return fmt.Errorf("error verifying email: %w", err)
	}
	s.logger.InfoContext(ctx, "Email verified")
	return nil
}

func (s *AuthServiceImpl) ResendVerification(ctx context.Context, email string) error {
	l := s.logger.With(slog.String("method", "ResendVerification"))

	if email == "" {
		return fmt.Errorf("please provide email address: %w", api.ErrBadRequest)
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error finding account: %w", err)
	}
	if account.IsVerified {
		return ErrAlreadyVerified
	}

	// A fresh token replaces whatever was issued before; only one slot exists.
	token, err := s.tokens.Generate()
	if err != nil {
		return fmt.Errorf("error generating verification token: %w", err)
	}
	if err := s.repo.SetVerificationToken(ctx, account.ID, token); err != nil {
		return fmt.Errorf("error storing verification token: %w", err)
	}

	if err := s.notifier.SendVerificationEmail(ctx, account.Email, token); err != nil {
		l.ErrorContext(ctx, "Failed to send verification email", slog.Any("error", err))
		return fmt.Errorf("error sending verification email: %w", err)
	}

	l.InfoContext(ctx, "Verification email re-sent", slog.String("userID", account.ID.String()))
	return nil
}

func (s *AuthServiceImpl) ForgotPassword(ctx context.Context, email string) error {
	l := s.logger.With(slog.String("method", "ForgotPassword"))

	if email == "" {
		return fmt.Errorf("please provide email address: %w", api.ErrBadRequest)
	}

	account, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("error finding account: %w", err)
	}

	token, err := s.tokens.Generate()
	if err != nil {
		return fmt.Errorf("error generating reset token: %w", err)
	}

	expires := time.Now().Add(resetTokenTTL)
	if err := s.repo.SetResetToken(ctx, account.ID, token, expires); err != nil {
		return fmt.Errorf("error storing reset token: %w", err)
	}

	if err := s.notifier.SendPasswordResetEmail(ctx, account.Email, token); err != nil {
		l.ErrorContext(ctx, "Failed to send password reset email", slog.Any("error", err))
		return fmt.Errorf("error sending password reset email: %w", err)
	}

	l.InfoContext(ctx, "Password reset email sent", slog.String("userID", account.ID.String()))
	return nil
}

func (s *AuthServiceImpl) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return fmt.Errorf("please provide reset token and new password: %w", api.ErrBadRequest)
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing new password: %w", err)
	}

	if err := s.repo.ConsumeResetToken(ctx, token, newHash, time.Now()); err != nil {
		if errors.Is(err, api.ErrNotFound) {
			return ErrInvalidOrExpiredToken
		}
		return fmt.Errorf("error resetting password: %w", err)
	}

	s.logger.InfoContext(ctx, "Password reset successful")
	return nil
}

func (s *AuthServiceImpl) ChangePassword(ctx context.Context, accountID uuid.UUID, currentPassword, newPassword string) error {
	l := s.logger.With(slog.String("method", "ChangePassword"), slog.String("userID", accountID.String()))

	if currentPassword == "" || newPassword == "" {
		return fmt.Errorf("please provide current password and new password: %w", api.ErrBadRequest)
	}

	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("error finding account: %w", err)
	}

	if !s.hasher.Verify(currentPassword, account.PasswordHash) {
		return ErrIncorrectPassword
	}

	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("error hashing new password: %w", err)
	}
	if err := s.repo.UpdatePasswordHash(ctx, accountID, newHash); err != nil {
		return fmt.Errorf("error updating password: %w", err)
	}

	l.InfoContext(ctx, "Password changed")
	return nil
}

func (s *AuthServiceImpl) GetCurrentUser(ctx context.Context, accountID uuid.UUID) (*Account, error) {
	account, err := s.repo.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("error fetching account: %w", err)
	}
	return account, nil
}

func (s *AuthServiceImpl) DeactivateAccount(ctx context.Context, accountID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "DeactivateAccount"), slog.String("userID", accountID.String()))

	if err := s.repo.Deactivate(ctx, accountID); err != nil {
		return fmt.Errorf("error deactivating account: %w", err)
	}

	l.InfoContext(ctx, "Account deactivated")
	return nil
}
