package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/careerbridge/careerbridge-api/internal/api"
)

var _ AuthRepo = (*PostgresAuthRepo)(nil)

// AuthRepo is the keyed credential store. Token-consuming writes are single
// conditional UPDATE statements so concurrent callers can never observe a
// half-written token/expiry pair.
type AuthRepo interface {
	// Insert persists a new account. Returns api.ErrConflict when the email or
	// username is already taken.
	Insert(ctx context.Context, account *Account) error

	// FindByEmailOrUsername matches either field; used for the duplicate
	// pre-check at registration.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*Account, error)
	FindByEmail(ctx context.Context, email string) (*Account, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Account, error)

	// ConsumeVerificationToken marks the holder verified and clears the token
	// in one statement. Returns api.ErrNotFound when no account holds it.
	ConsumeVerificationToken(ctx context.Context, token string) error
	SetVerificationToken(ctx context.Context, id uuid.UUID, token string) error

	// SetResetToken writes the token and its expiry as a pair.
	SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error

	// ConsumeResetToken rotates the password hash and clears the token pair,
	// conditional on the token matching and not being expired at `now`.
	// Returns api.ErrNotFound when the condition doesn't hold.
	ConsumeResetToken(ctx context.Context, token, newPasswordHash string, now time.Time) error

	UpdateLastLogin(ctx context.Context, id uuid.UUID, when time.Time) error
	UpdatePasswordHash(ctx context.Context, id uuid.UUID, newHash string) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

// PGXQuerier is the subset of pgxpool.Pool the repository needs. pgxmock
// satisfies it in tests.
type PGXQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type PostgresAuthRepo struct {
	logger *slog.Logger
	db     PGXQuerier
}

func NewPostgresAuthRepo(db PGXQuerier, logger *slog.Logger) *PostgresAuthRepo {
	return &PostgresAuthRepo{
		logger: logger,
		db:     db,
	}
}

const accountColumns = `id, username, fullname, email, password_hash, role,
	profile_picture, bio, location, skills, social_links, student_info, recruiter_info,
	is_verified, verification_token, reset_password_token, reset_password_expires,
	is_active, last_login, created_at, updated_at`

func scanAccount(row pgx.Row) (*Account, error) {
	var a Account
	err := row.Scan(
		&a.ID, &a.Username, &a.Fullname, &a.Email, &a.PasswordHash, &a.Role,
		&a.ProfilePicture, &a.Bio, &a.Location, &a.Skills, &a.SocialLinks,
		&a.StudentInfo, &a.RecruiterInfo,
		&a.IsVerified, &a.VerificationToken, &a.ResetPasswordToken, &a.ResetPasswordExpires,
		&a.IsActive, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("account not found: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("database error scanning account: %w", err)
	}
	return &a, nil
}

func (r *PostgresAuthRepo) Insert(ctx context.Context, account *Account) error {
	l := r.logger.With(slog.String("method", "Insert"), slog.String("username", account.Username))

	query := `
		INSERT INTO users (id, username, fullname, email, password_hash, role,
			profile_picture, bio, location, skills, social_links, student_info, recruiter_info,
			is_verified, verification_token, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := r.db.Exec(ctx, query,
		account.ID, account.Username, account.Fullname, account.Email, account.PasswordHash, account.Role,
		account.ProfilePicture, account.Bio, account.Location, account.Skills,
		account.SocialLinks, account.StudentInfo, account.RecruiterInfo,
		account.IsVerified, account.VerificationToken, account.IsActive,
		account.CreatedAt, account.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("email or username already taken: %w", api.ErrConflict)
		}
		l.ErrorContext(ctx, "Failed to insert account", slog.Any("error", err))
		return fmt.Errorf("database error inserting account: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) FindByEmailOrUsername(ctx context.Context, email, username string) (*Account, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1 OR username = $2", accountColumns)
	return scanAccount(r.db.QueryRow(ctx, query, email, username))
}

func (r *PostgresAuthRepo) FindByEmail(ctx context.Context, email string) (*Account, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE email = $1", accountColumns)
	return scanAccount(r.db.QueryRow(ctx, query, email))
}

func (r *PostgresAuthRepo) FindByID(ctx context.Context, id uuid.UUID) (*Account, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", accountColumns)
	return scanAccount(r.db.QueryRow(ctx, query, id))
}

// ConsumeVerificationToken flips is_verified and clears the token in the same
// statement, so a token can be consumed exactly once.
func (r *PostgresAuthRepo) ConsumeVerificationToken(ctx context.Context, token string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET is_verified = TRUE, verification_token = NULL, updated_at = $1
		 WHERE verification_token = $2`,
		time.Now(), token)
	if err != nil {
		return fmt.Errorf("database error consuming verification token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no account holds this verification token: %w", api.ErrNotFound)
	}
	return nil
}

func (r *PostgresAuthRepo) SetVerificationToken(ctx context.Context, id uuid.UUID, token string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET verification_token = $1, updated_at = $2 WHERE id = $3`,
		token, time.Now(), id)
	if err != nil {
		return fmt.Errorf("database error storing verification token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %w", api.ErrNotFound)
	}
	return nil
}

// SetResetToken writes the token and expiry as a single atomic pair. A prior
// still-valid token is overwritten; only one reset slot exists per account.
func (r *PostgresAuthRepo) SetResetToken(ctx context.Context, id uuid.UUID, token string, expires time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET reset_password_token = $1, reset_password_expires = $2, updated_at = $3
		 WHERE id = $4`,
		token, expires, time.Now(), id)
	if err != nil {
		return fmt.Errorf("database error storing reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %w", api.ErrNotFound)
	}
	return nil
}

// ConsumeResetToken is the find-and-update primitive: match, expiry check,
// hash rotation and token clearing happen in one statement.
func (r *PostgresAuthRepo) ConsumeResetToken(ctx context.Context, token, newPasswordHash string, now time.Time) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users
		 SET password_hash = $1, reset_password_token = NULL, reset_password_expires = NULL, updated_at = $2
		 WHERE reset_password_token = $3 AND reset_password_expires > $4`,
		newPasswordHash, now, token, now)
	if err != nil {
		return fmt.Errorf("database error consuming reset token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("no account holds a valid reset token: %w", api.ErrNotFound)
	}
	return nil
}

func (r *PostgresAuthRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID, when time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET last_login = $1, updated_at = $1 WHERE id = $2`,
		when, id)
	if err != nil {
		return fmt.Errorf("database error updating last login: %w", err)
	}
	return nil
}

func (r *PostgresAuthRepo) UpdatePasswordHash(ctx context.Context, id uuid.UUID, newHash string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		newHash, time.Now(), id)
	if err != nil {
		return fmt.Errorf("database error updating password: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %w", api.ErrNotFound)
	}
	return nil
}

func (r *PostgresAuthRepo) Deactivate(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE users SET is_active = FALSE, updated_at = $1 WHERE id = $2`,
		time.Now(), id)
	if err != nil {
		return fmt.Errorf("database error deactivating account: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("account not found: %w", api.ErrNotFound)
	}
	return nil
}
