package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/careerbridge/careerbridge-api/internal/api"
	"github.com/careerbridge/careerbridge-api/internal/api/auth"
)

var _ ProfileRepo = (*PostgresProfileRepo)(nil)

// ProfileRepo defines the contract for profile reads and partial updates.
type ProfileRepo interface {
	GetByID(ctx context.Context, userID uuid.UUID) (*auth.Account, error)

	// UsernameTakenByOther / EmailTakenByOther report whether another account
	// already holds the value; the caller's own row never counts.
	UsernameTakenByOther(ctx context.Context, userID uuid.UUID, username string) (bool, error)
	EmailTakenByOther(ctx context.Context, userID uuid.UUID, email string) (bool, error)

	// UpdateProfile applies a dynamic partial update; nil fields in params stay
	// untouched. Returns api.ErrNotFound when the account doesn't exist.
	UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) error
}

type PostgresProfileRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresProfileRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresProfileRepo {
	return &PostgresProfileRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const profileColumns = `id, username, fullname, email, password_hash, role,
	profile_picture, bio, location, skills, social_links, student_info, recruiter_info,
	is_verified, verification_token, reset_password_token, reset_password_expires,
	is_active, last_login, created_at, updated_at`

func (r *PostgresProfileRepo) GetByID(ctx context.Context, userID uuid.UUID) (*auth.Account, error) {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "users"),
	))
	defer span.End()

	query := fmt.Sprintf("SELECT %s FROM users WHERE id = $1", profileColumns)
	var a auth.Account
	err := r.pgpool.QueryRow(ctx, query, userID).Scan(
		&a.ID, &a.Username, &a.Fullname, &a.Email, &a.PasswordHash, &a.Role,
		&a.ProfilePicture, &a.Bio, &a.Location, &a.Skills, &a.SocialLinks,
		&a.StudentInfo, &a.RecruiterInfo,
		&a.IsVerified, &a.VerificationToken, &a.ResetPasswordToken, &a.ResetPasswordExpires,
		&a.IsActive, &a.LastLogin, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			span.SetStatus(codes.Error, "User not found")
			return nil, fmt.Errorf("user not found: %w", api.ErrNotFound)
		}
		span.RecordError(err)
		return nil, fmt.Errorf("database error fetching profile: %w", err)
	}
	span.SetStatus(codes.Ok, "Profile fetched")
	return &a, nil
}

func (r *PostgresProfileRepo) UsernameTakenByOther(ctx context.Context, userID uuid.UUID, username string) (bool, error) {
	var taken bool
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE username = $1 AND id <> $2)`,
		username, userID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("database error checking username: %w", err)
	}
	return taken, nil
}

func (r *PostgresProfileRepo) EmailTakenByOther(ctx context.Context, userID uuid.UUID, email string) (bool, error) {
	var taken bool
	err := r.pgpool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE email = $1 AND id <> $2)`,
		email, userID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("database error checking email: %w", err)
	}
	return taken, nil
}

func (r *PostgresProfileRepo) UpdateProfile(ctx context.Context, userID uuid.UUID, params UpdateProfileParams) error {
	ctx, span := otel.Tracer("ProfileRepo").Start(ctx, "UpdateProfile", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "users"),
		attribute.String("db.user.id", userID.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "UpdateProfile"), slog.String("userID", userID.String()))

	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
		span.SetAttributes(attribute.Bool("update."+column, true))
	}

	if params.Username != nil {
		addClause("username", *params.Username)
	}
	if params.Email != nil {
		addClause("email", *params.Email)
	}
	if params.Fullname != nil {
		addClause("fullname", *params.Fullname)
	}
	if params.ProfilePicture != nil {
		addClause("profile_picture", *params.ProfilePicture)
	}
	if params.Bio != nil {
		addClause("bio", *params.Bio)
	}
	if params.Location != nil {
		addClause("location", *params.Location)
	}
	if params.Skills != nil {
		addClause("skills", params.Skills)
	}
	if params.SocialLinks != nil {
		addClause("social_links", params.SocialLinks)
	}
	if params.StudentInfo != nil {
		addClause("student_info", params.StudentInfo)
	}
	if params.RecruiterInfo != nil {
		addClause("recruiter_info", params.RecruiterInfo)
	}

	if len(setClauses) == 0 {
		l.WarnContext(ctx, "UpdateProfile called with no fields to update")
		span.SetStatus(codes.Ok, "No update fields provided")
		return nil
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	args = append(args, userID)
	query := fmt.Sprintf("UPDATE users SET %s WHERE id = $%d AND is_active = TRUE",
		strings.Join(setClauses, ", "), argID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to execute update profile query", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating profile: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "User not found or inactive")
		return fmt.Errorf("user not found for update: %w", api.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Profile updated")
	return nil
}
