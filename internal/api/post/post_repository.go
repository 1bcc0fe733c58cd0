package post

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
)

var _ PostRepo = (*PostgresPostRepo)(nil)

// PostRepo defines the contract for social post persistence.
type PostRepo interface {
	Insert(ctx context.Context, post *Post) error
	GetByID(ctx context.Context, id uuid.UUID) (*Post, error)

	// List returns posts newest first, optionally narrowed to one author.
	List(ctx context.Context, authorID *uuid.UUID) ([]Post, error)
	Update(ctx context.Context, id uuid.UUID, params UpdatePostRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresPostRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresPostRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresPostRepo {
	return &PostgresPostRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const postColumns = `p.id, p.user_id, p.content, p.images, p.visibility, p.created_at, p.updated_at,
	u.id, u.username, u.fullname, u.profile_picture`

func scanPost(row pgx.Row) (*Post, error) {
	var p Post
	var author AuthorSummary
	err := row.Scan(
		&p.ID, &p.UserID, &p.Content, &p.Images, &p.Visibility, &p.CreatedAt, &p.UpdatedAt,
		&author.ID, &author.Username, &author.Fullname, &author.ProfilePicture,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("post not found: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("database error scanning post: %w", err)
	}
	p.Author = &author
	return &p, nil
}

func (r *PostgresPostRepo) Insert(ctx context.Context, post *Post) error {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "Insert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	_, err := r.pgpool.Exec(ctx,
		`INSERT INTO posts (id, user_id, content, images, visibility, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		post.ID, post.UserID, post.Content, post.Images, post.Visibility,
		post.CreatedAt, post.UpdatedAt)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to insert post", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("database error inserting post: %w", err)
	}
	span.SetStatus(codes.Ok, "Post inserted")
	return nil
}

func (r *PostgresPostRepo) GetByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM posts p JOIN users u ON u.id = p.user_id WHERE p.id = $1`, postColumns)
	post, err := scanPost(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Post fetched")
	return post, nil
}

func (r *PostgresPostRepo) List(ctx context.Context, authorID *uuid.UUID) ([]Post, error) {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM posts p JOIN users u ON u.id = p.user_id`, postColumns)
	var args []interface{}
	if authorID != nil {
		query += " WHERE p.user_id = $1"
		args = append(args, *authorID)
		span.SetAttributes(attribute.String("post.author_id", authorID.String()))
	}
	query += " ORDER BY p.created_at DESC"

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		r.logger.ErrorContext(ctx, "Failed to list posts", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, fmt.Errorf("database error listing posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("database error iterating posts: %w", err)
	}

	span.SetStatus(codes.Ok, "Posts listed")
	return posts, nil
}

func (r *PostgresPostRepo) Update(ctx context.Context, id uuid.UUID, params UpdatePostRequest) error {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	var setClauses []string
	var args []interface{}
	argID := 1

	if params.Content != nil {
		setClauses = append(setClauses, fmt.Sprintf("content = $%d", argID))
		args = append(args, *params.Content)
		argID++
	}
	if params.Images != nil {
		setClauses = append(setClauses, fmt.Sprintf("images = $%d", argID))
		args = append(args, params.Images)
		argID++
	}
	if params.Visibility != nil {
		setClauses = append(setClauses, fmt.Sprintf("visibility = $%d", argID))
		args = append(args, *params.Visibility)
		argID++
	}

	if len(setClauses) == 0 {
		span.SetStatus(codes.Ok, "No update fields provided")
		return nil
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++
	args = append(args, id)

	query := fmt.Sprintf("UPDATE posts SET %s WHERE id = $%d", strings.Join(setClauses, ", "), argID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Post not found")
		return fmt.Errorf("post not found: %w", api.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "Post updated")
	return nil
}

func (r *PostgresPostRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("PostRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "posts"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Post not found")
		return fmt.Errorf("post not found: %w", api.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "Post deleted")
	return nil
}
