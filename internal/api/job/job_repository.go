package job

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

var _ JobRepo = (*PostgresJobRepo)(nil)

// JobRepo defines the contract for job post persistence.
type JobRepo interface {
	Insert(ctx context.Context, job *JobPost) error
	GetByID(ctx context.Context, id uuid.UUID) (*JobPost, error)
	List(ctx context.Context, filter ListJobsFilter) ([]JobPost, int64, error)

	// Update applies a partial update; nil fields in params stay untouched.
	// Returns api.ErrNotFound when the job doesn't exist.
	Update(ctx context.Context, id uuid.UUID, params UpdateJobRequest) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status JobStatus) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type PostgresJobRepo struct {
	logger *slog.Logger
	pgpool *pgxpool.Pool
}

func NewPostgresJobRepo(pgpool *pgxpool.Pool, logger *slog.Logger) *PostgresJobRepo {
	return &PostgresJobRepo{
		logger: logger,
		pgpool: pgpool,
	}
}

const jobColumns = `j.id, j.recruiter_id, j.job_title, j.job_description, j.job_location,
	j.job_type, j.salary_range, j.company_name, j.company_description, j.company_website,
	j.skills_required, j.application_deadline, j.job_status, j.total_applications,
	j.created_at, j.updated_at,
	u.id, u.username, u.fullname, u.email, u.profile_picture`

func scanJob(row pgx.Row) (*JobPost, error) {
	var j JobPost
	var rec RecruiterSummary
	err := row.Scan(
		&j.ID, &j.RecruiterID, &j.JobTitle, &j.JobDescription, &j.JobLocation,
		&j.JobType, &j.SalaryRange, &j.CompanyName, &j.CompanyDescription, &j.CompanyWebsite,
		&j.SkillsRequired, &j.ApplicationDeadline, &j.JobStatus, &j.TotalApplications,
		&j.CreatedAt, &j.UpdatedAt,
		&rec.ID, &rec.Username, &rec.Fullname, &rec.Email, &rec.ProfilePicture,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("job post not found: %w", api.ErrNotFound)
		}
		return nil, fmt.Errorf("database error scanning job post: %w", err)
	}
	j.Recruiter = &rec
	return &j, nil
}

func (r *PostgresJobRepo) Insert(ctx context.Context, job *JobPost) error {
	ctx, span := otel.Tracer("JobRepo").Start(ctx, "Insert", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "job_posts"),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Insert"), slog.String("jobID", job.ID.String()))

	query := `
		INSERT INTO job_posts (id, recruiter_id, job_title, job_description, job_location,
			job_type, salary_range, company_name, company_description, company_website,
			skills_required, application_deadline, job_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`

	_, err := r.pgpool.Exec(ctx, query,
		job.ID, job.RecruiterID, job.JobTitle, job.JobDescription, job.JobLocation,
		job.JobType, job.SalaryRange, job.CompanyName, job.CompanyDescription, job.CompanyWebsite,
		job.SkillsRequired, job.ApplicationDeadline, job.JobStatus, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		l.ErrorContext(ctx, "Failed to insert job post", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB INSERT failed")
		return fmt.Errorf("database error inserting job post: %w", err)
	}
	span.SetStatus(codes.Ok, "Job post inserted")
	return nil
}

func (r *PostgresJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*JobPost, error) {
	ctx, span := otel.Tracer("JobRepo").Start(ctx, "GetByID", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "job_posts"),
	))
	defer span.End()

	query := fmt.Sprintf(`SELECT %s FROM job_posts j JOIN users u ON u.id = j.recruiter_id WHERE j.id = $1`, jobColumns)
	job, err := scanJob(r.pgpool.QueryRow(ctx, query, id))
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetStatus(codes.Ok, "Job post fetched")
	return job, nil
}

// sortColumns whitelists the columns a client may sort by; anything else
// falls back to created_at.
var sortColumns = map[string]string{
	"createdAt":           "j.created_at",
	"applicationDeadline": "j.application_deadline",
	"jobTitle":            "j.job_title",
	"companyName":         "j.company_name",
}

func (r *PostgresJobRepo) List(ctx context.Context, filter ListJobsFilter) ([]JobPost, int64, error) {
	ctx, span := otel.Tracer("JobRepo").Start(ctx, "List", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "job_posts"),
		attribute.Int("list.page", filter.Page),
		attribute.Int("list.limit", filter.Limit),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "List"))

	var whereClauses []string
	var args []interface{}
	argID := 1

	if filter.JobType != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("j.job_type = $%d", argID))
		args = append(args, filter.JobType)
		argID++
	}
	if filter.JobLocation != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("j.job_location ILIKE $%d", argID))
		args = append(args, "%"+filter.JobLocation+"%")
		argID++
	}
	if filter.JobStatus != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("j.job_status = $%d", argID))
		args = append(args, filter.JobStatus)
		argID++
	}
	if filter.RecruiterID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("j.recruiter_id = $%d", argID))
		args = append(args, *filter.RecruiterID)
		argID++
	}
	if filter.Search != "" {
		whereClauses = append(whereClauses, fmt.Sprintf(
			`(j.job_title ILIKE $%d OR j.job_description ILIKE $%d OR j.company_name ILIKE $%d
			  OR EXISTS (SELECT 1 FROM unnest(j.skills_required) skill WHERE skill ILIKE $%d))`,
			argID, argID, argID, argID))
		args = append(args, "%"+filter.Search+"%")
		argID++
	}

	where := ""
	if len(whereClauses) > 0 {
		where = "WHERE " + strings.Join(whereClauses, " AND ")
	}

	countQuery := fmt.Sprintf("SELECT count(*) FROM job_posts j %s", where)
	var total int64
	if err := r.pgpool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		l.ErrorContext(ctx, "Failed to count job posts", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB COUNT failed")
		return nil, 0, fmt.Errorf("database error counting job posts: %w", err)
	}

	sortColumn, ok := sortColumns[filter.SortBy]
	if !ok {
		sortColumn = "j.created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.SortOrder, "asc") {
		direction = "ASC"
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(
		`SELECT %s FROM job_posts j JOIN users u ON u.id = j.recruiter_id
		 %s ORDER BY %s %s LIMIT $%d OFFSET $%d`,
		jobColumns, where, sortColumn, direction, argID, argID+1)
	args = append(args, filter.Limit, offset)

	rows, err := r.pgpool.Query(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to list job posts", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB SELECT failed")
		return nil, 0, fmt.Errorf("database error listing job posts: %w", err)
	}
	defer rows.Close()

	var jobs []JobPost
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			span.RecordError(err)
			return nil, 0, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		span.RecordError(err)
		return nil, 0, fmt.Errorf("database error iterating job posts: %w", err)
	}

	span.SetStatus(codes.Ok, "Job posts listed")
	return jobs, total, nil
}

func (r *PostgresJobRepo) Update(ctx context.Context, id uuid.UUID, params UpdateJobRequest) error {
	ctx, span := otel.Tracer("JobRepo").Start(ctx, "Update", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "job_posts"),
		attribute.String("db.job.id", id.String()),
	))
	defer span.End()

	l := r.logger.With(slog.String("method", "Update"), slog.String("jobID", id.String()))

	var setClauses []string
	var args []interface{}
	argID := 1

	addClause := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
		span.SetAttributes(attribute.Bool("update."+column, true))
	}

	if params.JobTitle != nil {
		addClause("job_title", *params.JobTitle)
	}
	if params.JobDescription != nil {
		addClause("job_description", *params.JobDescription)
	}
	if params.JobLocation != nil {
		addClause("job_location", *params.JobLocation)
	}
	if params.JobType != nil {
		addClause("job_type", *params.JobType)
	}
	if params.SalaryRange != nil {
		addClause("salary_range", *params.SalaryRange)
	}
	if params.CompanyName != nil {
		addClause("company_name", *params.CompanyName)
	}
	if params.CompanyDescription != nil {
		addClause("company_description", *params.CompanyDescription)
	}
	if params.CompanyWebsite != nil {
		addClause("company_website", *params.CompanyWebsite)
	}
	if params.SkillsRequired != nil {
		addClause("skills_required", params.SkillsRequired)
	}
	if params.ApplicationDeadline != nil {
		addClause("application_deadline", *params.ApplicationDeadline)
	}
	if params.JobStatus != nil {
		addClause("job_status", *params.JobStatus)
	}

	if len(setClauses) == 0 {
		l.WarnContext(ctx, "Update called with no fields to update")
		span.SetStatus(codes.Ok, "No update fields provided")
		return nil
	}

	setClauses = append(setClauses, fmt.Sprintf("updated_at = $%d", argID))
	args = append(args, time.Now())
	argID++

	args = append(args, id)
	query := fmt.Sprintf("UPDATE job_posts SET %s WHERE id = $%d",
		strings.Join(setClauses, ", "), argID)

	tag, err := r.pgpool.Exec(ctx, query, args...)
	if err != nil {
		l.ErrorContext(ctx, "Failed to update job post", slog.Any("error", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating job post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Job post not found")
		return fmt.Errorf("job post not found: %w", api.ErrNotFound)
	}

	span.SetStatus(codes.Ok, "Job post updated")
	return nil
}

func (r *PostgresJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status JobStatus) error {
	ctx, span := otel.Tracer("JobRepo").Start(ctx, "UpdateStatus", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "UPDATE"),
		attribute.String("db.sql.table", "job_posts"),
		attribute.String("job.status", string(status)),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx,
		`UPDATE job_posts SET job_status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now(), id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB UPDATE failed")
		return fmt.Errorf("database error updating job status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Job post not found")
		return fmt.Errorf("job post not found: %w", api.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "Job status updated")
	return nil
}

func (r *PostgresJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := otel.Tracer("JobRepo").Start(ctx, "Delete", trace.WithAttributes(
		semconv.DBSystemPostgreSQL,
		attribute.String("db.operation", "DELETE"),
		attribute.String("db.sql.table", "job_posts"),
	))
	defer span.End()

	tag, err := r.pgpool.Exec(ctx, `DELETE FROM job_posts WHERE id = $1`, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "DB DELETE failed")
		return fmt.Errorf("database error deleting job post: %w", err)
	}
	if tag.RowsAffected() == 0 {
		span.SetStatus(codes.Error, "Job post not found")
		return fmt.Errorf("job post not found: %w", api.ErrNotFound)
	}
	span.SetStatus(codes.Ok, "Job post deleted")
	return nil
}
