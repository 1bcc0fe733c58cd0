package job

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100

	// listingCacheTTL keeps listing pages hot for a short window; every write
	// flushes the cache so staleness is bounded by write frequency too.
	listingCacheTTL = 30 * time.Second
)

var _ JobService = (*JobServiceImpl)(nil)

// JobService orchestrates job post CRUD and the listing cache.
type JobService interface {
	Create(ctx context.Context, recruiterID uuid.UUID, req CreateJobRequest) (*JobPost, error)
	List(ctx context.Context, filter ListJobsFilter) (*JobListing, error)
	GetByID(ctx context.Context, id uuid.UUID) (*JobPost, error)
	ListByRecruiter(ctx context.Context, recruiterID uuid.UUID, filter ListJobsFilter) (*JobListing, error)

	// Update and Delete are owner-only; a non-owner gets api.ErrForbidden.
	Update(ctx context.Context, id, recruiterID uuid.UUID, req UpdateJobRequest) (*JobPost, error)
	UpdateStatus(ctx context.Context, id, recruiterID uuid.UUID, status JobStatus) (*JobPost, error)
	Delete(ctx context.Context, id, recruiterID uuid.UUID) error
}

type JobServiceImpl struct {
	logger       *slog.Logger
	repo         JobRepo
	listingCache *cache.Cache
}

func NewJobService(repo JobRepo, logger *slog.Logger) *JobServiceImpl {
	return &JobServiceImpl{
		logger:       logger,
		repo:         repo,
		listingCache: cache.New(listingCacheTTL, 2*listingCacheTTL),
	}
}

func normalizeFilter(filter ListJobsFilter) ListJobsFilter {
	if filter.Page < 1 {
		filter.Page = defaultPage
	}
	if filter.Limit < 1 {
		filter.Limit = defaultLimit
	}
	if filter.Limit > maxLimit {
		filter.Limit = maxLimit
	}
	if filter.SortBy == "" {
		filter.SortBy = "createdAt"
	}
	if filter.SortOrder == "" {
		filter.SortOrder = "desc"
	}
	return filter
}

func listingCacheKey(filter ListJobsFilter) string {
	recruiter := ""
	if filter.RecruiterID != nil {
		recruiter = filter.RecruiterID.String()
	}
	return fmt.Sprintf("jobs|%s|%s|%s|%s|%s|%d|%d|%s|%s",
		filter.JobType, filter.JobLocation, filter.JobStatus, filter.Search, recruiter,
		filter.Page, filter.Limit, filter.SortBy, filter.SortOrder)
}

func (s *JobServiceImpl) Create(ctx context.Context, recruiterID uuid.UUID, req CreateJobRequest) (*JobPost, error) {
	l := s.logger.With(slog.String("method", "Create"), slog.String("recruiterID", recruiterID.String()))

	if req.JobTitle == "" || req.JobDescription == "" || req.JobLocation == "" ||
		req.SalaryRange == "" || req.CompanyName == "" || req.ApplicationDeadline.IsZero() {
		return nil, ErrInvalidJobInput
	}
	if !req.ApplicationDeadline.After(time.Now()) {
		return nil, ErrDeadlinePassed
	}

	if req.JobType == "" {
		req.JobType = TypeFullTime
	}
	if !req.JobType.Valid() {
		return nil, ErrInvalidJobInput
	}
	if req.JobStatus == "" {
		req.JobStatus = StatusOpen
	}
	if !req.JobStatus.Valid() {
		return nil, ErrInvalidJobInput
	}

	skills := req.SkillsRequired
	if skills == nil {
		skills = []string{}
	}

	now := time.Now()
	job := &JobPost{
		ID:                  uuid.New(),
		RecruiterID:         recruiterID,
		JobTitle:            req.JobTitle,
		JobDescription:      req.JobDescription,
		JobLocation:         req.JobLocation,
		JobType:             req.JobType,
		SalaryRange:         req.SalaryRange,
		CompanyName:         req.CompanyName,
		CompanyDescription:  req.CompanyDescription,
		CompanyWebsite:      req.CompanyWebsite,
		SkillsRequired:      skills,
		ApplicationDeadline: req.ApplicationDeadline,
		JobStatus:           req.JobStatus,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.Insert(ctx, job); err != nil {
		l.ErrorContext(ctx, "Failed to create job post", slog.Any("error", err))
		return nil, fmt.Errorf("error creating job post: %w", err)
	}
	s.listingCache.Flush()

	l.InfoContext(ctx, "Job post created", slog.String("jobID", job.ID.String()))
	return job, nil
}

func (s *JobServiceImpl) List(ctx context.Context, filter ListJobsFilter) (*JobListing, error) {
	filter = normalizeFilter(filter)
	key := listingCacheKey(filter)

	if cached, found := s.listingCache.Get(key); found {
		s.logger.DebugContext(ctx, "Job listing cache hit", slog.String("key", key))
		return cached.(*JobListing), nil
	}

	jobs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing job posts: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	listing := &JobListing{
		Jobs: jobs,
		Pagination: Pagination{
			CurrentPage: filter.Page,
			TotalPages:  totalPages,
			TotalJobs:   total,
			HasNext:     filter.Page < totalPages,
			HasPrev:     filter.Page > 1,
		},
	}

	s.listingCache.Set(key, listing, cache.DefaultExpiration)
	return listing, nil
}

func (s *JobServiceImpl) ListByRecruiter(ctx context.Context, recruiterID uuid.UUID, filter ListJobsFilter) (*JobListing, error) {
	filter.RecruiterID = &recruiterID
	return s.List(ctx, filter)
}

func (s *JobServiceImpl) GetByID(ctx context.Context, id uuid.UUID) (*JobPost, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching job post: %w", err)
	}
	return job, nil
}

// requireOwnership loads the job and rejects callers that don't own it.
func (s *JobServiceImpl) requireOwnership(ctx context.Context, id, recruiterID uuid.UUID) (*JobPost, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching job post: %w", err)
	}
	if job.RecruiterID != recruiterID {
		return nil, ErrNotJobOwner
	}
	return job, nil
}

func (s *JobServiceImpl) Update(ctx context.Context, id, recruiterID uuid.UUID, req UpdateJobRequest) (*JobPost, error) {
	l := s.logger.With(slog.String("method", "Update"), slog.String("jobID", id.String()))

	if _, err := s.requireOwnership(ctx, id, recruiterID); err != nil {
		return nil, err
	}

	if req.ApplicationDeadline != nil && !req.ApplicationDeadline.After(time.Now()) {
		return nil, ErrDeadlinePassed
	}
	if req.JobType != nil && !req.JobType.Valid() {
		return nil, ErrInvalidJobInput
	}
	if req.JobStatus != nil && !req.JobStatus.Valid() {
		return nil, ErrInvalidJobInput
	}

	if err := s.repo.Update(ctx, id, req); err != nil {
		l.ErrorContext(ctx, "Failed to update job post", slog.Any("error", err))
		return nil, fmt.Errorf("error updating job post: %w", err)
	}
	s.listingCache.Flush()

	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("error fetching updated job post: %w", err)
	}

	l.InfoContext(ctx, "Job post updated")
	return job, nil
}

func (s *JobServiceImpl) UpdateStatus(ctx context.Context, id, recruiterID uuid.UUID, status JobStatus) (*JobPost, error) {
	l := s.logger.With(slog.String("method", "UpdateStatus"), slog.String("jobID", id.String()))

	if !status.Valid() {
		return nil, fmt.Errorf("invalid job status %q: %w", status, ErrInvalidJobInput)
	}
	job, err := s.requireOwnership(ctx, id, recruiterID)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		l.ErrorContext(ctx, "Failed to update job status", slog.Any("error", err))
		return nil, fmt.Errorf("error updating job status: %w", err)
	}
	s.listingCache.Flush()

	job.JobStatus = status
	l.InfoContext(ctx, "Job status updated", slog.String("status", string(status)))
	return job, nil
}

func (s *JobServiceImpl) Delete(ctx context.Context, id, recruiterID uuid.UUID) error {
	l := s.logger.With(slog.String("method", "Delete"), slog.String("jobID", id.String()))

	if _, err := s.requireOwnership(ctx, id, recruiterID); err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		l.ErrorContext(ctx, "Failed to delete job post", slog.Any("error", err))
		return fmt.Errorf("error deleting job post: %w", err)
	}
	s.listingCache.Flush()

	l.InfoContext(ctx, "Job post deleted")
	return nil
}
