package job

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/careerbridge/careerbridge-api/internal/api"
)

// MockJobRepo is a mock implementation of the JobRepo interface
type MockJobRepo struct {
	mock.Mock
}

func (m *MockJobRepo) Insert(ctx context.Context, job *JobPost) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobRepo) GetByID(ctx context.Context, id uuid.UUID) (*JobPost, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*JobPost), args.Error(1)
}

func (m *MockJobRepo) List(ctx context.Context, filter ListJobsFilter) ([]JobPost, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]JobPost), args.Get(1).(int64), args.Error(2)
}

func (m *MockJobRepo) Update(ctx context.Context, id uuid.UUID, params UpdateJobRequest) error {
	args := m.Called(ctx, id, params)
	return args.Error(0)
}

func (m *MockJobRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status JobStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockJobRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func validCreateRequest() CreateJobRequest {
	return CreateJobRequest{
		JobTitle:            "Backend Engineer",
		JobDescription:      "Build APIs",
		JobLocation:         "Lisbon",
		SalaryRange:         "50k-70k",
		CompanyName:         "Acme",
		ApplicationDeadline: time.Now().Add(30 * 24 * time.Hour),
	}
}

func TestCreateJob(t *testing.T) {
	ctx := context.Background()
	recruiterID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		mockRepo.On("Insert", ctx, mock.AnythingOfType("*job.JobPost")).
			Run(func(args mock.Arguments) {
				job := args.Get(1).(*JobPost)
				assert.Equal(t, recruiterID, job.RecruiterID)
				assert.Equal(t, TypeFullTime, job.JobType)
				assert.Equal(t, StatusOpen, job.JobStatus)
				assert.NotNil(t, job.SkillsRequired)
			}).
			Return(nil).Once()

		job, err := service.Create(ctx, recruiterID, validCreateRequest())

		assert.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, job.ID)
		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingRequiredFields", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		req := validCreateRequest()
		req.CompanyName = ""

		_, err := service.Create(ctx, recruiterID, req)

		assert.ErrorIs(t, err, api.ErrBadRequest)
		mockRepo.AssertNotCalled(t, "Insert")
	})

	t.Run("DeadlineInPast", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		req := validCreateRequest()
		req.ApplicationDeadline = time.Now().Add(-time.Hour)

		_, err := service.Create(ctx, recruiterID, req)

		assert.ErrorIs(t, err, ErrDeadlinePassed)
		mockRepo.AssertNotCalled(t, "Insert")
	})
}

func TestListJobs(t *testing.T) {
	ctx := context.Background()

	t.Run("PaginationMath", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		mockRepo.On("List", ctx, mock.AnythingOfType("job.ListJobsFilter")).
			Return([]JobPost{{ID: uuid.New()}}, int64(25), nil).Once()

		listing, err := service.List(ctx, ListJobsFilter{Page: 2, Limit: 10})

		assert.NoError(t, err)
		assert.Equal(t, 2, listing.Pagination.CurrentPage)
		assert.Equal(t, 3, listing.Pagination.TotalPages)
		assert.True(t, listing.Pagination.HasNext)
		assert.True(t, listing.Pagination.HasPrev)
		mockRepo.AssertExpectations(t)
	})

	t.Run("SecondIdenticalListHitsCache", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		mockRepo.On("List", ctx, mock.AnythingOfType("job.ListJobsFilter")).
			Return([]JobPost{}, int64(0), nil).Once()

		_, err := service.List(ctx, ListJobsFilter{})
		assert.NoError(t, err)
		_, err = service.List(ctx, ListJobsFilter{})
		assert.NoError(t, err)

		mockRepo.AssertNumberOfCalls(t, "List", 1)
	})

	t.Run("WritesInvalidateCache", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())
		recruiterID := uuid.New()

		mockRepo.On("List", ctx, mock.AnythingOfType("job.ListJobsFilter")).
			Return([]JobPost{}, int64(0), nil).Twice()
		mockRepo.On("Insert", ctx, mock.AnythingOfType("*job.JobPost")).Return(nil).Once()

		_, err := service.List(ctx, ListJobsFilter{})
		assert.NoError(t, err)

		_, err = service.Create(ctx, recruiterID, validCreateRequest())
		assert.NoError(t, err)

		_, err = service.List(ctx, ListJobsFilter{})
		assert.NoError(t, err)

		mockRepo.AssertNumberOfCalls(t, "List", 2)
	})
}

func TestUpdateJobOwnership(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	intruder := uuid.New()
	jobID := uuid.New()

	t.Run("NonOwnerForbidden", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		mockRepo.On("GetByID", ctx, jobID).
			Return(&JobPost{ID: jobID, RecruiterID: owner}, nil).Once()

		_, err := service.Update(ctx, jobID, intruder, UpdateJobRequest{})

		assert.ErrorIs(t, err, ErrNotJobOwner)
		mockRepo.AssertNotCalled(t, "Update")
	})

	t.Run("OwnerCanUpdate", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		title := "Senior Backend Engineer"
		existing := &JobPost{ID: jobID, RecruiterID: owner}
		mockRepo.On("GetByID", ctx, jobID).Return(existing, nil).Twice()
		mockRepo.On("Update", ctx, jobID, mock.AnythingOfType("job.UpdateJobRequest")).
			Return(nil).Once()

		_, err := service.Update(ctx, jobID, owner, UpdateJobRequest{JobTitle: &title})

		assert.NoError(t, err)
		mockRepo.AssertExpectations(t)
	})

	t.Run("PastDeadlineRejected", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		past := time.Now().Add(-time.Hour)
		mockRepo.On("GetByID", ctx, jobID).
			Return(&JobPost{ID: jobID, RecruiterID: owner}, nil).Once()

		_, err := service.Update(ctx, jobID, owner, UpdateJobRequest{ApplicationDeadline: &past})

		assert.ErrorIs(t, err, ErrDeadlinePassed)
		mockRepo.AssertNotCalled(t, "Update")
	})
}

func TestDeleteJob(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	jobID := uuid.New()

	t.Run("OwnerCanDelete", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		mockRepo.On("GetByID", ctx, jobID).
			Return(&JobPost{ID: jobID, RecruiterID: owner}, nil).Once()
		mockRepo.On("Delete", ctx, jobID).Return(nil).Once()

		assert.NoError(t, service.Delete(ctx, jobID, owner))
		mockRepo.AssertExpectations(t)
	})

	t.Run("MissingJob", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		mockRepo.On("GetByID", ctx, jobID).Return(nil, api.ErrNotFound).Once()

		assert.ErrorIs(t, service.Delete(ctx, jobID, owner), api.ErrNotFound)
	})
}

func TestUpdateJobStatus(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	jobID := uuid.New()

	t.Run("InvalidStatus", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		_, err := service.UpdateStatus(ctx, jobID, owner, "Archived")

		assert.ErrorIs(t, err, api.ErrBadRequest)
		mockRepo.AssertNotCalled(t, "UpdateStatus")
	})

	t.Run("Close", func(t *testing.T) {
		mockRepo := new(MockJobRepo)
		service := NewJobService(mockRepo, slog.Default())

		mockRepo.On("GetByID", ctx, jobID).
			Return(&JobPost{ID: jobID, RecruiterID: owner, JobStatus: StatusOpen}, nil).Once()
		mockRepo.On("UpdateStatus", ctx, jobID, StatusClosed).Return(nil).Once()

		job, err := service.UpdateStatus(ctx, jobID, owner, StatusClosed)

		assert.NoError(t, err)
		assert.Equal(t, StatusClosed, job.JobStatus)
		mockRepo.AssertExpectations(t)
	})
}
