package job

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-api/internal/api"
	"github.com/careerbridge/careerbridge-api/internal/api/auth"
)

type JobHandler struct {
	jobService JobService
	logger     *slog.Logger
}

func NewJobHandler(jobService JobService, logger *slog.Logger) *JobHandler {
	return &JobHandler{
		jobService: jobService,
		logger:     logger,
	}
}

func (h *JobHandler) respondError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	switch {
	case errors.Is(err, api.ErrBadRequest):
		api.ErrorResponse(w, r, http.StatusBadRequest, trimWrap(err))
	case errors.Is(err, api.ErrForbidden):
		api.ErrorResponse(w, r, http.StatusForbidden, "You are not authorized to modify this job post")
	case errors.Is(err, api.ErrNotFound):
		api.ErrorResponse(w, r, http.StatusNotFound, "Job post not found")
	default:
		h.logger.ErrorContext(r.Context(), fallback, slog.Any("error", err))
		api.ErrorResponse(w, r, http.StatusInternalServerError, fallback)
	}
}

// trimWrap surfaces the leading human-readable part of a wrapped error.
func trimWrap(err error) string {
	msg, _, found := strings.Cut(err.Error(), ":")
	if found {
		return msg
	}
	return err.Error()
}

// Create godoc
// @Summary      Create a job post
// @Security     BearerAuth
// @Router       /jobs [post]
func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	recruiterID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req CreateJobRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobService.Create(ctx, recruiterID, req)
	if err != nil {
		h.respondError(w, r, err, "Server error while creating job post")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusCreated, api.Response{
		Success: true,
		Message: "Job post created successfully",
		Data:    job,
	})
}

// List godoc
// @Summary      List job posts
// @Router       /jobs [get]
func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := filterFromQuery(r)

	listing, err := h.jobService.List(r.Context(), filter)
	if err != nil {
		h.respondError(w, r, err, "Server error while fetching jobs")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Data:    listing,
	})
}

// ListMine godoc
// @Summary      List the caller's own job posts
// @Security     BearerAuth
// @Router       /jobs/mine [get]
func (h *JobHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	recruiterID, ok := callerID(w, r)
	if !ok {
		return
	}

	listing, err := h.jobService.ListByRecruiter(r.Context(), recruiterID, filterFromQuery(r))
	if err != nil {
		h.respondError(w, r, err, "Server error while fetching recruiter jobs")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Data:    listing,
	})
}

// Get godoc
// @Summary      Get a job post
// @Router       /jobs/{id} [get]
func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := jobIDParam(w, r)
	if !ok {
		return
	}

	job, err := h.jobService.GetByID(r.Context(), id)
	if err != nil {
		h.respondError(w, r, err, "Server error while fetching job")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Data:    job,
	})
}

// Update godoc
// @Summary      Update a job post
// @Security     BearerAuth
// @Router       /jobs/{id} [put]
func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := jobIDParam(w, r)
	if !ok {
		return
	}
	recruiterID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req UpdateJobRequest
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobService.Update(r.Context(), id, recruiterID, req)
	if err != nil {
		h.respondError(w, r, err, "Server error while updating job")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Job post updated successfully",
		Data:    job,
	})
}

// UpdateStatus godoc
// @Summary      Update a job post's status
// @Security     BearerAuth
// @Router       /jobs/{id}/status [patch]
func (h *JobHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := jobIDParam(w, r)
	if !ok {
		return
	}
	recruiterID, ok := callerID(w, r)
	if !ok {
		return
	}

	var req struct {
		JobStatus JobStatus `json:"jobStatus"`
	}
	if err := api.DecodeJSONBody(w, r, &req); err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, err.Error())
		return
	}

	job, err := h.jobService.UpdateStatus(r.Context(), id, recruiterID, req.JobStatus)
	if err != nil {
		h.respondError(w, r, err, "Server error while updating job status")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Job status updated successfully",
		Data:    job,
	})
}

// Delete godoc
// @Summary      Delete a job post
// @Security     BearerAuth
// @Router       /jobs/{id} [delete]
func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := jobIDParam(w, r)
	if !ok {
		return
	}
	recruiterID, ok := callerID(w, r)
	if !ok {
		return
	}

	if err := h.jobService.Delete(r.Context(), id, recruiterID); err != nil {
		h.respondError(w, r, err, "Server error while deleting job")
		return
	}

	api.WriteJSONResponse(w, r, http.StatusOK, api.Response{
		Success: true,
		Message: "Job post deleted successfully",
	})
}

func filterFromQuery(r *http.Request) ListJobsFilter {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	return ListJobsFilter{
		JobType:     JobType(q.Get("jobType")),
		JobLocation: q.Get("jobLocation"),
		JobStatus:   JobStatus(q.Get("jobStatus")),
		Search:      q.Get("search"),
		Page:        page,
		Limit:       limit,
		SortBy:      q.Get("sortBy"),
		SortOrder:   q.Get("sortOrder"),
	}
}

func jobIDParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid job ID")
		return uuid.Nil, false
	}
	return id, true
}

func callerID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	idStr, ok := auth.GetUserIDFromContext(r.Context())
	if !ok || idStr == "" {
		api.ErrorResponse(w, r, http.StatusUnauthorized, "Authentication required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		api.ErrorResponse(w, r, http.StatusBadRequest, "Invalid user ID format")
		return uuid.Nil, false
	}
	return id, true
}
