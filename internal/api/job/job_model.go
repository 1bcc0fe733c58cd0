package job

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/careerbridge/careerbridge-api/internal/api"
)

// JobType is the closed set of employment arrangements.
type JobType string

const (
	TypeFullTime   JobType = "Full-time"
	TypePartTime   JobType = "Part-time"
	TypeInternship JobType = "Internship"
	TypeContract   JobType = "Contract"
)

func (t JobType) Valid() bool {
	switch t {
	case TypeFullTime, TypePartTime, TypeInternship, TypeContract:
		return true
	}
	return false
}

// JobStatus tracks the posting lifecycle.
type JobStatus string

const (
	StatusOpen    JobStatus = "Open"
	StatusClosed  JobStatus = "Closed"
	StatusPending JobStatus = "Pending"
)

func (s JobStatus) Valid() bool {
	switch s {
	case StatusOpen, StatusClosed, StatusPending:
		return true
	}
	return false
}

var (
	ErrJobNotFound     = fmt.Errorf("job post not found: %w", api.ErrNotFound)
	ErrNotJobOwner     = fmt.Errorf("you are not authorized to modify this job post: %w", api.ErrForbidden)
	ErrDeadlinePassed  = fmt.Errorf("application deadline must be in the future: %w", api.ErrBadRequest)
	ErrInvalidJobInput = fmt.Errorf("please fill in all required fields: %w", api.ErrBadRequest)
)

// RecruiterSummary is the posting owner's public projection, joined from the
// users table on reads.
type RecruiterSummary struct {
	ID             uuid.UUID `json:"id"`
	Username       string    `json:"username"`
	Fullname       *string   `json:"fullname,omitempty"`
	Email          string    `json:"email"`
	ProfilePicture *string   `json:"profilePicture,omitempty"`
}

type JobPost struct {
	ID                  uuid.UUID `json:"id"`
	RecruiterID         uuid.UUID `json:"recruiterId"`
	JobTitle            string    `json:"jobTitle"`
	JobDescription      string    `json:"jobDescription"`
	JobLocation         string    `json:"jobLocation"`
	JobType             JobType   `json:"jobType"`
	SalaryRange         string    `json:"salaryRange"`
	CompanyName         string    `json:"companyName"`
	CompanyDescription  *string   `json:"companyDescription,omitempty"`
	CompanyWebsite      *string   `json:"companyWebsite,omitempty"`
	SkillsRequired      []string  `json:"skillsRequired"`
	ApplicationDeadline time.Time `json:"applicationDeadline"`
	JobStatus           JobStatus `json:"jobStatus"`
	TotalApplications   int       `json:"totalApplications"`
	CreatedAt           time.Time `json:"createdAt"`
	UpdatedAt           time.Time `json:"updatedAt"`

	Recruiter *RecruiterSummary `json:"recruiter,omitempty"`
}

// CreateJobRequest carries the creation payload. JobType defaults to Full-time
// and JobStatus to Open when omitted.
type CreateJobRequest struct {
	JobTitle            string    `json:"jobTitle"`
	JobDescription      string    `json:"jobDescription"`
	JobLocation         string    `json:"jobLocation"`
	JobType             JobType   `json:"jobType,omitempty"`
	SalaryRange         string    `json:"salaryRange"`
	CompanyName         string    `json:"companyName"`
	CompanyDescription  *string   `json:"companyDescription,omitempty"`
	CompanyWebsite      *string   `json:"companyWebsite,omitempty"`
	SkillsRequired      []string  `json:"skillsRequired,omitempty"`
	ApplicationDeadline time.Time `json:"applicationDeadline"`
	JobStatus           JobStatus `json:"jobStatus,omitempty"`
}

// UpdateJobRequest is a partial update; nil fields are left untouched.
type UpdateJobRequest struct {
	JobTitle            *string    `json:"jobTitle,omitempty"`
	JobDescription      *string    `json:"jobDescription,omitempty"`
	JobLocation         *string    `json:"jobLocation,omitempty"`
	JobType             *JobType   `json:"jobType,omitempty"`
	SalaryRange         *string    `json:"salaryRange,omitempty"`
	CompanyName         *string    `json:"companyName,omitempty"`
	CompanyDescription  *string    `json:"companyDescription,omitempty"`
	CompanyWebsite      *string    `json:"companyWebsite,omitempty"`
	SkillsRequired      []string   `json:"skillsRequired,omitempty"`
	ApplicationDeadline *time.Time `json:"applicationDeadline,omitempty"`
	JobStatus           *JobStatus `json:"jobStatus,omitempty"`
}

// ListJobsFilter narrows and pages the job listing.
type ListJobsFilter struct {
	JobType     JobType
	JobLocation string
	JobStatus   JobStatus
	Search      string
	RecruiterID *uuid.UUID

	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Pagination mirrors what clients need to render a pager.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalJobs   int64 `json:"totalJobs"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
}

type JobListing struct {
	Jobs       []JobPost  `json:"jobs"`
	Pagination Pagination `json:"pagination"`
}
