// Package model defines the shared data structures for the reconciler service.
package model

import "time"

// Employer is a hiring organisation. Created on first sighting by a scraper
// batch; never deleted by this service.
type Employer struct {
	ID            string
	Slug          string
	Name          string
	CareerPageURL string
	ATSPlatform   string
	IsActive      bool
	LastScraped   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Location is a denormalised city/state pair kept as a side index for search.
// Jobs do not reference it by foreign key.
type Location struct {
	ID        string
	City      string
	State     string
	StateName string
	CreatedAt time.Time
}

// Job is the central entity: one deduplicated, lifecycle-tracked listing.
//
// Identity: SourceJobID (employer-assigned, preferred) or SourceURL. The URL
// may change over a job's life; the slug never does. At most one of
// ExpiresDate / CalculatedExpiresDate drives expiry evaluation.
type Job struct {
	ID         string
	EmployerID string
	Slug       string

	SourceURL   string
	SourceJobID *string

	Title          string
	Description    string
	RawDescription *string

	City     *string
	State    *string
	ZipCode  *string
	IsRemote bool

	JobType         *string
	ShiftType       *string
	Specialty       *string
	ExperienceLevel *string

	Requirements     *string
	Responsibilities *string
	Benefits         *string
	Department       *string
	MetaDescription  *string
	Keywords         []string

	SalaryMin    *float64
	SalaryMax    *float64
	SalaryPeriod *string

	PostedDate            *time.Time
	ExpiresDate           *time.Time
	CalculatedExpiresDate *time.Time

	IsActive      bool
	WasEverActive bool
	ClassifiedAt  *time.Time
	ScrapedAt     time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// JobRef is the minimal handle used for set-based deactivation writes.
type JobRef struct {
	ID   string
	Slug string
}

// EmployerInput is the employer descriptor a scraper sends with each batch.
type EmployerInput struct {
	EmployerName  string `json:"employerName"`
	EmployerSlug  string `json:"employerSlug"`
	CareerPageURL string `json:"careerPageUrl"`
	ATSPlatform   string `json:"atsPlatform,omitempty"`
}

// JobInput is one normalised job record from a scraper. Optional fields are
// pointers so "absent" and "empty" stay distinguishable.
type JobInput struct {
	Title          string  `json:"title"`
	SourceURL      string  `json:"sourceUrl"`
	SourceJobID    *string `json:"sourceJobId,omitempty"`
	Slug           string  `json:"slug"`
	Description    string  `json:"description"`
	RawDescription *string `json:"rawDescription,omitempty"`

	City     *string `json:"city,omitempty"`
	State    *string `json:"state,omitempty"`
	ZipCode  *string `json:"zipCode,omitempty"`
	IsRemote bool    `json:"isRemote,omitempty"`

	JobType         *string `json:"jobType,omitempty"`
	ShiftType       *string `json:"shiftType,omitempty"`
	Specialty       *string `json:"specialty,omitempty"`
	ExperienceLevel *string `json:"experienceLevel,omitempty"`

	Requirements     *string  `json:"requirements,omitempty"`
	Responsibilities *string  `json:"responsibilities,omitempty"`
	Benefits         *string  `json:"benefits,omitempty"`
	Department       *string  `json:"department,omitempty"`
	MetaDescription  *string  `json:"metaDescription,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`

	SalaryMin    *float64 `json:"salaryMin,omitempty"`
	SalaryMax    *float64 `json:"salaryMax,omitempty"`
	SalaryPeriod *string  `json:"salaryPeriod,omitempty"`

	PostedDate  *time.Time `json:"postedDate,omitempty"`
	ExpiresDate *time.Time `json:"expiresDate,omitempty"`
}

// BatchError records one failed record within a batch.
type BatchError struct {
	Title string `json:"title"`
	Error string `json:"error"`
}

// BatchResult is the summary returned from one reconciliation batch.
// Reactivated is a subset of Updated. Deactivated reports whichever of the
// safety guard / expiration sweep took effect after the per-job loop.
type BatchResult struct {
	Total         int          `json:"total"`
	Created       int          `json:"created"`
	Updated       int          `json:"updated"`
	Reactivated   int          `json:"reactivated"`
	Errors        int          `json:"errors"`
	ErrorsDetails []BatchError `json:"errorsDetails"`
	Deactivated   int          `json:"deactivated"`
}
