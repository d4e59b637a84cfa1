// Package reconcile implements the job reconciliation engine: it merges
// scraper output into the persistent job catalog, deduplicating by
// employer job ID / source URL, tracking expiry and activation lifecycle,
// and guarding against mass false-deactivation when a scraper breaks.
//
// The engine is transport-agnostic: the HTTP handler and the cron scheduler
// both drive it through Service.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"

	"carejobs/reconciler-service/internal/model"
)

// Service encapsulates the reconciliation business logic. Storage and
// outbound notifications are injected so tests run against fakes.
type Service struct {
	store    Store
	notifier Notifier
	settings Settings
}

// NewService returns a configured Service.
func NewService(store Store, notifier Notifier, settings Settings) *Service {
	return &Service{store: store, notifier: notifier, settings: settings}
}

// SaveJobs reconciles one scraper batch for one employer.
//
// Jobs are processed strictly sequentially in input order. A failure on one
// record is recorded and the loop continues — a single malformed record never
// blocks the rest of the batch. Employer resolution failure is fatal.
//
// After the per-job loop the active-set safety guard runs against the URLs
// seen this batch, then the expiration sweep. The summary's Deactivated field
// reports the guard's count when it deactivated anything, otherwise the
// sweep's.
func (s *Service) SaveJobs(ctx context.Context, employerIn model.EmployerInput, jobs []model.JobInput) (*model.BatchResult, error) {
	employer, err := s.resolveEmployer(ctx, employerIn)
	if err != nil {
		return nil, fmt.Errorf("resolve employer: %w", err)
	}

	res := &model.BatchResult{
		Total:         len(jobs),
		ErrorsDetails: make([]model.BatchError, 0),
	}

	foundURLs := make([]string, 0, len(jobs))
	for _, in := range jobs {
		if in.SourceURL != "" {
			foundURLs = append(foundURLs, in.SourceURL)
		}
	}

	for _, in := range jobs {
		if err := s.upsertJob(ctx, employer, in, res); err != nil {
			slog.Error("job upsert failed", "employer", employer.Slug, "title", in.Title, "err", err)
			res.Errors++
			res.ErrorsDetails = append(res.ErrorsDetails, model.BatchError{
				Title: in.Title,
				Error: err.Error(),
			})
		}
	}

	guard, err := s.enforceActiveSet(ctx, employer, foundURLs)
	if err != nil {
		// Per-job writes are already durable; deactivation gets another
		// chance on the next batch or cron tick.
		slog.Error("active-set guard failed", "employer", employer.Slug, "err", err)
	}

	swept, err := s.SweepExpired(ctx)
	if err != nil {
		slog.Error("expiration sweep failed", "err", err)
	}

	if guard.Deactivated > 0 {
		res.Deactivated = guard.Deactivated
	} else {
		res.Deactivated = swept
	}

	if err := s.store.TouchEmployer(ctx, employer.ID, s.settings.now()); err != nil {
		slog.Error("touch employer failed", "employer", employer.Slug, "err", err)
	}

	return res, nil
}

// upsertJob creates or updates one job record.
func (s *Service) upsertJob(ctx context.Context, employer *model.Employer, in model.JobInput, res *model.BatchResult) error {
	existing, err := s.findExisting(ctx, employer.ID, in)
	if err != nil {
		return fmt.Errorf("identity match: %w", err)
	}

	if existing == nil {
		return s.createJob(ctx, employer, in, res)
	}
	return s.updateJob(ctx, existing, in, res)
}

// createJob inserts a first-sighted job. New jobs start inactive and
// unclassified — activation is the classifier's decision.
func (s *Service) createJob(ctx context.Context, employer *model.Employer, in model.JobInput, res *model.BatchResult) error {
	now := s.settings.now()

	job := &model.Job{
		EmployerID:       employer.ID,
		Slug:             in.Slug,
		SourceURL:        in.SourceURL,
		SourceJobID:      in.SourceJobID,
		Title:            in.Title,
		Description:      in.Description,
		RawDescription:   in.RawDescription,
		City:             in.City,
		State:            in.State,
		ZipCode:          in.ZipCode,
		IsRemote:         in.IsRemote,
		JobType:          in.JobType,
		ShiftType:        in.ShiftType,
		Specialty:        in.Specialty,
		ExperienceLevel:  in.ExperienceLevel,
		Requirements:     in.Requirements,
		Responsibilities: in.Responsibilities,
		Benefits:         in.Benefits,
		Department:       in.Department,
		MetaDescription:  in.MetaDescription,
		Keywords:         in.Keywords,
		SalaryMin:        in.SalaryMin,
		SalaryMax:        in.SalaryMax,
		SalaryPeriod:     in.SalaryPeriod,
		PostedDate:       in.PostedDate,
		IsActive:         false,
		WasEverActive:    false,
		ClassifiedAt:     nil,
		ScrapedAt:        now,
	}
	ApplyInitialExpiry(job, in.ExpiresDate, now, s.settings.FreshnessWindowDays)

	s.resolveLocation(ctx, in.City, in.State)

	if err := s.store.CreateJob(ctx, job); err != nil {
		return fmt.Errorf("create job: %w", err)
	}
	res.Created++
	return nil
}

// updateJob merges a re-sighted record into its stored job.
func (s *Service) updateJob(ctx context.Context, job *model.Job, in model.JobInput, res *model.BatchResult) error {
	now := s.settings.now()

	ExtendExpiry(job, now, s.settings.FreshnessWindowDays)

	upgraded := s.settings.shouldUpgradeRaw(deref(job.RawDescription), deref(in.RawDescription))
	if upgraded {
		job.RawDescription = in.RawDescription
	}

	// A classified flag must never sit on top of unclassified content: an
	// upgraded description forces the job back through classification.
	reclassify := upgraded && job.ClassifiedAt != nil
	if reclassify || job.ClassifiedAt == nil {
		job.Description = in.Description
	}
	if reclassify {
		job.ClassifiedAt = nil
	}

	// Re-classification need wins; reactivation is next; otherwise the prior
	// flag stands, so a classifier's explicit rejection survives re-scrapes.
	// A job still awaiting classification never reactivates on sighting alone.
	reactivate := !job.IsActive && job.WasEverActive && !reclassify && job.ClassifiedAt != nil
	switch {
	case reclassify:
		job.IsActive = false
	case reactivate:
		job.IsActive = true
	}

	// URL improvement is allowed; the slug never changes.
	job.SourceURL = in.SourceURL
	if in.SourceJobID != nil {
		job.SourceJobID = in.SourceJobID
	}
	job.Title = in.Title

	// Classifier-owned fields stay untouched once classified.
	if job.ClassifiedAt == nil {
		assign(&job.JobType, in.JobType)
		assign(&job.ShiftType, in.ShiftType)
		assign(&job.Specialty, in.Specialty)
		assign(&job.ExperienceLevel, in.ExperienceLevel)
	}

	job.City = in.City
	job.State = in.State
	job.ZipCode = in.ZipCode
	job.IsRemote = in.IsRemote
	assign(&job.Requirements, in.Requirements)
	assign(&job.Responsibilities, in.Responsibilities)
	assign(&job.Benefits, in.Benefits)
	assign(&job.Department, in.Department)
	assign(&job.MetaDescription, in.MetaDescription)
	if len(in.Keywords) > 0 {
		job.Keywords = in.Keywords
	}
	job.SalaryMin = in.SalaryMin
	job.SalaryMax = in.SalaryMax
	job.SalaryPeriod = in.SalaryPeriod
	if in.PostedDate != nil {
		job.PostedDate = in.PostedDate
	}

	s.resolveLocation(ctx, in.City, in.State)

	if err := s.store.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("update job %s: %w", job.Slug, err)
	}
	res.Updated++
	if reactivate {
		res.Reactivated++
	}
	return nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// assign overwrites *dst only when the input supplied a value.
func assign(dst **string, v *string) {
	if v != nil {
		*dst = v
	}
}
