package reconcile

import (
	"time"

	"carejobs/reconciler-service/internal/model"
)

// ApplyInitialExpiry sets the expiry track for a newly created job. An
// explicit scraper-supplied date is authoritative and stored as-is; without
// one the engine computes a freshness deadline from the scrape time. Exactly
// one of the two fields ends up non-nil.
func ApplyInitialExpiry(job *model.Job, explicit *time.Time, scrapedAt time.Time, windowDays int) {
	if explicit != nil {
		job.ExpiresDate = explicit
		job.CalculatedExpiresDate = nil
		return
	}
	deadline := scrapedAt.AddDate(0, 0, windowDays)
	job.ExpiresDate = nil
	job.CalculatedExpiresDate = &deadline
}

// ExtendExpiry refreshes a re-found job. Explicit dates are never renewed by
// mere rediscovery; jobs on the calculated track get their freshness clock
// reset. ScrapedAt is always advanced.
func ExtendExpiry(job *model.Job, now time.Time, windowDays int) {
	if job.ExpiresDate == nil {
		deadline := now.AddDate(0, 0, windowDays)
		job.CalculatedExpiresDate = &deadline
	}
	job.ScrapedAt = now
}
