package reconcile

import (
	"context"
	"time"

	"carejobs/reconciler-service/internal/model"
)

// Store is the persistence boundary of the engine. The production
// implementation is PostgresStore; tests inject an in-memory fake.
//
// Lookup methods return (nil, nil) when no row matches — absence is a normal
// outcome for this engine, not an error.
type Store interface {
	EmployerBySlug(ctx context.Context, slug string) (*model.Employer, error)
	EmployerByName(ctx context.Context, name string) (*model.Employer, error)
	CreateEmployer(ctx context.Context, e *model.Employer) error
	TouchEmployer(ctx context.Context, id string, at time.Time) error

	LocationByCityState(ctx context.Context, city, state string) (*model.Location, error)
	CreateLocation(ctx context.Context, l *model.Location) error

	JobBySourceJobID(ctx context.Context, employerID, sourceJobID string) (*model.Job, error)
	JobBySourceURL(ctx context.Context, employerID, sourceURL string) (*model.Job, error)
	CreateJob(ctx context.Context, j *model.Job) error
	UpdateJob(ctx context.Context, j *model.Job) error

	CountActiveJobs(ctx context.Context, employerID string) (int, error)
	// ActiveJobsNotSeen returns the employer's active jobs whose source_url is
	// absent from seenURLs.
	ActiveJobsNotSeen(ctx context.Context, employerID string, seenURLs []string) ([]model.JobRef, error)
	// ExpiredActiveJobs returns every active job, across all employers, whose
	// live expiry date is at or before now.
	ExpiredActiveJobs(ctx context.Context, now time.Time) ([]model.JobRef, error)
	// DeactivateJobs clears is_active for the given IDs and returns how many
	// rows changed.
	DeactivateJobs(ctx context.Context, ids []string) (int, error)
}
