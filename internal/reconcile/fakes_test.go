package reconcile_test

// In-memory fakes standing in for PostgreSQL and Redis. The engine only
// touches storage through the Store interface, so these keep the tests free
// of global state and real connections.

import (
	"context"
	"errors"
	"fmt"
	"time"

	"carejobs/reconciler-service/internal/model"
	"carejobs/reconciler-service/internal/reconcile"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// fakeClock is a settable time source.
type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

// ─── fakeStore ─────────────────────────────────────────────────────────────

type fakeStore struct {
	employers []*model.Employer
	locations []*model.Location
	jobs      []*model.Job
	nextID    int

	// failCreateTitles / failUpdateTitles make the corresponding write fail
	// for jobs with these titles, to exercise per-item error isolation.
	failCreateTitles map[string]bool
	failUpdateTitles map[string]bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		failCreateTitles: make(map[string]bool),
		failUpdateTitles: make(map[string]bool),
	}
}

func (f *fakeStore) id() string {
	f.nextID++
	return fmt.Sprintf("id-%d", f.nextID)
}

func (f *fakeStore) EmployerBySlug(_ context.Context, slug string) (*model.Employer, error) {
	for _, e := range f.employers {
		if e.Slug == slug {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) EmployerByName(_ context.Context, name string) (*model.Employer, error) {
	for _, e := range f.employers {
		if e.Name == name {
			c := *e
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateEmployer(_ context.Context, e *model.Employer) error {
	e.ID = f.id()
	e.CreatedAt = testNow
	e.UpdatedAt = testNow
	c := *e
	f.employers = append(f.employers, &c)
	return nil
}

func (f *fakeStore) TouchEmployer(_ context.Context, id string, at time.Time) error {
	for _, e := range f.employers {
		if e.ID == id {
			e.LastScraped = &at
			return nil
		}
	}
	return fmt.Errorf("employer %s not found", id)
}

func (f *fakeStore) LocationByCityState(_ context.Context, city, state string) (*model.Location, error) {
	for _, l := range f.locations {
		if l.City == city && l.State == state {
			c := *l
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateLocation(_ context.Context, l *model.Location) error {
	l.ID = f.id()
	c := *l
	f.locations = append(f.locations, &c)
	return nil
}

func (f *fakeStore) JobBySourceJobID(_ context.Context, employerID, sourceJobID string) (*model.Job, error) {
	for _, j := range f.jobs {
		if j.EmployerID == employerID && j.SourceJobID != nil && *j.SourceJobID == sourceJobID {
			c := *j
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) JobBySourceURL(_ context.Context, employerID, sourceURL string) (*model.Job, error) {
	for _, j := range f.jobs {
		if j.EmployerID == employerID && j.SourceURL == sourceURL {
			c := *j
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) CreateJob(_ context.Context, j *model.Job) error {
	if f.failCreateTitles[j.Title] {
		return errors.New("storage offline")
	}
	j.ID = f.id()
	j.CreatedAt = testNow
	j.UpdatedAt = testNow
	c := *j
	f.jobs = append(f.jobs, &c)
	return nil
}

func (f *fakeStore) UpdateJob(_ context.Context, j *model.Job) error {
	if f.failUpdateTitles[j.Title] {
		return errors.New("storage offline")
	}
	for i, stored := range f.jobs {
		if stored.ID == j.ID {
			c := *j
			c.Slug = stored.Slug // slug column is never in the SET list
			f.jobs[i] = &c
			return nil
		}
	}
	return fmt.Errorf("job %s not found", j.ID)
}

func (f *fakeStore) CountActiveJobs(_ context.Context, employerID string) (int, error) {
	n := 0
	for _, j := range f.jobs {
		if j.EmployerID == employerID && j.IsActive {
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) ActiveJobsNotSeen(_ context.Context, employerID string, seenURLs []string) ([]model.JobRef, error) {
	seen := make(map[string]bool, len(seenURLs))
	for _, u := range seenURLs {
		seen[u] = true
	}
	var refs []model.JobRef
	for _, j := range f.jobs {
		if j.EmployerID == employerID && j.IsActive && !seen[j.SourceURL] {
			refs = append(refs, model.JobRef{ID: j.ID, Slug: j.Slug})
		}
	}
	return refs, nil
}

func (f *fakeStore) ExpiredActiveJobs(_ context.Context, now time.Time) ([]model.JobRef, error) {
	var refs []model.JobRef
	for _, j := range f.jobs {
		if !j.IsActive {
			continue
		}
		expired := (j.ExpiresDate != nil && !j.ExpiresDate.After(now)) ||
			(j.CalculatedExpiresDate != nil && !j.CalculatedExpiresDate.After(now))
		if expired {
			refs = append(refs, model.JobRef{ID: j.ID, Slug: j.Slug})
		}
	}
	return refs, nil
}

func (f *fakeStore) DeactivateJobs(_ context.Context, ids []string) (int, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	n := 0
	for _, j := range f.jobs {
		if want[j.ID] && j.IsActive {
			j.IsActive = false
			n++
		}
	}
	return n, nil
}

// jobBySlug returns the stored job with the given slug, for assertions.
func (f *fakeStore) jobBySlug(slug string) *model.Job {
	for _, j := range f.jobs {
		if j.Slug == slug {
			return j
		}
	}
	return nil
}

// ─── fakeNotifier ──────────────────────────────────────────────────────────

type anomaly struct {
	employer    string
	foundCount  int
	activeCount int
}

type fakeNotifier struct {
	deactivated [][]string
	anomalies   []anomaly
}

func (n *fakeNotifier) JobsDeactivated(_ context.Context, slugs []string) {
	n.deactivated = append(n.deactivated, slugs)
}

func (n *fakeNotifier) ScrapeAnomaly(_ context.Context, employerName string, foundCount, activeCount int) {
	n.anomalies = append(n.anomalies, anomaly{employerName, foundCount, activeCount})
}

// ─── Wiring helpers ────────────────────────────────────────────────────────

func newTestService() (*reconcile.Service, *fakeStore, *fakeNotifier, *fakeClock) {
	store := newFakeStore()
	notifier := &fakeNotifier{}
	clock := &fakeClock{t: testNow}

	settings := reconcile.DefaultSettings()
	settings.Now = clock.Now

	return reconcile.NewService(store, notifier, settings), store, notifier, clock
}

func acmeEmployer() model.EmployerInput {
	return model.EmployerInput{
		EmployerName:  "Acme Health",
		EmployerSlug:  "acme-health",
		CareerPageURL: "https://careers.acme.example",
	}
}

func strPtr(s string) *string { return &s }
