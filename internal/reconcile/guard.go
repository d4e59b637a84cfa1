package reconcile

import (
	"context"
	"fmt"

	"carejobs/reconciler-service/internal/model"
)

// GuardOutcome is the structured result of the active-set safety guard.
// A tripped guard is a deliberate control-flow branch, not an error — the
// Skipped flag distinguishes it from a normal zero-deactivation run.
type GuardOutcome struct {
	Skipped     bool
	Reason      string
	Deactivated int
}

// enforceActiveSet deactivates the employer's active jobs that were not seen
// in this run — unless the run looks anomalous.
//
// A scraper that silently breaks (site redesign, auth wall, rate limit)
// reports far fewer jobs than exist; deactivating everything it missed would
// wipe a healthy catalog. The guard trips when the catalog is non-trivial
// (active count above GuardActiveFloor) and the run is thin (found count
// below GuardMinFound, or found/active below GuardMinRatio). When in doubt
// it keeps stale listings rather than mass-removing live ones.
func (s *Service) enforceActiveSet(ctx context.Context, employer *model.Employer, foundURLs []string) (GuardOutcome, error) {
	activeCount, err := s.store.CountActiveJobs(ctx, employer.ID)
	if err != nil {
		return GuardOutcome{}, fmt.Errorf("count active jobs: %w", err)
	}
	foundCount := len(foundURLs)

	if activeCount > s.settings.GuardActiveFloor {
		thin := foundCount < s.settings.GuardMinFound ||
			float64(foundCount)/float64(activeCount) < s.settings.GuardMinRatio
		if thin {
			s.notifier.ScrapeAnomaly(ctx, employer.Name, foundCount, activeCount)
			return GuardOutcome{Skipped: true, Reason: "safety_guard"}, nil
		}
	}

	missing, err := s.store.ActiveJobsNotSeen(ctx, employer.ID, foundURLs)
	if err != nil {
		return GuardOutcome{}, fmt.Errorf("list unseen active jobs: %w", err)
	}
	if len(missing) == 0 {
		return GuardOutcome{}, nil
	}

	ids := make([]string, len(missing))
	slugs := make([]string, len(missing))
	for i, ref := range missing {
		ids[i] = ref.ID
		slugs[i] = ref.Slug
	}

	n, err := s.store.DeactivateJobs(ctx, ids)
	if err != nil {
		return GuardOutcome{}, fmt.Errorf("deactivate unseen jobs: %w", err)
	}
	s.notifier.JobsDeactivated(ctx, slugs)

	return GuardOutcome{Deactivated: n}, nil
}
