package reconcile

import (
	"context"
	"fmt"
)

// SweepExpired deactivates every active job, across all employers, whose
// live expiry date has passed. It runs at the end of every batch and on an
// independent cron schedule, so jobs expire even when their employer is
// never scraped again. Returns the number of jobs deactivated.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	expired, err := s.store.ExpiredActiveJobs(ctx, s.settings.now())
	if err != nil {
		return 0, fmt.Errorf("list expired jobs: %w", err)
	}
	if len(expired) == 0 {
		return 0, nil
	}

	ids := make([]string, len(expired))
	slugs := make([]string, len(expired))
	for i, ref := range expired {
		ids[i] = ref.ID
		slugs[i] = ref.Slug
	}

	n, err := s.store.DeactivateJobs(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired jobs: %w", err)
	}
	s.notifier.JobsDeactivated(ctx, slugs)

	return n, nil
}
