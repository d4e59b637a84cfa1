package reconcile

import (
	"context"

	"carejobs/reconciler-service/internal/model"
)

// findExisting locates the stored job an incoming record refers to, or nil.
//
// The employer-assigned job ID always wins over the URL: source URLs are
// allowed to change over a job's life (a search-result link upgraded to a
// direct link), while the employer's own requisition ID is stable. Matching
// URL-first would mint a duplicate row every time a URL improves.
func (s *Service) findExisting(ctx context.Context, employerID string, in model.JobInput) (*model.Job, error) {
	if in.SourceJobID != nil && *in.SourceJobID != "" {
		job, err := s.store.JobBySourceJobID(ctx, employerID, *in.SourceJobID)
		if err != nil {
			return nil, err
		}
		if job != nil {
			return job, nil
		}
	}
	if in.SourceURL != "" {
		return s.store.JobBySourceURL(ctx, employerID, in.SourceURL)
	}
	return nil, nil
}
