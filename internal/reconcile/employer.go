package reconcile

import (
	"context"
	"fmt"

	"carejobs/reconciler-service/internal/model"
)

// resolveEmployer get-or-creates the employer for a scrape batch and stamps
// its last-scraped time. A failure here is fatal for the batch — nothing can
// be reconciled without an owning employer.
func (s *Service) resolveEmployer(ctx context.Context, in model.EmployerInput) (*model.Employer, error) {
	now := s.settings.now()

	emp, err := s.store.EmployerBySlug(ctx, in.EmployerSlug)
	if err != nil {
		return nil, fmt.Errorf("employer lookup by slug %q: %w", in.EmployerSlug, err)
	}
	if emp == nil {
		emp, err = s.store.EmployerByName(ctx, in.EmployerName)
		if err != nil {
			return nil, fmt.Errorf("employer lookup by name %q: %w", in.EmployerName, err)
		}
	}

	if emp != nil {
		if err := s.store.TouchEmployer(ctx, emp.ID, now); err != nil {
			return nil, fmt.Errorf("touch employer %s: %w", emp.ID, err)
		}
		emp.LastScraped = &now
		return emp, nil
	}

	ats := in.ATSPlatform
	if ats == "" {
		ats = "custom"
	}
	emp = &model.Employer{
		Slug:          in.EmployerSlug,
		Name:          in.EmployerName,
		CareerPageURL: in.CareerPageURL,
		ATSPlatform:   ats,
		IsActive:      true,
		LastScraped:   &now,
	}
	if err := s.store.CreateEmployer(ctx, emp); err != nil {
		return nil, fmt.Errorf("create employer %q: %w", in.EmployerSlug, err)
	}
	return emp, nil
}
