// Package scheduler wires up the cron job that periodically runs the
// expiration sweep, independent of any scrape activity.
package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"carejobs/reconciler-service/internal/reconcile"
)

// Scheduler wraps robfig/cron and manages the sweep loop.
type Scheduler struct {
	cron *cron.Cron
	svc  *reconcile.Service
	spec string // cron spec, e.g. "@every 6h"
}

// New creates a Scheduler that fires every intervalHours hours.
func New(svc *reconcile.Service, intervalHours int) *Scheduler {
	return &Scheduler{
		cron: cron.New(cron.WithLogger(cron.DefaultLogger)),
		svc:  svc,
		spec: fmt.Sprintf("@every %dh", intervalHours),
	}
}

// Start registers the job and starts the scheduler. Also runs one sweep
// immediately so expired jobs are cleared without waiting for the first tick.
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.cron.AddFunc(s.spec, func() {
		s.runSweep(ctx)
	})
	if err != nil {
		return fmt.Errorf("cron.AddFunc: %w", err)
	}

	s.cron.Start()
	log.Printf("[scheduler] Cron started — spec: %s", s.spec)

	// Run immediately on startup (non-blocking)
	go s.runSweep(ctx)

	return nil
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[scheduler] Cron stopped")
}

func (s *Scheduler) runSweep(ctx context.Context) {
	log.Println("[scheduler] Expiration sweep started")

	n, err := s.svc.SweepExpired(ctx)
	if err != nil {
		log.Printf("[scheduler] Sweep error: %v", err)
		return
	}

	log.Printf("[scheduler] Expiration sweep complete — deactivated=%d", n)
}
