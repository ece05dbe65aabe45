package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs the ingestion job on a cron schedule.
type Scheduler struct {
	cron       *cron.Cron
	svc        *IngestService
	runTimeout time.Duration
}

// NewScheduler creates a scheduler that runs the ingest service on the given
// cron expression. The expression is validated here; a bad one is a startup
// error, not a silent no-op.
func NewScheduler(spec string, svc *IngestService, runTimeout time.Duration) (*Scheduler, error) {
	if runTimeout <= 0 {
		runTimeout = 30 * time.Minute
	}

	s := &Scheduler{
		cron:       cron.New(),
		svc:        svc,
		runTimeout: runTimeout,
	}

	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return nil, err
	}

	return s, nil
}

// Start begins scheduled execution.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Printf("[Scheduler] Started")
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Printf("[Scheduler] Stopped")
}

// runOnce executes a single ingestion run with a bounded lifetime.
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.runTimeout)
	defer cancel()

	log.Printf("[Scheduler] Starting scheduled ingestion run")
	summary, err := s.svc.Run(ctx)
	if err != nil {
		log.Printf("[Scheduler] Scheduled run failed: %v", err)
		return
	}

	if summary.NoData {
		log.Printf("[Scheduler] Scheduled run finished: no data to process")
		return
	}
	log.Printf("[Scheduler] Scheduled run finished: %d orders, %d items ingested",
		summary.OrdersInserted, summary.ItemsInserted)
}
