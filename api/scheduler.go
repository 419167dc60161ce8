/*
scheduler.go - Automated pay-period finalization

PURPOSE:
  Periodically finalizes pay periods whose end date has passed,
  recomputing their cached aggregates one last time and marking them
  complete.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Finalization is idempotent: already-complete periods are skipped
    by the store query, so overlapping runs are harmless

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewPeriodScheduler(service)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: FinalizePeriods endpoint (manual trigger)
  - schedule/service.go: FinalizePeriods
*/
package api

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/warp/shift-engine/schedule"
)

// PeriodScheduler finalizes ended pay periods in the background.
type PeriodScheduler struct {
	Service       *schedule.Service
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewPeriodScheduler creates a new scheduler over the schedule service.
func NewPeriodScheduler(service *schedule.Service) *PeriodScheduler {
	return &PeriodScheduler{
		Service:       service,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ps *PeriodScheduler) Start() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if !ps.Enabled {
		slog.Info("scheduler disabled, not starting")
		return
	}

	ps.ticker = time.NewTicker(ps.CheckInterval)
	ps.wg.Add(1)

	go ps.run()

	slog.Info("scheduler started", "interval", ps.CheckInterval)
}

// Stop stops the scheduler.
func (ps *PeriodScheduler) Stop() {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if ps.ticker != nil {
		ps.ticker.Stop()
		close(ps.stop)
		ps.wg.Wait()
		slog.Info("scheduler stopped")
	}
}

func (ps *PeriodScheduler) run() {
	defer ps.wg.Done()

	// Run immediately on start
	ps.finalize()

	for {
		select {
		case <-ps.ticker.C:
			ps.finalize()
		case <-ps.stop:
			return
		}
	}
}

func (ps *PeriodScheduler) finalize() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := ps.Service.FinalizePeriods(ctx, time.Now())
	if err != nil {
		slog.Error("period finalization failed", "error", err)
		return
	}
	if count > 0 {
		slog.Info("finalized pay periods", "count", count)
	}
}
