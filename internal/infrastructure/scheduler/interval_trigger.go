package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// IntervalTriggerConfig holds configuration for the interval trigger
type IntervalTriggerConfig struct {
	// ReconcileInterval is how often the overdue reconciliation job runs
	ReconcileInterval time.Duration
	// RecurringInterval is how often the renewal generation job runs
	RecurringInterval time.Duration
}

// DefaultIntervalTriggerConfig returns default interval trigger configuration
func DefaultIntervalTriggerConfig() IntervalTriggerConfig {
	return IntervalTriggerConfig{
		ReconcileInterval: time.Hour,
		RecurringInterval: 6 * time.Hour,
	}
}

// IntervalTrigger submits billing maintenance jobs on fixed intervals.
// Both jobs are also submitted once at startup so a restarted instance
// catches up immediately instead of waiting a full interval.
type IntervalTrigger struct {
	config    IntervalTriggerConfig
	scheduler *Scheduler
	logger    *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewIntervalTrigger creates a new interval trigger
func NewIntervalTrigger(config IntervalTriggerConfig, sched *Scheduler, logger *zap.Logger) *IntervalTrigger {
	return &IntervalTrigger{
		config:    config,
		scheduler: sched,
		logger:    logger,
	}
}

// Start starts the interval trigger
func (t *IntervalTrigger) Start(ctx context.Context) error {
	t.mu.Lock()
	if t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = true
	t.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	t.cancel = cancel

	t.submit(JobTypeReconcileOverdue)
	t.submit(JobTypeGenerateRenewals)

	t.wg.Add(2)
	go t.runLoop(ctx, JobTypeReconcileOverdue, t.config.ReconcileInterval)
	go t.runLoop(ctx, JobTypeGenerateRenewals, t.config.RecurringInterval)

	t.logger.Info("Interval trigger started",
		zap.Duration("reconcile_interval", t.config.ReconcileInterval),
		zap.Duration("recurring_interval", t.config.RecurringInterval),
	)

	return nil
}

// Stop stops the interval trigger
func (t *IntervalTrigger) Stop(ctx context.Context) error {
	t.mu.Lock()
	if !t.isRunning {
		t.mu.Unlock()
		return nil
	}
	t.isRunning = false
	t.mu.Unlock()

	if t.cancel != nil {
		t.cancel()
	}

	done := make(chan struct{})
	go func() {
		t.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		t.logger.Info("Interval trigger stopped")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TriggerNow submits a job of the given type immediately
func (t *IntervalTrigger) TriggerNow(jobType JobType) error {
	return t.scheduler.Schedule(jobType)
}

func (t *IntervalTrigger) runLoop(ctx context.Context, jobType JobType, interval time.Duration) {
	defer t.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.submit(jobType)
		}
	}
}

func (t *IntervalTrigger) submit(jobType JobType) {
	if err := t.scheduler.Schedule(jobType); err != nil {
		t.logger.Error("Failed to submit scheduled job",
			zap.String("job_type", string(jobType)),
			zap.Error(err),
		)
	}
}
