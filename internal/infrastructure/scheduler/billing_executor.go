package scheduler

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	appbilling "github.com/crm/backend/internal/application/billing"
)

// OverdueReconciler re-evaluates invoice statuses against the current date
type OverdueReconciler interface {
	ReconcileOverdue(ctx context.Context) (int, error)
}

// RenewalGenerator issues follow-up invoices for renewable items
type RenewalGenerator interface {
	Run(ctx context.Context) (appbilling.GenerationReport, error)
}

// SnapshotInvalidator drops cached dashboard snapshots after data changes
type SnapshotInvalidator interface {
	Invalidate(ctx context.Context) error
}

// BillingJobExecutor executes billing maintenance jobs by delegating
// to the application services
type BillingJobExecutor struct {
	reconciler  OverdueReconciler
	generator   RenewalGenerator
	invalidator SnapshotInvalidator
	logger      *zap.Logger
}

// NewBillingJobExecutor creates a new billing job executor
func NewBillingJobExecutor(
	reconciler OverdueReconciler,
	generator RenewalGenerator,
	invalidator SnapshotInvalidator,
	logger *zap.Logger,
) *BillingJobExecutor {
	return &BillingJobExecutor{
		reconciler:  reconciler,
		generator:   generator,
		invalidator: invalidator,
		logger:      logger,
	}
}

// Execute runs the job matching its type
func (e *BillingJobExecutor) Execute(ctx context.Context, job *Job) error {
	switch job.Type {
	case JobTypeReconcileOverdue:
		return e.reconcileOverdue(ctx)
	case JobTypeGenerateRenewals:
		return e.generateRenewals(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrInvalidJobType, job.Type)
	}
}

func (e *BillingJobExecutor) reconcileOverdue(ctx context.Context) error {
	changed, err := e.reconciler.ReconcileOverdue(ctx)
	if err != nil {
		return fmt.Errorf("overdue reconciliation failed: %w", err)
	}

	e.logger.Info("Overdue reconciliation finished", zap.Int("changed", changed))

	if changed > 0 {
		e.invalidate(ctx)
	}
	return nil
}

func (e *BillingJobExecutor) generateRenewals(ctx context.Context) error {
	report, err := e.generator.Run(ctx)
	if err != nil {
		return fmt.Errorf("renewal generation failed: %w", err)
	}

	e.logger.Info("Renewal generation finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("generated", report.Generated),
		zap.Int("skipped", report.Skipped),
	)

	if report.Generated > 0 {
		e.invalidate(ctx)
	}
	return nil
}

func (e *BillingJobExecutor) invalidate(ctx context.Context) {
	if e.invalidator == nil {
		return
	}
	if err := e.invalidator.Invalidate(ctx); err != nil {
		e.logger.Warn("Failed to invalidate dashboard snapshot", zap.Error(err))
	}
}

// Ensure BillingJobExecutor implements JobExecutor
var _ JobExecutor = (*BillingJobExecutor)(nil)
