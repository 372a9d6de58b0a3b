package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/shared"
)

// GenerationReport summarizes one recurring-generation run
type GenerationReport struct {
	Scanned   int `json:"scanned"`
	Generated int `json:"generated"`
	Skipped   int `json:"skipped"`
}

// RecurringBillingService spawns follow-up invoices for paid invoices
// whose items carry a monthly or yearly renewal cycle. It never
// mutates the source invoice; instead each source item carries a
// billed-through watermark so a re-run cannot generate the same
// renewal twice, and concurrent or repeated runs stay additive-only.
type RecurringBillingService struct {
	invoiceRepo billing.InvoiceRepository
	serviceRepo catalog.ServiceRepository
	txScope     TransactionScope
	publisher   shared.EventPublisher
	now         func() time.Time
}

// NewRecurringBillingService creates a new RecurringBillingService
func NewRecurringBillingService(invoiceRepo billing.InvoiceRepository, serviceRepo catalog.ServiceRepository, txScope TransactionScope, publisher shared.EventPublisher) *RecurringBillingService {
	return &RecurringBillingService{
		invoiceRepo: invoiceRepo,
		serviceRepo: serviceRepo,
		txScope:     txScope,
		publisher:   publisher,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// Run scans for renewable items and generates one pending invoice per
// qualifying item. Each renewal and its watermark advance are committed
// in one transaction, so a failure mid-run leaves earlier renewals
// intact and later items untouched for the next run to pick up.
func (s *RecurringBillingService) Run(ctx context.Context) (GenerationReport, error) {
	asOf := s.now()

	items, err := s.invoiceRepo.FindRenewableItems(ctx, asOf)
	if err != nil {
		return GenerationReport{}, err
	}

	report := GenerationReport{Scanned: len(items)}
	for _, item := range items {
		if !item.EligibleForRenewal(asOf) {
			report.Skipped++
			continue
		}

		if err := s.generate(ctx, item, asOf); err != nil {
			return report, err
		}
		report.Generated++
	}

	return report, nil
}

func (s *RecurringBillingService) generate(ctx context.Context, source *billing.InvoiceItem, asOf time.Time) error {
	sourceInvoice, err := s.invoiceRepo.FindByID(ctx, source.InvoiceID)
	if err != nil {
		return err
	}

	renewalItem, err := source.Renewal(asOf)
	if err != nil {
		return err
	}

	serviceName := source.ServiceID.String()
	if service, err := s.serviceRepo.FindByID(ctx, source.ServiceID); err == nil {
		serviceName = service.Name
	}
	description := fmt.Sprintf("Renewal of %s (source invoice %s)", serviceName, sourceInvoice.ID)

	renewal, err := billing.NewInvoice(sourceInvoice.CustomerID, description, []billing.InvoiceItem{*renewalItem})
	if err != nil {
		return err
	}
	renewal.AddDomainEvent(billing.NewRenewalGeneratedEvent(renewal, sourceInvoice.ID, source.ID))

	source.MarkBilledThrough()

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.InvoiceRepo().Save(ctx, renewal); err != nil {
			return err
		}
		return repos.InvoiceRepo().SaveItem(ctx, source)
	})
	if err != nil {
		return err
	}

	s.publishEvents(ctx, renewal)

	return nil
}

func (s *RecurringBillingService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.publisher == nil {
		return
	}
	for _, event := range invoice.GetDomainEvents() {
		_ = s.publisher.Publish(ctx, event)
	}
	invoice.ClearDomainEvents()
}
