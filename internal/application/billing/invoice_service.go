package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/crm/backend/internal/application/validation"
	"github.com/crm/backend/internal/domain/billing"
	"github.com/crm/backend/internal/domain/catalog"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
)

// InvoiceService orchestrates the invoice lifecycle: creation, status
// transitions, updates and soft-deletion. Every read path reconciles
// the Pending/Overdue split before returning.
type InvoiceService struct {
	invoiceRepo  billing.InvoiceRepository
	customerRepo partner.CustomerRepository
	serviceRepo  catalog.ServiceRepository
	txScope      TransactionScope
	rules        *shared.RuleValidator
	publisher    shared.EventPublisher
	now          func() time.Time
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo billing.InvoiceRepository,
	customerRepo partner.CustomerRepository,
	serviceRepo catalog.ServiceRepository,
	txScope TransactionScope,
	publisher shared.EventPublisher,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:  invoiceRepo,
		customerRepo: customerRepo,
		serviceRepo:  serviceRepo,
		txScope:      txScope,
		rules:        shared.NewRuleValidator(),
		publisher:    publisher,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Create issues a new pending invoice with its items in one transaction
func (s *InvoiceService) Create(ctx context.Context, req CreateInvoiceRequest) (*InvoiceResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	rules := []shared.BusinessRule{
		billing.NewCustomerMustExist(s.customerRepo, req.CustomerID),
		billing.NewInvoiceMustHaveItems(len(req.Items)),
	}
	for _, item := range req.Items {
		terms := billing.ItemTerms{Price: item.Price, Quantity: item.Quantity, VAT: item.VAT}
		rules = append(rules,
			billing.NewServiceMustExist(s.serviceRepo, item.ServiceID),
			billing.NewItemPriceMustBePositive(terms),
			billing.NewItemQuantityMustBePositive(terms),
			billing.NewItemVATMustBeInRange(terms),
		)
	}
	if err := s.rules.Validate(ctx, rules...); err != nil {
		return nil, err
	}

	items, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	invoice, err := billing.NewInvoice(req.CustomerID, req.Description, items)
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.InvoiceRepo().Save(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// GetByID retrieves an invoice, reconciling its status first
func (s *InvoiceService) GetByID(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.reconcileAndPersist(ctx, invoice); err != nil {
		return nil, err
	}

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// List retrieves invoices with pagination and filtering, reconciling
// each invoice's status before returning the page.
func (s *InvoiceService) List(ctx context.Context, req ListInvoicesRequest) ([]InvoiceResponse, int64, error) {
	if err := validation.Struct(req); err != nil {
		return nil, 0, err
	}

	filter := shared.DefaultFilter()
	if req.Page > 0 {
		filter.Page = req.Page
	}
	if req.PageSize > 0 {
		filter.PageSize = req.PageSize
	}
	if req.Status != "" {
		filter.Filters["status"] = req.Status
	}

	var page *shared.Paginated[billing.Invoice]
	var err error
	if req.CustomerID != nil {
		page, err = s.invoiceRepo.FindByCustomer(ctx, *req.CustomerID, filter)
	} else {
		page, err = s.invoiceRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, 0, err
	}

	for i := range page.Items {
		if err := s.reconcileAndPersist(ctx, &page.Items[i]); err != nil {
			return nil, 0, err
		}
	}

	return ToInvoiceResponses(page.Items), page.Total, nil
}

// Update reassigns an invoice's customer, description and status and
// replaces its items. Old items are soft-deleted; the status is
// reconciled against the new due dates before and after the mutation,
// and everything persists in one transaction.
func (s *InvoiceService) Update(ctx context.Context, invoiceID uuid.UUID, req UpdateInvoiceRequest) (*InvoiceResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	status := billing.InvoiceStatus(req.Status)
	if !status.IsValid() {
		return nil, shared.NewInvalidArgumentError("INVALID_INVOICE_STATUS", "Unknown invoice status")
	}

	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	invoice.Reconcile(s.now())

	rules := []shared.BusinessRule{
		billing.NewCustomerMustExist(s.customerRepo, req.CustomerID),
		billing.NewInvoiceMustHaveItems(len(req.Items)),
	}
	for _, item := range req.Items {
		terms := billing.ItemTerms{Price: item.Price, Quantity: item.Quantity, VAT: item.VAT}
		rules = append(rules,
			billing.NewServiceMustExist(s.serviceRepo, item.ServiceID),
			billing.NewItemPriceMustBePositive(terms),
			billing.NewItemQuantityMustBePositive(terms),
			billing.NewItemVATMustBeInRange(terms),
		)
	}
	if err := s.rules.Validate(ctx, rules...); err != nil {
		return nil, err
	}

	items, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	if err := invoice.Update(req.CustomerID, req.Description, status, items); err != nil {
		return nil, err
	}
	invoice.Reconcile(s.now())

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		return repos.InvoiceRepo().SaveWithLock(ctx, invoice)
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// MarkPaid transitions an invoice to Paid
func (s *InvoiceService) MarkPaid(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.rules.Validate(ctx, billing.NewInvoiceCanBePaid(invoice)); err != nil {
		return nil, err
	}
	if err := invoice.MarkPaid(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Cancel transitions an invoice to Cancelled
func (s *InvoiceService) Cancel(ctx context.Context, invoiceID uuid.UUID) (*InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	if err := s.rules.Validate(ctx, billing.NewInvoiceCanBeCancelled(invoice)); err != nil {
		return nil, err
	}
	if err := invoice.Cancel(); err != nil {
		return nil, err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, invoice)

	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// Delete soft-deletes an invoice. Paid invoices cannot be deleted.
func (s *InvoiceService) Delete(ctx context.Context, invoiceID uuid.UUID) error {
	invoice, err := s.invoiceRepo.FindByID(ctx, invoiceID)
	if err != nil {
		return err
	}

	if err := s.rules.Validate(ctx, billing.NewInvoiceCanBeDeleted(invoice)); err != nil {
		return err
	}
	if err := invoice.Delete(); err != nil {
		return err
	}

	if err := s.invoiceRepo.SaveWithLock(ctx, invoice); err != nil {
		return err
	}

	s.publishEvents(ctx, invoice)

	return nil
}

// ReconcileOverdue runs the bulk reconciliation pass over all Pending
// and Overdue invoices and returns how many changed status.
func (s *InvoiceService) ReconcileOverdue(ctx context.Context) (int, error) {
	invoices, err := s.invoiceRepo.FindReconcilable(ctx)
	if err != nil {
		return 0, err
	}

	today := s.now()
	changed := 0
	for _, invoice := range invoices {
		if !invoice.Reconcile(today) {
			continue
		}
		if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
			return changed, err
		}
		s.publishEvents(ctx, invoice)
		changed++
	}

	return changed, nil
}

// reconcileAndPersist applies the read-time status transition and
// persists the invoice when the status actually flipped.
func (s *InvoiceService) reconcileAndPersist(ctx context.Context, invoice *billing.Invoice) error {
	if !invoice.Reconcile(s.now()) {
		return nil
	}
	if err := s.invoiceRepo.Save(ctx, invoice); err != nil {
		return err
	}
	s.publishEvents(ctx, invoice)
	return nil
}

func buildItems(requests []CreateInvoiceItemRequest) ([]billing.InvoiceItem, error) {
	items := make([]billing.InvoiceItem, 0, len(requests))
	for _, req := range requests {
		item, err := billing.NewInvoiceItem(
			req.ServiceID,
			billing.RenewalCycle(req.RenewalCycle),
			req.Price,
			req.Quantity,
			req.VAT,
			req.StartDate,
			req.Description,
		)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, nil
}

func (s *InvoiceService) publishEvents(ctx context.Context, invoice *billing.Invoice) {
	if s.publisher == nil {
		return
	}
	for _, event := range invoice.GetDomainEvents() {
		_ = s.publisher.Publish(ctx, event)
	}
	invoice.ClearDomainEvents()
}
