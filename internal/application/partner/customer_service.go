package partner

import (
	"context"

	"github.com/google/uuid"

	"github.com/crm/backend/internal/application/validation"
	"github.com/crm/backend/internal/domain/partner"
	"github.com/crm/backend/internal/domain/shared"
)

// CustomerService handles customer-related business operations
type CustomerService struct {
	customerRepo   partner.CustomerRepository
	invoiceChecker partner.ActiveInvoiceChecker
	rules          *shared.RuleValidator
	publisher      shared.EventPublisher
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo partner.CustomerRepository, invoiceChecker partner.ActiveInvoiceChecker, publisher shared.EventPublisher) *CustomerService {
	return &CustomerService{
		customerRepo:   customerRepo,
		invoiceChecker: invoiceChecker,
		rules:          shared.NewRuleValidator(),
		publisher:      publisher,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, req CreateCustomerRequest) (*CustomerResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	if err := s.rules.Validate(ctx,
		partner.NewCustomerEmailMustBeUnique(s.customerRepo, req.Email, uuid.Nil),
		partner.NewCustomerTaxNumberMustBeUnique(s.customerRepo, req.TaxNumber, uuid.Nil),
	); err != nil {
		return nil, err
	}

	customer, err := partner.NewCustomer(req.FullName, req.Email)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" {
		if err := customer.SetContact(req.Phone); err != nil {
			return nil, err
		}
	}
	if req.TaxOffice != "" || req.TaxNumber != "" {
		if err := customer.SetTaxInfo(req.TaxOffice, req.TaxNumber); err != nil {
			return nil, err
		}
	}
	if req.Address != "" {
		if err := customer.SetAddress(req.Address); err != nil {
			return nil, err
		}
	}
	if req.Description != "" {
		if err := customer.SetDescription(req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// GetByID retrieves a customer by ID
func (s *CustomerService) GetByID(ctx context.Context, customerID uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	response := ToCustomerResponse(customer)
	return &response, nil
}

// List retrieves customers with pagination and search
func (s *CustomerService) List(ctx context.Context, req ListCustomersRequest) ([]CustomerResponse, int64, error) {
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
	filter.Search = req.Search

	page, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	return ToCustomerResponses(page.Items), page.Total, nil
}

// Update updates a customer. Nil request fields are left unchanged.
func (s *CustomerService) Update(ctx context.Context, customerID uuid.UUID, req UpdateCustomerRequest) (*CustomerResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, err
	}

	if req.Email != nil {
		if err := s.rules.Validate(ctx,
			partner.NewCustomerEmailMustBeUnique(s.customerRepo, *req.Email, customerID),
		); err != nil {
			return nil, err
		}
	}
	if req.TaxNumber != nil {
		if err := s.rules.Validate(ctx,
			partner.NewCustomerTaxNumberMustBeUnique(s.customerRepo, *req.TaxNumber, customerID),
		); err != nil {
			return nil, err
		}
	}

	if req.FullName != nil || req.Email != nil {
		fullName := customer.FullName
		email := customer.Email
		if req.FullName != nil {
			fullName = *req.FullName
		}
		if req.Email != nil {
			email = *req.Email
		}
		if err := customer.Update(fullName, email); err != nil {
			return nil, err
		}
	}
	if req.Phone != nil {
		if err := customer.SetContact(*req.Phone); err != nil {
			return nil, err
		}
	}
	if req.TaxOffice != nil || req.TaxNumber != nil {
		taxOffice := customer.TaxOffice
		taxNumber := customer.TaxNumber
		if req.TaxOffice != nil {
			taxOffice = *req.TaxOffice
		}
		if req.TaxNumber != nil {
			taxNumber = *req.TaxNumber
		}
		if err := customer.SetTaxInfo(taxOffice, taxNumber); err != nil {
			return nil, err
		}
	}
	if req.Address != nil {
		if err := customer.SetAddress(*req.Address); err != nil {
			return nil, err
		}
	}
	if req.Description != nil {
		if err := customer.SetDescription(*req.Description); err != nil {
			return nil, err
		}
	}

	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, customer)

	response := ToCustomerResponse(customer)
	return &response, nil
}

// Delete soft-deletes a customer. Customers with a pending invoice
// cannot be deleted.
func (s *CustomerService) Delete(ctx context.Context, customerID uuid.UUID) error {
	customer, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return err
	}

	if err := s.rules.Validate(ctx,
		partner.NewCustomerCanBeDeleted(s.invoiceChecker, customerID),
	); err != nil {
		return err
	}

	if err := customer.Delete(); err != nil {
		return err
	}

	if err := s.customerRepo.SaveWithLock(ctx, customer); err != nil {
		return err
	}

	s.publishEvents(ctx, customer)

	return nil
}

func (s *CustomerService) publishEvents(ctx context.Context, customer *partner.Customer) {
	if s.publisher == nil {
		return
	}
	for _, event := range customer.GetDomainEvents() {
		_ = s.publisher.Publish(ctx, event)
	}
	customer.ClearDomainEvents()
}
