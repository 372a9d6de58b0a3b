package partner

import (
	"regexp"
	"strings"
	"time"

	"github.com/crm/backend/internal/domain/shared"
)

// Customer represents a billed party in the partner context.
// It is the aggregate root for customer-related operations.
type Customer struct {
	shared.BaseAggregateRoot
	FullName    string `gorm:"type:varchar(200);not null"`
	Email       string `gorm:"type:varchar(100);not null;index"`
	Phone       string `gorm:"type:varchar(20)"`
	TaxOffice   string `gorm:"type:varchar(100)"`
	TaxNumber   string `gorm:"type:varchar(20);index"`
	Address     string `gorm:"type:varchar(500)"`
	Description string `gorm:"type:varchar(1000)"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer with required fields.
// Email is normalized to trimmed lower case before validation.
func NewCustomer(fullName, email string) (*Customer, error) {
	fullName = strings.TrimSpace(fullName)
	email = NormalizeEmail(email)

	if err := validateFullName(fullName); err != nil {
		return nil, err
	}
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}

	customer := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FullName:          fullName,
		Email:             email,
	}

	customer.AddDomainEvent(NewCustomerCreatedEvent(customer))

	return customer, nil
}

// Update updates the customer's identity fields
func (c *Customer) Update(fullName, email string) error {
	fullName = strings.TrimSpace(fullName)
	email = NormalizeEmail(email)

	if err := validateFullName(fullName); err != nil {
		return err
	}
	if err := ValidateEmail(email); err != nil {
		return err
	}

	c.FullName = fullName
	c.Email = email
	c.UpdatedAt = time.Now().UTC()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerUpdatedEvent(c))

	return nil
}

// SetContact sets the customer's phone number
func (c *Customer) SetContact(phone string) error {
	phone = strings.TrimSpace(phone)
	if phone != "" {
		if err := validatePhone(phone); err != nil {
			return err
		}
	}

	c.Phone = phone
	c.UpdatedAt = time.Now().UTC()
	c.IncrementVersion()

	return nil
}

// SetTaxInfo sets the customer's tax office and tax number.
// The tax number is optional; when present it must be a 10-digit number.
func (c *Customer) SetTaxInfo(taxOffice, taxNumber string) error {
	taxOffice = strings.TrimSpace(taxOffice)
	taxNumber = strings.TrimSpace(taxNumber)

	if taxOffice != "" && len(taxOffice) > 100 {
		return shared.NewInvalidArgumentError("INVALID_TAX_OFFICE", "Tax office cannot exceed 100 characters")
	}
	if taxNumber != "" {
		if err := ValidateTaxNumber(taxNumber); err != nil {
			return err
		}
	}

	c.TaxOffice = taxOffice
	c.TaxNumber = taxNumber
	c.UpdatedAt = time.Now().UTC()
	c.IncrementVersion()

	return nil
}

// SetAddress sets the customer's address
func (c *Customer) SetAddress(address string) error {
	address = strings.TrimSpace(address)
	if len(address) > 500 {
		return shared.NewInvalidArgumentError("INVALID_ADDRESS", "Address cannot exceed 500 characters")
	}

	c.Address = address
	c.UpdatedAt = time.Now().UTC()
	c.IncrementVersion()

	return nil
}

// SetDescription sets the customer's free-text description
func (c *Customer) SetDescription(description string) error {
	description = strings.TrimSpace(description)
	if len(description) > 1000 {
		return shared.NewInvalidArgumentError("INVALID_DESCRIPTION", "Description cannot exceed 1000 characters")
	}

	c.Description = description
	c.UpdatedAt = time.Now().UTC()
	c.IncrementVersion()

	return nil
}

// Delete soft-deletes the customer. Callers are responsible for checking
// the active-invoice deletion guard first.
func (c *Customer) Delete() error {
	if c.Deleted {
		return shared.NewNotFoundError("CUSTOMER_NOT_FOUND", "Customer not found")
	}

	c.MarkDeleted()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerDeletedEvent(c))

	return nil
}

// HasTaxNumber returns true if the customer has a tax number on record
func (c *Customer) HasTaxNumber() bool {
	return c.TaxNumber != ""
}

// NormalizeEmail trims and lower-cases an email address for storage
// and uniqueness comparison.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validation functions

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateFullName(fullName string) error {
	if fullName == "" {
		return shared.NewInvalidArgumentError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(fullName) > 200 {
		return shared.NewInvalidArgumentError("INVALID_NAME", "Full name cannot exceed 200 characters")
	}
	return nil
}

// ValidateEmail checks an already-normalized email address
func ValidateEmail(email string) error {
	if email == "" {
		return shared.NewInvalidArgumentError("INVALID_EMAIL", "Email cannot be empty")
	}
	if len(email) > 100 {
		return shared.NewInvalidArgumentError("INVALID_EMAIL", "Email cannot exceed 100 characters")
	}
	if !emailRegex.MatchString(email) {
		return shared.NewInvalidArgumentError("INVALID_EMAIL", "Invalid email format")
	}
	return nil
}

// ValidateTaxNumber checks the 10-digit tax number format
func ValidateTaxNumber(taxNumber string) error {
	if len(taxNumber) != 10 {
		return shared.NewInvalidArgumentError("INVALID_TAX_NUMBER", "Tax number must be 10 digits")
	}
	for _, r := range taxNumber {
		if r < '0' || r > '9' {
			return shared.NewInvalidArgumentError("INVALID_TAX_NUMBER", "Tax number must be 10 digits")
		}
	}
	return nil
}

func validatePhone(phone string) error {
	if len(phone) > 20 {
		return shared.NewInvalidArgumentError("INVALID_PHONE", "Phone number cannot exceed 20 characters")
	}
	validPhone := regexp.MustCompile(`^[\d\s\-\(\)\+]+$`)
	if !validPhone.MatchString(phone) {
		return shared.NewInvalidArgumentError("INVALID_PHONE", "Invalid phone number format")
	}
	return nil
}
