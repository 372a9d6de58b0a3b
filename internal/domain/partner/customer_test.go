package partner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crm/backend/internal/domain/shared"
)

func TestNewCustomer(t *testing.T) {
	customer, err := NewCustomer("Ada Lovelace", "Ada@Example.COM")
	require.NoError(t, err)

	assert.Equal(t, "Ada Lovelace", customer.FullName)
	assert.Equal(t, "ada@example.com", customer.Email, "email should be normalized")
	assert.Equal(t, 1, customer.GetVersion())
	assert.False(t, customer.IsDeleted())
	assert.Len(t, customer.GetDomainEvents(), 1)
	assert.Equal(t, CustomerCreatedEventType, customer.GetDomainEvents()[0].EventType())
}

func TestNewCustomer_TrimsName(t *testing.T) {
	customer, err := NewCustomer("  Ada Lovelace  ", "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", customer.FullName)
}

func TestNewCustomer_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		fullName string
		email    string
	}{
		{"empty name", "", "ada@example.com"},
		{"empty email", "Ada Lovelace", ""},
		{"malformed email", "Ada Lovelace", "not-an-email"},
		{"email without tld", "Ada Lovelace", "ada@example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCustomer(tt.fullName, tt.email)
			require.Error(t, err)
			assert.True(t, shared.IsInvalidArgument(err))
		})
	}
}

func TestCustomer_Update(t *testing.T) {
	customer, err := NewCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	err = customer.Update("Grace Hopper", "Grace@Example.com")
	require.NoError(t, err)

	assert.Equal(t, "Grace Hopper", customer.FullName)
	assert.Equal(t, "grace@example.com", customer.Email)
	assert.Equal(t, 2, customer.GetVersion())
}

func TestCustomer_SetTaxInfo(t *testing.T) {
	customer, err := NewCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	err = customer.SetTaxInfo("Kadikoy", "1234567890")
	require.NoError(t, err)
	assert.Equal(t, "1234567890", customer.TaxNumber)
	assert.True(t, customer.HasTaxNumber())

	// clearing tax info is allowed
	err = customer.SetTaxInfo("", "")
	require.NoError(t, err)
	assert.False(t, customer.HasTaxNumber())
}

func TestCustomer_SetTaxInfo_InvalidNumber(t *testing.T) {
	customer, err := NewCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	for _, taxNumber := range []string{"123", "12345678901", "12345abcde"} {
		err = customer.SetTaxInfo("Kadikoy", taxNumber)
		require.Error(t, err)
		assert.True(t, shared.IsInvalidArgument(err))
	}
}

func TestCustomer_SetContact(t *testing.T) {
	customer, err := NewCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)

	require.NoError(t, customer.SetContact("+90 (212) 555-1234"))
	assert.Equal(t, "+90 (212) 555-1234", customer.Phone)

	err = customer.SetContact("call me maybe")
	require.Error(t, err)
	assert.True(t, shared.IsInvalidArgument(err))
}

func TestCustomer_Delete(t *testing.T) {
	customer, err := NewCustomer("Ada Lovelace", "ada@example.com")
	require.NoError(t, err)
	customer.ClearDomainEvents()

	require.NoError(t, customer.Delete())
	assert.True(t, customer.IsDeleted())
	assert.Len(t, customer.GetDomainEvents(), 1)
	assert.Equal(t, CustomerDeletedEventType, customer.GetDomainEvents()[0].EventType())

	err = customer.Delete()
	require.Error(t, err)
	assert.True(t, shared.IsNotFound(err), "deleting twice should report not found")
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "ada@example.com", NormalizeEmail("  ADA@Example.Com "))
}
