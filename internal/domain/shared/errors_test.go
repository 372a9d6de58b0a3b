package shared

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_Kinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind ErrorKind
	}{
		{"not found", NewNotFoundError("CUSTOMER_NOT_FOUND", "Customer not found"), KindNotFound},
		{"invalid argument", NewInvalidArgumentError("INVALID_PRICE", "Price must be positive"), KindInvalidArgument},
		{"rule violation", NewDomainError("EMAIL_TAKEN", "Email already in use"), KindRuleViolation},
		{"conflict", NewConflictError("STALE_WRITE", "Record modified concurrently"), KindConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind == KindNotFound, IsNotFound(tt.err))
			assert.Equal(t, tt.kind == KindInvalidArgument, IsInvalidArgument(tt.err))
			assert.Equal(t, tt.kind == KindRuleViolation, IsRuleViolation(tt.err))
			assert.Equal(t, tt.kind == KindConflict, IsConflict(tt.err))
		})
	}
}

func TestDomainError_WrappedKindDetection(t *testing.T) {
	wrapped := fmt.Errorf("loading invoice: %w", ErrNotFound)

	assert.True(t, IsNotFound(wrapped))
	assert.False(t, IsConflict(wrapped))
}

func TestDomainError_NonDomainError(t *testing.T) {
	err := fmt.Errorf("plain error")

	assert.False(t, IsNotFound(err))
	assert.False(t, IsInvalidArgument(err))
	assert.False(t, IsRuleViolation(err))
	assert.False(t, IsConflict(err))
}
