// Package validation provides request struct validation for the
// application services.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/crm/backend/internal/domain/shared"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates a request struct against its validate tags and
// converts failures to invalid-argument domain errors.
func Struct(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return shared.NewInvalidArgumentError("INVALID_REQUEST", err.Error())
	}

	messages := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		messages = append(messages, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return shared.NewInvalidArgumentError("INVALID_REQUEST", strings.Join(messages, "; "))
}
