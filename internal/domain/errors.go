package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across usecases and repositories.
// Handlers map these to HTTP statuses; repositories translate driver
// errors (unique violations, FK violations) into them so callers never
// have to inspect pg error codes themselves.
var (
	ErrNotFound           = errors.New("record not found")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAdmin           = errors.New("user does not have admin access")
	ErrDuplicateRule      = errors.New("an active shipping rule already exists for this country, state and city")
	ErrDuplicateCategory  = errors.New("a category with this name already exists")
	ErrDuplicateSKU       = errors.New("a product with this SKU already exists")
	ErrCategoryInUse      = errors.New("category cannot be deleted because products reference it")
	ErrLastActiveAccount  = errors.New("the only active bank account cannot be deactivated")
	ErrNoPaymentProof     = errors.New("order has no payment proof on file")
	ErrInvalidStatus      = errors.New("invalid order status")

	// ErrValidation is the base for form-validation failures. Wrap it
	// with Validationf so handlers can map the whole class to 400 while
	// keeping a human-readable message.
	ErrValidation = errors.New("validation failed")
)

// Validationf builds a validation error carrying a user-facing message.
func Validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
