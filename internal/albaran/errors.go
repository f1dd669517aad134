package albaran

import (
	"errors"
	"fmt"
)

// Common editing and service errors
var (
	// ErrValidation is wrapped by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrLastItem is returned when removing the only line item of a draft.
	ErrLastItem = errors.New("a delivery note needs at least one line item")

	// ErrItemNotFound is returned for an unknown line item id.
	ErrItemNotFound = errors.New("line item not found")

	// ErrUnknownColumn is returned when addressing a column the draft does not define.
	ErrUnknownColumn = errors.New("unknown extra column")

	// ErrEmptyColumn is returned when adding a column with a blank name.
	ErrEmptyColumn = errors.New("column name is empty")

	// ErrDuplicateColumn is returned when adding a column that already exists.
	ErrDuplicateColumn = errors.New("column already exists")

	// ErrCustomerNotFound is returned for an unknown customer id.
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrNoteNotFound is returned when no delivery note matches.
	ErrNoteNotFound = errors.New("delivery note not found")

	// ErrLogoTooLarge is returned for logos above MaxLogoSize. The header is
	// left unchanged.
	ErrLogoTooLarge = errors.New("logo exceeds maximum size")

	// ErrSuggestionsDisabled is returned when no text generator is configured.
	ErrSuggestionsDisabled = errors.New("note suggestions are not configured")
)

// ValidationError reports the first field that blocks saving.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

// Unwrap makes every ValidationError match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
