package cashbook

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation error")

	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDocumentNotFound    = errors.New("document not found")

	ErrDuplicateAccount        = errors.New("account already exists")
	ErrDuplicateCategory       = errors.New("category already exists")
	ErrEssentialCategory       = errors.New("essential category cannot be deleted")
	ErrAccountInUse            = errors.New("account has transactions")
	ErrDuplicateInitialBalance = errors.New("account already has an initial balance")
	ErrConfirmationRequired    = errors.New("confirmation required")

	// ErrNoData is returned when exporting a report without rows.
	ErrNoData = errors.New("no data to export")
)

// ValidationError reports a bad user input, before any state was modified.
type ValidationError struct {
	Field  string // name of the offending input field, e.g. "amount"
	Value  string // raw value as submitted
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for any validation error.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func invalid(field, value, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}
