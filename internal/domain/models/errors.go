package models

import (
	"errors"
	"fmt"
)

// ErrValidation indicates a mandatory field is missing or malformed. The
// operation is rejected and no state changes.
var ErrValidation = errors.New("validation failed")

// ErrNotFound indicates an identity key resolved to no record, typically a
// stale view referencing a record that was deleted meanwhile.
var ErrNotFound = errors.New("record not found")

// RequiredFieldError wraps ErrValidation with the offending field name.
func RequiredFieldError(field string) error {
	return fmt.Errorf("%w: field %q is required", ErrValidation, field)
}
