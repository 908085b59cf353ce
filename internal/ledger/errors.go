package ledger

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when a mutation is attempted with no
// signed-in user.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrInvalidAmount is returned for amounts that do not parse or are negative.
var ErrInvalidAmount = errors.New("invalid amount")

// ErrInvalidDate is returned for dates that do not parse.
var ErrInvalidDate = errors.New("invalid date")

// ValidationError reports a missing required field on an add operation.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// IsValidationError reports whether err is a field validation failure.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
