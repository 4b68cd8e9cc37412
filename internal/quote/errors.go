package quote

import (
	"fmt"
)

// Domain error codes. A quote that matches nothing is an expected
// business outcome, returned as data, never a panic or a plain wrapped
// error the caller cannot classify.
const (
	CodeNoRateFound            = "NO_RATE_FOUND"
	CodeNoValidRateForPlan     = "NO_VALID_RATE_FOR_PLAN"
	CodeMissingPlaceOfDelivery = "MISSING_PLACE_OF_DELIVERY"
)

// Error is a domain-coded quote failure. It implements error so hard
// and domain failures travel the same return path; callers distinguish
// them with errors.As.
type Error struct {
	Code    string `json:"error"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func noRate(format string, args ...any) *Error {
	return &Error{Code: CodeNoRateFound, Message: fmt.Sprintf(format, args...)}
}
