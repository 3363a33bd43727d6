package booking

import "fmt"

// FieldError is a validation failure attached to a single draft field. It
// blocks step advancement and is never fatal.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

const (
	CodeRequired         = "required"
	CodeInvalidValue     = "invalid_value"
	CodeTooLong          = "too_long"
	CodeInvalidTimeRange = "invalid_time_range"
)
