package booking

import "time"

// ValidateInterval accepts a session interval iff the end is strictly after
// the start. Equal timestamps are rejected. The failure is attached to the
// end-time field so forms can surface it inline.
func ValidateInterval(start, end time.Time) *FieldError {
	if start.IsZero() {
		return &FieldError{Field: "scheduled_start", Code: CodeRequired, Message: "scheduled_start is required"}
	}
	if end.IsZero() {
		return &FieldError{Field: "scheduled_end", Code: CodeRequired, Message: "scheduled_end is required"}
	}
	if !end.After(start) {
		return &FieldError{
			Field:   "scheduled_end",
			Code:    CodeInvalidTimeRange,
			Message: "scheduled_end must be after scheduled_start",
		}
	}
	return nil
}

// Duration returns the length of a valid interval.
func Duration(start, end time.Time) time.Duration {
	return end.Sub(start)
}
