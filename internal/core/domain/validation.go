package domain

// ValidationError reports the first field that failed input validation.
// It is a recoverable error: the caller corrects the field and resubmits.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
