package types

import (
	"errors"
	"fmt"
)

// Error kinds used as metric labels and log fields.
const (
	KindTransport     = "transport"
	KindInvalidFormat = "invalid_format"
	KindValidation    = "validation"
	KindUnknown       = "unknown"
)

// TransportError represents a failed call to the remote price API:
// network failure, timeout, non-2xx status or an unreadable body.
type TransportError struct {
	Endpoint   string // API path, e.g. /price
	StatusCode int    // 0 when no response was received
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("request %s failed: status %d: %v", e.Endpoint, e.StatusCode, e.Err)
	}

	return fmt.Sprintf("request %s failed: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// InvalidFormatError is returned when a response decodes but lacks the
// marker field required for its endpoint.
type InvalidFormatError struct {
	Endpoint string
	Reason   string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid response format from %s: %s", e.Endpoint, e.Reason)
}

// ValidationError reports bad user input, e.g. a non-numeric alert threshold.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

// ErrorKind classifies err into one of the Kind* constants.
func ErrorKind(err error) string {
	var transportErr *TransportError
	var formatErr *InvalidFormatError
	var validationErr *ValidationError

	switch {
	case errors.As(err, &transportErr):
		return KindTransport
	case errors.As(err, &formatErr):
		return KindInvalidFormat
	case errors.As(err, &validationErr):
		return KindValidation
	default:
		return KindUnknown
	}
}
