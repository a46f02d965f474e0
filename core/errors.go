package core

import "github.com/pkg/errors"

type (
	// FieldError pins a validation failure to a single input field.
	FieldError struct {
		Field string
		Error string
	}

	// ValidationError carries the per-field failures behind a rejected input.
	// The API layer renders Fields as a field-to-message map.
	ValidationError struct {
		Err    error
		Fields []FieldError
	}

	// shutdown marks an error the process cannot recover from, such as an
	// unreachable database. The server shuts down gracefully on catching one.
	shutdown struct {
		msg string
	}
)

func NewValidationError(err error, flds ...FieldError) error {
	return &ValidationError{Err: err, Fields: flds}
}

func (e ValidationError) Error() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// NewShutdownError returns an error signaling graceful shutdown.
func NewShutdownError(msg string) error { return &shutdown{msg: msg} }

func (s shutdown) Error() string { return s.msg }

// IsShutdown reports whether err is, or wraps, a shutdown signal.
func IsShutdown(err error) bool {
	_, ok := errors.Cause(err).(*shutdown)
	return ok
}
