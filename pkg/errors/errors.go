package errors

import (
	"errors"
	"fmt"
)

// Common error types
var (
	// ErrConfigMissing indicates that a required configuration file is absent
	ErrConfigMissing = errors.New("configuration file missing")

	// ErrConfigMalformed indicates that a configuration file is not valid JSON
	// or holds a value outside its allowed range
	ErrConfigMalformed = errors.New("configuration file malformed")

	// ErrSourceMissing indicates that the participant CSV file does not exist
	ErrSourceMissing = errors.New("participant source missing")

	// ErrRenderFailed indicates that a certificate could not be rendered
	ErrRenderFailed = errors.New("certificate render failed")

	// ErrAuthFailed indicates that the SMTP server rejected authentication
	ErrAuthFailed = errors.New("smtp authentication failed")

	// ErrSendFailed indicates that an email could not be delivered
	ErrSendFailed = errors.New("email send failed")

	// ErrAttachmentMissing indicates that a certificate file to attach does not exist
	ErrAttachmentMissing = errors.New("attachment missing")

	// ErrInvalidInput indicates that invalid input was provided
	ErrInvalidInput = errors.New("invalid input")
)

// ServiceError represents a service-level error with additional context
type ServiceError struct {
	Op      string                 // Operation that failed
	Service string                 // Service where the error occurred
	Err     error                  // Underlying error
	Context map[string]interface{} // Additional context
}

// Error implements the error interface
func (e *ServiceError) Error() string {
	if len(e.Context) > 0 {
		return fmt.Sprintf("%s.%s: %v (context: %v)", e.Service, e.Op, e.Err, e.Context)
	}
	return fmt.Sprintf("%s.%s: %v", e.Service, e.Op, e.Err)
}

// Unwrap allows errors.Is and errors.As to work
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError creates a new ServiceError
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{
		Service: service,
		Op:      op,
		Err:     err,
	}
}

// WithContext adds context to a ServiceError
func (e *ServiceError) WithContext(key string, value interface{}) *ServiceError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// IsConfigMissing checks if an error is a missing configuration error
func IsConfigMissing(err error) bool {
	return errors.Is(err, ErrConfigMissing)
}

// IsConfigMalformed checks if an error is a malformed configuration error
func IsConfigMalformed(err error) bool {
	return errors.Is(err, ErrConfigMalformed)
}

// IsSourceMissing checks if an error is a missing participant source error
func IsSourceMissing(err error) bool {
	return errors.Is(err, ErrSourceMissing)
}

// IsRenderFailed checks if an error is a certificate render error
func IsRenderFailed(err error) bool {
	return errors.Is(err, ErrRenderFailed)
}

// IsAuthFailed checks if an error is an SMTP authentication error
func IsAuthFailed(err error) bool {
	return errors.Is(err, ErrAuthFailed)
}

// IsSendFailed checks if an error is an email delivery error
func IsSendFailed(err error) bool {
	return errors.Is(err, ErrSendFailed)
}

// IsAttachmentMissing checks if an error is a missing attachment error
func IsAttachmentMissing(err error) bool {
	return errors.Is(err, ErrAttachmentMissing)
}

// IsFatal checks if an error must abort the whole run rather than a single
// participant
func IsFatal(err error) bool {
	return errors.Is(err, ErrConfigMissing) ||
		errors.Is(err, ErrConfigMalformed) ||
		errors.Is(err, ErrSourceMissing)
}
