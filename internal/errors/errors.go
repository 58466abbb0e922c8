package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// Sentinel errors for the migration taxonomy. Adapter and service code
// marks errors with one of these so callers branch on a tagged kind
// rather than on message text.
var (
	ErrConfiguration        = new(ErrCodeConfiguration, "invalid or missing configuration")
	ErrSourceUnavailable    = new(ErrCodeSourceUnavailable, "ledger source unavailable")
	ErrSinkUnavailable      = new(ErrCodeSinkUnavailable, "ledger sink unavailable")
	ErrSinkConflict         = new(ErrCodeSinkConflict, "ledger sink uniqueness conflict")
	ErrMappingInconsistency = new(ErrCodeMappingInconsistency, "cross-system mapping inconsistency")
	ErrStateStore           = new(ErrCodeStateStore, "state store error")
	ErrNotFound             = new(ErrCodeNotFound, "resource not found")
	ErrValidation           = new(ErrCodeValidation, "validation error")
	ErrHTTPClient           = new(ErrCodeHTTPClient, "http client error")
	ErrSystem               = new(ErrCodeSystemError, "system error")
)

const (
	ErrCodeConfiguration        = "configuration_error"
	ErrCodeSourceUnavailable    = "source_unavailable"
	ErrCodeSinkUnavailable      = "sink_unavailable"
	ErrCodeSinkConflict         = "sink_conflict"
	ErrCodeMappingInconsistency = "mapping_inconsistency"
	ErrCodeStateStore           = "state_store_error"
	ErrCodeNotFound             = "not_found"
	ErrCodeValidation           = "validation_error"
	ErrCodeHTTPClient           = "http_client_error"
	ErrCodeSystemError          = "system_error"
)

// InternalError represents a domain error
type InternalError struct {
	Code    string // Machine-readable error code
	Message string // Human-readable error message
	Err     error  // Underlying error
}

func (e *InternalError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Err.Error())
}

func (e *InternalError) Unwrap() error {
	return e.Err
}

// Is implements error matching for wrapped errors
func (e *InternalError) Is(target error) bool {
	if target == nil {
		return false
	}

	t, ok := target.(*InternalError)
	if !ok {
		return errors.Is(e.Err, target)
	}

	return e.Code == t.Code
}

func new(code string, message string) *InternalError {
	return &InternalError{
		Code:    code,
		Message: message,
	}
}

// New creates a new InternalError with the given code and message
func New(code string, message string) *InternalError {
	return new(code, message)
}

func As(err error, target any) bool {
	return errors.As(err, target)
}

// IsConfiguration checks if an error is a configuration error
func IsConfiguration(err error) bool {
	return errors.Is(err, ErrConfiguration)
}

// IsSourceUnavailable checks if an error is a source availability error
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}

// IsSinkUnavailable checks if an error is a sink availability error
func IsSinkUnavailable(err error) bool {
	return errors.Is(err, ErrSinkUnavailable)
}

// IsSinkConflict checks if an error is a sink uniqueness conflict
func IsSinkConflict(err error) bool {
	return errors.Is(err, ErrSinkConflict)
}

// IsMappingInconsistency checks if an error is a cross-system mapping inconsistency
func IsMappingInconsistency(err error) bool {
	return errors.Is(err, ErrMappingInconsistency)
}

// IsStateStore checks if an error is a state store error
func IsStateStore(err error) bool {
	return errors.Is(err, ErrStateStore)
}

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsValidation checks if an error is a validation error
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

// IsHTTPClient checks if an error is an http client error
func IsHTTPClient(err error) bool {
	return errors.Is(err, ErrHTTPClient)
}
