package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"
	ErrAborted      ErrorCode = "ABORTED"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigInvalid ErrorCode = "CONFIG_INVALID"

	// Collaborator errors
	ErrCollaboratorUnavailable ErrorCode = "COLLABORATOR_UNAVAILABLE"
	ErrCommandFailed           ErrorCode = "COMMAND_FAILED"

	// Package and layout errors
	ErrInvalidPackage         ErrorCode = "INVALID_PACKAGE"
	ErrLayoutDiscoveryFailed  ErrorCode = "LAYOUT_DISCOVERY_FAILED"
	ErrPlacementFailed        ErrorCode = "PLACEMENT_FAILED"
	ErrManifestNotFound       ErrorCode = "MANIFEST_NOT_FOUND"
	ErrManifestInvalid        ErrorCode = "MANIFEST_INVALID"
	ErrNothingToCommit        ErrorCode = "NOTHING_TO_COMMIT"
	ErrAmbiguousRemote        ErrorCode = "AMBIGUOUS_REMOTE"

	// Publish and review errors
	ErrPublishActionFailed     ErrorCode = "PUBLISH_ACTION_FAILED"
	ErrReviewRequestIDNotFound ErrorCode = "REVIEW_REQUEST_ID_NOT_FOUND"
	ErrChecksFailed            ErrorCode = "CHECKS_FAILED"
	ErrTimedOut                ErrorCode = "TIMED_OUT"
	ErrTagPushFailed           ErrorCode = "TAG_PUSH_FAILED"
)

// Detail keys shared by producers and the CLI error printer
const (
	DetailReviewURL = "review_url"
	DetailReviewID  = "review_id"
	DetailLog       = "log"
)

// IndexpubError represents a structured error with code and details
type IndexpubError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *IndexpubError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *IndexpubError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *IndexpubError) Is(target error) bool {
	var targetErr *IndexpubError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new IndexpubError with the given code and message
func New(code ErrorCode, message string) *IndexpubError {
	return &IndexpubError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new IndexpubError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *IndexpubError {
	return &IndexpubError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with an IndexpubError
func Wrap(err error, code ErrorCode, message string) *IndexpubError {
	if err == nil {
		return nil
	}
	return &IndexpubError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *IndexpubError {
	if err == nil {
		return nil
	}
	return &IndexpubError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *IndexpubError) WithDetail(key string, value interface{}) *IndexpubError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *IndexpubError) WithDetails(details map[string]interface{}) *IndexpubError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var indexpubErr *IndexpubError
	if errors.As(err, &indexpubErr) {
		return indexpubErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not an IndexpubError
func GetErrorCode(err error) ErrorCode {
	var indexpubErr *IndexpubError
	if errors.As(err, &indexpubErr) {
		return indexpubErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not an IndexpubError.
// When errors are nested, the details of every IndexpubError in the chain are
// merged, outermost winning.
func GetErrorDetails(err error) map[string]interface{} {
	var merged map[string]interface{}
	for err != nil {
		var indexpubErr *IndexpubError
		if !errors.As(err, &indexpubErr) {
			break
		}
		if merged == nil {
			merged = make(map[string]interface{})
		}
		for k, v := range indexpubErr.Details {
			if _, exists := merged[k]; !exists {
				merged[k] = v
			}
		}
		err = indexpubErr.Wrapped
	}
	return merged
}
