package errors

import (
	"errors"
	"fmt"
	"time"
)

// Base error types
var (
	ErrNotFound           = errors.New("not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTimeout            = errors.New("timeout")
	ErrInvalidInput       = errors.New("invalid input")
	ErrConnectionFailed   = errors.New("connection failed")
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// ErrorType represents the category of error
type ErrorType string

const (
	ErrorTypeConnection ErrorType = "connection"
	ErrorTypeAuth       ErrorType = "auth"
	ErrorTypeParse      ErrorType = "parse"
	ErrorTypeStorage    ErrorType = "storage"
	ErrorTypeTimeout    ErrorType = "timeout"
	ErrorTypeInternal   ErrorType = "internal"
)

// EntitlementError is a structured error for entitlement operations.
// Business outcomes (no subscription, unknown plan, quota exceeded) are
// values, not errors; only genuinely exceptional conditions take this path.
type EntitlementError struct {
	Type       ErrorType
	Op         string // Operation that failed (e.g., "fetch_subscription")
	UserID     string // Identity the operation ran for, if any
	Err        error  // Underlying error
	StatusCode int    // HTTP status code if applicable
	Timestamp  time.Time
	Retryable  bool
}

func (e *EntitlementError) Error() string {
	if e.UserID != "" {
		return fmt.Sprintf("%s failed for %s: %v", e.Op, e.UserID, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *EntitlementError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is interface
func (e *EntitlementError) Is(target error) bool {
	if target == nil {
		return false
	}

	switch target {
	case ErrUnauthorized:
		return e.Type == ErrorTypeAuth
	case ErrTimeout:
		return e.Type == ErrorTypeTimeout
	case ErrConnectionFailed:
		return e.Type == ErrorTypeConnection
	case ErrStorageUnavailable:
		return e.Type == ErrorTypeStorage
	}

	return errors.Is(e.Err, target)
}

// NewEntitlementError creates a new EntitlementError
func NewEntitlementError(errorType ErrorType, op, userID string, err error) *EntitlementError {
	return &EntitlementError{
		Type:      errorType,
		Op:        op,
		UserID:    userID,
		Err:       err,
		Timestamp: time.Now(),
		Retryable: isRetryable(errorType, err),
	}
}

// WithStatusCode adds HTTP status code to the error
func (e *EntitlementError) WithStatusCode(code int) *EntitlementError {
	e.StatusCode = code
	if code >= 500 || code == 429 || code == 408 {
		e.Retryable = true
	} else if code >= 400 && code < 500 {
		e.Retryable = false
	}
	return e
}

// isRetryable determines if an error should be retried
func isRetryable(errorType ErrorType, err error) bool {
	switch errorType {
	case ErrorTypeConnection, ErrorTypeTimeout:
		return true
	case ErrorTypeAuth, ErrorTypeParse:
		return false
	default:
		if err != nil {
			return !errors.Is(err, ErrInvalidInput) && !errors.Is(err, ErrUnauthorized)
		}
		return true
	}
}

// Helper functions

// WrapFetchError wraps a billing fetch failure with context.
// The caller surfaces these as a distinct error state while entitlement
// falls back to the free tier.
func WrapFetchError(op, userID string, err error) error {
	return NewEntitlementError(ErrorTypeConnection, op, userID, err)
}

// WrapParseError wraps a malformed billing payload with context.
func WrapParseError(op, userID string, err error) error {
	return NewEntitlementError(ErrorTypeParse, op, userID, err)
}

// WrapStorageError wraps a persistence failure with context.
func WrapStorageError(op string, err error) error {
	return NewEntitlementError(ErrorTypeStorage, op, "", err)
}

// IsRetryableError checks if an error should be retried
func IsRetryableError(err error) bool {
	var entErr *EntitlementError
	if errors.As(err, &entErr) {
		return entErr.Retryable
	}

	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrConnectionFailed)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}

	var entErr *EntitlementError
	if errors.As(err, &entErr) {
		if entErr.Type == ErrorTypeAuth {
			return true
		}
		if entErr.StatusCode == 401 || entErr.StatusCode == 403 {
			return true
		}
	}

	return errors.Is(err, ErrUnauthorized)
}
