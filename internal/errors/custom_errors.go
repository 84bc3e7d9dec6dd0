package errors

import (
	"errors"
	"fmt"
)

// AppError represents a structured application error with user-friendly and technical details.
type AppError struct {
	TechnicalMessage string
	UserMessage      string
	Code             string
	HTTPStatus       int
	OriginalError    error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %v", e.UserMessage, e.OriginalError)
}

// Unwrap returns the original error for error chaining.
func (e *AppError) Unwrap() error {
	return e.OriginalError
}

// NewAppError creates a new AppError instance.
func NewAppError(technicalMessage, userMessage, code string, status int, originalErr error) *AppError {
	return &AppError{
		TechnicalMessage: technicalMessage,
		UserMessage:      userMessage,
		Code:             code,
		HTTPStatus:       status,
		OriginalError:    originalErr,
	}
}

// Common error codes
const (
	ErrCodeAuthFailed         = "AUTH_FAILED"
	ErrCodeAuthCancelled      = "AUTH_CANCELLED"
	ErrCodeAuthPopupBlocked   = "AUTH_POPUP_BLOCKED"
	ErrCodeAuthConcurrent     = "AUTH_CONCURRENT_POPUP"
	ErrCodeAuthNetwork        = "AUTH_NETWORK"
	ErrCodeCredentialInvalid  = "CREDENTIAL_INVALID"
	ErrCodeSyncFailed         = "SYNC_FAILED"
	ErrCodeFetchFailed        = "FETCH_FAILED"
	ErrCodeMutationFailed     = "MUTATION_FAILED"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeTimeout            = "TIMEOUT"
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
)

// AuthKind distinguishes the failure modes of a primary authentication
// attempt; each maps to a specific user-facing message.
type AuthKind string

const (
	AuthCancelled         AuthKind = "cancelled"
	AuthPopupBlocked      AuthKind = "popup-blocked"
	AuthConcurrentPopup   AuthKind = "concurrent-popup"
	AuthNetwork           AuthKind = "network"
	AuthCredentialInvalid AuthKind = "credential-invalid"
	AuthWeakPassword      AuthKind = "weak-password"
	AuthEmailInUse        AuthKind = "email-in-use"
	AuthInvalidEmail      AuthKind = "invalid-email"
	AuthOther             AuthKind = "other"
)

// AuthError is fatal to the authentication operation that produced it.
type AuthError struct {
	Kind AuthKind
	Err  error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth failed (%s): %v", e.Kind, e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

func NewAuthError(kind AuthKind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}

// AuthKindOf extracts the AuthKind from an error chain, defaulting to
// AuthOther for non-auth errors.
func AuthKindOf(err error) AuthKind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return AuthOther
}

// SyncError marks a non-fatal backend-sync failure during auth: the user
// stays signed in and only a warning is surfaced.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string {
	return fmt.Sprintf("backend sync failed: %v", e.Err)
}

func (e *SyncError) Unwrap() error { return e.Err }

// FetchError is a network or HTTP failure during a query.
type FetchError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s failed: status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("fetch %s failed: %v", e.Operation, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// MutationError is a failure during a state-changing request. Cached data
// from before the mutation stays intact.
type MutationError struct {
	Operation  string
	StatusCode int
	Err        error
}

func (e *MutationError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("mutation %s failed: status %d: %v", e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("mutation %s failed: %v", e.Operation, e.Err)
}

func (e *MutationError) Unwrap() error { return e.Err }

// IsNotFound reports whether err carries an HTTP 404 from the backend.
func IsNotFound(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == 404
	}
	var mutErr *MutationError
	if errors.As(err, &mutErr) {
		return mutErr.StatusCode == 404
	}
	return false
}

// IsUnauthorized reports whether err carries an HTTP 401 from the backend.
func IsUnauthorized(err error) bool {
	var fetchErr *FetchError
	if errors.As(err, &fetchErr) {
		return fetchErr.StatusCode == 401
	}
	var mutErr *MutationError
	if errors.As(err, &mutErr) {
		return mutErr.StatusCode == 401
	}
	return false
}
