package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrBadRequest      = errors.New("bad request")
	ErrTooManyRequests = errors.New("too many requests")
)

// ErrorKind classifies failures of the password-reset flow so callers never
// have to inspect free-text messages coming from the auth backend.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindExpiredLink
	KindMissingIdentity
	KindPasswordPolicy
	KindRateLimited
)

func (k ErrorKind) String() string {
	switch k {
	case KindExpiredLink:
		return "expired_link"
	case KindMissingIdentity:
		return "missing_identity"
	case KindPasswordPolicy:
		return "password_policy"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// AuthError is the typed failure returned by the auth backend adapter and by
// the local validation steps of the recovery flow.
type AuthError struct {
	Kind    ErrorKind
	Code    string // backend error_code, e.g. "otp_expired"
	Status  int    // HTTP status from the backend, 0 for local errors
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, e.Code)
	}
	return e.Message
}

func (e *AuthError) Unwrap() error { return e.Err }

// Is lets errors.Is match an AuthError against the domain sentinels.
func (e *AuthError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.Kind == KindExpiredLink
	case ErrBadRequest:
		return e.Kind == KindMissingIdentity || e.Kind == KindPasswordPolicy
	case ErrTooManyRequests:
		return e.Kind == KindRateLimited
	}
	return false
}

// NewAuthError builds a local AuthError with no backend status.
func NewAuthError(kind ErrorKind, msg string) *AuthError {
	return &AuthError{Kind: kind, Message: msg}
}

// KindOf returns the ErrorKind carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	var ae *AuthError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindUnknown
}
