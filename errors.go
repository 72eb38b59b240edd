package session

import (
	"context"
	stderrors "errors"

	goerrors "github.com/goliatone/go-errors"
)

const (
	textCodeLoginInProgress      = "LOGIN_IN_PROGRESS"
	textCodeAlreadyAuthenticated = "ALREADY_AUTHENTICATED"
	textCodeUnknownProvider      = "UNKNOWN_PROVIDER"
	textCodeInvalidTransition    = "INVALID_SESSION_TRANSITION"
)

// ErrLoginInProgress is returned when a login attempt is started while another
// one is still in flight. Attempts are never queued.
var ErrLoginInProgress = goerrors.New("login already in progress", goerrors.CategoryConflict).
	WithTextCode(textCodeLoginInProgress).
	WithCode(goerrors.CodeConflict)

// ErrAlreadyAuthenticated is returned when a login attempt is started for a
// session that already holds an identity. Log out first.
var ErrAlreadyAuthenticated = goerrors.New("session already authenticated", goerrors.CategoryConflict).
	WithTextCode(textCodeAlreadyAuthenticated).
	WithCode(goerrors.CodeConflict)

// ErrProviderNotFound is returned for login attempts against a provider id
// that was never registered with the orchestrator.
var ErrProviderNotFound = goerrors.New("unknown identity provider", goerrors.CategoryValidation).
	WithTextCode(textCodeUnknownProvider).
	WithCode(goerrors.CodeBadRequest)

// ErrInvalidTransition is returned when a requested session status change is
// not part of the lifecycle graph.
var ErrInvalidTransition = goerrors.New("invalid session state transition", goerrors.CategoryConflict).
	WithTextCode(textCodeInvalidTransition).
	WithCode(goerrors.CodeConflict)

// LoginErrorKind is the closed taxonomy of login failures.
type LoginErrorKind string

const (
	// LoginErrorCancelled means the visitor abandoned the attempt (closed a
	// popup, dismissed the widget) or the attempt context was cancelled.
	LoginErrorCancelled LoginErrorKind = "cancelled"
	// LoginErrorNetwork means the provider could not be reached or did not
	// respond within the attempt deadline.
	LoginErrorNetwork LoginErrorKind = "network"
	// LoginErrorDenied means the provider answered and refused the sign in.
	LoginErrorDenied LoginErrorKind = "denied"
	// LoginErrorUnknown is the fallback for anything an adapter surfaced that
	// the orchestrator could not classify, including recovered panics.
	LoginErrorUnknown LoginErrorKind = "unknown"
)

// LoginError is the normalized failure an identity provider adapter reports.
// Message is human readable and safe to display inline on the login view.
type LoginError struct {
	Kind    LoginErrorKind
	Message string
	cause   error
}

// NewLoginError creates a LoginError with the given kind and message.
func NewLoginError(kind LoginErrorKind, message string) *LoginError {
	return &LoginError{Kind: kind, Message: message}
}

// WrapLoginError creates a LoginError that keeps the underlying cause.
func WrapLoginError(kind LoginErrorKind, message string, cause error) *LoginError {
	return &LoginError{Kind: kind, Message: message, cause: cause}
}

func (e *LoginError) Error() string {
	if e.Message != "" {
		return string(e.Kind) + ": " + e.Message
	}
	return string(e.Kind)
}

func (e *LoginError) Unwrap() error {
	return e.cause
}

// AsLoginError normalizes any adapter error into a LoginError. Context
// cancellation maps to cancelled, a blown deadline maps to network (the
// provider never answered), everything else is unknown.
func AsLoginError(err error) *LoginError {
	if err == nil {
		return nil
	}

	var lerr *LoginError
	if stderrors.As(err, &lerr) {
		return lerr
	}

	if stderrors.Is(err, context.DeadlineExceeded) {
		return WrapLoginError(LoginErrorNetwork, "identity provider did not respond", err)
	}

	if stderrors.Is(err, context.Canceled) {
		return WrapLoginError(LoginErrorCancelled, "login attempt was cancelled", err)
	}

	return WrapLoginError(LoginErrorUnknown, err.Error(), err)
}
