package repositories

import (
	"errors"
	"strings"
)

// FailureKind tags the auth failures the screen reacts to
type FailureKind int

const (
	FailureUnknown FailureKind = iota
	FailureInvalidCredentials
	FailureUserAlreadyExists
	FailureResetTokenInvalid
)

func (k FailureKind) String() string {
	switch k {
	case FailureInvalidCredentials:
		return "invalid_credentials"
	case FailureUserAlreadyExists:
		return "user_already_exists"
	case FailureResetTokenInvalid:
		return "reset_token_invalid"
	default:
		return "unknown"
	}
}

// AuthError is a provider failure with its kind attached
type AuthError struct {
	Kind    FailureKind
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	switch {
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return e.Kind.String()
	}
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches the sentinels by kind so wrapped provider errors compare equal to them
func (e *AuthError) Is(target error) bool {
	var t *AuthError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind != FailureUnknown && t.Kind == e.Kind
}

// Sentinel errors
var (
	ErrInvalidCredentials = &AuthError{Kind: FailureInvalidCredentials, Message: "invalid_credentials"}
	ErrUserAlreadyExists  = &AuthError{Kind: FailureUserAlreadyExists, Message: "user_already_exists"}
	ErrResetTokenInvalid  = &AuthError{Kind: FailureResetTokenInvalid, Message: "reset_token_invalid"}
	ErrUserNotFound       = errors.New("user not found")
)

// NewAuthError wraps err with a kind
func NewAuthError(kind FailureKind, err error) *AuthError {
	return &AuthError{Kind: kind, Err: err}
}

// KindOf returns the failure kind carried by err. Untagged errors are unknown.
func KindOf(err error) FailureKind {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr.Kind
	}
	return FailureUnknown
}

// FromMessage tags a provider's raw failure text
func FromMessage(text string) *AuthError {
	return &AuthError{Kind: ClassifyMessage(text), Message: text}
}

// ClassifyMessage maps provider text to a kind. Only providers that report bare strings use it.
func ClassifyMessage(text string) FailureKind {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "invalid_credentials"),
		strings.Contains(lower, "invalid login credentials"):
		return FailureInvalidCredentials
	case strings.Contains(lower, "user_already_exists"),
		strings.Contains(lower, "user already registered"):
		return FailureUserAlreadyExists
	default:
		return FailureUnknown
	}
}
