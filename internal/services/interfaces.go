package services

import (
	"context"

	"github.com/SAP-F-2025/auth-portal/internal/models"
)

// ===== CAPABILITIES CONSUMED BY THE AUTH SCREEN =====

// AuthClient is the identity capability behind the auth screen.
// Failures users can act on carry a repositories.FailureKind.
type AuthClient interface {
	// SignIn checks credentials and opens a session for the user
	SignIn(ctx context.Context, email, password string) (*models.Session, error)

	// SignUp registers an account; the profile is stored as account metadata
	SignUp(ctx context.Context, email, password string, profile models.Profile) error

	// ResetPassword sends a reset link. Unknown emails succeed silently.
	ResetPassword(ctx context.Context, email string) error

	// ConfirmReset redeems a reset token once and sets the new password
	ConfirmReset(ctx context.Context, token, password string) error

	// SignOut ends the session; an unknown session is not an error
	SignOut(ctx context.Context, sessionID string) error

	// CurrentUser returns the session user or cache.ErrSessionNotFound
	CurrentUser(ctx context.Context, sessionID string) (*models.User, error)
}

// LocaleStore holds the active language code
type LocaleStore interface {
	Language() string
	SetLanguage(code string)
}

// Navigator moves the user to another page
type Navigator interface {
	Navigate(path string, replace bool)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	Auth() AuthClient
	Screens() *ScreenFactory
	Locale() *LocaleService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
