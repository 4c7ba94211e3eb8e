package repositories

import (
	"context"

	"github.com/SAP-F-2025/auth-portal/internal/models"
)

// UserRepository is the identity provider users sign in against.
// Failures that users can act on are returned as *AuthError.
type UserRepository interface {
	// Authenticate checks a password and returns the account's identity
	Authenticate(ctx context.Context, email, password string) (*models.User, error)

	// Create registers a new account with the profile stored as metadata
	Create(ctx context.Context, email, password string, profile models.Profile) (*models.User, error)

	// Lookups return ErrUserNotFound when nothing matches
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// SetPassword replaces the password of the account with id
	SetPassword(ctx context.Context, id, password string) error
}

// Mailer delivers transactional email such as reset links
type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}
