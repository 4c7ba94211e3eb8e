package repositories

import "context"

// Repository bundles one identity backend with its mail channel
type Repository interface {
	User() UserRepository
	Mailer() Mailer

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}
