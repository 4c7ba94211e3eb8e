package casdoor

import (
	"context"
	"fmt"

	"github.com/SAP-F-2025/auth-portal/internal/cache"
	"github.com/SAP-F-2025/auth-portal/internal/repositories"
)

// Mailer sends mail through Casdoor's configured email provider
type Mailer struct {
	client casdoorAPI
	sender string
}

func (m *Mailer) Send(ctx context.Context, to, subject, body string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := m.client.SendEmail(subject, body, m.sender, to); err != nil {
		return fmt.Errorf("failed to send email via Casdoor: %w", err)
	}
	return nil
}

// Repository is the Casdoor identity backend
type Repository struct {
	users       *UserCasdoor
	mailer      *Mailer
	client      casdoorAPI
	application string
}

// NewRepository wires the Casdoor user repository and mailer
func NewRepository(config CasdoorConfig, cm *cache.CacheManager) *Repository {
	return newRepository(config, NewUserCasdoor(config, cm.Users))
}

func newRepository(config CasdoorConfig, users *UserCasdoor) *Repository {
	return &Repository{
		users:       users,
		mailer:      &Mailer{client: users.client, sender: config.MailSender},
		client:      users.client,
		application: config.ApplicationName,
	}
}

func (r *Repository) User() repositories.UserRepository { return r.users }
func (r *Repository) Mailer() repositories.Mailer        { return r.mailer }
func (r *Repository) Close() error                       { return nil }

// Ping loads the configured application, which needs both reachability and valid client credentials
func (r *Repository) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	app, err := r.client.GetApplication(r.application)
	if err != nil {
		return fmt.Errorf("casdoor unreachable: %w", err)
	}
	if app == nil || app.Name == "" {
		return fmt.Errorf("casdoor application %q not found", r.application)
	}
	return nil
}
