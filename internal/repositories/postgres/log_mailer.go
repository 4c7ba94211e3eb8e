package postgres

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/auth-portal/internal/utils"
)

// LogMailer writes outgoing mail to the log. Local accounts have no mail provider.
// Bodies carry reset tokens and are only logged at debug level.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, to, subject, body string) error {
	m.logger.InfoContext(ctx, "Outgoing email",
		"to", utils.MaskEmail(to),
		"subject", subject,
		"body_bytes", len(body))
	m.logger.DebugContext(ctx, "Outgoing email body", "to", to, "body", body)
	return nil
}
