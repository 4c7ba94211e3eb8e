package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/auth-portal/internal/cache"
	"github.com/SAP-F-2025/auth-portal/internal/events"
	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/repositories"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
)

const (
	msgAuthTimeout   = "The sign-in service did not respond in time. Please try again."
	resetMailSubject = "Reset your password"
)

// AuthServiceConfig tunes the auth service
type AuthServiceConfig struct {
	// Timeout bounds every provider call; zero disables it
	Timeout time.Duration

	// ResetURL is the page reset links point at; the token is appended as ?token=
	ResetURL string

	ResetTokenTTL time.Duration
}

type authService struct {
	repo        repositories.Repository
	sessions    *cache.SessionStore
	resetTokens *cache.CacheHelper
	publisher   events.EventPublisher
	logger      *slog.Logger
	config      AuthServiceConfig
}

// NewAuthService creates the AuthClient backed by repo
func NewAuthService(
	repo repositories.Repository,
	sessions *cache.SessionStore,
	resetTokens *cache.CacheHelper,
	publisher events.EventPublisher,
	logger *slog.Logger,
	config AuthServiceConfig,
) AuthClient {
	if logger == nil {
		logger = slog.Default()
	}
	if config.ResetTokenTTL <= 0 {
		config.ResetTokenTTL = cache.ResetTokenCacheConfig.TTL
	}
	return &authService{
		repo:        repo,
		sessions:    sessions,
		resetTokens: resetTokens,
		publisher:   publisher,
		logger:      logger,
		config:      config,
	}
}

// run calls fn under the configured timeout. A timeout the provider did not
// classify is reported as an unknown failure with a readable message.
func (s *authService) run(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.Timeout)
		defer cancel()
	}

	err := fn(ctx)
	if err != nil && errors.Is(ctx.Err(), context.DeadlineExceeded) && repositories.KindOf(err) == repositories.FailureUnknown {
		return &repositories.AuthError{Kind: repositories.FailureUnknown, Message: msgAuthTimeout, Err: err}
	}
	return err
}

func (s *authService) SignIn(ctx context.Context, email, password string) (*models.Session, error) {
	var session *models.Session
	err := s.run(ctx, func(ctx context.Context) error {
		user, err := s.repo.User().Authenticate(ctx, email, password)
		if err != nil {
			return err
		}
		session, err = s.sessions.Create(ctx, *user)
		return err
	})
	if err != nil {
		s.logger.Info("Sign in failed", "email", utils.MaskEmail(email), "kind", repositories.KindOf(err).String(), "error", err)
		return nil, err
	}

	s.logger.Info("User signed in", "user_id", session.User.ID, "role", session.User.Role)
	events.PublishSafe(ctx, s.publisher, s.logger, events.NewEvent(events.EventSignedIn, userEvent(&session.User)))
	return session, nil
}

func (s *authService) SignUp(ctx context.Context, email, password string, profile models.Profile) error {
	var user *models.User
	err := s.run(ctx, func(ctx context.Context) error {
		var err error
		user, err = s.repo.User().Create(ctx, email, password, profile)
		return err
	})
	if err != nil {
		s.logger.Info("Sign up failed", "email", utils.MaskEmail(email), "kind", repositories.KindOf(err).String(), "error", err)
		return err
	}

	s.logger.Info("User signed up", "user_id", user.ID, "role", user.Role)
	events.PublishSafe(ctx, s.publisher, s.logger, events.NewEvent(events.EventSignedUp, userEvent(user)))
	return nil
}

func (s *authService) ResetPassword(ctx context.Context, email string) error {
	known := true
	err := s.run(ctx, func(ctx context.Context) error {
		user, err := s.repo.User().GetByEmail(ctx, email)
		if errors.Is(err, repositories.ErrUserNotFound) {
			known = false
			return nil
		}
		if err != nil {
			return err
		}
		return s.sendResetLink(ctx, user)
	})
	if err != nil {
		s.logger.Error("Password reset failed", "email", utils.MaskEmail(email), "error", err)
		return err
	}

	if !known {
		s.logger.Info("Password reset requested for unknown email", "email", utils.MaskEmail(email))
	}
	events.PublishSafe(ctx, s.publisher, s.logger, events.NewEvent(events.EventPasswordResetRequested, events.PasswordResetEvent{
		Email:    email,
		Known:    known,
		ClientID: utils.ClientIDFromContext(ctx),
	}))
	return nil
}

func (s *authService) sendResetLink(ctx context.Context, user *models.User) error {
	token := uuid.NewString()
	if err := s.resetTokens.SetString(ctx, token, user.ID, s.config.ResetTokenTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	link, err := resetLink(s.config.ResetURL, token)
	if err != nil {
		return err
	}

	body := fmt.Sprintf(
		"Hello %s,\n\nUse the link below to choose a new password. It expires in %s.\n\n%s\n\nIf you did not ask for this, ignore this email.\n",
		user.Username, s.config.ResetTokenTTL, link,
	)
	if err := s.repo.Mailer().Send(ctx, user.Email, resetMailSubject, body); err != nil {
		cache.SafeDelete(ctx, s.resetTokens, token)
		return fmt.Errorf("failed to send reset email: %w", err)
	}
	return nil
}

func (s *authService) ConfirmReset(ctx context.Context, token, password string) error {
	var user *models.User
	err := s.run(ctx, func(ctx context.Context) error {
		userID, err := s.resetTokens.GetDelString(ctx, token)
		if errors.Is(err, cache.ErrCacheNotFound) {
			return repositories.ErrResetTokenInvalid
		}
		if err != nil {
			return fmt.Errorf("failed to redeem reset token: %w", err)
		}

		user, err = s.repo.User().GetByID(ctx, userID)
		if errors.Is(err, repositories.ErrUserNotFound) {
			return repositories.ErrResetTokenInvalid
		}
		if err != nil {
			return err
		}
		return s.repo.User().SetPassword(ctx, user.ID, password)
	})
	if err != nil {
		s.logger.Info("Password reset not completed", "kind", repositories.KindOf(err).String(), "error", err)
		return err
	}

	s.logger.Info("Password reset completed", "user_id", user.ID)
	events.PublishSafe(ctx, s.publisher, s.logger, events.NewEvent(events.EventPasswordResetCompleted, userEvent(user)))
	return nil
}

func resetLink(base, token string) (string, error) {
	if base == "" {
		return token, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid reset url: %w", err)
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (s *authService) SignOut(ctx context.Context, sessionID string) error {
	session, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, cache.ErrSessionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}

	s.logger.Info("User signed out", "user_id", session.User.ID)
	events.PublishSafe(ctx, s.publisher, s.logger, events.NewEvent(events.EventSignedOut, userEvent(&session.User)))
	return nil
}

func (s *authService) CurrentUser(ctx context.Context, sessionID string) (*models.User, error) {
	session, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return &session.User, nil
}

func userEvent(user *models.User) events.UserEvent {
	return events.UserEvent{UserID: user.ID, Email: user.Email, Role: string(user.Role)}
}
