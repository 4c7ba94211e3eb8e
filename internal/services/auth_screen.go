package services

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/SAP-F-2025/auth-portal/internal/cache"
	"github.com/SAP-F-2025/auth-portal/internal/i18n"
	"github.com/SAP-F-2025/auth-portal/internal/metrics"
	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/repositories"
	"github.com/SAP-F-2025/auth-portal/internal/ui"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
	"github.com/SAP-F-2025/auth-portal/internal/validator"
)

// User-facing messages. They double as translation keys.
const (
	MsgInvalidCredentials = "Invalid email or password. Please check your credentials and try again."
	MsgUserAlreadyExists  = "An account with this email already exists. Please sign in instead."
	MsgUnexpected         = "An unexpected error occurred"
	MsgSubmissionInFlight = "A submission is already in progress. Please wait."
	MsgResetSent          = "Check your email for a reset link."
	MsgAccountCreated     = "Account created. You can sign in now."
	MsgPasswordUpdated    = "Password updated. You can sign in with your new password."
)

// Landing areas
const (
	PathAuth         = "/auth"
	PathResetConfirm = "/auth/reset/confirm"
	PathStudent      = "/student"
	PathEducator     = "/educator"
	PathEmployer     = "/employer"
)

// RedirectPath picks the landing area for role; anything unrecognised lands in the student area
func RedirectPath(role models.UserRole) string {
	switch role {
	case models.RoleTeacher:
		return PathEducator
	case models.RoleEmployer:
		return PathEmployer
	default:
		return PathStudent
	}
}

// InitialTab reads the tab to open from the query string.
// An explicit tab wins; mode=signup opens registration; otherwise login.
func InitialTab(query url.Values) models.Tab {
	if tab, ok := models.ParseTab(query.Get("tab")); ok {
		return tab
	}
	if strings.EqualFold(query.Get("mode"), "signup") {
		return models.TabRegister
	}
	return models.TabLogin
}

// ScreenFactory holds what every auth screen shares
type ScreenFactory struct {
	auth      AuthClient
	validator *validator.Validator
	guard     *cache.SubmitGuard
	metrics   *metrics.Metrics
	logger    utils.Logger
}

// NewScreenFactory wires the screen dependencies. guard and m may be nil.
func NewScreenFactory(auth AuthClient, v *validator.Validator, guard *cache.SubmitGuard, m *metrics.Metrics, logger utils.Logger) *ScreenFactory {
	if v == nil {
		v = validator.New()
	}
	return &ScreenFactory{
		auth:      auth,
		validator: v,
		guard:     guard,
		metrics:   m,
		logger:    logger,
	}
}

// ScreenOptions carries the per-request collaborators of a screen
type ScreenOptions struct {
	Query      url.Values
	Navigator  Navigator
	Translator *i18n.Translator
	ClientID   string
	Logger     utils.Logger
}

// Screen is the state of one rendering of the auth screen
type Screen struct {
	Tab         models.Tab
	State       models.ScreenState
	Error       string
	Notice      string
	FieldErrors map[string]string

	Login    validator.LoginRequest
	Register validator.RegisterRequest
	Reset    validator.ResetPasswordRequest
	Confirm  validator.ConfirmResetRequest

	// Session is set by a successful sign in
	Session *models.Session

	factory       *ScreenFactory
	nav           Navigator
	t             *i18n.Translator
	clientID      string
	logger        utils.Logger
	redirectedFor string
}

// New opens a screen on the tab selected by the query string
func (f *ScreenFactory) New(opts ScreenOptions) *Screen {
	logger := opts.Logger
	if logger == nil {
		logger = f.logger
	}
	return &Screen{
		Tab:         InitialTab(opts.Query),
		State:       models.StateIdle,
		FieldErrors: map[string]string{},
		Register:    validator.NewRegisterRequest(),
		factory:     f,
		nav:         opts.Navigator,
		t:           opts.Translator,
		clientID:    opts.ClientID,
		logger:      logger,
	}
}

// SelectTab switches the visible form and clears the last error
func (s *Screen) SelectTab(tab models.Tab) {
	s.Tab = tab
	s.State = models.StateIdle
	s.Error = ""
	s.Notice = ""
	s.FieldErrors = map[string]string{}
}

// Loading reports whether a submission is running
func (s *Screen) Loading() bool {
	return s.State == models.StateSubmitting
}

// SubmitLogin validates the login form and signs in. On success the user is redirected.
func (s *Screen) SubmitLogin(ctx context.Context, req validator.LoginRequest) bool {
	req.Normalize()
	s.SelectTab(models.TabLogin)
	s.Login = validator.LoginRequest{Email: req.Email}

	if !s.validate(models.FormLogin, &req) {
		return false
	}

	err := s.submit(ctx, models.FormLogin, func(ctx context.Context) error {
		session, err := s.factory.auth.SignIn(ctx, req.Email, req.Password)
		if err != nil {
			return err
		}
		s.Session = session
		return nil
	})
	if err != nil {
		s.fail(models.FormLogin, err)
		return false
	}

	s.State = models.StateIdle
	s.ObserveUser(&s.Session.User)
	return true
}

// SubmitRegister validates the registration form and signs up.
// Success switches to the login tab with the registration form cleared.
func (s *Screen) SubmitRegister(ctx context.Context, req validator.RegisterRequest) bool {
	req.Normalize()
	s.SelectTab(models.TabRegister)
	s.Register = req
	s.Register.Password = ""

	if !s.validate(models.FormRegister, &req) {
		return false
	}

	err := s.submit(ctx, models.FormRegister, func(ctx context.Context) error {
		return s.factory.auth.SignUp(ctx, req.Email, req.Password, req.Profile())
	})
	if err != nil {
		s.fail(models.FormRegister, err)
		return false
	}

	s.SelectTab(models.TabLogin)
	s.Register = validator.NewRegisterRequest()
	s.Notice = s.translate(MsgAccountCreated)
	return true
}

// SubmitReset validates the reset form and requests a reset link.
// Success switches to the login tab.
func (s *Screen) SubmitReset(ctx context.Context, req validator.ResetPasswordRequest) bool {
	req.Normalize()
	s.SelectTab(models.TabReset)
	s.Reset = req

	if !s.validate(models.FormReset, &req) {
		return false
	}

	err := s.submit(ctx, models.FormReset, func(ctx context.Context) error {
		return s.factory.auth.ResetPassword(ctx, req.Email)
	})
	if err != nil {
		s.fail(models.FormReset, err)
		return false
	}

	s.SelectTab(models.TabLogin)
	s.Reset = validator.ResetPasswordRequest{}
	s.Notice = s.translate(MsgResetSent)
	return true
}

// SubmitConfirmReset validates the new password and redeems the reset token.
// Success switches to the login tab. A dead link leaves the reset tab open
// with Confirm.Token cleared so a new link can be requested.
func (s *Screen) SubmitConfirmReset(ctx context.Context, req validator.ConfirmResetRequest) bool {
	req.Normalize()
	s.SelectTab(models.TabReset)
	s.Confirm = validator.ConfirmResetRequest{Token: req.Token}

	if !s.validate(models.FormConfirm, &req) {
		if msg := s.FieldErrors["token"]; msg != "" {
			s.Error = msg
		}
		return false
	}

	err := s.submit(ctx, models.FormConfirm, func(ctx context.Context) error {
		return s.factory.auth.ConfirmReset(ctx, req.Token, req.Password)
	})
	if err != nil {
		s.fail(models.FormConfirm, err)
		if repositories.KindOf(err) == repositories.FailureResetTokenInvalid {
			s.Confirm.Token = ""
		}
		return false
	}

	s.SelectTab(models.TabLogin)
	s.Confirm = validator.ConfirmResetRequest{}
	s.Notice = s.translate(MsgPasswordUpdated)
	return true
}

// ObserveUser redirects to the user's landing area the first time a given user is seen.
// It reports whether a navigation happened.
func (s *Screen) ObserveUser(user *models.User) bool {
	if user == nil || user.ID == "" || s.redirectedFor == user.ID {
		return false
	}
	s.redirectedFor = user.ID

	path := RedirectPath(user.Role)
	if s.nav != nil {
		s.nav.Navigate(path, true)
	}
	s.factory.metrics.RecordRedirect(path)
	return true
}

// MessageFor turns a failure into the text shown in the error banner
func (s *Screen) MessageFor(err error) string {
	if errors.Is(err, cache.ErrSubmissionInFlight) {
		return s.translate(MsgSubmissionInFlight)
	}

	switch repositories.KindOf(err) {
	case repositories.FailureInvalidCredentials:
		return s.translate(MsgInvalidCredentials)
	case repositories.FailureUserAlreadyExists:
		return s.translate(MsgUserAlreadyExists)
	case repositories.FailureResetTokenInvalid:
		return s.translate(validator.MsgResetLinkInvalid)
	}

	if text := errorText(err); text != "" {
		return text
	}
	return s.translate(MsgUnexpected)
}

// Title is the heading for the active tab
func (s *Screen) Title() string {
	switch s.Tab {
	case models.TabRegister:
		return s.translate("Create an account")
	case models.TabReset:
		return s.translate("Reset your password")
	default:
		return s.translate("Welcome back")
	}
}

// Description is the line under the heading for the active tab
func (s *Screen) Description() string {
	switch s.Tab {
	case models.TabRegister:
		return s.translate("Fill in your details to register")
	case models.TabReset:
		return s.translate("Enter your email to reset your password")
	default:
		return s.translate("Enter your credentials to sign in")
	}
}

// RoleSelector renders the registration role choice bound to the form
func (s *Screen) RoleSelector() ui.RoleSelector {
	return ui.NewRoleSelector(s.Register.Role, func(role models.UserRole) {
		s.Register.Role = role
	})
}

func (s *Screen) validate(form string, req interface{}) bool {
	errs := s.factory.validator.Validate(req)
	if len(errs) == 0 {
		return true
	}

	for field, msg := range errs.ByField() {
		s.FieldErrors[field] = s.translate(msg)
	}
	s.State = models.StateIdle
	s.factory.metrics.RecordSubmission(form, metrics.OutcomeValidationError)
	if s.logger != nil {
		s.logger.Debug("Form rejected by validation", "form", form, "fields", len(errs))
	}
	return false
}

// submit runs call while holding the client's guard for form
func (s *Screen) submit(ctx context.Context, form string, call func(ctx context.Context) error) error {
	if s.factory.guard != nil && s.clientID != "" {
		release, err := s.factory.guard.Acquire(ctx, s.clientID+":"+form)
		switch {
		case errors.Is(err, cache.ErrSubmissionInFlight):
			return err
		case err != nil:
			if s.logger != nil {
				s.logger.Warn("Submit guard unavailable", "form", form, "error", err)
			}
		default:
			defer release()
		}
	}

	s.State = models.StateSubmitting
	if err := call(ctx); err != nil {
		return err
	}
	s.factory.metrics.RecordSubmission(form, metrics.OutcomeSuccess)
	return nil
}

func (s *Screen) fail(form string, err error) {
	s.State = models.StateError
	s.Error = s.MessageFor(err)
	if repositories.KindOf(err) == repositories.FailureUserAlreadyExists {
		s.Tab = models.TabLogin
	}
	s.factory.metrics.RecordSubmission(form, outcomeFor(err))
}

func (s *Screen) translate(key string) string {
	return s.t.T(key)
}

func outcomeFor(err error) string {
	if errors.Is(err, cache.ErrSubmissionInFlight) {
		return metrics.OutcomeRejected
	}
	switch repositories.KindOf(err) {
	case repositories.FailureInvalidCredentials:
		return metrics.OutcomeInvalidCredentials
	case repositories.FailureUserAlreadyExists:
		return metrics.OutcomeUserAlreadyExists
	case repositories.FailureResetTokenInvalid:
		return metrics.OutcomeResetTokenInvalid
	default:
		return metrics.OutcomeError
	}
}

// errorText is the raw failure text, empty when the failure carries none
func errorText(err error) string {
	if err == nil {
		return ""
	}
	var authErr *repositories.AuthError
	if errors.As(err, &authErr) && authErr.Message == "" && authErr.Err == nil {
		return ""
	}
	return strings.TrimSpace(err.Error())
}
