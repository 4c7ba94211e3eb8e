package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/auth-portal/internal/i18n"
	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/services"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
	"github.com/SAP-F-2025/auth-portal/internal/validator"
)

// redirectNavigator turns the screen's first navigation into an HTTP redirect
type redirectNavigator struct {
	target string
}

// Navigate records the first target; every redirect replaces history
func (n *redirectNavigator) Navigate(path string, _ bool) {
	if n.target == "" {
		n.target = path
	}
}

// AuthHandler serves the auth screen and its form posts
type AuthHandler struct {
	BaseHandler
	auth          services.AuthClient
	screens       *services.ScreenFactory
	locale        *services.LocaleService
	sessions      *SessionAuthMiddleware
	secureCookies bool
}

func NewAuthHandler(
	auth services.AuthClient,
	screens *services.ScreenFactory,
	locale *services.LocaleService,
	sessions *SessionAuthMiddleware,
	secureCookies bool,
	logger utils.Logger,
) *AuthHandler {
	return &AuthHandler{
		BaseHandler:   NewBaseHandler(logger),
		auth:          auth,
		screens:       screens,
		locale:        locale,
		sessions:      sessions,
		secureCookies: secureCookies,
	}
}

func (h *AuthHandler) newScreen(c *gin.Context) (*services.Screen, *redirectNavigator, *i18n.Translator) {
	nav := &redirectNavigator{}
	t := h.locale.Store(c.Request.Context(), getLocale(c), nil).Translator()
	screen := h.screens.New(services.ScreenOptions{
		Query:      c.Request.URL.Query(),
		Navigator:  nav,
		Translator: t,
		ClientID:   c.GetString(clientIDKey),
		Logger:     h.Logger(c),
	})
	return screen, nav, t
}

// redirect follows a pending navigation. Posts answer 303 so the browser
// replaces the form submission with a GET.
func (h *AuthHandler) redirect(c *gin.Context, nav *redirectNavigator) bool {
	if nav.target == "" {
		return false
	}
	status := http.StatusFound
	if c.Request.Method == http.MethodPost {
		status = http.StatusSeeOther
	}
	c.Redirect(status, nav.target)
	return true
}

func (h *AuthHandler) render(c *gin.Context, screen *services.Screen, t *i18n.Translator) {
	c.HTML(http.StatusOK, "auth.html", newAuthPage(c, t, screen))
}

// ShowAuth renders the auth screen, or sends a signed-in user to their area
func (h *AuthHandler) ShowAuth(c *gin.Context) {
	screen, nav, t := h.newScreen(c)

	if user, err := GetUserFromContext(c); err == nil && screen.ObserveUser(user) {
		h.redirect(c, nav)
		return
	}

	h.render(c, screen, t)
}

// Login handles the login form
func (h *AuthHandler) Login(c *gin.Context) {
	h.LogRequest(c, "Sign in submitted")

	var req validator.LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.LogError(c, err, "Failed to bind login form")
	}

	screen, nav, t := h.newScreen(c)
	if screen.SubmitLogin(c.Request.Context(), req) {
		h.sessions.SetSessionCookie(c, screen.Session)
		h.redirect(c, nav)
		return
	}

	h.render(c, screen, t)
}

// Register handles the registration form
func (h *AuthHandler) Register(c *gin.Context) {
	h.LogRequest(c, "Sign up submitted")

	req := validator.NewRegisterRequest()
	if err := c.ShouldBind(&req); err != nil {
		h.LogError(c, err, "Failed to bind registration form")
	}

	screen, _, t := h.newScreen(c)
	screen.SubmitRegister(c.Request.Context(), req)
	h.render(c, screen, t)
}

// Reset handles the password reset form
func (h *AuthHandler) Reset(c *gin.Context) {
	h.LogRequest(c, "Password reset submitted")

	var req validator.ResetPasswordRequest
	if err := c.ShouldBind(&req); err != nil {
		h.LogError(c, err, "Failed to bind reset form")
	}

	screen, _, t := h.newScreen(c)
	screen.SubmitReset(c.Request.Context(), req)
	h.render(c, screen, t)
}

// ShowConfirmReset renders the new-password form a reset link points at
func (h *AuthHandler) ShowConfirmReset(c *gin.Context) {
	screen, _, t := h.newScreen(c)
	screen.SelectTab(models.TabReset)
	screen.Confirm.Token = strings.TrimSpace(c.Query("token"))
	if screen.Confirm.Token == "" {
		screen.Error = t.T(validator.MsgResetLinkInvalid)
	}
	h.renderConfirm(c, screen, t)
}

// ConfirmReset handles the new-password form
func (h *AuthHandler) ConfirmReset(c *gin.Context) {
	h.LogRequest(c, "Password reset confirmation submitted")

	var req validator.ConfirmResetRequest
	if err := c.ShouldBind(&req); err != nil {
		h.LogError(c, err, "Failed to bind reset confirmation form")
	}

	screen, _, t := h.newScreen(c)
	screen.SubmitConfirmReset(c.Request.Context(), req)
	h.renderConfirm(c, screen, t)
}

// renderConfirm keeps the new-password form while its token is still usable,
// otherwise the auth screen shows the outcome
func (h *AuthHandler) renderConfirm(c *gin.Context, screen *services.Screen, t *i18n.Translator) {
	if screen.Confirm.Token == "" {
		h.render(c, screen, t)
		return
	}
	c.HTML(http.StatusOK, "reset_confirm.html", newConfirmPage(c, t, screen))
}

// Logout ends the session and returns to the login tab
func (h *AuthHandler) Logout(c *gin.Context) {
	h.LogRequest(c, "Sign out submitted")

	if sessionID := c.GetString(sessionIDKey); sessionID != "" {
		if err := h.auth.SignOut(c.Request.Context(), sessionID); err != nil {
			h.LogError(c, err, "Failed to sign out")
		}
	}
	h.sessions.ClearSessionCookie(c)
	c.Redirect(http.StatusSeeOther, services.PathAuth+"?tab="+string(models.TabLogin))
}

// ChangeLanguage is the language switcher's click
func (h *AuthHandler) ChangeLanguage(c *gin.Context) {
	store := h.locale.Store(c.Request.Context(), getLocale(c), func(code string) {
		i18n.SetLanguageCookie(c.Writer, code, h.secureCookies)
	})
	store.Switcher(h.Logger(c)).Click(c.PostForm("code"))

	c.Redirect(http.StatusSeeOther, safeReturnPath(c.PostForm("return_to")))
}
