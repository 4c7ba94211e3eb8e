package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/auth-portal/internal/cache"
	"github.com/SAP-F-2025/auth-portal/internal/config"
	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/services"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
)

const (
	userKey      = "user"
	userIDKey    = "user_id"
	userRoleKey  = "user_role"
	sessionIDKey = "session_id"
)

// SessionAuthMiddleware authenticates browsers by their session cookie
type SessionAuthMiddleware struct {
	auth   services.AuthClient
	config config.SessionConfig
	logger utils.Logger
}

// NewSessionAuthMiddleware creates the cookie session middleware
func NewSessionAuthMiddleware(auth services.AuthClient, cfg config.SessionConfig, logger utils.Logger) *SessionAuthMiddleware {
	if cfg.CookieName == "" {
		cfg.CookieName = "session"
	}
	return &SessionAuthMiddleware{auth: auth, config: cfg, logger: logger}
}

// LoadSession puts the session user, if any, into the context. It never blocks the request.
func (sam *SessionAuthMiddleware) LoadSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sam.config.CookieName)
		if err != nil || sessionID == "" {
			c.Next()
			return
		}

		user, err := sam.auth.CurrentUser(c.Request.Context(), sessionID)
		switch {
		case errors.Is(err, cache.ErrSessionNotFound):
			// Expired or forged; drop the stale cookie
			sam.ClearSessionCookie(c)
		case err != nil:
			utils.GetLogger(c, sam.logger).Warn("Failed to load session", "error", err)
		default:
			c.Set(sessionIDKey, sessionID)
			c.Set(userKey, user)
			c.Set(userIDKey, user.ID)
			c.Set(userRoleKey, user.Role)
		}

		c.Next()
	}
}

// RequireSession sends visitors without a session to the auth screen
func (sam *SessionAuthMiddleware) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := GetUserFromContext(c); err != nil {
			c.Redirect(http.StatusFound, services.PathAuth)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireRoleMiddleware sends users whose role is not listed back to their own landing area
func (sam *SessionAuthMiddleware) RequireRoleMiddleware(requiredRoles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, err := GetUserRoleFromContext(c)
		if err != nil {
			c.Redirect(http.StatusFound, services.PathAuth)
			c.Abort()
			return
		}

		for _, requiredRole := range requiredRoles {
			if role == requiredRole {
				c.Next()
				return
			}
		}

		// Unrecognised roles land in the student area; never bounce them back to it
		target := services.RedirectPath(role)
		if target == c.Request.URL.Path {
			c.Next()
			return
		}

		utils.GetLogger(c, sam.logger).Warn("Role not allowed here", "role", role, "path", c.Request.URL.Path)
		c.Redirect(http.StatusFound, target)
		c.Abort()
	}
}

// SetSessionCookie hands the session ID to the browser
func (sam *SessionAuthMiddleware) SetSessionCookie(c *gin.Context, session *models.Session) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sam.config.CookieName, session.ID, int(sam.config.TTL.Seconds()), "/", "", sam.config.SecureCookie, true)
}

// ClearSessionCookie removes the session cookie
func (sam *SessionAuthMiddleware) ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sam.config.CookieName, "", -1, "/", "", sam.config.SecureCookie, true)
}

// GetUserFromContext extracts user from Gin context
func GetUserFromContext(c *gin.Context) (*models.User, error) {
	user, exists := c.Get(userKey)
	if !exists {
		return nil, fmt.Errorf("user not found in context")
	}

	userModel, ok := user.(*models.User)
	if !ok {
		return nil, fmt.Errorf("invalid user type in context")
	}

	return userModel, nil
}

// GetUserRoleFromContext extracts user role from Gin context
func GetUserRoleFromContext(c *gin.Context) (models.UserRole, error) {
	userRole, exists := c.Get(userRoleKey)
	if !exists {
		return "", fmt.Errorf("user role not found in context")
	}

	role, ok := userRole.(models.UserRole)
	if !ok {
		return "", fmt.Errorf("invalid user role type in context")
	}

	return role, nil
}
