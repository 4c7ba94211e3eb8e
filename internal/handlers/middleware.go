package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	uuid2 "github.com/google/uuid"

	"github.com/SAP-F-2025/auth-portal/internal/i18n"
	"github.com/SAP-F-2025/auth-portal/internal/ui"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
)

// Gin context keys
const (
	requestIDKey = "request_id"
	clientIDKey  = "client_id"
	localeKey    = "locale"
	viewportKey  = "viewport"
)

// ClientIDCookieName identifies a browser across requests for submit guards and events
const ClientIDCookieName = "cid"

const contentSecurityPolicy = "default-src 'self'; img-src 'self' data:; form-action 'self'; frame-ancestors 'none'; base-uri 'self'"

// MiddlewareConfig configures the common middleware chain
type MiddlewareConfig struct {
	SecureCookies bool
	CORSOrigins   []string
}

// SetupMiddleware sets up common middleware for the Gin router
func SetupMiddleware(router *gin.Engine, logger utils.Logger, cfg MiddlewareConfig) {
	router.Use(RequestIDMiddleware())
	router.Use(CORSMiddleware(cfg.CORSOrigins))
	router.Use(gin.Recovery())

	// Context logger middleware (adds logger with request_id to context)
	router.Use(utils.ContextLogger(logger))
	router.Use(utils.LoggerMiddleware(logger))

	router.Use(SecurityMiddleware(cfg.SecureCookies))
	router.Use(ClientIDMiddleware(cfg.SecureCookies))
	router.Use(LocaleMiddleware(cfg.SecureCookies))
	router.Use(ViewportHintsMiddleware())
}

// SecurityMiddleware adds security headers
func SecurityMiddleware(https bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", contentSecurityPolicy)
		if https {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		c.Next()
	}
}

// RequestIDMiddleware generates a unique request ID for each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid2.New().String()
		}
		c.Header("X-Request-ID", requestID)
		c.Set(requestIDKey, requestID)
		c.Next()
	}
}

// CORSMiddleware allows credentialed requests from the listed origins only
func CORSMiddleware(allowed []string) gin.HandlerFunc {
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		origins[strings.TrimRight(o, "/")] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := origins[origin]; ok && origin != "" {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			c.Header("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Access-Control-Max-Age", "43200")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// ClientIDMiddleware issues a long-lived anonymous client ID cookie
func ClientIDMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(ClientIDCookieName)
		if _, parseErr := uuid2.Parse(id); err != nil || parseErr != nil {
			id = uuid2.NewString()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(ClientIDCookieName, id, 365*24*60*60, "/", "", secure, true)
		}
		c.Set(clientIDKey, id)
		c.Request = c.Request.WithContext(utils.WithClientID(c.Request.Context(), id))
		c.Next()
	}
}

// LocaleMiddleware resolves the active language from query, cookie and Accept-Language.
// A language picked by query string is remembered in the cookie.
func LocaleMiddleware(secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		code, persist := i18n.ResolveCode(c.Request)
		if persist {
			i18n.SetLanguageCookie(c.Writer, code, secure)
		}
		c.Set(localeKey, code)
		c.Next()
	}
}

// ViewportHintsMiddleware asks browsers for the viewport width client hint
// and exposes the resulting probe to handlers.
func ViewportHintsMiddleware() gin.HandlerFunc {
	hints := ui.HeaderViewportWidth + ", " + ui.HeaderLegacyViewportWidth
	return func(c *gin.Context) {
		c.Header("Accept-CH", hints)
		c.Writer.Header().Add("Vary", hints)
		c.Set(viewportKey, ui.ViewportFromRequest(c.Request))
		c.Next()
	}
}

func getLocale(c *gin.Context) string {
	if code := c.GetString(localeKey); code != "" {
		return code
	}
	return i18n.DefaultCode
}

func getViewport(c *gin.Context) *ui.Viewport {
	if v, ok := c.Get(viewportKey); ok {
		if vp, ok := v.(*ui.Viewport); ok {
			return vp
		}
	}
	return ui.NewViewport(0, false)
}
