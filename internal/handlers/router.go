package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/auth-portal/internal/config"
	"github.com/SAP-F-2025/auth-portal/internal/metrics"
	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/services"
	"github.com/SAP-F-2025/auth-portal/internal/templates"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
)

const serviceName = "auth-portal"

type HandlerManager struct {
	serviceManager services.ServiceManager
	metrics        *metrics.Metrics
	logger         utils.Logger

	authHandler    *AuthHandler
	areaHandler    *AreaHandler
	authMiddleware *SessionAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	m *metrics.Metrics,
	logger utils.Logger,
	sessionConfig config.SessionConfig,
) *HandlerManager {
	authMiddleware := NewSessionAuthMiddleware(serviceManager.Auth(), sessionConfig, logger)

	return &HandlerManager{
		serviceManager: serviceManager,
		metrics:        m,
		logger:         logger,
		authHandler: NewAuthHandler(
			serviceManager.Auth(),
			serviceManager.Screens(),
			serviceManager.Locale(),
			authMiddleware,
			sessionConfig.SecureCookie,
			logger,
		),
		areaHandler:    NewAreaHandler(serviceManager.Locale(), logger),
		authMiddleware: authMiddleware,
	}
}

// SetupRoutes sets up the auth screen, landing areas and operational endpoints
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) error {
	tmpl, err := templates.Load()
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)
	router.StaticFS("/static", http.FS(templates.Static()))

	router.GET("/health", hm.HealthCheck)
	router.GET("/metrics", gin.WrapH(hm.metrics.Handler()))

	router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusFound, services.PathAuth)
	})

	auth := router.Group(services.PathAuth)
	auth.Use(hm.authMiddleware.LoadSession())
	{
		auth.GET("", hm.authHandler.ShowAuth)
		auth.POST("/login", hm.authHandler.Login)
		auth.POST("/register", hm.authHandler.Register)
		auth.POST("/reset", hm.authHandler.Reset)
		auth.GET("/reset/confirm", hm.authHandler.ShowConfirmReset)
		auth.POST("/reset/confirm", hm.authHandler.ConfirmReset)
		auth.POST("/logout", hm.authHandler.Logout)
		auth.POST("/language", hm.authHandler.ChangeLanguage)
	}

	// Landing areas, one per role
	areas := router.Group("")
	areas.Use(hm.authMiddleware.LoadSession(), hm.authMiddleware.RequireSession())
	{
		areas.GET(services.PathStudent, hm.authMiddleware.RequireRoleMiddleware(models.RoleStudent), hm.areaHandler.ShowArea(models.RoleStudent))
		areas.GET(services.PathEducator, hm.authMiddleware.RequireRoleMiddleware(models.RoleTeacher), hm.areaHandler.ShowArea(models.RoleTeacher))
		areas.GET(services.PathEmployer, hm.authMiddleware.RequireRoleMiddleware(models.RoleEmployer), hm.areaHandler.ShowArea(models.RoleEmployer))
	}

	return nil
}

// HealthCheck reports whether the identity backend and cache are reachable
func (hm *HandlerManager) HealthCheck(c *gin.Context) {
	if err := hm.serviceManager.HealthCheck(c.Request.Context()); err != nil {
		utils.GetLogger(c, hm.logger).Warn("Health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, ErrorResponse{
			Message: "Service unavailable",
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "healthy", "service": serviceName})
}
