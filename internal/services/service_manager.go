package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/SAP-F-2025/auth-portal/internal/cache"
	"github.com/SAP-F-2025/auth-portal/internal/events"
	"github.com/SAP-F-2025/auth-portal/internal/i18n"
	"github.com/SAP-F-2025/auth-portal/internal/metrics"
	"github.com/SAP-F-2025/auth-portal/internal/repositories"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
	"github.com/SAP-F-2025/auth-portal/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	Auth AuthServiceConfig

	SessionTTL time.Duration
	GuardTTL   time.Duration
}

// ServiceDependencies are the collaborators the services are built from
type ServiceDependencies struct {
	Repository repositories.Repository
	Cache      *cache.CacheManager
	Publisher  events.EventPublisher
	Catalog    *i18n.Catalog
	Metrics    *metrics.Metrics
	Validator  *validator.Validator
	Logger     *slog.Logger
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	deps   ServiceDependencies
	config ServiceManagerConfig

	// Service instances
	authService   AuthClient
	screenFactory *ScreenFactory
	localeService *LocaleService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(deps ServiceDependencies, config ServiceManagerConfig) ServiceManager {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewCacheManager(nil)
	}
	if deps.Validator == nil {
		deps.Validator = validator.New()
	}
	return &serviceManager{deps: deps, config: config}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}

	sm.deps.Logger.Info("Initializing service manager")

	if sm.deps.Repository == nil {
		return errors.New("service manager needs a repository")
	}
	if sm.deps.Catalog == nil {
		catalog, err := i18n.Default()
		if err != nil {
			return fmt.Errorf("failed to load locales: %w", err)
		}
		sm.deps.Catalog = catalog
	}

	sessions := cache.NewSessionStore(sm.deps.Cache.Sessions, sm.config.SessionTTL)
	sm.authService = NewAuthService(sm.deps.Repository, sessions, sm.deps.Cache.ResetTokens, sm.deps.Publisher, sm.deps.Logger, sm.config.Auth)
	sm.deps.Logger.Info("Auth service initialized", "timeout", sm.config.Auth.Timeout)

	guard := cache.NewSubmitGuard(sm.deps.Cache.Guards, sm.config.GuardTTL)
	sm.screenFactory = NewScreenFactory(sm.authService, sm.deps.Validator, guard, sm.deps.Metrics, utils.NewSlogLogger(sm.deps.Logger))

	sm.localeService = NewLocaleService(sm.deps.Catalog, sm.deps.Publisher, sm.deps.Metrics, sm.deps.Logger)

	if err := sm.validateServicesHealth(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	sm.initialized = true
	sm.deps.Logger.Info("Service manager initialized successfully")
	return nil
}

func (sm *serviceManager) validateServicesHealth(ctx context.Context) error {
	if err := sm.deps.Repository.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	return nil
}

// Service getters
func (sm *serviceManager) Auth() AuthClient {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.authService
}

func (sm *serviceManager) Screens() *ScreenFactory {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.screenFactory
}

func (sm *serviceManager) Locale() *LocaleService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.localeService
}

// Health and lifecycle
func (sm *serviceManager) HealthCheck(ctx context.Context) error {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		return fmt.Errorf("service manager not initialized")
	}
	if sm.shutdown {
		return fmt.Errorf("service manager is shut down")
	}

	if err := sm.deps.Repository.Ping(ctx); err != nil {
		return fmt.Errorf("repository health check failed: %w", err)
	}
	if err := sm.deps.Cache.HealthCheck(ctx); err != nil {
		return err
	}
	return nil
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.deps.Logger.Info("Shutting down service manager")

	var errs []error
	if sm.deps.Publisher != nil {
		if err := sm.deps.Publisher.Close(); err != nil {
			sm.deps.Logger.Error("Failed to close event publisher", "error", err)
			errs = append(errs, err)
		}
	}
	if err := sm.deps.Repository.Close(); err != nil {
		sm.deps.Logger.Error("Failed to close repository", "error", err)
		errs = append(errs, err)
	}

	sm.shutdown = true
	sm.deps.Logger.Info("Service manager shut down completed")
	return errors.Join(errs...)
}
