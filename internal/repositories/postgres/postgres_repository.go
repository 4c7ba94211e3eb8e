package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/SAP-F-2025/auth-portal/internal/cache"
	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/repositories"
)

// PostgreSQLRepository is the local account backend
type PostgreSQLRepository struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager

	account *AccountPostgreSQL
	mailer  repositories.Mailer
}

// RepositoryConfig holds configuration for repository initialization
type RepositoryConfig struct {
	DB           *gorm.DB
	CacheManager *cache.CacheManager
	Logger       *slog.Logger
}

// NewPostgreSQLRepository creates the local account backend
func NewPostgreSQLRepository(config RepositoryConfig) *PostgreSQLRepository {
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgreSQLRepository{
		db:           config.DB,
		cacheManager: config.CacheManager,
		account:      NewAccountPostgreSQL(config.DB, config.CacheManager),
		mailer:       NewLogMailer(logger),
	}
}

// InitDatabase opens the database and applies the account schema
func InitDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the accounts table
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Account{}); err != nil {
		return fmt.Errorf("failed to migrate accounts: %w", err)
	}
	return nil
}

// User returns the account repository
func (r *PostgreSQLRepository) User() repositories.UserRepository {
	return r.account
}

// Mailer returns the mail channel
func (r *PostgreSQLRepository) Mailer() repositories.Mailer {
	return r.mailer
}

// Ping checks the health of database and cache connections
func (r *PostgreSQLRepository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}

	if r.cacheManager != nil {
		if err := r.cacheManager.HealthCheck(ctx); err != nil && !errors.Is(err, cache.ErrCacheNotAvailable) {
			return fmt.Errorf("cache ping failed: %w", err)
		}
	}

	return nil
}

// Close closes the database connection
func (r *PostgreSQLRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	return nil
}
