package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SAP-F-2025/auth-portal/internal/cache"
	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/repositories"
)

// Compared against when the email is unknown so both paths cost one bcrypt check
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("auth-portal-dummy-password"), bcrypt.DefaultCost)

type AccountPostgreSQL struct {
	db           *gorm.DB
	cacheManager *cache.CacheManager
	now          func() time.Time
}

// NewAccountPostgreSQL creates the local account repository
func NewAccountPostgreSQL(db *gorm.DB, cacheManager *cache.CacheManager) *AccountPostgreSQL {
	if cacheManager == nil {
		cacheManager = cache.NewCacheManager(nil)
	}
	return &AccountPostgreSQL{
		db:           db,
		cacheManager: cacheManager,
		now:          time.Now,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword hashes a password for storage
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches hash
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ===== AUTHENTICATION =====

// Authenticate verifies the password of a stored account
func (a *AccountPostgreSQL) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var account models.Account
	err := a.db.WithContext(ctx).
		Where("email = ?", normalizeEmail(email)).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, repositories.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load account: %w", err)
	}

	if !CheckPassword(account.PasswordHash, password) {
		return nil, repositories.ErrInvalidCredentials
	}

	now := a.now().UTC()
	if err := a.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", account.ID).
		Update("last_sign_in_at", now).Error; err != nil {
		return nil, fmt.Errorf("failed to record sign in: %w", err)
	}

	return account.ToUser(), nil
}

// Create stores a new account with a bcrypt hash and the profile as metadata
func (a *AccountPostgreSQL) Create(ctx context.Context, email, password string, profile models.Profile) (*models.User, error) {
	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        normalizeEmail(email),
		Username:     profile.Username,
		Role:         models.ParseRole(string(profile.Role)),
		PasswordHash: hash,
		Metadata: datatypes.JSONMap{
			"username": profile.Username,
			"role":     string(profile.Role),
		},
	}

	if err := a.db.WithContext(ctx).Create(account).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, repositories.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to create account: %w", err)
	}

	return account.ToUser(), nil
}

// SetPassword stores a new bcrypt hash
func (a *AccountPostgreSQL) SetPassword(ctx context.Context, id, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}

	result := a.db.WithContext(ctx).
		Model(&models.Account{}).
		Where("id = ?", id).
		Update("password_hash", hash)
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return repositories.ErrUserNotFound
	}
	return nil
}

// ===== BASIC READ OPERATIONS =====

// GetByID retrieves an account by ID
func (a *AccountPostgreSQL) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := a.cacheManager.Users.CacheOrExecute(ctx, fmt.Sprintf("id:%s", id), &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		return a.find(ctx, "id = ?", id)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves an account by email
func (a *AccountPostgreSQL) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	email = normalizeEmail(email)
	var user models.User
	err := a.cacheManager.Users.CacheOrExecute(ctx, fmt.Sprintf("email:%s", email), &user, cache.UserCacheConfig.TTL, func() (interface{}, error) {
		return a.find(ctx, "email = ?", email)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (a *AccountPostgreSQL) find(ctx context.Context, query string, arg string) (*models.User, error) {
	var account models.Account
	if err := a.db.WithContext(ctx).Where(query, arg).First(&account).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w", err)
	}
	return account.ToUser(), nil
}
