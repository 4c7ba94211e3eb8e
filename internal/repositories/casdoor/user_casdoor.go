package casdoor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/casdoor/casdoor-go-sdk/casdoorsdk"
	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/SAP-F-2025/auth-portal/internal/cache"
	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/repositories"
)

// CasdoorConfig holds the configuration for Casdoor connection
type CasdoorConfig struct {
	Endpoint         string
	ClientID         string
	ClientSecret     string
	Certificate      string
	OrganizationName string
	ApplicationName  string
	MailSender       string
}

// casdoorAPI is the part of the Casdoor SDK client the portal uses
type casdoorAPI interface {
	GetUserByEmail(email string) (*casdoorsdk.User, error)
	GetUserByUserId(userId string) (*casdoorsdk.User, error)
	AddUser(user *casdoorsdk.User) (bool, error)
	SetPassword(owner, name, oldPassword, newPassword string) (bool, error)
	GetApplication(name string) (*casdoorsdk.Application, error)
	ParseJwtToken(token string) (*casdoorsdk.Claims, error)
	SendEmail(title string, content string, sender string, receivers ...string) error
}

// PasswordGrant exchanges a username and password for tokens
type PasswordGrant func(ctx context.Context, username, password string) (*oauth2.Token, error)

type UserCasdoor struct {
	client   casdoorAPI
	grant    PasswordGrant
	cache    *cache.CacheHelper
	config   CasdoorConfig
	cacheTTL time.Duration
	now      func() time.Time
}

// NewUserCasdoor creates the Casdoor-backed user repository
func NewUserCasdoor(config CasdoorConfig, userCache *cache.CacheHelper) *UserCasdoor {
	client := casdoorsdk.NewClient(
		config.Endpoint,
		config.ClientID,
		config.ClientSecret,
		config.Certificate,
		config.OrganizationName,
		config.ApplicationName,
	)

	return newUserCasdoor(config, client, NewPasswordGrant(config), userCache)
}

func newUserCasdoor(config CasdoorConfig, client casdoorAPI, grant PasswordGrant, userCache *cache.CacheHelper) *UserCasdoor {
	if userCache == nil {
		userCache = cache.NewCacheHelper(nil, "")
	}
	return &UserCasdoor{
		client:   client,
		grant:    grant,
		cache:    userCache,
		config:   config,
		cacheTTL: cache.UserCacheConfig.TTL,
		now:      time.Now,
	}
}

// NewPasswordGrant uses the resource owner password flow against Casdoor's token endpoint
func NewPasswordGrant(config CasdoorConfig) PasswordGrant {
	oauthConfig := &oauth2.Config{
		ClientID:     config.ClientID,
		ClientSecret: config.ClientSecret,
		Endpoint: oauth2.Endpoint{
			AuthURL:   strings.TrimRight(config.Endpoint, "/") + "/login/oauth/authorize",
			TokenURL:  strings.TrimRight(config.Endpoint, "/") + "/api/login/oauth/access_token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Scopes: []string{"openid", "profile", "email"},
	}

	return func(ctx context.Context, username, password string) (*oauth2.Token, error) {
		return oauthConfig.PasswordCredentialsToken(ctx, username, password)
	}
}

// ===== CONVERSION METHODS =====

// convertCasdoorUserToModel converts Casdoor user to internal model
func (u *UserCasdoor) convertCasdoorUserToModel(casdoorUser *casdoorsdk.User) *models.User {
	if casdoorUser == nil {
		return nil
	}

	username := casdoorUser.Properties["username"]
	if username == "" {
		username = casdoorUser.DisplayName
	}
	if username == "" {
		username = casdoorUser.Name
	}

	return &models.User{
		ID:       casdoorUser.Id,
		Email:    casdoorUser.Email,
		Username: username,
		Role:     u.convertCasdoorRolesToModel(casdoorUser),
	}
}

// convertCasdoorRolesToModel prefers the role chosen at sign-up, then the user type, then assigned roles
func (u *UserCasdoor) convertCasdoorRolesToModel(casdoorUser *casdoorsdk.User) models.UserRole {
	if role, ok := mapSingleCasdoorRoleToUserRole(casdoorUser.Properties["role"]); ok {
		return role
	}
	if role, ok := mapSingleCasdoorRoleToUserRole(casdoorUser.Type); ok {
		return role
	}
	for _, casdoorRole := range casdoorUser.Roles {
		if casdoorRole == nil {
			continue
		}
		if role, ok := mapSingleCasdoorRoleToUserRole(casdoorRole.Name); ok {
			return role
		}
	}
	return models.RoleStudent // Default role
}

func mapSingleCasdoorRoleToUserRole(casdoorType string) (models.UserRole, bool) {
	switch strings.ToLower(strings.TrimSpace(casdoorType)) {
	case "student", "learner":
		return models.RoleStudent, true
	case "teacher", "instructor", "educator":
		return models.RoleTeacher, true
	case "employer", "recruiter":
		return models.RoleEmployer, true
	default:
		return "", false
	}
}

// ===== AUTHENTICATION =====

// Authenticate signs in with the password grant and reads the identity from the issued JWT
func (u *UserCasdoor) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	token, err := u.grant(ctx, email, password)
	if err != nil {
		return nil, classifyGrantError(err)
	}

	claims, err := u.client.ParseJwtToken(token.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Casdoor token: %w", err)
	}

	user := u.convertCasdoorUserToModel(&claims.User)
	if user == nil || user.ID == "" {
		return nil, fmt.Errorf("casdoor token carries no user")
	}

	cache.SafeSet(ctx, u.cache, fmt.Sprintf("id:%s", user.ID), user, cache.UserCacheConfig)
	return user, nil
}

func classifyGrantError(err error) error {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		switch retrieveErr.ErrorCode {
		case "invalid_grant", "invalid_credentials":
			return repositories.NewAuthError(repositories.FailureInvalidCredentials, err)
		}
		if retrieveErr.ErrorDescription != "" {
			authErr := repositories.FromMessage(retrieveErr.ErrorDescription)
			authErr.Err = err
			return authErr
		}
	}
	return fmt.Errorf("casdoor sign in failed: %w", err)
}

// Create registers a user in the configured organization
func (u *UserCasdoor) Create(ctx context.Context, email, password string, profile models.Profile) (*models.User, error) {
	existing, err := u.client.GetUserByEmail(email)
	if err != nil {
		return nil, fmt.Errorf("failed to check user existence by email: %w", err)
	}
	if existing != nil && existing.Id != "" {
		return nil, repositories.ErrUserAlreadyExists
	}

	casdoorUser := &casdoorsdk.User{
		Owner:             u.config.OrganizationName,
		Name:              profile.Username,
		Id:                uuid.NewString(),
		CreatedTime:       u.now().UTC().Format(time.RFC3339),
		Type:              "normal-user",
		Password:          password,
		DisplayName:       profile.Username,
		Email:             email,
		SignupApplication: u.config.ApplicationName,
		Properties: map[string]string{
			"role":     string(profile.Role),
			"username": profile.Username,
		},
	}

	affected, err := u.client.AddUser(casdoorUser)
	if err != nil {
		if isDuplicate(err.Error()) {
			return nil, repositories.NewAuthError(repositories.FailureUserAlreadyExists, err)
		}
		return nil, fmt.Errorf("failed to add user to Casdoor: %w", err)
	}
	if !affected {
		return nil, repositories.ErrUserAlreadyExists
	}

	return u.convertCasdoorUserToModel(casdoorUser), nil
}

// SetPassword sets a new password without the old one, as reset links allow
func (u *UserCasdoor) SetPassword(ctx context.Context, id, password string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	casdoorUser, err := u.client.GetUserByUserId(id)
	if err != nil {
		return fmt.Errorf("failed to get user from Casdoor: %w", err)
	}
	if casdoorUser == nil || casdoorUser.Name == "" {
		return repositories.ErrUserNotFound
	}

	ok, err := u.client.SetPassword(casdoorUser.Owner, casdoorUser.Name, "", password)
	if err != nil {
		return fmt.Errorf("failed to set password in Casdoor: %w", err)
	}
	if !ok {
		return fmt.Errorf("casdoor refused the password change for %s/%s", casdoorUser.Owner, casdoorUser.Name)
	}
	return nil
}

func isDuplicate(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "already exist") ||
		repositories.ClassifyMessage(text) == repositories.FailureUserAlreadyExists
}

// ===== BASIC READ OPERATIONS =====

// GetByID retrieves a user by ID
func (u *UserCasdoor) GetByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := u.cache.CacheOrExecute(ctx, fmt.Sprintf("id:%s", id), &user, u.cacheTTL, func() (interface{}, error) {
		casdoorUser, err := u.client.GetUserByUserId(id)
		if err != nil {
			return nil, fmt.Errorf("failed to get user from Casdoor: %w", err)
		}
		if casdoorUser == nil {
			return nil, repositories.ErrUserNotFound
		}
		return u.convertCasdoorUserToModel(casdoorUser), nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByEmail retrieves a user by email
func (u *UserCasdoor) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := u.cache.CacheOrExecute(ctx, fmt.Sprintf("email:%s", strings.ToLower(email)), &user, u.cacheTTL, func() (interface{}, error) {
		casdoorUser, err := u.client.GetUserByEmail(email)
		if err != nil {
			return nil, fmt.Errorf("failed to get user by email from Casdoor: %w", err)
		}
		if casdoorUser == nil || casdoorUser.Id == "" {
			return nil, repositories.ErrUserNotFound
		}
		return u.convertCasdoorUserToModel(casdoorUser), nil
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
