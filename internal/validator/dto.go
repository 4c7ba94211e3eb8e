package validator

import (
	"strings"

	"github.com/SAP-F-2025/auth-portal/internal/models"
)

// LoginRequest is the login form
type LoginRequest struct {
	Email    string `form:"email" json:"email" validate:"required,email"`
	Password string `form:"password" json:"-" validate:"required,min=6"`
}

// RegisterRequest is the registration form
type RegisterRequest struct {
	Email    string          `form:"email" json:"email" validate:"required,email"`
	Password string          `form:"password" json:"-" validate:"required,min=6"`
	Username string          `form:"username" json:"username" validate:"required,min=3"`
	Role     models.UserRole `form:"role" json:"role" validate:"required,user_role"`
}

// NewRegisterRequest returns an empty registration form with the default role selected
func NewRegisterRequest() RegisterRequest {
	return RegisterRequest{Role: models.RoleStudent}
}

// Profile returns the account metadata carried by the form
func (r RegisterRequest) Profile() models.Profile {
	return models.Profile{Username: r.Username, Role: r.Role}
}

// ResetPasswordRequest is the password reset form
type ResetPasswordRequest struct {
	Email string `form:"email" json:"email" validate:"required,email"`
}

// ConfirmResetRequest is the new-password form reached from a reset link
type ConfirmResetRequest struct {
	Token    string `form:"token" json:"-" validate:"required"`
	Password string `form:"password" json:"-" validate:"required,min=6"`
}

// Normalize trims the email in place
func (r *LoginRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Normalize trims text inputs in place; the password is left as typed
func (r *RegisterRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
	r.Username = strings.TrimSpace(r.Username)
	r.Role = models.UserRole(strings.ToLower(strings.TrimSpace(string(r.Role))))
}

// Normalize trims the email in place
func (r *ResetPasswordRequest) Normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

// Normalize trims the token in place
func (r *ConfirmResetRequest) Normalize() {
	r.Token = strings.TrimSpace(r.Token)
}
