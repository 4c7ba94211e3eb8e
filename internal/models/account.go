package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Account is a locally stored identity used when no external identity provider is configured
type Account struct {
	ID           string            `json:"id" gorm:"primaryKey;size:36"`
	Email        string            `json:"email" gorm:"uniqueIndex;not null;size:255"`
	Username     string            `json:"username" gorm:"not null;size:100"`
	Role         UserRole          `json:"role" gorm:"not null;size:20;default:student"`
	PasswordHash string            `json:"-" gorm:"not null;size:100"`
	Metadata     datatypes.JSONMap `json:"metadata" gorm:"type:jsonb"`

	LastSignInAt *time.Time `json:"last_sign_in_at"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (Account) TableName() string {
	return "accounts"
}

// ToUser converts the stored account into the session identity
func (a *Account) ToUser() *User {
	return &User{
		ID:       a.ID,
		Email:    a.Email,
		Username: a.Username,
		Role:     ParseRole(string(a.Role)),
	}
}
