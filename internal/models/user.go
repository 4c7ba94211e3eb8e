package models

import (
	"strings"
	"time"
)

type UserRole string

const (
	RoleStudent  UserRole = "student"
	RoleTeacher  UserRole = "teacher"
	RoleEmployer UserRole = "employer"
)

// Roles lists the selectable roles in display order
var Roles = []UserRole{RoleStudent, RoleTeacher, RoleEmployer}

func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether r is one of the selectable roles
func (r UserRole) IsValid() bool {
	for _, role := range Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ParseRole maps free-form input to a role; unknown input falls back to student
func ParseRole(s string) UserRole {
	role := UserRole(strings.ToLower(strings.TrimSpace(s)))
	if role.IsValid() {
		return role
	}
	return RoleStudent
}

// User is the authenticated identity kept in the session
type User struct {
	ID       string   `json:"id"`
	Email    string   `json:"email"`
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// Profile is the extra registration data stored with a new account
type Profile struct {
	Username string   `json:"username"`
	Role     UserRole `json:"role"`
}

// Session binds an opaque session ID to a signed-in user
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}
