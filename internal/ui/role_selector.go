package ui

import "github.com/SAP-F-2025/auth-portal/internal/models"

const (
	roleButtonBase     = "btn role-btn"
	roleButtonActive   = "bg-edu-purple border-edu-purple"
	roleButtonInactive = "border-gray-600"
)

// RoleButton is one rendered role option
type RoleButton struct {
	Role    models.UserRole
	Icon    string
	Active  bool
	Variant string
	Class   string
}

// RoleSelector renders one button per role. It holds no state of its own.
type RoleSelector struct {
	selected models.UserRole
	onSelect func(models.UserRole)
}

func NewRoleSelector(selected models.UserRole, onSelect func(models.UserRole)) RoleSelector {
	return RoleSelector{selected: selected, onSelect: onSelect}
}

// RoleIcon names the icon drawn next to a role
func RoleIcon(role models.UserRole) string {
	switch role {
	case models.RoleTeacher:
		return "book-open"
	case models.RoleEmployer:
		return "briefcase"
	default:
		return "user"
	}
}

func (r RoleSelector) Buttons() []RoleButton {
	buttons := make([]RoleButton, 0, len(models.Roles))
	for _, role := range models.Roles {
		active := role == r.selected
		buttons = append(buttons, RoleButton{
			Role:    role,
			Icon:    RoleIcon(role),
			Active:  active,
			Variant: If(active, "default", "outline"),
			Class:   Classes(roleButtonBase, If(active, roleButtonActive, roleButtonInactive)),
		})
	}
	return buttons
}

// Select passes role to the callback
func (r RoleSelector) Select(role models.UserRole) {
	if r.onSelect != nil {
		r.onSelect(role)
	}
}
