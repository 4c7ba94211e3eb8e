package models

import "strings"

// Tab selects which form the auth screen shows
type Tab string

const (
	TabLogin    Tab = "login"
	TabRegister Tab = "register"
	TabReset    Tab = "reset"
)

// Tabs lists the tabs in display order
var Tabs = []Tab{TabLogin, TabRegister, TabReset}

// ParseTab returns the tab named by s and whether it was recognised
func ParseTab(s string) (Tab, bool) {
	switch Tab(strings.ToLower(strings.TrimSpace(s))) {
	case TabLogin:
		return TabLogin, true
	case TabRegister:
		return TabRegister, true
	case TabReset:
		return TabReset, true
	}
	return TabLogin, false
}

// ScreenState is the submission state of the auth screen
type ScreenState string

const (
	StateIdle       ScreenState = "idle"
	StateSubmitting ScreenState = "submitting"
	StateError      ScreenState = "error"
)

// Form names used for metrics, events and submit guards
const (
	FormLogin    = "login"
	FormRegister = "register"
	FormReset    = "reset"
	FormConfirm  = "reset_confirm"
	FormLogout   = "logout"
)
