package handlers

import (
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/auth-portal/internal/i18n"
	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/services"
	"github.com/SAP-F-2025/auth-portal/internal/ui"
)

const (
	tabBase     = "tab"
	tabActive   = "tab-active"
	tabInactive = "tab-idle"
)

// Page holds what every view needs
type Page struct {
	Lang        string
	PageTitle   string
	LayoutClass string
	Mobile      bool
	ReturnTo    string
	T           *i18n.Translator
	Languages   []ui.LanguageButton
}

// AuthPage is the view model of the auth screen
type AuthPage struct {
	Page
	Screen *services.Screen
	Tabs   []TabLink
	Roles  []ui.RoleButton
}

// ConfirmPage is the view model of the new-password form
type ConfirmPage struct {
	Page
	Screen *services.Screen
}

// AreaPage is the view model of a landing area
type AreaPage struct {
	Page
	User *models.User
}

// TabLink is one entry of the tab strip
type TabLink struct {
	Tab    models.Tab
	Label  string
	Href   string
	Active bool
	Class  string
}

var tabLabels = map[models.Tab]string{
	models.TabLogin:    "Login",
	models.TabRegister: "Register",
	models.TabReset:    "Reset",
}

func newPage(c *gin.Context, t *i18n.Translator, title string) Page {
	viewport := getViewport(c)
	return Page{
		Lang:        t.Code(),
		PageTitle:   title,
		LayoutClass: viewport.LayoutClass(),
		Mobile:      viewport.IsMobile(),
		ReturnTo:    c.Request.URL.RequestURI(),
		T:           t,
		Languages:   ui.NewLanguageSwitcher(t.Code(), nil, nil).Buttons(),
	}
}

func newAuthPage(c *gin.Context, t *i18n.Translator, screen *services.Screen) AuthPage {
	p := newPage(c, t, screen.Title())
	p.ReturnTo = services.PathAuth + "?tab=" + string(screen.Tab)

	tabs := make([]TabLink, 0, len(models.Tabs))
	for _, tab := range models.Tabs {
		active := tab == screen.Tab
		tabs = append(tabs, TabLink{
			Tab:    tab,
			Label:  t.T(tabLabels[tab]),
			Href:   services.PathAuth + "?tab=" + string(tab),
			Active: active,
			Class:  ui.Classes(tabBase, ui.If(active, tabActive, tabInactive)),
		})
	}

	return AuthPage{
		Page:   p,
		Screen: screen,
		Tabs:   tabs,
		Roles:  screen.RoleSelector().Buttons(),
	}
}

func newConfirmPage(c *gin.Context, t *i18n.Translator, screen *services.Screen) ConfirmPage {
	p := newPage(c, t, t.T("Choose a new password"))
	p.ReturnTo = services.PathResetConfirm + "?" + url.Values{"token": {screen.Confirm.Token}}.Encode()
	return ConfirmPage{Page: p, Screen: screen}
}

// safeReturnPath keeps redirects on this site
func safeReturnPath(raw string) string {
	if raw == "" || !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return services.PathAuth
	}
	u, err := url.Parse(raw)
	if err != nil || u.IsAbs() || u.Host != "" {
		return services.PathAuth
	}
	return u.RequestURI()
}
