package ui

import (
	"github.com/SAP-F-2025/auth-portal/internal/i18n"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
)

const (
	languageButtonBase     = "btn btn-sm"
	languageButtonActive   = "bg-edu-purple text-white"
	languageButtonInactive = "text-white hover:bg-edu-purple/20"
)

// LanguageButton is one rendered switcher button
type LanguageButton struct {
	Code    string
	Label   string
	Active  bool
	Variant string
	Class   string
}

// LanguageSwitcher renders one button per supported locale and forwards clicks to a setter
type LanguageSwitcher struct {
	active string
	set    func(code string)
	logger utils.Logger
}

func NewLanguageSwitcher(active string, set func(code string), logger utils.Logger) *LanguageSwitcher {
	return &LanguageSwitcher{
		active: i18n.Normalize(active),
		set:    set,
		logger: logger,
	}
}

// Buttons returns the buttons in display order with the active one highlighted
func (s *LanguageSwitcher) Buttons() []LanguageButton {
	locales := i18n.Supported()
	buttons := make([]LanguageButton, 0, len(locales))
	for _, l := range locales {
		active := l.Code == s.active
		buttons = append(buttons, LanguageButton{
			Code:    l.Code,
			Label:   l.Label,
			Active:  active,
			Variant: If(active, "default", "outline"),
			Class:   Classes(languageButtonBase, If(active, languageButtonActive, languageButtonInactive)),
		})
	}
	return buttons
}

// Click calls the setter once with code and logs the change
func (s *LanguageSwitcher) Click(code string) {
	code = i18n.Normalize(code)
	if s.set != nil {
		s.set(code)
	}
	s.active = code
	if s.logger != nil {
		s.logger.Info("Language changed to "+code, "locale", code)
	}
}
