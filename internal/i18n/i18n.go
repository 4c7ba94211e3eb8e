// Package i18n resolves the active locale and prints translated copy for the auth pages.
package i18n

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/language"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the user's language preference.
	LangCookieName = "lang"
	// DefaultCode is used whenever a code is missing or unsupported.
	DefaultCode = "en"
)

// Locale is one supported language and its native display label.
type Locale struct {
	Code  string
	Label string
}

// supported is ordered as the switcher renders it.
var supported = []Locale{
	{Code: "en", Label: "English"},
	{Code: "hi", Label: "Hindi"},
	{Code: "bn", Label: "Bengali"},
	{Code: "ta", Label: "Tamil"},
	{Code: "te", Label: "Telugu"},
	{Code: "kn", Label: "Kannada"},
}

var (
	supportedTags = func() []language.Tag {
		tags := make([]language.Tag, 0, len(supported))
		for _, l := range supported {
			tags = append(tags, language.MustParse(l.Code))
		}
		return tags
	}()
	matcher = language.NewMatcher(supportedTags)
)

// Supported returns the supported locales in display order.
func Supported() []Locale {
	out := make([]Locale, len(supported))
	copy(out, supported)
	return out
}

// IsSupported reports whether code is one of the supported locale codes.
func IsSupported(code string) bool {
	for _, l := range supported {
		if l.Code == code {
			return true
		}
	}
	return false
}

// Normalize coerces a code to a supported one, defaulting to English.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	if IsSupported(code) {
		return code
	}
	if tag, err := language.Parse(code); err == nil {
		base, _ := tag.Base()
		if IsSupported(base.String()) {
			return base.String()
		}
	}
	return DefaultCode
}

// MatchAcceptLanguage picks the best supported code for an Accept-Language header.
func MatchAcceptLanguage(header string) string {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return DefaultCode
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return DefaultCode
	}
	return supported[idx].Code
}

// ResolveCode determines the locale for a request: query, then cookie, then Accept-Language.
// The bool reports whether the query value should be persisted as a cookie.
func ResolveCode(r *http.Request) (string, bool) {
	if r == nil {
		return DefaultCode, false
	}

	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if code := strings.ToLower(v); IsSupported(code) {
			return code, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if code := strings.ToLower(strings.TrimSpace(cookie.Value)); IsSupported(code) {
			return code, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		return MatchAcceptLanguage(accept), false
	}

	return DefaultCode, false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, code string, secure bool) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    Normalize(code),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}
