package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSupportedOrder(t *testing.T) {
	var codes []string
	for _, l := range Supported() {
		codes = append(codes, l.Code)
	}
	assert.Equal(t, []string{"en", "hi", "bn", "ta", "te", "kn"}, codes)
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"en":    "en",
		" HI ":  "hi",
		"ta-IN": "ta",
		"fr":    "en",
		"":      "en",
		"%%%":   "en",
	}
	for in, want := range tests {
		assert.Equal(t, want, Normalize(in), in)
	}
}

func TestMatchAcceptLanguage(t *testing.T) {
	assert.Equal(t, "ta", MatchAcceptLanguage("ta-IN,en;q=0.5"))
	assert.Equal(t, "en", MatchAcceptLanguage("fr-FR"))
	assert.Equal(t, "en", MatchAcceptLanguage(";;;"))
}

func TestResolveCode(t *testing.T) {
	t.Run("query wins and is persisted", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/auth?lang=kn", nil)
		r.AddCookie(&http.Cookie{Name: LangCookieName, Value: "hi"})
		code, persist := ResolveCode(r)
		assert.Equal(t, "kn", code)
		assert.True(t, persist)
	})

	t.Run("cookie before accept-language", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/auth", nil)
		r.AddCookie(&http.Cookie{Name: LangCookieName, Value: "bn"})
		r.Header.Set("Accept-Language", "te")
		code, persist := ResolveCode(r)
		assert.Equal(t, "bn", code)
		assert.False(t, persist)
	})

	t.Run("unsupported query ignored", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/auth?lang=xx", nil)
		r.Header.Set("Accept-Language", "te")
		code, _ := ResolveCode(r)
		assert.Equal(t, "te", code)
	})

	t.Run("nil request", func(t *testing.T) {
		code, _ := ResolveCode(nil)
		assert.Equal(t, DefaultCode, code)
	})
}

func TestSetLanguageCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	SetLanguageCookie(rec, "zz", true)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, LangCookieName, cookies[0].Name)
	assert.Equal(t, "en", cookies[0].Value)
	assert.True(t, cookies[0].Secure)
}

func TestCatalogCoversEveryKey(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	english := c.texts["en"]
	require.NotEmpty(t, english)
	for _, l := range Supported() {
		for key := range english {
			assert.True(t, c.Has(l.Code, key), "%s is missing %q", l.Code, key)
		}
	}
}

func TestTranslator(t *testing.T) {
	c := MustDefault()

	assert.Equal(t, "वापस", c.Translator("hi").T("Back"))
	assert.Equal(t, "Back", c.Translator("en").T("Back"))
	assert.Equal(t, "Back", c.Translator("fr").T("Back"))
	assert.Equal(t, "en", c.Translator("fr").Code())
	assert.Equal(t, "Signed in as ada", c.Translator("en").Tf("Signed in as %s", "ada"))
	assert.Equal(t, "Not in any catalog", c.Translator("kn").T("Not in any catalog"))
}

func TestTranslator_LiteralKeysKeepPercent(t *testing.T) {
	c := MustDefault()

	assert.Equal(t, "100% sure", c.Translator("hi").T("100% sure"))
	assert.Equal(t, "Signed in as %s", c.Translator("en").T("Signed in as %s"))

	var nilTranslator *Translator
	assert.Equal(t, "50% off", nilTranslator.T("50% off"))
	assert.Equal(t, "Signed in as ada", nilTranslator.Tf("Signed in as %s", "ada"))
}
