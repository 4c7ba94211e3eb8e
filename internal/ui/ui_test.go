package ui

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/auth-portal/internal/models"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
)

func bufferLogger() (utils.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return utils.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil))), &buf
}

func TestClasses(t *testing.T) {
	assert.Equal(t, "a b c", Classes("a", " ", "b  ", "", "c"))
	assert.Equal(t, "", Classes())
	assert.Equal(t, "yes", If(true, "yes", "no"))
	assert.Equal(t, "no", If(false, "yes", "no"))
}

func TestLanguageSwitcher_ClickCallsSetterOnce(t *testing.T) {
	for _, code := range []string{"en", "hi", "bn", "ta", "te", "kn"} {
		t.Run(code, func(t *testing.T) {
			var calls []string
			logger, buf := bufferLogger()
			s := NewLanguageSwitcher("en", func(c string) { calls = append(calls, c) }, logger)

			s.Click(code)

			assert.Equal(t, []string{code}, calls)
			assert.Contains(t, buf.String(), "Language changed to "+code)
		})
	}
}

func TestLanguageSwitcher_Buttons(t *testing.T) {
	s := NewLanguageSwitcher("ta", nil, nil)
	buttons := s.Buttons()
	require.Len(t, buttons, 6)

	labels := make([]string, 0, len(buttons))
	active := 0
	for _, b := range buttons {
		labels = append(labels, b.Label)
		if b.Active {
			active++
			assert.Equal(t, "ta", b.Code)
			assert.Contains(t, b.Class, "bg-edu-purple text-white")
			assert.Equal(t, "default", b.Variant)
		} else {
			assert.Contains(t, b.Class, "hover:bg-edu-purple/20")
			assert.Equal(t, "outline", b.Variant)
		}
	}
	assert.Equal(t, 1, active)
	assert.Equal(t, []string{"English", "Hindi", "Bengali", "Tamil", "Telugu", "Kannada"}, labels)
}

func TestLanguageSwitcher_UnsupportedCodeNormalizes(t *testing.T) {
	var got string
	s := NewLanguageSwitcher("xx", func(c string) { got = c }, nil)
	assert.True(t, s.Buttons()[0].Active)

	s.Click("fr")
	assert.Equal(t, "en", got)
}

func TestRoleSelector(t *testing.T) {
	var selected []models.UserRole
	r := NewRoleSelector(models.RoleStudent, func(role models.UserRole) { selected = append(selected, role) })

	buttons := r.Buttons()
	require.Len(t, buttons, 3)
	assert.Equal(t, models.RoleStudent, buttons[0].Role)
	assert.True(t, buttons[0].Active)
	assert.False(t, buttons[1].Active)
	assert.False(t, buttons[2].Active)
	assert.Equal(t, []string{"user", "book-open", "briefcase"}, []string{buttons[0].Icon, buttons[1].Icon, buttons[2].Icon})
	assert.Contains(t, buttons[0].Class, "bg-edu-purple border-edu-purple")
	assert.Contains(t, buttons[1].Class, "border-gray-600")

	r.Select(models.RoleEmployer)
	assert.Equal(t, []models.UserRole{models.RoleEmployer}, selected)
}

func TestViewport_Breakpoint(t *testing.T) {
	assert.True(t, NewViewport(767, true).IsMobile())
	assert.False(t, NewViewport(768, true).IsMobile())
	assert.False(t, NewViewport(0, false).IsMobile())
}

func TestViewport_ResizeIsSynchronous(t *testing.T) {
	v := NewViewport(1024, true)

	var seen []bool
	cancel := v.Subscribe(func(mobile bool) { seen = append(seen, mobile) })

	v.Resize(767)
	assert.True(t, v.IsMobile())
	v.Resize(768)
	assert.False(t, v.IsMobile())
	v.Resize(900)

	assert.Equal(t, []bool{true, false, false}, seen)

	cancel()
	cancel()
	assert.Equal(t, 0, v.Subscribers())
	v.Resize(300)
	assert.Len(t, seen, 3)
	assert.True(t, v.IsMobile())
}

func TestViewport_ConcurrentResize(t *testing.T) {
	v := NewViewport(0, false)
	cancel := v.Subscribe(func(bool) {})
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			v.Resize(w)
			_ = v.IsMobile()
		}(700 + i*4)
	}
	wg.Wait()

	width, known := v.Width()
	assert.True(t, known)
	assert.Equal(t, width < MobileBreakpoint, v.IsMobile())
}

func TestViewportFromRequest(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/auth", nil)
	assert.False(t, ViewportFromRequest(r).IsMobile())

	r.Header.Set(HeaderViewportWidth, "390")
	v := ViewportFromRequest(r)
	assert.True(t, v.IsMobile())
	assert.Equal(t, "layout-compact", v.LayoutClass())

	legacy := httptest.NewRequest(http.MethodGet, "/auth", nil)
	legacy.Header.Set(HeaderLegacyViewportWidth, "1280.5")
	assert.Equal(t, "layout-wide", ViewportFromRequest(legacy).LayoutClass())

	junk := httptest.NewRequest(http.MethodGet, "/auth", nil)
	junk.Header.Set(HeaderViewportWidth, "wide")
	_, known := ViewportFromRequest(junk).Width()
	assert.False(t, known)
}
