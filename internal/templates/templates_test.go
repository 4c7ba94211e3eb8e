package templates

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefinesViews(t *testing.T) {
	tmpl, err := Load()
	require.NoError(t, err)

	for _, name := range []string{"auth.html", "area.html", "reset_confirm.html", "head", "languages", "foot"} {
		assert.NotNil(t, tmpl.Lookup(name), name)
	}
}

func TestIcon(t *testing.T) {
	svg := string(Icon("globe"))
	assert.True(t, strings.HasPrefix(svg, "<svg"))
	assert.Contains(t, svg, "icon-globe")

	assert.Empty(t, Icon("unknown"))
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"auth.css", "auth.js"} {
		data, err := fs.ReadFile(Static(), name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data)
	}
}
