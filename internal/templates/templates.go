// Package templates embeds the HTML views and static assets of the auth portal.
package templates

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
)

//go:embed views/*.html
var viewFS embed.FS

//go:embed static
var staticFS embed.FS

var icons = map[string]string{
	"user":       `<path d="M19 21v-2a4 4 0 0 0-4-4H9a4 4 0 0 0-4 4v2"/><circle cx="12" cy="7" r="4"/>`,
	"book-open":  `<path d="M2 3h6a4 4 0 0 1 4 4v14a3 3 0 0 0-3-3H2z"/><path d="M22 3h-6a4 4 0 0 0-4 4v14a3 3 0 0 1 3-3h7z"/>`,
	"briefcase":  `<rect x="2" y="7" width="20" height="14" rx="2"/><path d="M16 21V5a2 2 0 0 0-2-2h-4a2 2 0 0 0-2 2v16"/>`,
	"arrow-left": `<path d="m12 19-7-7 7-7"/><path d="M19 12H5"/>`,
	"globe":      `<circle cx="12" cy="12" r="10"/><path d="M2 12h20"/><path d="M12 2a15.3 15.3 0 0 1 0 20a15.3 15.3 0 0 1 0-20"/>`,
	"log-out":    `<path d="M9 21H5a2 2 0 0 1-2-2V5a2 2 0 0 1 2-2h4"/><path d="m16 17 5-5-5-5"/><path d="M21 12H9"/>`,
}

// Icon renders a named stroke icon as inline SVG; unknown names render nothing
func Icon(name string) template.HTML {
	paths, ok := icons[name]
	if !ok {
		return ""
	}
	return template.HTML(fmt.Sprintf(
		`<svg class="icon icon-%s" xmlns="http://www.w3.org/2000/svg" width="16" height="16" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round" aria-hidden="true">%s</svg>`,
		name, paths,
	))
}

// FuncMap holds the helpers available to every view
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"icon":  Icon,
		"lower": strings.ToLower,
	}
}

// Load parses every embedded view
func Load() (*template.Template, error) {
	tmpl, err := template.New("").Funcs(FuncMap()).ParseFS(viewFS, "views/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse views: %w", err)
	}
	return tmpl, nil
}

// Static returns the embedded static assets rooted at the static directory
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
