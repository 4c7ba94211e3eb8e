package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sync"

	"github.com/goccy/go-yaml"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

//go:embed locales/*.yaml
var localeFS embed.FS

type localeFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Catalog holds the translated copy for every supported locale.
type Catalog struct {
	builder *catalog.Builder
	texts   map[string]map[string]string
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Default returns the catalog built from the embedded locale files.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCatalog, defaultErr = Load(localeFS, "locales")
	})
	return defaultCatalog, defaultErr
}

// MustDefault is Default for process start-up, where a broken catalog is fatal.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Load parses every supported locale file found under dir.
func Load(fsys fs.FS, dir string) (*Catalog, error) {
	c := &Catalog{
		builder: catalog.NewBuilder(catalog.Fallback(language.English)),
		texts:   make(map[string]map[string]string),
	}

	for _, l := range supported {
		data, err := fs.ReadFile(fsys, path.Join(dir, l.Code+".yaml"))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", l.Code, err)
		}

		var file localeFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", l.Code, err)
		}
		if file.Locale != l.Code {
			return nil, fmt.Errorf("locale file %s declares %q", l.Code, file.Locale)
		}

		tag := language.MustParse(l.Code)
		for key, text := range file.Messages {
			if err := c.builder.SetString(tag, key, text); err != nil {
				return nil, fmt.Errorf("set %s message %q: %w", l.Code, key, err)
			}
		}
		c.texts[l.Code] = file.Messages
	}

	return c, nil
}

// Has reports whether code carries its own translation for key.
func (c *Catalog) Has(code, key string) bool {
	_, ok := c.texts[code][key]
	return ok
}

// Translator prints copy in one locale, falling back to English per key.
type Translator struct {
	code     string
	catalog  *Catalog
	printer  *message.Printer
	fallback *message.Printer
}

// Translator returns a translator for code; unsupported codes get English.
func (c *Catalog) Translator(code string) *Translator {
	code = Normalize(code)
	return &Translator{
		code:     code,
		catalog:  c,
		printer:  message.NewPrinter(language.MustParse(code), message.Catalog(c.builder)),
		fallback: message.NewPrinter(language.English, message.Catalog(c.builder)),
	}
}

// Code returns the locale code the translator prints in.
func (t *Translator) Code() string {
	return t.code
}

// T translates key as literal copy. Keys are never read as format strings.
func (t *Translator) T(key string) string {
	if t == nil {
		return key
	}
	if text, ok := t.catalog.texts[t.code][key]; ok {
		return text
	}
	if text, ok := t.catalog.texts[language.English.String()][key]; ok {
		return text
	}
	return key
}

// Tf translates a format key and formats args into the translated text.
func (t *Translator) Tf(format string, args ...any) string {
	if t == nil {
		return fmt.Sprintf(format, args...)
	}
	if t.catalog.Has(t.code, format) {
		return t.printer.Sprintf(format, args...)
	}
	return t.fallback.Sprintf(format, args...)
}
