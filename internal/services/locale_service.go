package services

import (
	"context"
	"log/slog"

	"github.com/SAP-F-2025/auth-portal/internal/events"
	"github.com/SAP-F-2025/auth-portal/internal/i18n"
	"github.com/SAP-F-2025/auth-portal/internal/metrics"
	"github.com/SAP-F-2025/auth-portal/internal/ui"
	"github.com/SAP-F-2025/auth-portal/internal/utils"
)

// LocaleService hands out per-request locale stores
type LocaleService struct {
	catalog   *i18n.Catalog
	publisher events.EventPublisher
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewLocaleService(catalog *i18n.Catalog, publisher events.EventPublisher, m *metrics.Metrics, logger *slog.Logger) *LocaleService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocaleService{
		catalog:   catalog,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// Store returns the locale store for one request. persist is called with every new code.
func (s *LocaleService) Store(ctx context.Context, current string, persist func(code string)) *RequestLocale {
	return &RequestLocale{
		ctx:     ctx,
		code:    i18n.Normalize(current),
		persist: persist,
		service: s,
	}
}

// RequestLocale is the LocaleStore of a single request
type RequestLocale struct {
	ctx     context.Context
	code    string
	persist func(code string)
	service *LocaleService
}

func (l *RequestLocale) Language() string {
	return l.code
}

// SetLanguage switches to code, normalizing unsupported codes to English
func (l *RequestLocale) SetLanguage(code string) {
	from := l.code
	l.code = i18n.Normalize(code)
	if l.persist != nil {
		l.persist(l.code)
	}

	l.service.metrics.RecordLocaleChange(l.code)
	events.PublishSafe(l.ctx, l.service.publisher, l.service.logger, events.NewEvent(events.EventLocaleChanged, events.LocaleChangedEvent{
		From:     from,
		To:       l.code,
		ClientID: utils.ClientIDFromContext(l.ctx),
	}))
}

// Translator prints copy in the active language
func (l *RequestLocale) Translator() *i18n.Translator {
	return l.service.catalog.Translator(l.code)
}

// Switcher renders the language buttons wired to this store
func (l *RequestLocale) Switcher(logger utils.Logger) *ui.LanguageSwitcher {
	return ui.NewLanguageSwitcher(l.code, l.SetLanguage, logger)
}
