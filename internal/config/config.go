package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderCasdoor = "casdoor"
	ProviderLocal   = "local"

	resetConfirmPath = "/auth/reset/confirm"
)

// CasdoorConfig holds the Casdoor application credentials
type CasdoorConfig struct {
	Endpoint     string
	ClientID     string
	ClientSecret string
	Cert         string
	Organization string
	Application  string
	MailSender   string
}

// SessionConfig controls the session cookie and its backing record
type SessionConfig struct {
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
}

// Config holds runtime configuration sourced from env vars (and an optional .env file)
type Config struct {
	Port        string
	PublicURL   string
	Environment string
	LogLevel    slog.Level
	CORSOrigins []string

	// Auth
	AuthProvider string
	AuthTimeout  time.Duration
	ResetURL     string
	Casdoor      CasdoorConfig

	// Storage
	DatabaseURL string
	RedisURL    string

	// Events
	KafkaBrokers []string
	EventsTopic  string

	Session SessionConfig
}

// LoadConfig loads .env (if present) and reads configuration from the environment
func LoadConfig() (*Config, error) {
	// Missing .env is fine; real deployments inject env vars directly
	_ = godotenv.Load()

	cfg := &Config{
		Port:         fallback(os.Getenv("PORT"), "8080"),
		PublicURL:    strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_URL")), "/"),
		Environment:  fallback(os.Getenv("ENVIRONMENT"), "development"),
		LogLevel:     parseLogLevel(os.Getenv("LOG_LEVEL")),
		CORSOrigins:  parseCSV(os.Getenv("CORS_ALLOWED_ORIGINS")),
		AuthProvider: strings.ToLower(fallback(os.Getenv("AUTH_PROVIDER"), ProviderCasdoor)),
		AuthTimeout:  parseDuration(os.Getenv("AUTH_TIMEOUT"), 15*time.Second),
		ResetURL:     strings.TrimSpace(os.Getenv("PASSWORD_RESET_URL")),
		Casdoor: CasdoorConfig{
			Endpoint:     strings.TrimSpace(os.Getenv("CASDOOR_ENDPOINT")),
			ClientID:     strings.TrimSpace(os.Getenv("CASDOOR_CLIENT_ID")),
			ClientSecret: strings.TrimSpace(os.Getenv("CASDOOR_CLIENT_SECRET")),
			Cert:         readCert(os.Getenv("CASDOOR_CERT"), os.Getenv("CASDOOR_CERT_FILE")),
			Organization: strings.TrimSpace(os.Getenv("CASDOOR_ORGANIZATION")),
			Application:  strings.TrimSpace(os.Getenv("CASDOOR_APPLICATION")),
			MailSender:   fallback(os.Getenv("CASDOOR_MAIL_SENDER"), "EduLearn"),
		},
		DatabaseURL:  strings.TrimSpace(os.Getenv("DATABASE_URL")),
		RedisURL:     strings.TrimSpace(os.Getenv("REDIS_URL")),
		KafkaBrokers: parseCSV(os.Getenv("KAFKA_BROKERS")),
		EventsTopic:  fallback(os.Getenv("EVENTS_TOPIC"), "auth-events"),
		Session: SessionConfig{
			CookieName: fallback(os.Getenv("SESSION_COOKIE_NAME"), "session"),
			TTL:        parseDuration(os.Getenv("SESSION_TTL"), 24*time.Hour),
		},
	}
	cfg.Session.SecureCookie = cfg.IsProduction()

	if cfg.PublicURL == "" {
		cfg.PublicURL = "http://localhost:" + cfg.Port
	}
	// Reset links land on the portal's own confirm page, which redeems the token
	if cfg.ResetURL == "" {
		cfg.ResetURL = cfg.PublicURL + resetConfirmPath
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// HTTPAddress returns the host:port pair for the HTTP server to bind to
func (c *Config) HTTPAddress() string {
	return fmt.Sprintf(":%s", c.Port)
}

func (c *Config) validate() error {
	switch c.AuthProvider {
	case ProviderCasdoor:
		if c.Casdoor.Endpoint == "" || c.Casdoor.ClientID == "" || c.Casdoor.ClientSecret == "" {
			return errors.New("CASDOOR_ENDPOINT, CASDOOR_CLIENT_ID and CASDOOR_CLIENT_SECRET are required for the casdoor provider")
		}
	case ProviderLocal:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for the local provider")
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.AuthProvider)
	}
	if c.IsProduction() && c.RedisURL == "" {
		return errors.New("REDIS_URL is required in production")
	}
	return nil
}

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return strings.TrimSpace(value)
}

func parseCSV(input string) []string {
	var out []string
	for _, part := range strings.Split(input, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func parseDuration(value string, def time.Duration) time.Duration {
	value = strings.TrimSpace(value)
	if value == "" {
		return def
	}
	if d, err := time.ParseDuration(value); err == nil && d > 0 {
		return d
	}
	// Bare integers are seconds
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}

func parseLogLevel(value string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(value))); err != nil {
		return slog.LevelInfo
	}
	return level
}

func readCert(inline, path string) string {
	if strings.TrimSpace(inline) != "" {
		return strings.ReplaceAll(inline, `\n`, "\n")
	}
	if strings.TrimSpace(path) == "" {
		return ""
	}
	data, err := os.ReadFile(strings.TrimSpace(path))
	if err != nil {
		return ""
	}
	return string(data)
}
