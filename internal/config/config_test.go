package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Casdoor(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "casdoor")
	t.Setenv("CASDOOR_ENDPOINT", "https://door.example.com/")
	t.Setenv("CASDOOR_CLIENT_ID", "client")
	t.Setenv("CASDOOR_CLIENT_SECRET", "secret")
	t.Setenv("CASDOOR_APPLICATION", "edulearn")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("AUTH_TIMEOUT", "5")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, 5*time.Second, cfg.AuthTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []string{"https://app.example.com"}, cfg.CORSOrigins)
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Equal(t, "http://localhost:8080/auth/reset/confirm", cfg.ResetURL)
	assert.Equal(t, "session", cfg.Session.CookieName)
	assert.False(t, cfg.Session.SecureCookie)
}

func TestLoadConfig_ResetURLFollowsPublicURL(t *testing.T) {
	t.Setenv("AUTH_PROVIDER", "local")
	t.Setenv("DATABASE_URL", "postgres://localhost/auth")
	t.Setenv("PUBLIC_URL", "https://portal.example.com/")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://portal.example.com/auth/reset/confirm", cfg.ResetURL)

	t.Setenv("PASSWORD_RESET_URL", "https://other.example.com/reset")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://other.example.com/reset", cfg.ResetURL)
}

func TestLoadConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want string
	}{
		{
			name: "casdoor without credentials",
			env:  map[string]string{"AUTH_PROVIDER": "casdoor"},
			want: "CASDOOR_ENDPOINT",
		},
		{
			name: "local without database",
			env:  map[string]string{"AUTH_PROVIDER": "local"},
			want: "DATABASE_URL",
		},
		{
			name: "unknown provider",
			env:  map[string]string{"AUTH_PROVIDER": "ldap"},
			want: "unknown AUTH_PROVIDER",
		},
		{
			name: "production without redis",
			env: map[string]string{
				"AUTH_PROVIDER": "local",
				"DATABASE_URL":  "postgres://localhost/auth",
				"ENVIRONMENT":   "production",
			},
			want: "REDIS_URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, key := range []string{"CASDOOR_ENDPOINT", "CASDOOR_CLIENT_ID", "CASDOOR_CLIENT_SECRET", "DATABASE_URL", "REDIS_URL", "ENVIRONMENT"} {
				t.Setenv(key, "")
			}
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := LoadConfig()
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseDuration(t *testing.T) {
	assert.Equal(t, 90*time.Second, parseDuration("90s", time.Second))
	assert.Equal(t, 30*time.Second, parseDuration("30", time.Second))
	assert.Equal(t, time.Minute, parseDuration("nonsense", time.Minute))
	assert.Equal(t, time.Minute, parseDuration("-5s", time.Minute))
}
