package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	cfg := Load()
	assert.Equal(t, "3000", cfg.AppPort)
	assert.Equal(t, 6, cfg.PasswordMinLength)
	assert.Equal(t, 60*time.Second, cfg.ResetRequestCooldown)
	assert.Equal(t, 24*time.Hour, cfg.ResetLinkTTL)
	assert.Equal(t, "/login", cfg.LoginRoute)
	assert.Equal(t, "sessions", cfg.DynamoTables.Sessions)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("AUTH_URL", "https://auth.example.org/")
	t.Setenv("SESSION_PROPAGATION_TIMEOUT", "250ms")
	t.Setenv("PASSWORD_MIN_LENGTH", "8")
	t.Setenv("ALLOWED_ORIGINS", "https://a.org,https://b.org")

	cfg := Load()
	assert.Equal(t, "https://auth.example.org", cfg.AuthURL)
	assert.Equal(t, 250*time.Millisecond, cfg.SessionPropagationTimeout)
	assert.Equal(t, 8, cfg.PasswordMinLength)
	assert.Equal(t, []string{"https://a.org", "https://b.org"}, cfg.AllowedOrigins)
}

func TestGetEnvDuration_InvalidFallsBack(t *testing.T) {
	t.Setenv("RESET_REQUEST_COOLDOWN", "soon")
	assert.Equal(t, 60*time.Second, Load().ResetRequestCooldown)
}
