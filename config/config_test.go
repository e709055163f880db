package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 24*time.Hour, cfg.VerificationTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.MailSendEnabled)
	assert.False(t, cfg.SeedDemoAccounts)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("BCRYPT_COST", "10")
	t.Setenv("SEED_DEMO_ACCOUNTS", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.vestira.com, https://admin.vestira.com")

	cfg := Load()

	assert.Equal(t, "production", cfg.Env)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.SeedDemoAccounts)
	assert.Equal(t, []string{"https://app.vestira.com", "https://admin.vestira.com"}, cfg.CORSOrigins())
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "not-a-duration")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("MAIL_SEND_ENABLED", "not-a-bool")

	cfg := Load()

	assert.Equal(t, 168*time.Hour, cfg.SessionTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.MailSendEnabled)
}

func TestVerifyLink(t *testing.T) {
	cfg := &Config{BaseURL: "https://api.vestira.com"}
	assert.Equal(t, "https://api.vestira.com/api/verify?token=abc", cfg.VerifyLink("abc"))
}
