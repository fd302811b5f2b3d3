package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 587, cfg.SMTPPort)
	assert.Equal(t, "malabro/products", cfg.CloudinaryFolder)
	assert.Equal(t, 8*24*time.Hour, cfg.AccessTokenTTL())
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("CORS_ORIGINS", "https://shop.example, https://admin.example")
	t.Setenv("SMTP_SERVER", "smtp.example")
	t.Setenv("SMTP_USERNAME", "mailer")
	t.Setenv("SMTP_PASSWORD", "secret")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "30")

	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://shop.example", "https://admin.example"}, cfg.CORSOrigins)
	assert.True(t, cfg.SMTPEnabled())
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL())
}

func TestParseRejectsBadNumber(t *testing.T) {
	t.Setenv("SMTP_PORT", "not-a-port")

	_, err := Parse()
	assert.Error(t, err)
}
