package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SMS_SENDER_ID", "MOBTIN")

	cfg := Load()

	assert.Equal(t, 8080, cfg.Port)
	assert.Equal(t, "leadgate_session", cfg.SessionName)
	assert.Equal(t, 30*time.Minute, cfg.SessionMaxAge)
	assert.Equal(t, "91", cfg.SMS.CountryCode)
	assert.Equal(t, "OTP", cfg.SMS.Route)
	assert.Equal(t, "MOBTIN", cfg.SMS.ComplianceName)
	assert.Equal(t, 30*time.Second, cfg.HTTPClientTimeout)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_MAX_AGE", "5m")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example,")
	t.Setenv("SMS_SENDER_ID", "MOBTIN")
	t.Setenv("SMS_COMPLIANCE_NAME", "ACME")

	cfg := Load()

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.SessionMaxAge)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "ACME", cfg.SMS.ComplianceName)
}
