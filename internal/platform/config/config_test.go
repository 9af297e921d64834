package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("APP_TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("APP_PROVIDER_CALL_TIMEOUT", "3s")
	t.Setenv("APP_REDIS_ENABLED", "true")
	t.Setenv("APP_CAMPAIGN_ASSOCIATION_CONCURRENCY", "8")

	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Equal(t, "AC123", cfg.TwilioAccountSID)
	assert.Equal(t, 3*time.Second, cfg.ProviderCallTimeout)
	assert.True(t, cfg.RedisEnabled)
	assert.Equal(t, 8, cfg.CampaignAssociationConcurrency)
	assert.True(t, cfg.ProviderConfigured())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("test")
	require.NoError(t, err)

	assert.Equal(t, "twilio", cfg.ProviderMode)
	assert.Equal(t, 10*time.Minute, cfg.PortabilityCacheTTL)
	assert.Equal(t, "https://numbers.twilio.com", cfg.TwilioNumbersBaseURL)
	assert.False(t, cfg.ProviderConfigured())
}

func TestWebhookSigningToken(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		want    string
		wantErr error
	}{
		{"disabled", Config{TwilioAuthToken: "secret"}, "", nil},
		{"enabled", Config{WebhookValidateSignature: true, TwilioAuthToken: "secret"}, "secret", nil},
		{"enabled without token", Config{WebhookValidateSignature: true}, "", ErrWebhookTokenMissing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.cfg.WebhookSigningToken()
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoad_WebhookValidationWithoutToken(t *testing.T) {
	t.Setenv("APP_WEBHOOK_VALIDATE_SIGNATURE", "true")
	t.Setenv("APP_TWILIO_AUTH_TOKEN", "")

	cfg, err := Load("test")
	require.NoError(t, err)
	_, err = cfg.WebhookSigningToken()
	assert.ErrorIs(t, err, ErrWebhookTokenMissing)
}
