package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("PGSQL_URL", "postgres://avec@localhost/avec")
	t.Setenv("FRONTEND_BASE_URL", "http://localhost:3000")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "postgres://avec@localhost/avec", cfg.DatabaseURL)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.Equal(t, time.Hour, cfg.JWTExpiryDuration)
	assert.Equal(t, "avec-backend", cfg.JWTIssuer)
	assert.Equal(t, 30*time.Second, cfg.SharingLockTTL)
	assert.Equal(t, "avec.events", cfg.AMQPExchange)
	assert.Equal(t, 50, cfg.OutboxBatchSize)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.Equal(t, "5-M", cfg.LoginRateLimit)
	assert.Equal(t, 7, cfg.AlertCycleEndingDays)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Setenv("SHARING_LOCK_TTL", "2m")
	t.Setenv("OUTBOX_POLL_INTERVAL", "not-a-duration")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("LOG_FORMAT", "TEXT")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 2*time.Minute, cfg.SharingLockTTL)
	assert.Equal(t, 5*time.Second, cfg.OutboxPollInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "text", cfg.LogFormat)
}
