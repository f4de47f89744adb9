package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	for _, k := range []string{"REDIS_ADDR", "REDIS_DB", "PLAYTOMIC_OFFSET_MINUTES", "CHECK_INTERVAL", "TELEGRAM_ADMIN_IDS", "HTTP_ADDR", "TIMEZONE", "PLAYTOMIC_BASE_URL"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 60, cfg.OffsetMinutes)
	assert.Equal(t, time.Minute, cfg.CheckInterval)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "Europe/Madrid", cfg.Timezone)
	assert.Empty(t, cfg.TelegramAdminIDs)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GO_ENV", "production")
	t.Setenv("PLAYTOMIC_OFFSET_MINUTES", "-120")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("CHECK_INTERVAL", "30s")
	t.Setenv("TELEGRAM_ADMIN_IDS", "1, 22,333")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, -120, cfg.OffsetMinutes)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 30*time.Second, cfg.CheckInterval)
	assert.Equal(t, []int64{1, 22, 333}, cfg.TelegramAdminIDs)
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("GO_ENV", "production")

	t.Setenv("PLAYTOMIC_OFFSET_MINUTES", "sixty")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("PLAYTOMIC_OFFSET_MINUTES", "")
	t.Setenv("CHECK_INTERVAL", "soon")
	_, err = Load()
	assert.Error(t, err)
}
