package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "MatchSlots", cfg.SlotsTable)
	assert.Equal(t, "Users", cfg.UsersTable)
	assert.Equal(t, PoolBackendMongo, cfg.PoolBackend)
	assert.Equal(t, 10*time.Second, cfg.RefillTimeout)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example ,")
	t.Setenv("CDN_BASE_URL", "https://cdn.example/")
	t.Setenv("PROFILE_POOL_BACKEND", PoolBackendDynamo)
	t.Setenv("REFILL_TIMEOUT", "3s")
	t.Setenv("POOL_SCAN_LIMIT", "not-a-number")

	cfg := LoadConfig()

	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, "https://cdn.example", cfg.CDNBaseURL)
	assert.Equal(t, PoolBackendDynamo, cfg.PoolBackend)
	assert.Equal(t, 3*time.Second, cfg.RefillTimeout)
	assert.Equal(t, 1000, cfg.PoolScanLimit, "invalid numbers fall back to the default")
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := &Config{PoolBackend: "redis"}
	err := cfg.Validate()
	require.Error(t, err)

	for _, want := range []string{"JWT_SECRET", "PROFILE_POOL_BACKEND", "REFILL_TIMEOUT", "IMAGE_URL_TTL", "POOL_SCAN_LIMIT", "SYNC_CONCURRENCY"} {
		assert.Contains(t, err.Error(), want)
	}
}
