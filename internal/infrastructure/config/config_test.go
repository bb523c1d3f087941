package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "memory")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage)
	assert.Equal(t, 8000, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Planner.MaxSelection)
	assert.Equal(t, 5, cfg.Planner.SearchLimit)
	assert.Equal(t, 2, cfg.Planner.MinQueryLength)
	assert.Equal(t, 300*time.Millisecond, cfg.Planner.SearchDebounce)
	assert.Equal(t, 15*time.Second, cfg.Planner.RequestTimeout)
	assert.Equal(t, "memory", cfg.Cache.Backend)
	assert.Equal(t, 24*time.Hour, cfg.Auth.JWTTTL)
	assert.Equal(t, time.Second, cfg.DedupWindow)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "mongo")
	t.Setenv("MONGODB_URI", "mongodb://db:27017")
	t.Setenv("DATABASE_NAME", "kitchen")
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("APP_PLANNER_MAX_SELECTION", "6")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://db:27017", cfg.Mongo.URI)
	assert.Equal(t, "kitchen", cfg.Mongo.Database)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, "redis", cfg.Cache.Backend)
	assert.Equal(t, 6, cfg.Planner.MaxSelection)
}

func TestLoadConfigRejectsUnknownStorage(t *testing.T) {
	t.Setenv("STORAGE_BACKEND", "sqlite")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown storage backend")
}

func TestValidateConfig(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server:  ServerConfig{Port: 8000},
			Storage: "memory",
			Cache:   CacheConfig{Enabled: true, Backend: "memory", MaxSize: 10, TTL: time.Hour, CleanupInterval: time.Minute},
			Queue:   QueueConfig{Workers: 1, MaxSize: 1},
			Planner: PlannerConfig{MaxSelection: 4},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"missing port", func(c *Config) { c.Server.Port = 0 }, "server port is required"},
		{"mongo without uri", func(c *Config) { c.Storage = "mongo"; c.Mongo.Database = "x" }, "mongo uri is required"},
		{"unknown cache", func(c *Config) { c.Cache.Backend = "disk" }, "unknown cache backend"},
		{"redis without addr", func(c *Config) { c.Cache.Backend = "redis" }, "redis addr is required"},
		{"cache disabled skips checks", func(c *Config) { c.Cache = CacheConfig{} }, ""},
		{"no workers", func(c *Config) { c.Queue.Workers = 0 }, "invalid queue workers"},
		{"zero selection", func(c *Config) { c.Planner.MaxSelection = 0 }, "max selection"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := validateConfig(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "****", MaskSecret("short"))
	assert.Equal(t, "sk-a...wxyz", MaskSecret("sk-abcdefghijklmnopqrstuvwxyz"))
}
