package cache

import (
	"context"
	"testing"
	"time"

	"recipe-planner/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(maxSize int, ttl time.Duration) (*CacheManager, *time.Time) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m := NewManager(&config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: maxSize, TTL: ttl})
	m.now = func() time.Time { return now }
	return m, &now
}

func TestManagerGetSet(t *testing.T) {
	m, _ := newTestManager(10, time.Hour)
	defer m.Close()
	ctx := context.Background()

	_, err := m.Get(ctx, "generate:sambar")
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, m.Set(ctx, "generate:sambar", `{"name":"Sambar"}`))
	got, err := m.Get(ctx, "generate:sambar")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Sambar"}`, got)

	stats := m.GetStats()
	assert.Equal(t, int64(1), stats["hits"])
	assert.Equal(t, int64(1), stats["misses"])
	assert.Equal(t, 1, stats["size"])
}

func TestManagerExpiry(t *testing.T) {
	m, now := newTestManager(10, time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "k", "v"))
	*now = now.Add(2 * time.Minute)

	_, err := m.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
	assert.Equal(t, 0, m.GetStats()["size"])
}

func TestManagerEvictsLeastUsed(t *testing.T) {
	m, _ := newTestManager(2, time.Hour)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "a", "1"))
	require.NoError(t, m.Set(ctx, "b", "2"))
	_, err := m.Get(ctx, "a")
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "c", "3"))

	_, err = m.Get(ctx, "b")
	assert.ErrorIs(t, err, ErrCacheMiss)
	got, err := m.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "1", got)
	got, err = m.Get(ctx, "c")
	require.NoError(t, err)
	assert.Equal(t, "3", got)
}

func TestManagerPrefersExpiredOverLRU(t *testing.T) {
	m, now := newTestManager(2, time.Minute)
	defer m.Close()
	ctx := context.Background()

	require.NoError(t, m.Set(ctx, "old", "1"))
	*now = now.Add(30 * time.Second)
	require.NoError(t, m.Set(ctx, "fresh", "2"))
	*now = now.Add(45 * time.Second)

	require.NoError(t, m.Set(ctx, "new", "3"))

	_, err := m.Get(ctx, "old")
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = m.Get(ctx, "fresh")
	assert.NoError(t, err)
}

func TestNew(t *testing.T) {
	store, err := New(&config.Config{Cache: config.CacheConfig{Enabled: false}})
	require.NoError(t, err)
	assert.Nil(t, store)

	store, err = New(&config.Config{Cache: config.CacheConfig{Enabled: true, Backend: "memory", MaxSize: 1, TTL: time.Minute}})
	require.NoError(t, err)
	require.NotNil(t, store)
	assert.IsType(t, &CacheManager{}, store)
	assert.NoError(t, store.Close())

	_, err = New(&config.Config{
		Cache: config.CacheConfig{Enabled: true, Backend: "redis", TTL: time.Minute},
		Redis: config.RedisConfig{Addr: "127.0.0.1:1"},
	})
	assert.Error(t, err)
}

func TestCloseIsIdempotent(t *testing.T) {
	m := NewManager(&config.CacheConfig{MaxSize: 1, TTL: time.Minute, CleanupInterval: time.Hour})
	assert.NoError(t, m.Close())
	assert.NoError(t, m.Close())
}
