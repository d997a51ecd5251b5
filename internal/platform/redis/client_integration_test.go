//go:build integration

package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/TeoSigno88/public-OCR-extractor/internal/platform/config"
	"github.com/TeoSigno88/public-OCR-extractor/pkg/testutil/containers"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()

	client, err := New(config.RedisConfig{
		URL:          containers.RedisURL(t),
		PoolSize:     2,
		MinIdleConns: 1,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, client.Health(context.Background()))
	return NewCache(client)
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, ok, err := cache.Get(ctx, "extract:carta_identita:deadbeef")
	require.NoError(t, err)
	require.False(t, ok)

	value := []byte(`{"document_type":"carta_identita","data":{}}`)
	require.NoError(t, cache.Set(ctx, "extract:carta_identita:deadbeef", value, time.Minute))

	got, ok, err := cache.Get(ctx, "extract:carta_identita:deadbeef")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, value, got)
}

func TestCacheEntryExpires(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "extract:passaporto:cafe", []byte("x"), time.Second))

	require.Eventually(t, func() bool {
		_, ok, err := cache.Get(ctx, "extract:passaporto:cafe")
		return err == nil && !ok
	}, 5*time.Second, 200*time.Millisecond)
}

func TestNewWithoutURLDisablesCache(t *testing.T) {
	client, err := New(config.RedisConfig{})
	require.NoError(t, err)
	require.Nil(t, client)
	require.Nil(t, NewCache(nil))
}
