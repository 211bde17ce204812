package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*FactorCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewFactorCache(client), mr
}

func TestFactorCache_SetGet(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "factor:food-beef:{}", 2.5, time.Hour))

	value, ok, err := cache.Get(ctx, "factor:food-beef:{}")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 2.5, value)
	assert.True(t, mr.Exists("carbonsense:factor:food-beef:{}"))
}

func TestFactorCache_Miss(t *testing.T) {
	cache, _ := newTestCache(t)

	_, ok, err := cache.Get(context.Background(), "absent")

	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFactorCache_Expiry(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", 1.25, time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFactorCache_ServerDown(t *testing.T) {
	cache, mr := newTestCache(t)
	mr.Close()

	_, _, err := cache.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.Error(t, cache.Health(context.Background()))
}

func TestNewClient(t *testing.T) {
	_, err := NewClient("redis://localhost:6379/0")
	assert.NoError(t, err)

	_, err = NewClient("::not a url")
	assert.Error(t, err)
}
