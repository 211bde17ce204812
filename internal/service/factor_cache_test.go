package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenCache struct{}

func (brokenCache) Get(context.Context, string) (float64, bool, error) {
	return 0, false, errors.New("cache down")
}

func (brokenCache) Set(context.Context, string, float64, time.Duration) error {
	return errors.New("cache down")
}

func TestFactorCacheKey_StableParamOrder(t *testing.T) {
	a := FactorCacheKey("electricity_grid_mix", map[string]any{"energy": 10, "energy_unit": "kWh"})
	b := FactorCacheKey("electricity_grid_mix", map[string]any{"energy_unit": "kWh", "energy": 10})

	assert.Equal(t, a, b)
	assert.Equal(t, `factor:electricity_grid_mix:{"energy":10,"energy_unit":"kWh"}`, a)
	assert.NotEqual(t, a, FactorCacheKey("electricity_grid_mix", map[string]any{"energy": 11, "energy_unit": "kWh"}))
}

func TestCachedFactorClient_ServesRepeats(t *testing.T) {
	next := newFakeFactorClient()
	next.values["food-beef"] = 2.5
	client := NewCachedFactorClient(next, NewMemoryFactorCache(), time.Hour)

	for i := 0; i < 3; i++ {
		value, err := client.Estimate(context.Background(), "food-beef", map[string]any{"quantity": 1})
		require.NoError(t, err)
		assert.Equal(t, 2.5, value)
	}
	assert.Equal(t, 1, next.callCount())
}

func TestCachedFactorClient_DoesNotCacheErrors(t *testing.T) {
	next := newFakeFactorClient()
	next.failing["food-beef"] = &ServiceError{StatusCode: 503}
	client := NewCachedFactorClient(next, NewMemoryFactorCache(), time.Hour)

	_, err := client.Estimate(context.Background(), "food-beef", nil)
	require.Error(t, err)
	_, err = client.Estimate(context.Background(), "food-beef", nil)
	require.Error(t, err)

	assert.Equal(t, 2, next.callCount())
}

func TestCachedFactorClient_CacheFailureFallsThrough(t *testing.T) {
	next := newFakeFactorClient()
	next.values["food-vegetables"] = 0.3
	client := NewCachedFactorClient(next, brokenCache{}, time.Hour)

	value, err := client.Estimate(context.Background(), "food-vegetables", nil)

	require.NoError(t, err)
	assert.Equal(t, 0.3, value)
}

func TestMemoryFactorCache_Expiry(t *testing.T) {
	cache := NewMemoryFactorCache()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }

	require.NoError(t, cache.Set(context.Background(), "k", 4.2, time.Minute))

	value, ok, err := cache.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 4.2, value)

	now = now.Add(2 * time.Minute)
	_, ok, err = cache.Get(context.Background(), "k")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Zero(t, cache.Len())
}

func TestMemoryFactorCache_SetSweepsExpired(t *testing.T) {
	cache := NewMemoryFactorCache()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	cache.now = func() time.Time { return now }
	ctx := context.Background()

	// Each distinct distance is its own key
	for _, km := range []float64{1, 2.5, 17, 42} {
		key := FactorCacheKey("passenger_transport_rail", map[string]any{"distance": km, "distance_unit": "km"})
		require.NoError(t, cache.Set(ctx, key, km*0.04, time.Minute))
	}
	require.Equal(t, 4, cache.Len())

	now = now.Add(5 * time.Minute)
	require.NoError(t, cache.Set(ctx, "fresh", 1, time.Minute))

	assert.Equal(t, 1, cache.Len())
	value, ok, err := cache.Get(ctx, "fresh")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.0, value)
}
