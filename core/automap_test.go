package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoMap(t *testing.T) {
	backend := newFakeBackend(t)
	backend.seed("factions", "01", map[string]any{"name": "red"}, nil)
	config, _ := newTestConfig(t, backend.URL())
	faction, _ := synthesizeBoth(t, config)
	ctx := context.Background()
	cache := NewAutoMap(faction)

	first, err := cache.Get(ctx, "01")
	require.NoError(t, err)
	require.NotNil(t, first)
	second, err := cache.Get(ctx, "01")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, backend.Calls())

	missing, err := cache.Get(ctx, "02")
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.Equal(t, 1, cache.Len())

	cache.Delete("01")
	assert.Equal(t, 0, cache.Len())

	local := faction.FromJSON(map[string]any{"data": map[string]any{"id": "09", "attributes": map[string]any{"id": "09"}}})
	cache.Put(local)
	got, err := cache.Get(ctx, "09")
	require.NoError(t, err)
	assert.Same(t, local, got)

	composite := []any{"a", "b"}
	missing, err = cache.Get(ctx, composite)
	require.NoError(t, err)
	assert.Nil(t, missing)

	keyed := faction.FromJSON(map[string]any{"data": map[string]any{"id": composite, "attributes": map[string]any{}}})
	cache.Put(keyed)
	got, err = cache.Get(ctx, []any{"a", "b"})
	require.NoError(t, err)
	assert.Same(t, keyed, got)
}
