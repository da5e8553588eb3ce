package cache

import (
	"context"
	"testing"
	"time"

	"inventory-service/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewCache_FallsBackWithoutRedisHost(t *testing.T) {
	c := NewCache(&config.Config{}, zap.NewNop())

	_, ok := c.(*InMemoryCache)
	assert.True(t, ok)
}

func TestInMemoryCache_SetGetDelete(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	_, err := c.Get(ctx, KeyItems)
	assert.ErrorIs(t, err, ErrCacheMiss)

	require.NoError(t, c.Set(ctx, KeyItems, []byte("[]"), time.Minute))
	val, err := c.Get(ctx, KeyItems)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(val))

	require.NoError(t, c.Delete(ctx, KeyItems))
	_, err = c.Get(ctx, KeyItems)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	require.NoError(t, c.Set(ctx, KeyItems, []byte("[]"), -time.Second))

	_, err := c.Get(ctx, KeyItems)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestInMemoryCache_DeleteByPattern(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	require.NoError(t, c.Set(ctx, KeyItems, []byte("a"), time.Minute))
	require.NoError(t, c.Set(ctx, HistoryKey(7), []byte("b"), time.Minute))
	require.NoError(t, c.Set(ctx, "other:key", []byte("c"), time.Minute))

	require.NoError(t, c.DeleteByPattern(ctx, PatternAll))

	_, err := c.Get(ctx, KeyItems)
	assert.ErrorIs(t, err, ErrCacheMiss)
	_, err = c.Get(ctx, HistoryKey(7))
	assert.ErrorIs(t, err, ErrCacheMiss)
	val, err := c.Get(ctx, "other:key")
	require.NoError(t, err)
	assert.Equal(t, "c", string(val))
}

func TestJSONHelpers(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	require.NoError(t, SetJSON(ctx, c, HistoryKey(1), []int{1, 2, 3}, TTL(30)))

	var got []int
	require.NoError(t, GetJSON(ctx, c, HistoryKey(1), &got))
	assert.Equal(t, []int{1, 2, 3}, got)
	assert.Equal(t, "inventory:history:1", HistoryKey(1))
}

func TestInMemoryCache_SetNX(t *testing.T) {
	ctx := context.Background()
	c := NewInMemoryCache()

	ok, err := c.SetNX(ctx, "idempotency:abc", []byte("first"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.SetNX(ctx, "idempotency:abc", []byte("second"), time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	val, err := c.Get(ctx, "idempotency:abc")
	require.NoError(t, err)
	assert.Equal(t, "first", string(val))

	ok, err = c.SetNX(ctx, "idempotency:expired", []byte("old"), -time.Second)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = c.SetNX(ctx, "idempotency:expired", []byte("new"), time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}
