package store

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) (*RedisKV, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisKV(client), mr
}

func TestRedisKV_GetSetDelete(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	_, err := kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, kv.Set(ctx, "checklist_PP01-2025", `{"x":1}`, 0))
	v, err := kv.Get(ctx, "checklist_PP01-2025")
	require.NoError(t, err)
	assert.Equal(t, `{"x":1}`, v)

	require.NoError(t, kv.Delete(ctx, "checklist_PP01-2025"))
	_, err = kv.Get(ctx, "checklist_PP01-2025")
	assert.ErrorIs(t, err, ErrMiss)

	// deleting a missing key is not an error
	assert.NoError(t, kv.Delete(ctx, "checklist_PP01-2025"))
}

func TestRedisKV_TTL(t *testing.T) {
	kv, mr := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "ephemeral", "v", time.Minute))
	mr.FastForward(2 * time.Minute)
	_, err := kv.Get(ctx, "ephemeral")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestRedisKV_ScanKeys(t *testing.T) {
	kv, _ := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "checklist_PP01-2025", "a", 0))
	require.NoError(t, kv.Set(ctx, "checklist_PP02-2025", "b", 0))
	require.NoError(t, kv.Set(ctx, "other", "c", 0))

	keys, err := kv.ScanKeys(ctx, "checklist_*")
	require.NoError(t, err)
	assert.Len(t, keys, 2)
}
