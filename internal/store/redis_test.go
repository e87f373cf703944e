package store_test

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"

	"github.com/kode4food/arran/internal/store"
)

func newRedisStore(t *testing.T, prefix string) *store.Redis {
	t.Helper()
	mr := miniredis.RunT(t)
	r := store.NewRedis(store.RedisConfig{
		Addr:   mr.Addr(),
		Prefix: prefix,
		TTL:    time.Minute,
	})
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRedisRoundTrip(t *testing.T) {
	r := newRedisStore(t, "arran")
	ctx := t.Context()

	_, ok, err := r.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, r.Set(ctx, "flow", `{"currentIndex":2}`))
	val, ok, err := r.Get(ctx, "flow")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"currentIndex":2}`, val)

	assert.NoError(t, r.Remove(ctx, "flow"))
	_, ok, err = r.Get(ctx, "flow")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisKeyPrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	r := store.NewRedis(store.RedisConfig{Addr: mr.Addr(), Prefix: "wiz"})
	t.Cleanup(func() { _ = r.Close() })
	ctx := t.Context()

	assert.NoError(t, r.Set(ctx, "flow-1", "state"))
	assert.True(t, mr.Exists("wiz:flow-1"))

	bare := store.NewRedis(store.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() { _ = bare.Close() })
	assert.NoError(t, bare.Set(ctx, "flow-2", "state"))
	assert.True(t, mr.Exists("flow-2"))
}

func TestRedisTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	r := store.NewRedis(store.RedisConfig{
		Addr: mr.Addr(),
		TTL:  time.Minute,
	})
	t.Cleanup(func() { _ = r.Close() })

	assert.NoError(t, r.Set(t.Context(), "flow", "state"))
	assert.Greater(t, mr.TTL("flow"), time.Duration(0))
}
