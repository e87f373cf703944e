package store_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/arran/internal/store"
)

func TestMemoryRoundTrip(t *testing.T) {
	m := store.NewMemory()
	ctx := t.Context()

	_, ok, err := m.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, m.Set(ctx, "flow", `{"currentIndex":1}`))
	val, ok, err := m.Get(ctx, "flow")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"currentIndex":1}`, val)

	assert.NoError(t, m.Remove(ctx, "flow"))
	_, ok, err = m.Get(ctx, "flow")
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryOverwrite(t *testing.T) {
	m := store.NewMemory()
	ctx := t.Context()

	assert.NoError(t, m.Set(ctx, "flow", "one"))
	assert.NoError(t, m.Set(ctx, "flow", "two"))

	val, ok, err := m.Get(ctx, "flow")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "two", val)
}

func TestMemoryRemoveMissing(t *testing.T) {
	m := store.NewMemory()
	assert.NoError(t, m.Remove(t.Context(), "missing"))
}
