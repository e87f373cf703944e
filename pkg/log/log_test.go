package log_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/arran/pkg/log"
)

func TestNew(t *testing.T) {
	l := log.New("arran", "test", "0.1.0")
	assert.NotNil(t, l)
	assert.True(t, l.Enabled(t.Context(), slog.LevelInfo))
	assert.False(t, l.Enabled(t.Context(), slog.LevelDebug))
}

func TestNewWithLevel(t *testing.T) {
	l := log.NewWithLevel("arran", "test", "0.1.0", slog.LevelDebug)
	assert.True(t, l.Enabled(t.Context(), slog.LevelDebug))
}

func TestAttrs(t *testing.T) {
	a := log.FlowID("signup")
	assert.Equal(t, "flow_id", a.Key)
	assert.Equal(t, "signup", a.Value.String())

	a = log.Step(2)
	assert.Equal(t, "step", a.Key)
	assert.Equal(t, int64(2), a.Value.Int64())

	a = log.Target(3)
	assert.Equal(t, "target", a.Key)

	a = log.Direction("forward")
	assert.Equal(t, "direction", a.Key)

	a = log.Reason("at_boundary")
	assert.Equal(t, "reason", a.Key)
	assert.Equal(t, "at_boundary", a.Value.String())
}

func TestErrorAttr(t *testing.T) {
	a := log.Error(errors.New("boom"))
	assert.Equal(t, "error", a.Key)
	assert.Equal(t, "boom", a.Value.String())

	a = log.Error(nil)
	assert.Equal(t, "", a.Value.String())

	a = log.ErrorString("bang")
	assert.Equal(t, "bang", a.Value.String())
}
