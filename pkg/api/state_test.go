package api_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kode4food/arran/pkg/api"
)

func TestNewFlowState(t *testing.T) {
	st := api.NewFlowState(3)

	assert.Equal(t, 3, st.Total())
	assert.Equal(t, 0, st.CurrentIndex)
	assert.True(t, st.IsVisited(0))
	assert.False(t, st.IsVisited(1))
	assert.False(t, st.Submitted)
	assert.Equal(t, 0, st.CompletedCount())
}

func TestInRange(t *testing.T) {
	st := api.NewFlowState(3)

	assert.True(t, st.InRange(0))
	assert.True(t, st.InRange(2))
	assert.False(t, st.InRange(-1))
	assert.False(t, st.InRange(3))
}

func TestMarkersAreImmutable(t *testing.T) {
	st := api.NewFlowState(3)
	next := st.MarkCompleted(1).MarkSkipped(2).MarkVisited(1)

	assert.False(t, st.IsCompleted(1))
	assert.False(t, st.IsSkipped(2))
	assert.False(t, st.IsVisited(1))

	assert.True(t, next.IsCompleted(1))
	assert.True(t, next.IsSkipped(2))
	assert.True(t, next.IsVisited(1))
}

func TestStepData(t *testing.T) {
	st := api.NewFlowState(3)
	data := api.Args{"a": 1}

	next := st.SetStepData(0, data)
	got, ok := next.Data(0)
	assert.True(t, ok)
	assert.Equal(t, data, got)

	_, ok = st.Data(0)
	assert.False(t, ok)

	cleared := next.ClearStepData(0)
	_, ok = cleared.Data(0)
	assert.False(t, ok)
}

func TestProgress(t *testing.T) {
	st := api.NewFlowState(5).SetCurrentIndex(2)
	assert.Equal(t, 50, st.Progress())

	assert.Equal(t, 0, api.NewFlowState(5).Progress())
	assert.Equal(t, 100, api.NewFlowState(5).SetCurrentIndex(4).Progress())
	assert.Equal(t, 100, api.NewFlowState(1).Progress())
}

func TestCompletionProgress(t *testing.T) {
	st := api.NewFlowState(4).MarkCompleted(0).MarkCompleted(2)
	assert.Equal(t, 50, st.CompletionProgress())
	assert.Equal(t, 0, api.NewFlowState(4).CompletionProgress())
}

func TestSetSubmitted(t *testing.T) {
	st := api.NewFlowState(2)
	next := st.SetSubmitted(true)

	assert.False(t, st.Submitted)
	assert.True(t, next.Submitted)
	assert.False(t, next.SetSubmitted(false).Submitted)
}
