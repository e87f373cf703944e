package engine

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/kode4food/arran/internal/store"
	"github.com/kode4food/arran/pkg/api"
	"github.com/kode4food/arran/pkg/log"
)

// Machine is the step state machine for one flow instance. It tracks the
// current index and the visited/completed/skipped sets, persisting the
// full state through the storage port after every mutation. Operations
// never panic; a denied transition leaves the state unchanged and reports
// why. The Machine is not safe for concurrent use; the owning session
// serializes access
type Machine struct {
	steps   api.Steps
	state   *api.FlowState
	storage store.Storage
	log     *slog.Logger
	key     string
}

// NewMachine creates a machine for the step registry, restoring persisted
// state when the storage port holds a usable entry for the key. Corrupt or
// missing entries fall back to the initial state
func NewMachine(
	ctx context.Context, steps api.Steps, storage store.Storage, key string,
	logger *slog.Logger,
) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	m := &Machine{
		steps:   steps,
		storage: storage,
		key:     key,
		log:     logger,
	}
	m.state = m.restore(ctx)
	return m
}

// State returns the current flow state
func (m *Machine) State() *api.FlowState {
	return m.state
}

// CurrentStep returns the descriptor of the active step
func (m *Machine) CurrentStep() *api.Step {
	return m.steps[m.state.CurrentIndex]
}

// Total returns the number of registered steps
func (m *Machine) Total() int {
	return len(m.steps)
}

// GoToStep moves to the step at the index, marking it visited. Out of
// range indexes and disabled steps are denied
func (m *Machine) GoToStep(ctx context.Context, i int) api.Outcome {
	cur := m.state.CurrentIndex
	if !m.state.InRange(i) {
		return api.Deny(api.DenyOutOfRange, cur)
	}
	if m.steps[i].Disabled {
		return api.Deny(api.DenyStepDisabled, cur)
	}
	m.commit(ctx, m.state.SetCurrentIndex(i).MarkVisited(i))
	return api.AllowMove(i, directionOf(cur, i))
}

// GoNext advances to the next enabled step, marking it visited. A move
// past the last enabled step is denied
func (m *Machine) GoNext(ctx context.Context) api.Outcome {
	cur := m.state.CurrentIndex
	next, ok := nextEnabled(m.steps, cur)
	if !ok {
		return api.Deny(api.DenyAtBoundary, cur)
	}
	m.commit(ctx, m.state.SetCurrentIndex(next).MarkVisited(next))
	return api.AllowMove(next, api.DirectionForward)
}

// GoBack retreats to the previous enabled step. A move before the first
// enabled step is denied
func (m *Machine) GoBack(ctx context.Context) api.Outcome {
	cur := m.state.CurrentIndex
	prev, ok := prevEnabled(m.steps, cur)
	if !ok {
		return api.Deny(api.DenyAtBoundary, cur)
	}
	m.commit(ctx, m.state.SetCurrentIndex(prev))
	return api.AllowMove(prev, api.DirectionBackward)
}

// SkipStep adds the index to the skipped set. When the index is the
// current step the machine also advances; on the last step it stays
func (m *Machine) SkipStep(ctx context.Context, i int) api.Outcome {
	cur := m.state.CurrentIndex
	if !m.state.InRange(i) {
		return api.Deny(api.DenyOutOfRange, cur)
	}
	st := m.state.MarkSkipped(i)
	if i == cur {
		if next, ok := nextEnabled(m.steps, cur); ok {
			m.commit(ctx, st.SetCurrentIndex(next).MarkVisited(next))
			return api.AllowMove(next, api.DirectionForward)
		}
	}
	m.commit(ctx, st)
	return api.Allow(m.state.CurrentIndex)
}

// MarkStepCompleted adds the index to the completed set, overwriting its
// snapshot when data is non-nil
func (m *Machine) MarkStepCompleted(
	ctx context.Context, i int, data api.Args,
) api.Outcome {
	if !m.state.InRange(i) {
		return api.Deny(api.DenyOutOfRange, m.state.CurrentIndex)
	}
	st := m.state.MarkCompleted(i)
	if data != nil {
		st = st.SetStepData(i, data)
	}
	m.commit(ctx, st)
	return api.Allow(i)
}

// MarkStepIncomplete removes the index from the completed set and
// discards its snapshot
func (m *Machine) MarkStepIncomplete(ctx context.Context, i int) api.Outcome {
	if !m.state.InRange(i) {
		return api.Deny(api.DenyOutOfRange, m.state.CurrentIndex)
	}
	m.commit(ctx, m.state.ClearCompleted(i).ClearStepData(i))
	return api.Allow(i)
}

// SetSubmitted flips the orthogonal submitted flag without changing
// position
func (m *Machine) SetSubmitted(ctx context.Context, submitted bool) {
	m.commit(ctx, m.state.SetSubmitted(submitted))
}

// Reset returns the machine to the initial state and removes the
// persisted entry
func (m *Machine) Reset(ctx context.Context) {
	m.state = api.NewFlowState(len(m.steps))
	m.Discard(ctx)
}

// Discard removes the persisted entry for this machine
func (m *Machine) Discard(ctx context.Context) {
	if m.storage == nil {
		return
	}
	if err := m.storage.Remove(ctx, m.key); err != nil {
		m.log.Warn("persisted state remove failed", log.Error(err))
	}
}

func (m *Machine) commit(ctx context.Context, st *api.FlowState) {
	m.state = st.SetLastUpdated(time.Now())
	m.persist(ctx)
}

func (m *Machine) persist(ctx context.Context) {
	if m.storage == nil {
		return
	}
	data, err := json.Marshal(api.NewPersistedState(m.state))
	if err != nil {
		m.log.Warn("state serialization failed", log.Error(err))
		return
	}
	if err := m.storage.Set(ctx, m.key, string(data)); err != nil {
		m.log.Warn("state save failed", log.Error(err))
	}
}

func (m *Machine) restore(ctx context.Context) *api.FlowState {
	total := len(m.steps)
	if m.storage == nil {
		return api.NewFlowState(total)
	}
	raw, ok, err := m.storage.Get(ctx, m.key)
	if err != nil {
		m.log.Warn("state load failed", log.Error(err))
		return api.NewFlowState(total)
	}
	if !ok {
		return api.NewFlowState(total)
	}
	var ps api.PersistedState
	if err := json.Unmarshal([]byte(raw), &ps); err != nil {
		m.log.Warn("persisted state malformed", log.Error(err))
		return api.NewFlowState(total)
	}
	return ps.FlowState(total)
}

func directionOf(from, to int) api.Direction {
	if to < from {
		return api.DirectionBackward
	}
	return api.DirectionForward
}

func nextEnabled(steps api.Steps, from int) (int, bool) {
	for i := from + 1; i < len(steps); i++ {
		if !steps[i].Disabled {
			return i, true
		}
	}
	return 0, false
}

func prevEnabled(steps api.Steps, from int) (int, bool) {
	for i := from - 1; i >= 0; i-- {
		if !steps[i].Disabled {
			return i, true
		}
	}
	return 0, false
}
