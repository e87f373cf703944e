package api

import (
	"maps"
	"math"
	"slices"
	"time"
)

type (
	// Direction indicates which way a navigation transition moved
	Direction string

	// FlowState contains the complete state of one wizard flow instance.
	// The visited/completed/skipped sets are fixed-size boolean arrays
	// indexed by step position; the sets are not mutually exclusive
	FlowState struct {
		CreatedAt    time.Time    `json:"created_at"`
		LastUpdated  time.Time    `json:"last_updated"`
		StepData     map[int]Args `json:"step_data,omitempty"`
		Visited      []bool       `json:"visited"`
		Completed    []bool       `json:"completed"`
		Skipped      []bool       `json:"skipped"`
		CurrentIndex int          `json:"current_index"`
		Submitted    bool         `json:"submitted"`
	}
)

const (
	DirectionForward  Direction = "forward"
	DirectionBackward Direction = "backward"
)

// NewFlowState creates the initial state for a flow with the given number
// of steps. Index 0 is visited at construction
func NewFlowState(total int) *FlowState {
	now := time.Now()
	st := &FlowState{
		Visited:     make([]bool, total),
		Completed:   make([]bool, total),
		Skipped:     make([]bool, total),
		StepData:    map[int]Args{},
		CreatedAt:   now,
		LastUpdated: now,
	}
	if total > 0 {
		st.Visited[0] = true
	}
	return st
}

// Total returns the number of steps tracked by the state
func (st *FlowState) Total() int {
	return len(st.Visited)
}

// InRange reports whether the index addresses a tracked step
func (st *FlowState) InRange(i int) bool {
	return i >= 0 && i < st.Total()
}

// IsVisited reports whether the step at the index has been visited
func (st *FlowState) IsVisited(i int) bool {
	return st.InRange(i) && st.Visited[i]
}

// IsCompleted reports whether the step at the index has been completed
func (st *FlowState) IsCompleted(i int) bool {
	return st.InRange(i) && st.Completed[i]
}

// IsSkipped reports whether the step at the index has been skipped
func (st *FlowState) IsSkipped(i int) bool {
	return st.InRange(i) && st.Skipped[i]
}

// Data returns the snapshot captured when the step at the index was
// completed
func (st *FlowState) Data(i int) (Args, bool) {
	data, ok := st.StepData[i]
	return data, ok
}

// CompletedCount returns the number of completed steps
func (st *FlowState) CompletedCount() int {
	res := 0
	for _, done := range st.Completed {
		if done {
			res++
		}
	}
	return res
}

// Progress returns the positional progress percentage, rounded. A
// single-step flow is always at 100
func (st *FlowState) Progress() int {
	total := st.Total()
	if total <= 1 {
		return 100
	}
	ratio := float64(st.CurrentIndex) / float64(total-1)
	return int(math.Round(ratio * 100))
}

// CompletionProgress returns the completed-step percentage, rounded
func (st *FlowState) CompletionProgress() int {
	total := st.Total()
	if total == 0 {
		return 0
	}
	ratio := float64(st.CompletedCount()) / float64(total)
	return int(math.Round(ratio * 100))
}

// SetCurrentIndex returns a new FlowState positioned at the index
func (st *FlowState) SetCurrentIndex(i int) *FlowState {
	res := *st
	res.CurrentIndex = i
	return &res
}

// MarkVisited returns a new FlowState with the index added to visited
func (st *FlowState) MarkVisited(i int) *FlowState {
	res := *st
	res.Visited = slices.Clone(st.Visited)
	res.Visited[i] = true
	return &res
}

// MarkCompleted returns a new FlowState with the index added to completed
func (st *FlowState) MarkCompleted(i int) *FlowState {
	res := *st
	res.Completed = slices.Clone(st.Completed)
	res.Completed[i] = true
	return &res
}

// ClearCompleted returns a new FlowState with the index removed from
// completed
func (st *FlowState) ClearCompleted(i int) *FlowState {
	res := *st
	res.Completed = slices.Clone(st.Completed)
	res.Completed[i] = false
	return &res
}

// MarkSkipped returns a new FlowState with the index added to skipped
func (st *FlowState) MarkSkipped(i int) *FlowState {
	res := *st
	res.Skipped = slices.Clone(st.Skipped)
	res.Skipped[i] = true
	return &res
}

// SetStepData returns a new FlowState with the snapshot at the index
// overwritten
func (st *FlowState) SetStepData(i int, data Args) *FlowState {
	res := *st
	res.StepData = maps.Clone(st.StepData)
	if res.StepData == nil {
		res.StepData = map[int]Args{}
	}
	res.StepData[i] = maps.Clone(data)
	return &res
}

// ClearStepData returns a new FlowState with the snapshot at the index
// discarded
func (st *FlowState) ClearStepData(i int) *FlowState {
	res := *st
	res.StepData = maps.Clone(st.StepData)
	delete(res.StepData, i)
	return &res
}

// SetSubmitted returns a new FlowState with the submitted flag set
func (st *FlowState) SetSubmitted(submitted bool) *FlowState {
	res := *st
	res.Submitted = submitted
	return &res
}

// SetLastUpdated returns a new FlowState with the last updated time set
func (st *FlowState) SetLastUpdated(t time.Time) *FlowState {
	res := *st
	res.LastUpdated = t
	return &res
}
