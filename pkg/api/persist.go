package api

import (
	"slices"
	"strconv"
)

// PersistedState is the serialized layout written to the storage key on
// every mutation and read once at construction. The field names form a
// compatibility contract with previously persisted flows
type PersistedState struct {
	StepData       map[string]Args `json:"stepData,omitempty"`
	CompletedSteps []int           `json:"completedSteps"`
	VisitedSteps   []int           `json:"visitedSteps"`
	SkippedSteps   []int           `json:"skippedSteps"`
	CurrentIndex   int             `json:"currentIndex"`
	Submitted      bool            `json:"submitted,omitempty"`
}

// NewPersistedState converts a flow state into its serialized layout
func NewPersistedState(st *FlowState) *PersistedState {
	res := &PersistedState{
		CurrentIndex:   st.CurrentIndex,
		CompletedSteps: indexesOf(st.Completed),
		VisitedSteps:   indexesOf(st.Visited),
		SkippedSteps:   indexesOf(st.Skipped),
		Submitted:      st.Submitted,
	}
	if len(st.StepData) > 0 {
		res.StepData = map[string]Args{}
		for i, data := range st.StepData {
			res.StepData[strconv.Itoa(i)] = data
		}
	}
	return res
}

// FlowState rehydrates a flow state for a registry of the given size.
// Out-of-range indices and malformed snapshot keys are dropped rather than
// failing; an unusable current index falls back to 0
func (ps *PersistedState) FlowState(total int) *FlowState {
	st := NewFlowState(total)

	if ps.CurrentIndex >= 0 && ps.CurrentIndex < total {
		st.CurrentIndex = ps.CurrentIndex
	}
	st.Submitted = ps.Submitted

	applyIndexes(st.Visited, ps.VisitedSteps)
	applyIndexes(st.Completed, ps.CompletedSteps)
	applyIndexes(st.Skipped, ps.SkippedSteps)

	for key, data := range ps.StepData {
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= total {
			continue
		}
		st.StepData[i] = data
	}

	return st
}

func indexesOf(set []bool) []int {
	res := []int{}
	for i, ok := range set {
		if ok {
			res = append(res, i)
		}
	}
	return res
}

func applyIndexes(set []bool, indexes []int) {
	for _, i := range slices.Sorted(slices.Values(indexes)) {
		if i >= 0 && i < len(set) {
			set[i] = true
		}
	}
}
