package engine

import "github.com/kode4food/arran/pkg/api"

// View builds the derived state for the active step: descriptor, progress
// figures, transient flags, and the capability flags produced by the
// policy
func (s *Session) View() *api.StepView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buildView()
}

func (s *Session) buildView() *api.StepView {
	st := s.machine.State()
	cur := st.CurrentIndex
	return &api.StepView{
		Step:               s.steps[cur],
		Values:             s.gateway.Values(),
		Errors:             s.stepErrors,
		FlowID:             s.id,
		Index:              cur,
		Total:              st.Total(),
		Progress:           st.Progress(),
		CompletionProgress: st.CompletionProgress(),
		Completed:          st.IsCompleted(cur),
		Visited:            st.IsVisited(cur),
		Skipped:            st.IsSkipped(cur),
		HasErrors:          len(s.stepErrors) > 0,
		Submitted:          st.Submitted,
		IsValidating:       s.validating,
		IsSubmitting:       s.submitting,
		CanGoBack:          s.policy.CanGoBack(st) == "",
		CanGoForward:       s.policy.CanGoForward(st) == "",
		CanSkip:            s.policy.CanSkip(st) == "",
		CanSubmit:          s.policy.CanSubmit(st) == "",
		CanReset:           s.policy.CanReset(st) == "",
	}
}

func (s *Session) renderView() {
	if s.render == nil {
		return
	}
	s.render(s.buildView())
}
