package engine

import (
	"context"
	"log/slog"

	"github.com/kode4food/arran/pkg/api"
	"github.com/kode4food/arran/pkg/log"
)

type (
	// PredicateEvaluator runs a scripted predicate against named inputs
	PredicateEvaluator interface {
		EvaluateConfig(
			ctx context.Context, cfg *api.ScriptConfig, inputs api.Args,
		) (bool, error)
	}

	// Policy holds the pure predicates deciding whether a requested
	// transition is permitted given the current state and configuration.
	// Each predicate returns the empty reason when the transition is
	// allowed
	Policy struct {
		steps   api.Steps
		opts    *api.Options
		scripts PredicateEvaluator
		log     *slog.Logger
	}
)

// Reserved input names bound when a navigation rule runs
const (
	RuleArgCurrent = api.Name("current")
	RuleArgTarget  = api.Name("target")
)

// NewPolicy creates the navigation policy for a step registry
func NewPolicy(
	steps api.Steps, opts *api.Options, scripts PredicateEvaluator,
	logger *slog.Logger,
) *Policy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Policy{
		steps:   steps,
		opts:    opts,
		scripts: scripts,
		log:     logger,
	}
}

// CanGoBack permits a backward move when back navigation is enabled and
// an enabled step exists before the current one
func (p *Policy) CanGoBack(st *api.FlowState) api.Reason {
	if !p.opts.AllowBackNavigation {
		return api.DenyBackDisabled
	}
	if _, ok := prevEnabled(p.steps, st.CurrentIndex); !ok {
		return api.DenyAtBoundary
	}
	return ""
}

// CanGoForward permits a forward move when forward navigation is enabled
// and an enabled step exists after the current one
func (p *Policy) CanGoForward(st *api.FlowState) api.Reason {
	if !p.opts.AllowForwardNavigation {
		return api.DenyForwardDisabled
	}
	if _, ok := nextEnabled(p.steps, st.CurrentIndex); !ok {
		return api.DenyAtBoundary
	}
	return ""
}

// CanJumpTo permits a jump to the target index. Backward jumps are always
// candidates; forward jumps require step jumping to be enabled. The
// configured navigation rule and the target step's own rule are consulted
// with the current field values; a rule returning false or failing denies
// the jump
func (p *Policy) CanJumpTo(
	ctx context.Context, st *api.FlowState, target int, values api.Args,
) api.Reason {
	if !st.InRange(target) {
		return api.DenyOutOfRange
	}
	if p.steps[target].Disabled {
		return api.DenyStepDisabled
	}
	if !p.opts.AllowStepJumping && target >= st.CurrentIndex {
		return api.DenyJumpDisabled
	}
	inputs := values.Merge(api.Args{
		RuleArgCurrent: st.CurrentIndex,
		RuleArgTarget:  target,
	})
	if !p.ruleAllows(ctx, p.opts.NavigationRule, inputs) {
		return api.DenyRuleRejected
	}
	if !p.ruleAllows(ctx, p.steps[target].Rule, inputs) {
		return api.DenyRuleRejected
	}
	return ""
}

// CanSkip permits skipping the current step when skipping is enabled and
// the step is optional
func (p *Policy) CanSkip(st *api.FlowState) api.Reason {
	if !p.opts.AllowSkipping {
		return api.DenySkipDisabled
	}
	if !p.steps[st.CurrentIndex].Optional {
		return api.DenyNotOptional
	}
	return ""
}

// CanSubmit permits submission from the last step of a flow that has not
// already been submitted
func (p *Policy) CanSubmit(st *api.FlowState) api.Reason {
	if st.Submitted {
		return api.DenyAlreadySubmitted
	}
	if st.CurrentIndex != st.Total()-1 {
		return api.DenyNotLastStep
	}
	return ""
}

// CanReset permits a reset when every configured gate passes. The gates
// are AND-combined: enabled, submission state, first/last step flags, and
// completed-count bounds
func (p *Policy) CanReset(st *api.FlowState) api.Reason {
	r := p.opts.Reset
	if !r.Enabled {
		return api.DenyResetDisabled
	}
	if st.Submitted && !r.AllowAfterSubmission {
		return api.DenyAlreadySubmitted
	}
	if st.CurrentIndex == 0 && !r.AllowOnFirstStep {
		return api.DenyResetDisabled
	}
	if st.CurrentIndex == st.Total()-1 && !r.AllowOnLastStep {
		return api.DenyResetDisabled
	}
	done := st.CompletedCount()
	if done < r.MinStepsCompleted {
		return api.DenyResetDisabled
	}
	if r.MaxStepsCompleted > 0 && done > r.MaxStepsCompleted {
		return api.DenyResetDisabled
	}
	return ""
}

func (p *Policy) ruleAllows(
	ctx context.Context, cfg *api.ScriptConfig, inputs api.Args,
) bool {
	if cfg == nil || p.scripts == nil {
		return true
	}
	ok, err := p.scripts.EvaluateConfig(ctx, cfg, inputs)
	if err != nil {
		p.log.Warn("navigation rule failed", log.Error(err))
		return false
	}
	return ok
}
