package engine

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kode4food/arran/internal/store"
	"github.com/kode4food/arran/pkg/api"
	"github.com/kode4food/arran/pkg/log"
)

type (
	// Callbacks are the caller-visible side effects of a session. All are
	// optional
	Callbacks struct {
		OnStepChange      func(index int, dir api.Direction)
		OnValidationError func(index int, errs map[api.Name]string)
		OnStepComplete    func(index int, data api.Args)
		OnStepSkip        func(index int)
		OnFormReset       func()
	}

	// SubmitFunc receives the full field-value snapshot at final
	// submission
	SubmitFunc func(context.Context, api.Args) error

	// SubmittedHook observes a successful submission. The registry uses it
	// to hand the final state to the archiver
	SubmittedHook func(
		ctx context.Context, id api.FlowID, st *api.FlowState, values api.Args,
	)

	// SessionConfig assembles the collaborators of one flow session
	SessionConfig struct {
		Scripts   PredicateEvaluator
		Storage   store.Storage
		Submit    SubmitFunc
		Render    api.RenderFunc
		Logger    *slog.Logger
		Options   *api.Options
		Values    api.Args
		Callbacks Callbacks
		ID        api.FlowID
		Key       string
		Steps     api.Steps
	}

	// Session is the form orchestrator for one flow instance. It turns
	// user intents into validated transitions, firing callbacks and
	// emitting events for committed ones. Intents are serialized; an
	// intent arriving while validation or submission is in flight is
	// denied as busy
	Session struct {
		id          api.FlowID
		steps       api.Steps
		opts        *api.Options
		machine     *Machine
		gateway     *Gateway
		policy      *Policy
		callbacks   Callbacks
		render      api.RenderFunc
		submit      SubmitFunc
		onSubmitted SubmittedHook
		emit        func(*api.Event)
		log         *slog.Logger
		stepErrors  map[api.Name]string
		mu          sync.Mutex
		generation  int
		validating  bool
		submitting  bool
		resetPend   bool
	}
)

// NewSession creates a flow session, restoring machine state from storage
// when present
func NewSession(ctx context.Context, cfg *SessionConfig) (*Session, error) {
	if err := cfg.Steps.Validate(); err != nil {
		return nil, err
	}
	opts := cfg.Options
	if opts == nil {
		opts = api.DefaultOptions()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	key := cfg.Key
	if key == "" {
		key = string(cfg.ID)
	}
	s := &Session{
		id:        cfg.ID,
		steps:     cfg.Steps,
		opts:      opts,
		callbacks: cfg.Callbacks,
		render:    cfg.Render,
		submit:    cfg.Submit,
		log:       logger,
	}
	s.machine = NewMachine(ctx, cfg.Steps, cfg.Storage, key, logger)
	s.gateway = NewGateway(cfg.Steps, opts, cfg.Scripts, cfg.Values, logger)
	s.policy = NewPolicy(cfg.Steps, opts, cfg.Scripts, logger)
	return s, nil
}

// ID returns the flow identifier of the session
func (s *Session) ID() api.FlowID {
	return s.id
}

// Next advances to the following step, validating the step being left
// when configured. Validation failure marks the step incomplete and
// cancels the transition
func (s *Session) Next(ctx context.Context) api.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out, busy := s.busyOutcome(); busy {
		return out
	}
	st := s.machine.State()
	cur := st.CurrentIndex
	if reason := s.policy.CanGoForward(st); reason != "" {
		return api.Deny(reason, cur)
	}
	if !s.leaveStep(ctx, cur) {
		return api.DenyWithErrors(cur, s.stepErrors)
	}
	out := s.machine.GoNext(ctx)
	if out.Allowed {
		s.afterMove(cur, out)
	}
	return out
}

// Back retreats to the previous step without validating the step being
// left
func (s *Session) Back(ctx context.Context) api.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out, busy := s.busyOutcome(); busy {
		return out
	}
	st := s.machine.State()
	if reason := s.policy.CanGoBack(st); reason != "" {
		return api.Deny(reason, st.CurrentIndex)
	}
	out := s.machine.GoBack(ctx)
	if out.Allowed {
		s.afterMove(st.CurrentIndex, out)
	}
	return out
}

// Skip marks the current step skipped and advances past it
func (s *Session) Skip(ctx context.Context) api.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out, busy := s.busyOutcome(); busy {
		return out
	}
	st := s.machine.State()
	cur := st.CurrentIndex
	if reason := s.policy.CanSkip(st); reason != "" {
		return api.Deny(reason, cur)
	}
	out := s.machine.SkipStep(ctx, cur)
	if !out.Allowed {
		return out
	}
	if cb := s.callbacks.OnStepSkip; cb != nil {
		cb(cur)
	}
	s.emitEvent(api.EventTypeStepSkipped, &api.StepSkippedEvent{Index: cur})
	if out.Index != cur {
		s.afterMove(cur, out)
	} else {
		s.renderView()
	}
	return out
}

// JumpTo moves directly to the target step. Forward jumps validate the
// step being left the same way Next does; backward jumps commit
// unconditionally
func (s *Session) JumpTo(ctx context.Context, target int) api.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out, busy := s.busyOutcome(); busy {
		return out
	}
	st := s.machine.State()
	cur := st.CurrentIndex
	reason := s.policy.CanJumpTo(ctx, st, target, s.gateway.Values())
	if reason != "" {
		return api.Deny(reason, cur)
	}
	if target == cur {
		return api.Allow(cur)
	}
	if target > cur && !s.leaveStep(ctx, cur) {
		return api.DenyWithErrors(cur, s.stepErrors)
	}
	out := s.machine.GoToStep(ctx, target)
	if out.Allowed {
		s.afterMove(cur, out)
	}
	return out
}

// Submit finalizes the flow from the last step. When configured the whole
// form is validated first; the submit callback then runs outside the
// session lock. A submission resolving after a reset is discarded rather
// than mutating the superseded state
func (s *Session) Submit(ctx context.Context) api.Outcome {
	s.mu.Lock()
	if out, busy := s.busyOutcome(); busy {
		s.mu.Unlock()
		return out
	}
	st := s.machine.State()
	cur := st.CurrentIndex
	if reason := s.policy.CanSubmit(st); reason != "" {
		s.mu.Unlock()
		return api.Deny(reason, cur)
	}
	if s.opts.ValidateOnSubmit {
		s.validating = true
		res := s.gateway.ValidateAll(ctx)
		s.validating = false
		if !res.Valid {
			s.stepErrors = res.Errors
			s.fireValidationError(cur, res.Errors)
			s.mu.Unlock()
			return api.DenyWithErrors(cur, res.Errors)
		}
		s.stepErrors = nil
	}
	gen := s.generation
	values := s.gateway.Values()
	s.submitting = true
	s.mu.Unlock()

	var err error
	if s.submit != nil {
		err = s.submit(ctx, values)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.submitting = false
	if gen != s.generation {
		s.log.Info("stale submission discarded", log.FlowID(s.id))
		return api.Deny(api.DenyStale, s.machine.State().CurrentIndex)
	}
	if err != nil {
		s.log.Error("submit callback failed",
			log.FlowID(s.id), log.Error(err))
		return api.Deny(api.DenySubmitFailed, cur)
	}
	s.machine.SetSubmitted(ctx, true)
	s.emitEvent(api.EventTypeFlowSubmitted,
		&api.FlowSubmittedEvent{Values: values})
	if hook := s.onSubmitted; hook != nil {
		hook(ctx, s.id, s.machine.State(), values)
	}
	s.renderView()
	return api.Allow(cur)
}

// Reset returns the flow to its initial state when the reset gates pass.
// When confirmation is required the intent is deferred until ConfirmReset
func (s *Session) Reset(ctx context.Context) api.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out, busy := s.busyOutcome(); busy {
		return out
	}
	st := s.machine.State()
	if reason := s.policy.CanReset(st); reason != "" {
		return api.Deny(reason, st.CurrentIndex)
	}
	if s.opts.Reset.RequireConfirmation && !s.resetPend {
		s.resetPend = true
		out := api.Deny(api.DenyConfirmRequired, st.CurrentIndex)
		out.Message = s.opts.Reset.ConfirmMessage()
		return out
	}
	return s.commitReset(ctx)
}

// ConfirmReset commits a reset previously deferred for confirmation
func (s *Session) ConfirmReset(ctx context.Context) api.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	if out, busy := s.busyOutcome(); busy {
		return out
	}
	st := s.machine.State()
	if !s.resetPend {
		return api.Deny(api.DenyNoPendingReset, st.CurrentIndex)
	}
	if reason := s.policy.CanReset(st); reason != "" {
		s.resetPend = false
		return api.Deny(reason, st.CurrentIndex)
	}
	return s.commitReset(ctx)
}

// SetFields captures field values, returning blur-validation results when
// configured
func (s *Session) SetFields(values api.Args) *api.ValidationResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.gateway.SetFields(values)
	if res != nil && !res.Valid {
		s.stepErrors = res.Errors
	}
	return res
}

// Discard removes the session's persisted state
func (s *Session) Discard(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.machine.Discard(ctx)
}

func (s *Session) commitReset(ctx context.Context) api.Outcome {
	s.resetPend = false
	s.generation++
	s.stepErrors = nil
	s.gateway.ResetToDefaults()
	s.machine.Reset(ctx)
	if cb := s.callbacks.OnFormReset; cb != nil {
		cb()
	}
	s.emitEvent(api.EventTypeFlowReset, &api.FlowResetEvent{})
	s.renderView()
	return api.Allow(0)
}

// leaveStep validates the step being left on a forward transition.
// Success marks it completed with a snapshot; failure marks it incomplete
// and records the errors
func (s *Session) leaveStep(ctx context.Context, cur int) bool {
	if !s.opts.ValidateOnStepChange {
		return true
	}
	s.validating = true
	res := s.gateway.ValidateStep(ctx, cur)
	s.validating = false
	if !res.Valid {
		s.stepErrors = res.Errors
		s.machine.MarkStepIncomplete(ctx, cur)
		s.fireValidationError(cur, res.Errors)
		return false
	}
	s.stepErrors = nil
	snapshot := s.gateway.StepValues(cur)
	s.machine.MarkStepCompleted(ctx, cur, snapshot)
	if cb := s.callbacks.OnStepComplete; cb != nil {
		cb(cur, snapshot)
	}
	s.emitEvent(api.EventTypeStepCompleted,
		&api.StepCompletedEvent{Index: cur, Data: snapshot})
	return true
}

func (s *Session) afterMove(from int, out api.Outcome) {
	s.stepErrors = nil
	if cb := s.callbacks.OnStepChange; cb != nil {
		cb(out.Index, out.Direction)
	}
	s.emitEvent(api.EventTypeStepChanged, &api.StepChangedEvent{
		From:      from,
		To:        out.Index,
		Direction: out.Direction,
	})
	s.renderView()
}

func (s *Session) fireValidationError(cur int, errs map[api.Name]string) {
	if cb := s.callbacks.OnValidationError; cb != nil {
		cb(cur, errs)
	}
	s.emitEvent(api.EventTypeValidationFailed,
		&api.ValidationFailedEvent{Index: cur, Errors: errs})
}

func (s *Session) busyOutcome() (api.Outcome, bool) {
	if s.validating || s.submitting {
		return api.Deny(api.DenyBusy, s.machine.State().CurrentIndex), true
	}
	return api.Outcome{}, false
}

func (s *Session) emitEvent(typ api.EventType, data any) {
	if s.emit == nil {
		return
	}
	s.emit(api.NewEvent(typ, s.id, data))
}
