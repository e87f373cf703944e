package api

type (
	// Reason identifies why an intent was denied
	Reason string

	// Outcome is the explicit result of every navigation or lifecycle
	// intent. Denied intents leave state unchanged and report the reason
	// instead of failing silently
	Outcome struct {
		Errors    map[Name]string `json:"errors,omitempty"`
		Reason    Reason          `json:"reason,omitempty"`
		Direction Direction       `json:"direction,omitempty"`
		Message   string          `json:"message,omitempty"`
		Index     int             `json:"index"`
		Allowed   bool            `json:"allowed"`
	}
)

const (
	DenyOutOfRange       Reason = "out_of_range"
	DenyStepDisabled     Reason = "step_disabled"
	DenyAtBoundary       Reason = "at_boundary"
	DenyBackDisabled     Reason = "back_disabled"
	DenyForwardDisabled  Reason = "forward_disabled"
	DenyJumpDisabled     Reason = "jump_disabled"
	DenyRuleRejected     Reason = "rule_rejected"
	DenySkipDisabled     Reason = "skip_disabled"
	DenyNotOptional      Reason = "step_not_optional"
	DenyValidation       Reason = "validation_failed"
	DenyNotLastStep      Reason = "not_last_step"
	DenyAlreadySubmitted Reason = "already_submitted"
	DenySubmitFailed     Reason = "submit_failed"
	DenyResetDisabled    Reason = "reset_disabled"
	DenyConfirmRequired  Reason = "confirm_required"
	DenyNoPendingReset   Reason = "no_pending_reset"
	DenyBusy             Reason = "busy"
	DenyStale            Reason = "stale_generation"
)

// Allow creates a permitted outcome at the given index
func Allow(index int) Outcome {
	return Outcome{Allowed: true, Index: index}
}

// AllowMove creates a permitted outcome carrying the transition direction
func AllowMove(index int, dir Direction) Outcome {
	return Outcome{Allowed: true, Index: index, Direction: dir}
}

// Deny creates a denied outcome with the reason, leaving the caller at the
// given index
func Deny(reason Reason, index int) Outcome {
	return Outcome{Reason: reason, Index: index}
}

// DenyWithErrors creates a denied validation outcome carrying the scoped
// field errors
func DenyWithErrors(index int, errs map[Name]string) Outcome {
	return Outcome{Reason: DenyValidation, Index: index, Errors: errs}
}
