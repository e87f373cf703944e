package api

type (
	// StepView is the derived per-step state handed to render callbacks
	// and returned by the HTTP surface. It combines the active descriptor,
	// progress figures, and the capability flags produced by the
	// navigation policy
	StepView struct {
		Step               *Step           `json:"step"`
		Values             Args            `json:"values,omitempty"`
		Errors             map[Name]string `json:"errors,omitempty"`
		FlowID             FlowID          `json:"flow_id"`
		Index              int             `json:"index"`
		Total              int             `json:"total"`
		Progress           int             `json:"progress"`
		CompletionProgress int             `json:"completion_progress"`
		Completed          bool            `json:"completed"`
		Visited            bool            `json:"visited"`
		Skipped            bool            `json:"skipped"`
		HasErrors          bool            `json:"has_errors"`
		Submitted          bool            `json:"submitted"`
		IsValidating       bool            `json:"is_validating"`
		IsSubmitting       bool            `json:"is_submitting"`
		CanGoBack          bool            `json:"can_go_back"`
		CanGoForward       bool            `json:"can_go_forward"`
		CanSkip            bool            `json:"can_skip"`
		CanSubmit          bool            `json:"can_submit"`
		CanReset           bool            `json:"can_reset"`
	}

	// RenderFunc receives the refreshed view after every committed
	// transition
	RenderFunc func(*StepView)
)
