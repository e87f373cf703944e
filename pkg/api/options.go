package api

type (
	// Options configures validation behavior, navigation permissions, and
	// reset policy for a flow
	Options struct {
		NavigationRule         *ScriptConfig `json:"navigation_rule,omitempty"`
		CustomValidator        *ScriptConfig `json:"custom_validator,omitempty"`
		Reset                  ResetOptions  `json:"reset"`
		ValidateOnStepChange   bool          `json:"validate_on_step_change"`
		ValidateOnBlur         bool          `json:"validate_on_blur"`
		ValidateOnSubmit       bool          `json:"validate_on_submit"`
		AllowBackNavigation    bool          `json:"allow_back_navigation"`
		AllowForwardNavigation bool          `json:"allow_forward_navigation"`
		AllowStepJumping       bool          `json:"allow_step_jumping"`
		AllowSkipping          bool          `json:"allow_skipping"`
	}

	// ResetOptions gates the reset intent. All gates are AND-combined
	ResetOptions struct {
		ConfirmationMessage  string `json:"confirmation_message,omitempty"`
		MinStepsCompleted    int    `json:"min_steps_completed,omitempty"`
		MaxStepsCompleted    int    `json:"max_steps_completed,omitempty"`
		Enabled              bool   `json:"enabled"`
		RequireConfirmation  bool   `json:"require_confirmation,omitempty"`
		AllowOnFirstStep     bool   `json:"allow_on_first_step,omitempty"`
		AllowOnLastStep      bool   `json:"allow_on_last_step,omitempty"`
		AllowAfterSubmission bool   `json:"allow_after_submission,omitempty"`
	}
)

// DefaultConfirmationMessage is used when reset confirmation is required
// but no message was configured
const DefaultConfirmationMessage = "Reset the form? All progress will be lost."

// DefaultOptions returns the options applied when a flow is created
// without explicit configuration
func DefaultOptions() *Options {
	return &Options{
		ValidateOnStepChange:   true,
		ValidateOnSubmit:       true,
		AllowBackNavigation:    true,
		AllowForwardNavigation: true,
	}
}

// Validate checks any configured scripts
func (o *Options) Validate() error {
	if o.NavigationRule != nil {
		if err := o.NavigationRule.Validate(); err != nil {
			return err
		}
	}
	if o.CustomValidator != nil {
		if err := o.CustomValidator.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ConfirmMessage returns the configured confirmation message or the
// default when unset
func (r *ResetOptions) ConfirmMessage() string {
	if r.ConfirmationMessage != "" {
		return r.ConfirmationMessage
	}
	return DefaultConfirmationMessage
}
