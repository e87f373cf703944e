package api

type (
	// IntentType identifies a user intent dispatched to a flow session
	IntentType string

	// ErrorResponse is the standard HTTP error payload
	ErrorResponse struct {
		Error  string `json:"error"`
		Status int    `json:"status"`
	}

	// CreateFlowRequest starts a new flow session
	CreateFlowRequest struct {
		Options *Options `json:"options,omitempty"`
		Values  Args     `json:"values,omitempty"`
		ID      FlowID   `json:"id,omitempty"`
		Steps   Steps    `json:"steps"`
	}

	// FlowCreatedResponse returns the ID and initial view of a new session
	FlowCreatedResponse struct {
		View   *StepView `json:"view"`
		FlowID FlowID    `json:"flow_id"`
	}

	// FlowsListResponse enumerates active flow sessions
	FlowsListResponse struct {
		Flows []FlowID `json:"flows"`
		Count int      `json:"count"`
	}

	// IntentRequest dispatches a navigation or lifecycle intent
	IntentRequest struct {
		Type   IntentType `json:"type"`
		Target int        `json:"target,omitempty"`
	}

	// IntentResponse carries the intent outcome and the refreshed view
	IntentResponse struct {
		View    *StepView `json:"view"`
		Outcome Outcome   `json:"outcome"`
	}

	// FieldsRequest updates captured field values
	FieldsRequest struct {
		Values Args `json:"values"`
	}

	// FieldsResponse reports blur-validation results for updated fields
	FieldsResponse struct {
		Result *ValidationResult `json:"result,omitempty"`
		View   *StepView         `json:"view"`
	}

	// HealthResponse reports service liveness
	HealthResponse struct {
		Service string `json:"service"`
		Version string `json:"version"`
		Status  string `json:"status"`
	}
)

const (
	IntentNext         IntentType = "next"
	IntentBack         IntentType = "back"
	IntentSkip         IntentType = "skip"
	IntentJump         IntentType = "jump"
	IntentSubmit       IntentType = "submit"
	IntentReset        IntentType = "reset"
	IntentConfirmReset IntentType = "confirm_reset"
)
