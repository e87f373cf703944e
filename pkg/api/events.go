package api

import "time"

type (
	// EventType identifies the kind of an engine event
	EventType string

	// Event is the envelope broadcast to event stream subscribers
	Event struct {
		Data      any       `json:"data,omitempty"`
		Type      EventType `json:"type"`
		FlowID    FlowID    `json:"flow_id"`
		Timestamp int64     `json:"timestamp"`
	}

	// StepChangedEvent reports a committed navigation transition
	StepChangedEvent struct {
		Direction Direction `json:"direction"`
		From      int       `json:"from"`
		To        int       `json:"to"`
	}

	// StepCompletedEvent reports a step marked completed with its snapshot
	StepCompletedEvent struct {
		Data  Args `json:"data,omitempty"`
		Index int  `json:"index"`
	}

	// StepSkippedEvent reports a step marked skipped
	StepSkippedEvent struct {
		Index int `json:"index"`
	}

	// ValidationFailedEvent reports field errors scoped to a step
	ValidationFailedEvent struct {
		Errors map[Name]string `json:"errors"`
		Index  int             `json:"index"`
	}

	// FlowSubmittedEvent reports a successful final submission
	FlowSubmittedEvent struct {
		Values Args `json:"values,omitempty"`
	}

	// FlowResetEvent reports a committed reset
	FlowResetEvent struct{}
)

const (
	EventTypeFlowCreated      EventType = "flow_created"
	EventTypeFlowRemoved      EventType = "flow_removed"
	EventTypeStepChanged      EventType = "step_changed"
	EventTypeStepCompleted    EventType = "step_completed"
	EventTypeStepSkipped      EventType = "step_skipped"
	EventTypeValidationFailed EventType = "validation_failed"
	EventTypeFlowSubmitted    EventType = "flow_submitted"
	EventTypeFlowReset        EventType = "flow_reset"
)

// NewEvent creates an event envelope stamped with the current time
func NewEvent(typ EventType, flowID FlowID, data any) *Event {
	return &Event{
		Type:      typ,
		FlowID:    flowID,
		Timestamp: time.Now().UnixMilli(),
		Data:      data,
	}
}
