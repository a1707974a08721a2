package model

import "fmt"

type InvalidAlertError struct {
	Reason string
}

func (e InvalidAlertError) Error() string {
	return fmt.Sprintf("invalid alert: %s", e.Reason)
}

// DuplicateAlertError reports that an open workflow already exists for the
// vehicle. The existing workflow id is carried so intake can return it.
type DuplicateAlertError struct {
	VehicleId  string
	WorkflowId string
}

func (e DuplicateAlertError) Error() string {
	return fmt.Sprintf("open workflow %s already exists for vehicle %s", e.WorkflowId, e.VehicleId)
}

type UnknownWorkflowError struct {
	WorkflowId string
}

func (e UnknownWorkflowError) Error() string {
	return fmt.Sprintf("unknown workflow %s", e.WorkflowId)
}

// InvalidTransitionError is an ordering bug, never user caused. The engine
// logs and rejects it without mutating state.
type InvalidTransitionError struct {
	State WorkflowState
	Event EventType
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("event %s is not legal in state %s", e.Event, e.State)
}

// TerminalWorkflowError reports an event delivered to a workflow that has
// already reached a terminal state.
type TerminalWorkflowError struct {
	WorkflowId string
	State      WorkflowState
}

func (e TerminalWorkflowError) Error() string {
	return fmt.Sprintf("workflow %s already terminal in state %s", e.WorkflowId, e.State)
}
