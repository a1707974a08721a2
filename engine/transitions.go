package engine

import (
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/collaborator"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"go.uber.org/zap"
)

// followUpFn runs after a transition is committed. Collaborator calls are
// launched here, off the partition goroutine.
type followUpFn func(e *Engine, wf *model.Workflow)

// transitionFn mutates the workflow for one (state, event) pair. The bool
// result is false when the event is recognizably stale and must not be
// committed.
type transitionFn func(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool)

// transitions is the complete legal-transition table. Any (state, event)
// pair missing here is rejected without mutating state.
var transitions = map[model.WorkflowState]map[model.EventType]transitionFn{
	model.CREATED: {
		model.EVENT_WORKFLOW_CREATED: startDiagnosis,
		model.EVENT_CANCEL:           cancelWorkflow,
	},
	model.DIAGNOSING: {
		model.EVENT_DIAGNOSIS_COMPLETED: diagnosisCompleted,
		model.EVENT_DIAGNOSIS_FAILED:    escalate("diagnosis failed"),
		model.EVENT_CANCEL:              cancelWorkflow,
	},
	model.DIAGNOSED: {
		model.EVENT_FIND_SLOTS: startSlotSearch,
		model.EVENT_CANCEL:     cancelWorkflow,
	},
	model.FINDING_SLOTS: {
		model.EVENT_SLOTS_FOUND:     slotsFound,
		model.EVENT_SLOTS_EXHAUSTED: escalate("no slots available inside the sla window"),
		model.EVENT_CANCEL:          cancelWorkflow,
	},
	model.CONTACTING_CUSTOMER: {
		model.EVENT_CONTACT_INITIATED: contactInitiated,
		model.EVENT_CONTACT_FAILED:    escalate("customer contact failed"),
		model.EVENT_CANCEL:            cancelWorkflow,
	},
	model.AWAITING_CUSTOMER_RESPONSE: {
		model.EVENT_CUSTOMER_RESPONSE: customerResponded,
		model.EVENT_CONTACT_TIMEOUT:   contactTimedOut,
		model.EVENT_CANCEL:            cancelWorkflow,
	},
	model.CONFIRMING_APPOINTMENT: {
		model.EVENT_BOOKING_CONFIRMED: bookingConfirmed,
		model.EVENT_BOOKING_CONFLICT:  bookingConflicted,
		model.EVENT_BOOKING_FAILED:    escalate("booking failed"),
		model.EVENT_CANCEL:            cancelWorkflow,
	},
	model.SCHEDULED: {
		model.EVENT_AWAIT_SERVICE: awaitService,
		model.EVENT_CANCEL:        cancelWorkflow,
	},
	model.AWAITING_SERVICE: {
		model.EVENT_SERVICE_COMPLETED: serviceCompleted,
		model.EVENT_CANCEL:            cancelWorkflow,
	},
	model.SERVICE_COMPLETED: {
		model.EVENT_COLLECT_FEEDBACK: startFeedback,
		model.EVENT_CANCEL:           cancelWorkflow,
	},
	model.COLLECTING_FEEDBACK: {
		model.EVENT_FEEDBACK_RECEIVED: feedbackReceived,
		model.EVENT_FEEDBACK_TIMEOUT:  feedbackTimedOut,
		model.EVENT_CANCEL:            cancelWorkflow,
	},
}

func startDiagnosis(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	wf.State = model.DIAGNOSING
	return (*Engine).runDiagnosis, true
}

func diagnosisCompleted(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	wf.State = model.DIAGNOSED
	wf.Diagnosis = event.Diagnosis
	wf.SetRetries(model.STEP_DIAGNOSIS, event.Retries)
	return func(e *Engine, wf *model.Workflow) {
		e.submit(model.NewEvent(wf.WorkflowId, wf.VehicleId, model.EVENT_FIND_SLOTS, ACTOR_ORCHESTRATOR))
	}, true
}

func startSlotSearch(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	wf.State = model.FINDING_SLOTS
	return (*Engine).runSlotSearch, true
}

func slotsFound(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	wf.State = model.CONTACTING_CUSTOMER
	wf.CandidateSlots = event.Slots
	wf.SetRetries(model.STEP_SLOT_SEARCH, event.Retries)
	return (*Engine).runContact, true
}

func contactInitiated(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	wf.State = model.AWAITING_CUSTOMER_RESPONSE
	wf.ContactAttempts++
	wf.SetRetries(model.STEP_CONTACT, event.Retries)
	attempt := wf.ContactAttempts
	return func(e *Engine, wf *model.Workflow) {
		workflowId, vehicleId := wf.WorkflowId, wf.VehicleId
		e.timers.Schedule(e.cfg.Engagement.ResponseTimeout, func() {
			timeout := model.NewEvent(workflowId, vehicleId, model.EVENT_CONTACT_TIMEOUT, ACTOR_ORCHESTRATOR)
			timeout.Attempt = attempt
			e.submit(timeout)
		})
	}, true
}

func customerResponded(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	outcome := event.Outcome
	if outcome == nil {
		logger.Error("customer response without outcome", zap.String("workflowId", wf.WorkflowId))
		return nil, false
	}
	wf.EngagementOutcome = outcome
	switch outcome.Intent {
	case model.INTENT_ACCEPT:
		wf.State = model.CONFIRMING_APPOINTMENT
		return (*Engine).runBooking, true
	case model.INTENT_DECLINE:
		wf.State = model.ESCALATED
		wf.EscalationReason = "customer declined service"
		return nil, true
	case model.INTENT_RESCHEDULE:
		wf.State = model.FINDING_SLOTS
		return (*Engine).runSlotSearch, true
	case model.INTENT_NO_RESPONSE:
		return retryOrEscalateContact(e, wf)
	}
	logger.Error("unknown intent", zap.String("workflowId", wf.WorkflowId), zap.String("intent", string(outcome.Intent)))
	return nil, false
}

func contactTimedOut(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	if event.Attempt != 0 && event.Attempt != wf.ContactAttempts {
		// a response for this attempt already advanced the workflow
		return nil, false
	}
	wf.EngagementOutcome = &model.EngagementOutcome{Intent: model.INTENT_NO_RESPONSE}
	return retryOrEscalateContact(e, wf)
}

func retryOrEscalateContact(e *Engine, wf *model.Workflow) (followUpFn, bool) {
	if wf.ContactAttempts < e.cfg.Engagement.ContactAttempts {
		wf.State = model.CONTACTING_CUSTOMER
		return (*Engine).runContact, true
	}
	wf.State = model.ESCALATED
	wf.EscalationReason = "customer unreachable after contact attempts exhausted"
	return nil, true
}

func bookingConfirmed(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	wf.State = model.SCHEDULED
	wf.AppointmentId = event.Appointment
	wf.SetRetries(model.STEP_BOOKING, event.Retries)
	return func(e *Engine, wf *model.Workflow) {
		e.submit(model.NewEvent(wf.WorkflowId, wf.VehicleId, model.EVENT_AWAIT_SERVICE, ACTOR_ORCHESTRATOR))
	}, true
}

func bookingConflicted(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	// the chosen slot was taken by a concurrent workflow; re-plan
	wf.State = model.FINDING_SLOTS
	wf.AppointmentId = ""
	return (*Engine).runSlotSearch, true
}

func awaitService(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	wf.State = model.AWAITING_SERVICE
	return nil, true
}

func serviceCompleted(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	wf.State = model.SERVICE_COMPLETED
	return func(e *Engine, wf *model.Workflow) {
		e.submit(model.NewEvent(wf.WorkflowId, wf.VehicleId, model.EVENT_COLLECT_FEEDBACK, ACTOR_ORCHESTRATOR))
	}, true
}

func startFeedback(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	wf.State = model.COLLECTING_FEEDBACK
	return func(e *Engine, wf *model.Workflow) {
		e.runSurvey(wf)
		workflowId, vehicleId := wf.WorkflowId, wf.VehicleId
		e.timers.Schedule(e.cfg.Feedback.Window, func() {
			e.submit(model.NewEvent(workflowId, vehicleId, model.EVENT_FEEDBACK_TIMEOUT, ACTOR_ORCHESTRATOR))
		})
	}, true
}

func feedbackReceived(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	fb := event.Feedback
	if fb == nil {
		logger.Error("feedback event without payload", zap.String("workflowId", wf.WorkflowId))
		return nil, false
	}
	fb.AccuracyLabel = collaborator.DeriveAccuracyLabel(*fb)
	wf.Feedback = fb
	wf.State = model.ARCHIVED
	now := e.clock()
	wf.ArchivedAt = &now
	return (*Engine).emitRelabel, true
}

func feedbackTimedOut(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	// feedback is optional, never a blocker
	wf.State = model.ARCHIVED
	now := e.clock()
	wf.ArchivedAt = &now
	return nil, true
}

func cancelWorkflow(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
	wf.State = model.CANCELLED
	wf.EscalationReason = event.Reason
	if len(wf.AppointmentId) == 0 {
		return nil, true
	}
	appointmentId := wf.AppointmentId
	return func(e *Engine, wf *model.Workflow) {
		e.releaseAppointment(wf, appointmentId)
	}, true
}

func escalate(reason string) transitionFn {
	return func(e *Engine, wf *model.Workflow, event model.Event) (followUpFn, bool) {
		wf.State = model.ESCALATED
		wf.EscalationReason = reason
		if len(event.Reason) != 0 {
			wf.EscalationReason = reason + ": " + event.Reason
		}
		logger.Warn("workflow escalated", zap.String("workflowId", wf.WorkflowId), zap.String("reason", wf.EscalationReason))
		return nil, true
	}
}
