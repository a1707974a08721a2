// Package engine owns the per-alert workflow state machine. All mutation
// goes through HandleEvent, which the dispatcher invokes on a single
// partition per workflow: transitions are validated against the table in
// transitions.go, an audit event is recorded before the state change is
// committed, and follow-up collaborator calls run off-partition with
// their results delivered back as ordinary events.
package engine

import (
	"time"

	"github.com/google/uuid"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/audit"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/collaborator"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/config"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/persistence"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/sla"
	"go.uber.org/zap"
)

const ACTOR_ORCHESTRATOR = "orchestrator"
const ACTOR_SWEEP = "sla-sweep"
const ACTOR_CUSTOMER = "customer"

// Timers schedules deferred work: contact response timeouts, feedback
// windows. The dispatcher provides a timing-wheel implementation.
type Timers interface {
	Schedule(delay time.Duration, fn func())
}

// Submitter delivers an event into the workflow's ordered partition.
type Submitter func(event model.Event)

type Engine struct {
	cfg     config.Config
	storage persistence.Storage
	sink    audit.Sink
	timers  Timers
	submit  Submitter
	clock   func() time.Time

	diagnosis  collaborator.DiagnosisService
	scheduling collaborator.SchedulingService
	engagement collaborator.EngagementService
	feedback   collaborator.FeedbackService

	diagAdapter    *collaborator.Adapter
	slotAdapter    *collaborator.Adapter
	bookAdapter    *collaborator.Adapter
	contactAdapter *collaborator.Adapter
	surveyAdapter  *collaborator.Adapter
}

type Collaborators struct {
	Diagnosis  collaborator.DiagnosisService
	Scheduling collaborator.SchedulingService
	Engagement collaborator.EngagementService
	Feedback   collaborator.FeedbackService
}

func NewEngine(cfg config.Config, storage persistence.Storage, sink audit.Sink, collaborators Collaborators, timers Timers) *Engine {
	return &Engine{
		cfg:            cfg,
		storage:        storage,
		sink:           sink,
		timers:         timers,
		clock:          time.Now,
		diagnosis:      collaborators.Diagnosis,
		scheduling:     collaborators.Scheduling,
		engagement:     collaborators.Engagement,
		feedback:       collaborators.Feedback,
		diagAdapter:    collaborator.NewAdapter("diagnosis", cfg.Retry.DiagnosisAttempts, cfg.Retry, cfg.Breaker),
		slotAdapter:    collaborator.NewAdapter("slot-search", cfg.Retry.SlotSearchAttempts, cfg.Retry, cfg.Breaker),
		bookAdapter:    collaborator.NewAdapter("booking", cfg.Retry.BookingAttempts, cfg.Retry, cfg.Breaker),
		contactAdapter: collaborator.NewAdapter("engagement", cfg.Engagement.ContactAttempts, cfg.Retry, cfg.Breaker),
		surveyAdapter:  collaborator.NewAdapter("survey", 1, cfg.Retry, cfg.Breaker),
	}
}

// SetSubmitter wires the dispatcher's inbound queue. Must be called before
// the first event is handled.
func (e *Engine) SetSubmitter(submit Submitter) {
	e.submit = submit
}

// SetClock overrides the engine clock. Test hook.
func (e *Engine) SetClock(clock func() time.Time) {
	e.clock = clock
}

// CreateWorkflow opens a workflow for a qualifying alert. A second alert
// for a vehicle with an open workflow is attached to it: the existing id
// is returned along with model.DuplicateAlertError.
func (e *Engine) CreateWorkflow(alert model.Alert) (string, error) {
	if err := alert.Validate(); err != nil {
		return "", err
	}
	now := e.clock()
	created := model.NewEvent("", alert.VehicleId, model.EVENT_WORKFLOW_CREATED, ACTOR_ORCHESTRATOR)
	wf := &model.Workflow{
		WorkflowId:  uuid.New().String(),
		VehicleId:   alert.VehicleId,
		Vin:         alert.Vin,
		CustomerId:  alert.CustomerId,
		Severity:    alert.Severity,
		Alert:       alert,
		CreatedAt:   now,
		SlaDeadline: sla.DeadlineFor(alert.Severity, now),
		State:       model.CREATED,
		RetryCount:  make(map[model.Step]int),
	}
	created.WorkflowId = wf.WorkflowId
	// history and audit for the kickoff are written when the event is
	// applied; recording here would make the delivery look redelivered
	if err := e.storage.Create(wf); err != nil {
		if dup, ok := err.(model.DuplicateAlertError); ok {
			logger.Info("duplicate alert attached to open workflow",
				zap.String("vehicleId", alert.VehicleId), zap.String("workflowId", dup.WorkflowId))
			return dup.WorkflowId, dup
		}
		return "", err
	}
	logger.Info("workflow created",
		zap.String("workflowId", wf.WorkflowId),
		zap.String("vehicleId", wf.VehicleId),
		zap.String("severity", string(wf.Severity)),
		zap.Time("slaDeadline", wf.SlaDeadline))
	e.submit(created)
	return wf.WorkflowId, nil
}

// HandleEvent applies one event to its workflow. Called only from the
// workflow's dispatcher partition.
func (e *Engine) HandleEvent(event model.Event) error {
	wf, err := e.storage.Get(event.WorkflowId)
	if err != nil {
		return err
	}
	if wf.State.Terminal() {
		// late collaborator results and timers are discarded by design
		logger.Debug("event discarded, workflow terminal",
			zap.String("workflowId", wf.WorkflowId), zap.String("event", string(event.Type)), zap.String("state", string(wf.State)))
		return model.TerminalWorkflowError{WorkflowId: wf.WorkflowId, State: wf.State}
	}
	if wf.Seen(event.EventId) {
		logger.Debug("duplicate event delivery ignored",
			zap.String("workflowId", wf.WorkflowId), zap.String("eventId", event.EventId))
		return nil
	}
	now := e.clock()
	if sla.Breached(wf, now) && event.Type != model.EVENT_CANCEL {
		return e.breach(wf, event)
	}
	handler, ok := transitions[wf.State][event.Type]
	if !ok {
		if timerDriven(event.Type) {
			// a timer firing after the state moved on is not an error
			logger.Debug("stale timer event ignored",
				zap.String("workflowId", wf.WorkflowId), zap.String("event", string(event.Type)), zap.String("state", string(wf.State)))
			return nil
		}
		logger.Error("illegal transition rejected",
			zap.String("workflowId", wf.WorkflowId), zap.String("state", string(wf.State)), zap.String("event", string(event.Type)))
		e.auditOnly(event, wf, "rejected: "+string(wf.State))
		return model.InvalidTransitionError{State: wf.State, Event: event.Type}
	}
	followUp, applied := handler(e, wf, event)
	if !applied {
		// handler judged the event stale; nothing to commit
		return nil
	}
	if err := e.record(event, wf, string(wf.State)); err != nil {
		return err
	}
	if err := e.storage.Save(wf); err != nil {
		return err
	}
	if followUp != nil {
		followUp(e, wf)
	}
	return nil
}

// breach forces the workflow into SLA_BREACHED. The triggering event is
// dropped; the breach itself is the committed transition.
func (e *Engine) breach(wf *model.Workflow, cause model.Event) error {
	breach := model.NewEvent(wf.WorkflowId, wf.VehicleId, model.EVENT_SLA_EXPIRED, ACTOR_SWEEP)
	if cause.Type == model.EVENT_SLA_EXPIRED {
		breach = cause
	}
	wf.State = model.SLA_BREACHED
	wf.EscalationReason = "sla deadline passed before appointment was scheduled"
	if err := e.record(breach, wf, string(model.SLA_BREACHED)); err != nil {
		return err
	}
	if err := e.storage.Save(wf); err != nil {
		return err
	}
	logger.Warn("workflow breached sla",
		zap.String("workflowId", wf.WorkflowId),
		zap.String("severity", string(wf.Severity)),
		zap.Duration("overBy", e.clock().Sub(wf.SlaDeadline)))
	return nil
}

// record appends the history entry and writes the audit event. The audit
// write happens before the caller persists the state change.
func (e *Engine) record(event model.Event, wf *model.Workflow, outcome string) error {
	now := e.clock()
	wf.History = append(wf.History, model.HistoryEntry{
		EventId:   event.EventId,
		Timestamp: now,
		Actor:     event.Actor,
		Action:    string(event.Type),
		Outcome:   outcome,
	})
	return e.sink.Record(audit.Event{
		EventId:    event.EventId,
		WorkflowId: wf.WorkflowId,
		Actor:      event.Actor,
		Action:     string(event.Type),
		Outcome:    outcome,
		Latency:    now.Sub(event.OccurredAt),
		Details:    map[string]any{"state": string(wf.State), "vehicleId": wf.VehicleId},
		Timestamp:  now,
	})
}

// auditOnly records an event that did not change workflow state.
func (e *Engine) auditOnly(event model.Event, wf *model.Workflow, outcome string) {
	now := e.clock()
	if err := e.sink.Record(audit.Event{
		EventId:    event.EventId,
		WorkflowId: wf.WorkflowId,
		Actor:      event.Actor,
		Action:     string(event.Type),
		Outcome:    outcome,
		Latency:    now.Sub(event.OccurredAt),
		Timestamp:  now,
	}); err != nil {
		logger.Error("error recording audit event", zap.Error(err))
	}
}

// ExpireOverdue submits a breach event for every open workflow whose
// deadline has passed. Driven by the periodic sweep so breaches surface
// even with no inbound events.
func (e *Engine) ExpireOverdue() {
	overdue, err := e.storage.ListOverdue(e.clock())
	if err != nil {
		logger.Error("error listing overdue workflows", zap.Error(err))
		return
	}
	for _, wf := range overdue {
		e.submit(model.NewEvent(wf.WorkflowId, wf.VehicleId, model.EVENT_SLA_EXPIRED, ACTOR_SWEEP))
	}
}

func timerDriven(t model.EventType) bool {
	switch t {
	case model.EVENT_CONTACT_TIMEOUT, model.EVENT_FEEDBACK_TIMEOUT, model.EVENT_SLA_EXPIRED:
		return true
	}
	return false
}
