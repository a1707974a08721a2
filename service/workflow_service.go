package service

import (
	"time"

	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/collaborator"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/engine"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/persistence"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/sla"
	"go.uber.org/zap"
)

// Status is the read-model returned to API clients. SlaRemaining goes
// negative once the deadline has passed.
type Status struct {
	WorkflowId       string               `json:"workflowId"`
	VehicleId        string               `json:"vehicleId"`
	State            model.WorkflowState  `json:"state"`
	Severity         model.Severity       `json:"severity"`
	SlaDeadline      time.Time            `json:"slaDeadline"`
	SlaRemaining     string               `json:"slaRemaining"`
	Diagnosis        *model.Diagnosis     `json:"diagnosis,omitempty"`
	AppointmentId    string               `json:"appointmentId,omitempty"`
	ContactAttempts  int                  `json:"contactAttempts"`
	RetryCount       map[model.Step]int   `json:"retryCount,omitempty"`
	EscalationReason string               `json:"escalationReason,omitempty"`
	Feedback         *model.Feedback      `json:"feedback,omitempty"`
	History          []model.HistoryEntry `json:"history"`
}

// WorkflowService is the boundary between transports and the engine.
// Reads go straight to storage; writes become events submitted through
// the dispatcher so they serialize with everything else touching the
// workflow.
type WorkflowService struct {
	engine  *engine.Engine
	storage persistence.Storage
	submit  func(model.Event)
}

func NewWorkflowService(eng *engine.Engine, storage persistence.Storage, submit func(model.Event)) *WorkflowService {
	return &WorkflowService{engine: eng, storage: storage, submit: submit}
}

func (s *WorkflowService) CreateWorkflow(alert model.Alert) (string, error) {
	return s.engine.CreateWorkflow(alert)
}

func (s *WorkflowService) GetStatus(workflowId string) (*Status, error) {
	wf, err := s.storage.Get(workflowId)
	if err != nil {
		return nil, err
	}
	return statusOf(wf), nil
}

func (s *WorkflowService) ListOpen(state model.WorkflowState) ([]*Status, error) {
	open, err := s.storage.ListOpen()
	if err != nil {
		return nil, err
	}
	result := make([]*Status, 0, len(open))
	for _, wf := range open {
		if len(state) > 0 && wf.State != state {
			continue
		}
		result = append(result, statusOf(wf))
	}
	return result, nil
}

func (s *WorkflowService) ListOverdue() ([]*Status, error) {
	overdue, err := s.storage.ListOverdue(time.Now())
	if err != nil {
		return nil, err
	}
	result := make([]*Status, 0, len(overdue))
	for _, wf := range overdue {
		result = append(result, statusOf(wf))
	}
	return result, nil
}

// CustomerResponse records a customer's reply. Either an explicit intent
// or free-form reply text is accepted; text is classified before submit.
func (s *WorkflowService) CustomerResponse(workflowId string, intent model.Intent, replyText string, selectedSlot string) error {
	wf, err := s.openWorkflow(workflowId)
	if err != nil {
		return err
	}
	if len(intent) == 0 {
		intent = collaborator.ClassifyIntent(replyText)
	}
	event := model.NewEvent(workflowId, wf.VehicleId, model.EVENT_CUSTOMER_RESPONSE, engine.ACTOR_CUSTOMER)
	event.Outcome = &model.EngagementOutcome{
		Intent:       intent,
		SelectedSlot: selectedSlot,
		Transcript:   replyText,
	}
	s.submit(event)
	return nil
}

func (s *WorkflowService) CompleteService(workflowId string) error {
	wf, err := s.openWorkflow(workflowId)
	if err != nil {
		return err
	}
	now := time.Now()
	event := model.NewEvent(workflowId, wf.VehicleId, model.EVENT_SERVICE_COMPLETED, "service-center")
	event.CompletedAt = &now
	s.submit(event)
	return nil
}

func (s *WorkflowService) SubmitFeedback(workflowId string, feedback model.Feedback) error {
	wf, err := s.openWorkflow(workflowId)
	if err != nil {
		return err
	}
	feedback.SubmittedAt = time.Now()
	event := model.NewEvent(workflowId, wf.VehicleId, model.EVENT_FEEDBACK_RECEIVED, engine.ACTOR_CUSTOMER)
	event.Feedback = &feedback
	s.submit(event)
	return nil
}

func (s *WorkflowService) Cancel(workflowId string, reason string) error {
	wf, err := s.openWorkflow(workflowId)
	if err != nil {
		return err
	}
	logger.Info("cancellation requested", zap.String("workflowId", workflowId), zap.String("reason", reason))
	event := model.NewEvent(workflowId, wf.VehicleId, model.EVENT_CANCEL, engine.ACTOR_CUSTOMER)
	event.Reason = reason
	s.submit(event)
	return nil
}

func (s *WorkflowService) openWorkflow(workflowId string) (*model.Workflow, error) {
	wf, err := s.storage.Get(workflowId)
	if err != nil {
		return nil, err
	}
	if wf.State.Terminal() {
		return nil, model.TerminalWorkflowError{WorkflowId: workflowId, State: wf.State}
	}
	return wf, nil
}

func statusOf(wf *model.Workflow) *Status {
	return &Status{
		WorkflowId:       wf.WorkflowId,
		VehicleId:        wf.VehicleId,
		State:            wf.State,
		Severity:         wf.Severity,
		SlaDeadline:      wf.SlaDeadline,
		SlaRemaining:     sla.Remaining(wf.SlaDeadline, time.Now()).String(),
		Diagnosis:        wf.Diagnosis,
		AppointmentId:    wf.AppointmentId,
		ContactAttempts:  wf.ContactAttempts,
		RetryCount:       wf.RetryCount,
		EscalationReason: wf.EscalationReason,
		Feedback:         wf.Feedback,
		History:          wf.History,
	}
}
