package engine

import (
	"context"

	"github.com/google/uuid"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/audit"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/collaborator"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/sla"
	"go.uber.org/zap"
)

// Collaborator calls run off the partition goroutine so one workflow
// waiting on a slow dependency never stalls its partition. Results come
// back as ordinary events; if the workflow turned terminal meanwhile, the
// terminal guard in HandleEvent discards them.

func (e *Engine) runDiagnosis(wf *model.Workflow) {
	alert := wf.Alert
	workflowId, vehicleId := wf.WorkflowId, wf.VehicleId
	go func() {
		diagnosis, retries, err := collaborator.Call(e.diagAdapter, context.Background(), func(ctx context.Context) (*model.Diagnosis, error) {
			return e.diagnosis.Diagnose(ctx, alert)
		})
		if err != nil {
			logger.Error("diagnosis failed", zap.String("workflowId", workflowId), zap.Int("retries", retries), zap.Error(err))
			failed := model.NewEvent(workflowId, vehicleId, model.EVENT_DIAGNOSIS_FAILED, e.diagAdapter.Name())
			failed.Reason = err.Error()
			failed.Retries = retries
			e.submit(failed)
			return
		}
		completed := model.NewEvent(workflowId, vehicleId, model.EVENT_DIAGNOSIS_COMPLETED, e.diagAdapter.Name())
		completed.Diagnosis = diagnosis
		completed.Retries = retries
		e.submit(completed)
	}()
}

func (e *Engine) runSlotSearch(wf *model.Workflow) {
	req := collaborator.SlotSearchRequest{
		WindowStart: e.clock(),
		Duration:    e.cfg.Scheduling.ServiceDuration,
	}
	// search window never extends past the sla deadline
	windowEnd := e.clock().Add(e.cfg.Scheduling.MaxLookahead)
	if wf.SlaDeadline.Before(windowEnd) {
		windowEnd = wf.SlaDeadline
	}
	req.WindowEnd = windowEnd
	if outcome := wf.EngagementOutcome; outcome != nil {
		switch outcome.Intent {
		case model.INTENT_RESCHEDULE:
			for _, slot := range wf.CandidateSlots {
				req.Exclude = append(req.Exclude, slot.SlotId)
			}
		case model.INTENT_ACCEPT:
			// booking conflict loop: drop only the slot that was taken
			req.Exclude = append(req.Exclude, outcome.SelectedSlot)
		}
	}
	workflowId, vehicleId := wf.WorkflowId, wf.VehicleId
	go func() {
		slots, retries, err := collaborator.Call(e.slotAdapter, context.Background(), func(ctx context.Context) ([]model.Slot, error) {
			return e.scheduling.FindSlots(ctx, req)
		})
		if err != nil || len(slots) == 0 {
			if err != nil {
				logger.Error("slot search failed", zap.String("workflowId", workflowId), zap.Error(err))
			}
			exhausted := model.NewEvent(workflowId, vehicleId, model.EVENT_SLOTS_EXHAUSTED, e.slotAdapter.Name())
			if err != nil {
				exhausted.Reason = err.Error()
			}
			exhausted.Retries = retries
			e.submit(exhausted)
			return
		}
		found := model.NewEvent(workflowId, vehicleId, model.EVENT_SLOTS_FOUND, e.slotAdapter.Name())
		found.Slots = slots
		found.Retries = retries
		e.submit(found)
	}()
}

func (e *Engine) runContact(wf *model.Workflow) {
	req := collaborator.EngagementRequest{
		WorkflowId:     wf.WorkflowId,
		CustomerId:     wf.CustomerId,
		VehicleId:      wf.VehicleId,
		Vin:            wf.Vin,
		CandidateSlots: wf.CandidateSlots,
		Attempt:        wf.ContactAttempts + 1,
	}
	if wf.Diagnosis != nil {
		req.Diagnosis = *wf.Diagnosis
	}
	workflowId, vehicleId := wf.WorkflowId, wf.VehicleId
	go func() {
		_, retries, err := collaborator.Call(e.contactAdapter, context.Background(), func(ctx context.Context) (struct{}, error) {
			return struct{}{}, e.engagement.Contact(ctx, req)
		})
		if err != nil {
			logger.Error("customer contact failed", zap.String("workflowId", workflowId), zap.Error(err))
			failed := model.NewEvent(workflowId, vehicleId, model.EVENT_CONTACT_FAILED, e.contactAdapter.Name())
			failed.Reason = err.Error()
			failed.Retries = retries
			e.submit(failed)
			return
		}
		initiated := model.NewEvent(workflowId, vehicleId, model.EVENT_CONTACT_INITIATED, e.contactAdapter.Name())
		initiated.Retries = retries
		e.submit(initiated)
	}()
}

func (e *Engine) runBooking(wf *model.Workflow) {
	outcome := wf.EngagementOutcome
	if outcome == nil || len(outcome.SelectedSlot) == 0 {
		logger.Error("booking requested without a selected slot", zap.String("workflowId", wf.WorkflowId))
		failed := model.NewEvent(wf.WorkflowId, wf.VehicleId, model.EVENT_BOOKING_FAILED, e.bookAdapter.Name())
		failed.Reason = "no slot selected"
		e.submit(failed)
		return
	}
	slotId := outcome.SelectedSlot
	customerId := wf.CustomerId
	workflowId, vehicleId := wf.WorkflowId, wf.VehicleId
	go func() {
		appointmentId, retries, err := collaborator.Call(e.bookAdapter, context.Background(), func(ctx context.Context) (string, error) {
			return e.scheduling.Book(ctx, customerId, slotId)
		})
		if err != nil {
			if collaborator.Classify(err) == collaborator.CONFLICT {
				logger.Info("booking conflict, re-planning", zap.String("workflowId", workflowId), zap.String("slotId", slotId))
				conflict := model.NewEvent(workflowId, vehicleId, model.EVENT_BOOKING_CONFLICT, e.bookAdapter.Name())
				conflict.Reason = err.Error()
				e.submit(conflict)
				return
			}
			logger.Error("booking failed", zap.String("workflowId", workflowId), zap.Error(err))
			failed := model.NewEvent(workflowId, vehicleId, model.EVENT_BOOKING_FAILED, e.bookAdapter.Name())
			failed.Reason = err.Error()
			failed.Retries = retries
			e.submit(failed)
			return
		}
		confirmed := model.NewEvent(workflowId, vehicleId, model.EVENT_BOOKING_CONFIRMED, e.bookAdapter.Name())
		confirmed.Appointment = appointmentId
		confirmed.Retries = retries
		e.submit(confirmed)
	}()
}

func (e *Engine) runSurvey(wf *model.Workflow) {
	req := collaborator.SurveyRequest{
		WorkflowId: wf.WorkflowId,
		CustomerId: wf.CustomerId,
	}
	if wf.Diagnosis != nil {
		req.Diagnosis = *wf.Diagnosis
	}
	go func() {
		_, _, err := collaborator.Call(e.surveyAdapter, context.Background(), func(ctx context.Context) (struct{}, error) {
			return struct{}{}, e.feedback.StartSurvey(ctx, req)
		})
		if err != nil {
			// feedback is best effort; the window timer archives regardless
			logger.Warn("survey dispatch failed", zap.String("workflowId", req.WorkflowId), zap.Error(err))
		}
	}()
}

// emitRelabel publishes the accuracy-labelled record the retraining
// pipeline consumes, derived from the completed survey.
func (e *Engine) emitRelabel(wf *model.Workflow) {
	if wf.Feedback == nil || wf.Diagnosis == nil {
		return
	}
	now := e.clock()
	err := e.sink.Record(audit.Event{
		EventId:    uuid.New().String(),
		WorkflowId: wf.WorkflowId,
		Actor:      ACTOR_ORCHESTRATOR,
		Action:     "feedback.relabel",
		Outcome:    wf.Feedback.AccuracyLabel,
		Timestamp:  now,
		Details: map[string]any{
			"vehicleId":          wf.VehicleId,
			"predictedComponent": wf.Alert.PredictedComponent,
			"failureProbability": wf.Alert.FailureProbability,
			"diagnosedComponent": wf.Diagnosis.Component,
			"issueResolved":      wf.Feedback.IssueResolved,
			"rating":             wf.Feedback.Rating,
			"elapsed":            now.Sub(wf.CreatedAt).String(),
			"slaRemaining":       sla.Remaining(wf.SlaDeadline, now).String(),
		},
	})
	if err != nil {
		logger.Error("error emitting relabel record", zap.String("workflowId", wf.WorkflowId), zap.Error(err))
	}
}

func (e *Engine) releaseAppointment(wf *model.Workflow, appointmentId string) {
	workflowId := wf.WorkflowId
	go func() {
		if err := e.scheduling.Cancel(context.Background(), appointmentId); err != nil {
			logger.Error("error releasing appointment", zap.String("workflowId", workflowId), zap.String("appointmentId", appointmentId), zap.Error(err))
		}
	}()
}
