package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/persistence"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/persistence/memory"
)

type fixture struct {
	svc       *WorkflowService
	storage   persistence.Storage
	submitted []model.Event
}

func newFixture(t *testing.T) *fixture {
	f := &fixture{storage: memory.NewStorage()}
	f.svc = NewWorkflowService(nil, f.storage, func(event model.Event) {
		f.submitted = append(f.submitted, event)
	})
	return f
}

func seedWorkflow(t *testing.T, f *fixture, workflowId string, state model.WorkflowState) *model.Workflow {
	t.Helper()
	now := time.Now()
	wf := &model.Workflow{
		WorkflowId:  workflowId,
		VehicleId:   "veh-" + workflowId,
		Vin:         "VIN-1",
		CustomerId:  "cust-1",
		Severity:    model.SEVERITY_HIGH,
		CreatedAt:   now,
		SlaDeadline: now.Add(24 * time.Hour),
		State:       model.CREATED,
		History:     []model.HistoryEntry{{Action: string(model.EVENT_WORKFLOW_CREATED)}},
	}
	require.NoError(t, f.storage.Create(wf))
	if state != model.CREATED {
		wf.State = state
		require.NoError(t, f.storage.Save(wf))
	}
	return wf
}

func TestWorkflowService(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, f *fixture){
		"status exposes state and history": func(t *testing.T, f *fixture) {
			seedWorkflow(t, f, "wf-1", model.DIAGNOSING)
			status, err := f.svc.GetStatus("wf-1")
			require.NoError(t, err)
			require.Equal(t, model.DIAGNOSING, status.State)
			require.NotEmpty(t, status.History)
			require.NotEmpty(t, status.SlaRemaining)
		},
		"unknown workflow": func(t *testing.T, f *fixture) {
			_, err := f.svc.GetStatus("wf-404")
			_, ok := err.(model.UnknownWorkflowError)
			require.True(t, ok)
		},
		"free text reply is classified": func(t *testing.T, f *fixture) {
			seedWorkflow(t, f, "wf-1", model.AWAITING_CUSTOMER_RESPONSE)
			require.NoError(t, f.svc.CustomerResponse("wf-1", "", "yes please book it", "slot-a"))
			require.Len(t, f.submitted, 1)
			event := f.submitted[0]
			require.Equal(t, model.EVENT_CUSTOMER_RESPONSE, event.Type)
			require.Equal(t, model.INTENT_ACCEPT, event.Outcome.Intent)
			require.Equal(t, "slot-a", event.Outcome.SelectedSlot)
			require.Equal(t, "veh-wf-1", event.VehicleId)
		},
		"explicit intent wins over text": func(t *testing.T, f *fixture) {
			seedWorkflow(t, f, "wf-1", model.AWAITING_CUSTOMER_RESPONSE)
			require.NoError(t, f.svc.CustomerResponse("wf-1", model.INTENT_DECLINE, "yes", ""))
			require.Equal(t, model.INTENT_DECLINE, f.submitted[0].Outcome.Intent)
		},
		"terminal workflow rejects events": func(t *testing.T, f *fixture) {
			seedWorkflow(t, f, "wf-1", model.ARCHIVED)
			err := f.svc.Cancel("wf-1", "too late")
			_, ok := err.(model.TerminalWorkflowError)
			require.True(t, ok)
			require.Empty(t, f.submitted)
		},
		"feedback is stamped and submitted": func(t *testing.T, f *fixture) {
			seedWorkflow(t, f, "wf-1", model.COLLECTING_FEEDBACK)
			require.NoError(t, f.svc.SubmitFeedback("wf-1", model.Feedback{Rating: 4, IssueResolved: true}))
			require.Len(t, f.submitted, 1)
			require.Equal(t, model.EVENT_FEEDBACK_RECEIVED, f.submitted[0].Type)
			require.False(t, f.submitted[0].Feedback.SubmittedAt.IsZero())
		},
		"list open filters by state": func(t *testing.T, f *fixture) {
			seedWorkflow(t, f, "wf-1", model.DIAGNOSING)
			seedWorkflow(t, f, "wf-2", model.FINDING_SLOTS)

			all, err := f.svc.ListOpen("")
			require.NoError(t, err)
			require.Len(t, all, 2)

			finding, err := f.svc.ListOpen(model.FINDING_SLOTS)
			require.NoError(t, err)
			require.Len(t, finding, 1)
			require.Equal(t, "wf-2", finding[0].WorkflowId)
		},
		"list overdue": func(t *testing.T, f *fixture) {
			wf := seedWorkflow(t, f, "wf-1", model.DIAGNOSING)
			wf.SlaDeadline = time.Now().Add(-time.Hour)
			require.NoError(t, f.storage.Save(wf))
			seedWorkflow(t, f, "wf-2", model.DIAGNOSING)

			overdue, err := f.svc.ListOverdue()
			require.NoError(t, err)
			require.Len(t, overdue, 1)
			require.Equal(t, "wf-1", overdue[0].WorkflowId)
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, newFixture(t))
		})
	}
}
