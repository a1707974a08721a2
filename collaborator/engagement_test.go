package collaborator

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
)

func TestClassifyIntent(t *testing.T) {
	for reply, want := range map[string]model.Intent{
		"Yes, book it please":          model.INTENT_ACCEPT,
		"ok sounds good":               model.INTENT_ACCEPT,
		"Sure, confirm option 1":       model.INTENT_ACCEPT,
		"No thanks":                    model.INTENT_DECLINE,
		"I'm not interested":           model.INTENT_DECLINE,
		"please cancel this":           model.INTENT_DECLINE,
		"can we do another day":        model.INTENT_RESCHEDULE,
		"maybe later":                  model.INTENT_RESCHEDULE,
		"I'd prefer a different time":  model.INTENT_RESCHEDULE,
		"no, reschedule me for friday": model.INTENT_RESCHEDULE,
		"":                             model.INTENT_NO_RESPONSE,
		"what is this about":           model.INTENT_NO_RESPONSE,
	} {
		t.Run(reply, func(t *testing.T) {
			require.Equal(t, want, ClassifyIntent(reply))
		})
	}
}

func TestContactRendersDiagnosis(t *testing.T) {
	var delivered string
	svc := NewTemplateEngagement(func(req EngagementRequest, message string) error {
		delivered = message
		return nil
	})

	start := time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC)
	err := svc.Contact(context.Background(), EngagementRequest{
		WorkflowId: "wf-1",
		CustomerId: "cust-1",
		Diagnosis: model.Diagnosis{
			Component:           "thermostat",
			FailureMode:         "stuck closed",
			EstimatedCost:       450,
			EstimatedDowntimeHr: 3.5,
		},
		CandidateSlots: []model.Slot{
			{SlotId: "s1", ServiceCenter: "center-north", StartTime: start, EndTime: start.Add(2 * time.Hour)},
		},
		Attempt: 1,
	})
	require.NoError(t, err)
	require.Contains(t, delivered, "thermostat")
	require.Contains(t, delivered, "stuck closed")
	require.Contains(t, delivered, "$450")
	require.Contains(t, delivered, "Option 1")
	require.Contains(t, delivered, "center-north")
}

func TestContactWithoutSlotsIsPermanent(t *testing.T) {
	svc := NewTemplateEngagement(nil)
	err := svc.Contact(context.Background(), EngagementRequest{CustomerId: "cust-1"})
	require.Error(t, err)
	require.Equal(t, PERMANENT, Classify(err))
}

func TestDeriveAccuracyLabel(t *testing.T) {
	require.Equal(t, LABEL_CONFIRMED, DeriveAccuracyLabel(model.Feedback{Rating: 5, IssueResolved: true}))
	require.Equal(t, LABEL_PARTIAL, DeriveAccuracyLabel(model.Feedback{Rating: 2, IssueResolved: true}))
	require.Equal(t, LABEL_FALSE_POSITIVE, DeriveAccuracyLabel(model.Feedback{Rating: 5, IssueResolved: false}))
}
