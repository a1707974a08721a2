package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
)

func testWorkflow(workflowId string, vehicleId string) *model.Workflow {
	now := time.Now()
	return &model.Workflow{
		WorkflowId:  workflowId,
		VehicleId:   vehicleId,
		Vin:         "VIN-" + vehicleId,
		CustomerId:  "cust-1",
		Severity:    model.SEVERITY_HIGH,
		CreatedAt:   now,
		SlaDeadline: now.Add(24 * time.Hour),
		State:       model.CREATED,
		RetryCount:  make(map[model.Step]int),
	}
}

func TestStorage(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, s *inMemStorage){
		"create then get":                     testCreateGet,
		"second open workflow is a duplicate": testDuplicate,
		"terminal save releases the vehicle":  testTerminalRelease,
		"callers never share memory":          testIsolation,
		"overdue listing":                     testOverdue,
	} {
		t.Run(scenario, func(t *testing.T) {
			fn(t, NewStorage())
		})
	}
}

func testCreateGet(t *testing.T, s *inMemStorage) {
	wf := testWorkflow("wf-1", "veh-1")
	require.NoError(t, s.Create(wf))

	got, err := s.Get("wf-1")
	require.NoError(t, err)
	require.Equal(t, "veh-1", got.VehicleId)

	_, err = s.Get("wf-404")
	_, ok := err.(model.UnknownWorkflowError)
	require.True(t, ok)

	id, open, err := s.OpenForVehicle("veh-1")
	require.NoError(t, err)
	require.True(t, open)
	require.Equal(t, "wf-1", id)
}

func testDuplicate(t *testing.T, s *inMemStorage) {
	require.NoError(t, s.Create(testWorkflow("wf-1", "veh-1")))

	err := s.Create(testWorkflow("wf-2", "veh-1"))
	require.Error(t, err)
	dup, ok := err.(model.DuplicateAlertError)
	require.True(t, ok)
	require.Equal(t, "wf-1", dup.WorkflowId)
}

func testTerminalRelease(t *testing.T, s *inMemStorage) {
	wf := testWorkflow("wf-1", "veh-1")
	require.NoError(t, s.Create(wf))

	wf.State = model.ARCHIVED
	require.NoError(t, s.Save(wf))

	_, open, err := s.OpenForVehicle("veh-1")
	require.NoError(t, err)
	require.False(t, open)

	// the archived record itself survives
	got, err := s.Get("wf-1")
	require.NoError(t, err)
	require.Equal(t, model.ARCHIVED, got.State)

	require.NoError(t, s.Create(testWorkflow("wf-2", "veh-1")))
}

func testIsolation(t *testing.T, s *inMemStorage) {
	wf := testWorkflow("wf-1", "veh-1")
	require.NoError(t, s.Create(wf))

	got, err := s.Get("wf-1")
	require.NoError(t, err)
	got.State = model.ESCALATED
	got.History = append(got.History, model.HistoryEntry{Action: "tampered"})

	fresh, err := s.Get("wf-1")
	require.NoError(t, err)
	require.Equal(t, model.CREATED, fresh.State)
	require.Empty(t, fresh.History)
}

func testOverdue(t *testing.T, s *inMemStorage) {
	now := time.Now()

	late := testWorkflow("wf-late", "veh-1")
	late.State = model.DIAGNOSING
	late.SlaDeadline = now.Add(-time.Hour)
	require.NoError(t, s.Create(late))

	onTime := testWorkflow("wf-ok", "veh-2")
	onTime.State = model.DIAGNOSING
	require.NoError(t, s.Create(onTime))

	scheduled := testWorkflow("wf-scheduled", "veh-3")
	scheduled.State = model.AWAITING_SERVICE
	scheduled.SlaDeadline = now.Add(-time.Hour)
	require.NoError(t, s.Create(scheduled))

	overdue, err := s.ListOverdue(now)
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	require.Equal(t, "wf-late", overdue[0].WorkflowId)
}
