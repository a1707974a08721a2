package rest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/persistence/memory"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/service"
)

func testServer(t *testing.T) (*Server, *[]model.Event) {
	t.Helper()
	storage := memory.NewStorage()
	now := time.Now()
	wf := &model.Workflow{
		WorkflowId:  "wf-1",
		VehicleId:   "veh-1",
		Vin:         "VIN-1",
		CustomerId:  "cust-1",
		Severity:    model.SEVERITY_HIGH,
		CreatedAt:   now,
		SlaDeadline: now.Add(24 * time.Hour),
		State:       model.AWAITING_CUSTOMER_RESPONSE,
		History:     []model.HistoryEntry{{Action: string(model.EVENT_WORKFLOW_CREATED)}},
	}
	require.NoError(t, storage.Create(wf))

	var submitted []model.Event
	svc := service.NewWorkflowService(nil, storage, func(event model.Event) {
		submitted = append(submitted, event)
	})
	server, err := NewServer(0, svc)
	require.NoError(t, err)
	return server, &submitted
}

func TestRestEndpoints(t *testing.T) {
	for scenario, fn := range map[string]func(t *testing.T, s *Server, submitted *[]model.Event){
		"get workflow status": func(t *testing.T, s *Server, submitted *[]model.Event) {
			rec := httptest.NewRecorder()
			s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflow/wf-1", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var status service.Status
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
			require.Equal(t, model.AWAITING_CUSTOMER_RESPONSE, status.State)
			require.Equal(t, "veh-1", status.VehicleId)
		},
		"unknown workflow is 404": func(t *testing.T, s *Server, submitted *[]model.Event) {
			rec := httptest.NewRecorder()
			s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflow/wf-404", nil))
			require.Equal(t, http.StatusNotFound, rec.Code)
		},
		"list open workflows": func(t *testing.T, s *Server, submitted *[]model.Event) {
			rec := httptest.NewRecorder()
			s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/workflows?state=AWAITING_CUSTOMER_RESPONSE", nil))
			require.Equal(t, http.StatusOK, rec.Code)

			var statuses []service.Status
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &statuses))
			require.Len(t, statuses, 1)
		},
		"customer response is submitted": func(t *testing.T, s *Server, submitted *[]model.Event) {
			rec := httptest.NewRecorder()
			body := strings.NewReader(`{"reply": "yes please", "selectedSlot": "slot-a"}`)
			s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workflow/wf-1/response", body))
			require.Equal(t, http.StatusOK, rec.Code)
			require.Len(t, *submitted, 1)
			require.Equal(t, model.EVENT_CUSTOMER_RESPONSE, (*submitted)[0].Type)
			require.Equal(t, model.INTENT_ACCEPT, (*submitted)[0].Outcome.Intent)
		},
		"malformed alert is 400": func(t *testing.T, s *Server, submitted *[]model.Event) {
			rec := httptest.NewRecorder()
			s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/alert", strings.NewReader("{not json")))
			require.Equal(t, http.StatusBadRequest, rec.Code)
		},
		"cancel is submitted": func(t *testing.T, s *Server, submitted *[]model.Event) {
			rec := httptest.NewRecorder()
			body := strings.NewReader(`{"reason": "vehicle sold"}`)
			s.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/workflow/wf-1/cancel", body))
			require.Equal(t, http.StatusOK, rec.Code)
			require.Len(t, *submitted, 1)
			require.Equal(t, model.EVENT_CANCEL, (*submitted)[0].Type)
			require.Equal(t, "vehicle sold", (*submitted)[0].Reason)
		},
	} {
		t.Run(scenario, func(t *testing.T) {
			server, submitted := testServer(t)
			fn(t, server, submitted)
		})
	}
}
