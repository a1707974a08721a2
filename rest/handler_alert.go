package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"go.uber.org/zap"
)

func (s *Server) HandleAlert(w http.ResponseWriter, r *http.Request) {
	var alert model.Alert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed alert payload")
		return
	}
	defer r.Body.Close()
	workflowId, err := s.workflowService.CreateWorkflow(alert)
	if err != nil {
		var dup model.DuplicateAlertError
		if errors.As(err, &dup) {
			// same open workflow, surfaced so the caller can follow it
			respondWithJSON(w, http.StatusConflict, map[string]any{"workflowId": dup.WorkflowId, "error": dup.Error()})
			return
		}
		var invalid model.InvalidAlertError
		if errors.As(err, &invalid) {
			respondWithError(w, http.StatusBadRequest, invalid.Error())
			return
		}
		logger.Error("error creating workflow", zap.String("vehicleId", alert.VehicleId), zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error creating workflow")
		return
	}
	respondWithJSON(w, http.StatusCreated, map[string]any{"workflowId": workflowId})
}
