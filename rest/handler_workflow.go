package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"go.uber.org/zap"
)

func (s *Server) HandleGetWorkflow(w http.ResponseWriter, r *http.Request) {
	workflowId, ok := mux.Vars(r)["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	status, err := s.workflowService.GetStatus(workflowId)
	if err != nil {
		respondWorkflowError(w, workflowId, err, "error getting workflow")
		return
	}
	respondWithJSON(w, http.StatusOK, status)
}

func (s *Server) HandleListWorkflows(w http.ResponseWriter, r *http.Request) {
	state := model.WorkflowState(r.URL.Query().Get("state"))
	statuses, err := s.workflowService.ListOpen(state)
	if err != nil {
		logger.Error("error listing workflows", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing workflows")
		return
	}
	respondWithJSON(w, http.StatusOK, statuses)
}

func (s *Server) HandleListOverdue(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.workflowService.ListOverdue()
	if err != nil {
		logger.Error("error listing overdue workflows", zap.Error(err))
		respondWithError(w, http.StatusInternalServerError, "error listing overdue workflows")
		return
	}
	respondWithJSON(w, http.StatusOK, statuses)
}

type customerResponseRequest struct {
	Intent       model.Intent `json:"intent,omitempty"`
	Reply        string       `json:"reply,omitempty"`
	SelectedSlot string       `json:"selectedSlot,omitempty"`
}

func (s *Server) HandleCustomerResponse(w http.ResponseWriter, r *http.Request) {
	workflowId, ok := mux.Vars(r)["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var req customerResponseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed response payload")
		return
	}
	defer r.Body.Close()
	err := s.workflowService.CustomerResponse(workflowId, req.Intent, req.Reply, req.SelectedSlot)
	if err != nil {
		respondWorkflowError(w, workflowId, err, "error recording customer response")
		return
	}
	respondOKWithoutBody(w)
}

func (s *Server) HandleServiceComplete(w http.ResponseWriter, r *http.Request) {
	workflowId, ok := mux.Vars(r)["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	err := s.workflowService.CompleteService(workflowId)
	if err != nil {
		respondWorkflowError(w, workflowId, err, "error recording service completion")
		return
	}
	respondOKWithoutBody(w)
}

func (s *Server) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	workflowId, ok := mux.Vars(r)["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var feedback model.Feedback
	if err := json.NewDecoder(r.Body).Decode(&feedback); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed feedback payload")
		return
	}
	defer r.Body.Close()
	err := s.workflowService.SubmitFeedback(workflowId, feedback)
	if err != nil {
		respondWorkflowError(w, workflowId, err, "error recording feedback")
		return
	}
	respondOKWithoutBody(w)
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

func (s *Server) HandleCancel(w http.ResponseWriter, r *http.Request) {
	workflowId, ok := mux.Vars(r)["id"]
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed cancel payload")
		return
	}
	defer r.Body.Close()
	err := s.workflowService.Cancel(workflowId, req.Reason)
	if err != nil {
		respondWorkflowError(w, workflowId, err, "error cancelling workflow")
		return
	}
	respondOKWithoutBody(w)
}

func respondWorkflowError(w http.ResponseWriter, workflowId string, err error, message string) {
	var unknown model.UnknownWorkflowError
	if errors.As(err, &unknown) {
		respondWithError(w, http.StatusNotFound, unknown.Error())
		return
	}
	var terminal model.TerminalWorkflowError
	if errors.As(err, &terminal) {
		respondWithError(w, http.StatusConflict, terminal.Error())
		return
	}
	logger.Error(message, zap.String("workflowId", workflowId), zap.Error(err))
	respondWithError(w, http.StatusInternalServerError, message)
}
