// Package collaborator defines the boundary to the external capabilities
// the orchestrator drives: diagnosis, scheduling, customer engagement and
// feedback collection. Every outbound call goes through an Adapter that
// applies timeout, bounded retry and a circuit breaker.
package collaborator

import (
	"context"
	"time"

	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
)

// DiagnosisService maps alert features to a candidate component and
// failure mode with cost and downtime estimates.
type DiagnosisService interface {
	Diagnose(ctx context.Context, alert model.Alert) (*model.Diagnosis, error)
}

type SlotSearchRequest struct {
	ServiceCenter string        `json:"serviceCenter,omitempty"`
	WindowStart   time.Time     `json:"windowStart"`
	WindowEnd     time.Time     `json:"windowEnd"`
	Duration      time.Duration `json:"duration"`
	// Exclude lists slot ids the customer already turned down; reschedule
	// loops pass the previously offered candidates here.
	Exclude []string `json:"exclude,omitempty"`
}

// SchedulingService finds and books service-center time slots. Book is
// compare-and-swap: it re-validates availability at commit time and fails
// with a CONFLICT classified error when the slot was taken.
type SchedulingService interface {
	FindSlots(ctx context.Context, req SlotSearchRequest) ([]model.Slot, error)
	Book(ctx context.Context, customerId string, slotId string) (string, error)
	Cancel(ctx context.Context, appointmentId string) error
}

type EngagementRequest struct {
	WorkflowId     string
	CustomerId     string
	VehicleId      string
	Vin            string
	Diagnosis      model.Diagnosis
	CandidateSlots []model.Slot
	Attempt        int
}

// EngagementService initiates a contact conversation. The call returns
// once contact is under way; the customer's intent arrives later as an
// asynchronous event.
type EngagementService interface {
	Contact(ctx context.Context, req EngagementRequest) error
}

type SurveyRequest struct {
	WorkflowId string
	CustomerId string
	Diagnosis  model.Diagnosis
}

// FeedbackService starts the post-service survey. Answers arrive later as
// an asynchronous event; absence of answers inside the feedback window
// still archives the workflow.
type FeedbackService interface {
	StartSurvey(ctx context.Context, req SurveyRequest) error
}
