package model

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const EVENT_WORKFLOW_CREATED EventType = "workflow.created"
const EVENT_FIND_SLOTS EventType = "slots.find"
const EVENT_AWAIT_SERVICE EventType = "service.await"
const EVENT_COLLECT_FEEDBACK EventType = "feedback.collect"
const EVENT_DIAGNOSIS_COMPLETED EventType = "diagnosis.completed"
const EVENT_DIAGNOSIS_FAILED EventType = "diagnosis.failed"
const EVENT_SLOTS_FOUND EventType = "slots.found"
const EVENT_SLOTS_EXHAUSTED EventType = "slots.exhausted"
const EVENT_CONTACT_INITIATED EventType = "contact.initiated"
const EVENT_CONTACT_FAILED EventType = "contact.failed"
const EVENT_CUSTOMER_RESPONSE EventType = "customer.response"
const EVENT_CONTACT_TIMEOUT EventType = "contact.timeout"
const EVENT_BOOKING_CONFIRMED EventType = "booking.confirmed"
const EVENT_BOOKING_CONFLICT EventType = "booking.conflict"
const EVENT_BOOKING_FAILED EventType = "booking.failed"
const EVENT_SERVICE_COMPLETED EventType = "service.completed"
const EVENT_FEEDBACK_RECEIVED EventType = "feedback.received"
const EVENT_FEEDBACK_TIMEOUT EventType = "feedback.timeout"
const EVENT_CANCEL EventType = "workflow.cancel"
const EVENT_SLA_EXPIRED EventType = "sla.expired"

// Event is one unit of work delivered to a workflow. Events for the same
// workflow are applied in arrival order on a single dispatcher partition;
// EventId makes at-least-once delivery idempotent.
type Event struct {
	EventId    string    `json:"eventId"`
	WorkflowId string    `json:"workflowId"`
	VehicleId  string    `json:"vehicleId"`
	Type       EventType `json:"type"`
	Actor      string    `json:"actor"`
	OccurredAt time.Time `json:"occurredAt"`

	Diagnosis   *Diagnosis         `json:"diagnosis,omitempty"`
	Slots       []Slot             `json:"slots,omitempty"`
	Outcome     *EngagementOutcome `json:"outcome,omitempty"`
	Appointment string             `json:"appointment,omitempty"`
	Feedback    *Feedback          `json:"feedback,omitempty"`
	CompletedAt *time.Time         `json:"completedAt,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	// Retries is how many retries the reporting collaborator call needed.
	Retries int `json:"retries,omitempty"`
	// Attempt stamps timer events with the contact attempt they guard, so
	// a timer firing after a loop-back is recognizably stale.
	Attempt int `json:"attempt,omitempty"`
}

func NewEvent(workflowId string, vehicleId string, eventType EventType, actor string) Event {
	return Event{
		EventId:    uuid.New().String(),
		WorkflowId: workflowId,
		VehicleId:  vehicleId,
		Type:       eventType,
		Actor:      actor,
		OccurredAt: time.Now(),
	}
}
