package model

import (
	"time"
)

type WorkflowState string

const CREATED WorkflowState = "CREATED"
const DIAGNOSING WorkflowState = "DIAGNOSING"
const DIAGNOSED WorkflowState = "DIAGNOSED"
const FINDING_SLOTS WorkflowState = "FINDING_SLOTS"
const CONTACTING_CUSTOMER WorkflowState = "CONTACTING_CUSTOMER"
const AWAITING_CUSTOMER_RESPONSE WorkflowState = "AWAITING_CUSTOMER_RESPONSE"
const CONFIRMING_APPOINTMENT WorkflowState = "CONFIRMING_APPOINTMENT"
const SCHEDULED WorkflowState = "SCHEDULED"
const AWAITING_SERVICE WorkflowState = "AWAITING_SERVICE"
const SERVICE_COMPLETED WorkflowState = "SERVICE_COMPLETED"
const COLLECTING_FEEDBACK WorkflowState = "COLLECTING_FEEDBACK"
const ARCHIVED WorkflowState = "ARCHIVED"
const ESCALATED WorkflowState = "ESCALATED"
const SLA_BREACHED WorkflowState = "SLA_BREACHED"
const CANCELLED WorkflowState = "CANCELLED"

func (s WorkflowState) Terminal() bool {
	switch s {
	case ARCHIVED, ESCALATED, SLA_BREACHED, CANCELLED:
		return true
	}
	return false
}

// Scheduled reports whether the workflow has progressed at least to a
// confirmed appointment. States at or past SCHEDULED are exempt from the
// SLA breach check.
func (s WorkflowState) Scheduled() bool {
	switch s {
	case SCHEDULED, AWAITING_SERVICE, SERVICE_COMPLETED, COLLECTING_FEEDBACK, ARCHIVED:
		return true
	}
	return false
}

// Step identifies a retryable orchestration step for retry accounting.
type Step string

const STEP_DIAGNOSIS Step = "diagnosis"
const STEP_SLOT_SEARCH Step = "slot_search"
const STEP_CONTACT Step = "contact"
const STEP_BOOKING Step = "booking"
const STEP_FEEDBACK Step = "feedback"

type Diagnosis struct {
	Component           string   `json:"component"`
	FailureMode         string   `json:"failureMode"`
	RepairActions       []string `json:"repairActions"`
	EstimatedCost       float64  `json:"estimatedCost"`
	EstimatedDowntimeHr float64  `json:"estimatedDowntimeHours"`
	Urgency             string   `json:"urgency"`
}

type Slot struct {
	SlotId        string    `json:"slotId"`
	ServiceCenter string    `json:"serviceCenter"`
	StartTime     time.Time `json:"startTime"`
	EndTime       time.Time `json:"endTime"`
}

type Intent string

const INTENT_ACCEPT Intent = "accept"
const INTENT_DECLINE Intent = "decline"
const INTENT_RESCHEDULE Intent = "reschedule"
const INTENT_NO_RESPONSE Intent = "no_response"

type EngagementOutcome struct {
	Intent       Intent `json:"intent"`
	SelectedSlot string `json:"selectedSlot,omitempty"`
	Transcript   string `json:"transcript,omitempty"`
}

type Feedback struct {
	Rating         int       `json:"rating"`
	IssueResolved  bool      `json:"issueResolved"`
	Comments       string    `json:"comments,omitempty"`
	AccuracyLabel  string    `json:"accuracyLabel"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// HistoryEntry is one immutable record in a workflow's audit trail. The
// EventId of the orchestration event that caused it makes duplicate
// delivery detectable.
type HistoryEntry struct {
	EventId   string    `json:"eventId"`
	Timestamp time.Time `json:"timestamp"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Outcome   string    `json:"outcome"`
}

// Workflow tracks one alert from creation to archival. It is mutated only
// by the orchestration engine, on a single dispatcher partition at a time.
type Workflow struct {
	WorkflowId        string             `json:"workflowId"`
	VehicleId         string             `json:"vehicleId"`
	Vin               string             `json:"vin"`
	CustomerId        string             `json:"customerId"`
	Severity          Severity           `json:"severity"`
	Alert             Alert              `json:"alert"`
	CreatedAt         time.Time          `json:"createdAt"`
	SlaDeadline       time.Time          `json:"slaDeadline"`
	State             WorkflowState      `json:"state"`
	Diagnosis         *Diagnosis         `json:"diagnosis,omitempty"`
	CandidateSlots    []Slot             `json:"candidateSlots,omitempty"`
	AppointmentId     string             `json:"appointmentId,omitempty"`
	EngagementOutcome *EngagementOutcome `json:"engagementOutcome,omitempty"`
	Feedback          *Feedback          `json:"feedback,omitempty"`
	History           []HistoryEntry     `json:"history"`
	RetryCount        map[Step]int       `json:"retryCount"`
	ContactAttempts   int                `json:"contactAttempts"`
	EscalationReason  string             `json:"escalationReason,omitempty"`
	ArchivedAt        *time.Time         `json:"archivedAt,omitempty"`
}

// Seen reports whether the event id has already been applied to this
// workflow. History is the sole source of truth for duplicate detection.
func (w *Workflow) Seen(eventId string) bool {
	for i := range w.History {
		if w.History[i].EventId == eventId {
			return true
		}
	}
	return false
}

func (w *Workflow) SetRetries(step Step, n int) {
	if w.RetryCount == nil {
		w.RetryCount = make(map[Step]int)
	}
	w.RetryCount[step] = n
}

func (w *Workflow) Retries(step Step) int {
	if w.RetryCount == nil {
		return 0
	}
	return w.RetryCount[step]
}
