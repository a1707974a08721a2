package model

import (
	"fmt"
	"strings"
)

type Severity string

const SEVERITY_CRITICAL Severity = "critical"
const SEVERITY_HIGH Severity = "high"
const SEVERITY_MEDIUM Severity = "medium"
const SEVERITY_LOW Severity = "low"

func ToSeverity(s string) (Severity, error) {
	switch Severity(strings.ToLower(s)) {
	case SEVERITY_CRITICAL:
		return SEVERITY_CRITICAL, nil
	case SEVERITY_HIGH:
		return SEVERITY_HIGH, nil
	case SEVERITY_MEDIUM:
		return SEVERITY_MEDIUM, nil
	case SEVERITY_LOW:
		return SEVERITY_LOW, nil
	}
	return "", fmt.Errorf("invalid severity %s", s)
}

// Alert is a predicted failure event for a vehicle, produced by the
// upstream scoring pipeline.
type Alert struct {
	VehicleId              string   `json:"vehicleId"`
	Vin                    string   `json:"vin"`
	CustomerId             string   `json:"customerId"`
	PredictedComponent     string   `json:"predictedComponent"`
	FailureProbability     float64  `json:"failureProbability"`
	Severity               Severity `json:"severity"`
	EstimatedDaysToFailure float64  `json:"estimatedDaysToFailure"`
}

// MinActionableProbability is the floor below which an alert does not
// open a workflow.
const MinActionableProbability = 0.5

func (a Alert) Validate() error {
	if len(a.VehicleId) == 0 {
		return InvalidAlertError{Reason: "vehicleId is required"}
	}
	if len(a.Vin) == 0 {
		return InvalidAlertError{Reason: "vin is required"}
	}
	if len(a.CustomerId) == 0 {
		return InvalidAlertError{Reason: "customerId is required"}
	}
	if len(a.PredictedComponent) == 0 {
		return InvalidAlertError{Reason: "predictedComponent is required"}
	}
	if a.FailureProbability < 0 || a.FailureProbability > 1 {
		return InvalidAlertError{Reason: fmt.Sprintf("failureProbability %f out of range", a.FailureProbability)}
	}
	if _, err := ToSeverity(string(a.Severity)); err != nil {
		return InvalidAlertError{Reason: err.Error()}
	}
	if a.FailureProbability < MinActionableProbability {
		return InvalidAlertError{Reason: fmt.Sprintf("failureProbability %.2f below actionable threshold", a.FailureProbability)}
	}
	return nil
}
