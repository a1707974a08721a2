// Package sla maps alert severity to the maximum allowed time from alert
// to confirmed appointment. It is pure: no state, no clock of its own.
package sla

import (
	"time"

	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
)

const criticalWindow = 2 * time.Hour
const highWindow = 24 * time.Hour
const routineWindow = 7 * 24 * time.Hour

func Window(severity model.Severity) time.Duration {
	switch severity {
	case model.SEVERITY_CRITICAL:
		return criticalWindow
	case model.SEVERITY_HIGH:
		return highWindow
	default:
		return routineWindow
	}
}

func DeadlineFor(severity model.Severity, createdAt time.Time) time.Time {
	return createdAt.Add(Window(severity))
}

func Remaining(deadline time.Time, now time.Time) time.Duration {
	return deadline.Sub(now)
}

// Breached reports whether the workflow missed its deadline. Workflows at
// or past SCHEDULED met the SLA; terminal workflows are out of scope.
func Breached(wf *model.Workflow, now time.Time) bool {
	if wf.State.Terminal() || wf.State.Scheduled() {
		return false
	}
	return now.After(wf.SlaDeadline)
}
