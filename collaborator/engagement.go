package collaborator

import (
	"context"
	"fmt"
	"strings"
	"unicode"

	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/util"
	"go.uber.org/zap"
)

const greetingTemplate = "Hello, our monitoring predicts your {$.component} may fail soon " +
	"({$.failureMode}). A repair is estimated at ${$.estimatedCost} with about " +
	"{$.estimatedDowntimeHours}h of downtime. Can we book you a service appointment?"

// templateEngagement is the in-process reference engagement channel: it
// renders the outreach script from the diagnosis and hands the contact to
// a transport function. The customer's intent comes back later through the
// inbound response surface, never through this call.
type templateEngagement struct {
	deliver func(req EngagementRequest, message string) error
}

var _ EngagementService = new(templateEngagement)

// NewTemplateEngagement builds the reference engagement service. deliver
// abstracts the actual channel (voice, SMS); nil falls back to logging the
// rendered message.
func NewTemplateEngagement(deliver func(req EngagementRequest, message string) error) *templateEngagement {
	if deliver == nil {
		deliver = func(req EngagementRequest, message string) error {
			logger.Info("customer contact initiated",
				zap.String("workflowId", req.WorkflowId),
				zap.String("customerId", req.CustomerId),
				zap.Int("attempt", req.Attempt),
				zap.String("message", message))
			return nil
		}
	}
	return &templateEngagement{deliver: deliver}
}

func (e *templateEngagement) Contact(ctx context.Context, req EngagementRequest) error {
	if len(req.CandidateSlots) == 0 {
		return Permanent(fmt.Errorf("no candidate slots to offer customer %s", req.CustomerId))
	}
	data := map[string]any{
		"component":              req.Diagnosis.Component,
		"failureMode":            req.Diagnosis.FailureMode,
		"estimatedCost":          fmt.Sprintf("%.0f", req.Diagnosis.EstimatedCost),
		"estimatedDowntimeHours": req.Diagnosis.EstimatedDowntimeHr,
	}
	message := util.ResolveTemplate(greetingTemplate, data)
	for i, slot := range req.CandidateSlots {
		message += fmt.Sprintf(" Option %d: %s at %s.", i+1, slot.StartTime.Format("Mon Jan 2 15:04"), slot.ServiceCenter)
	}
	if err := e.deliver(req, message); err != nil {
		return Transient(err)
	}
	return nil
}

// ClassifyIntent maps a raw customer reply to the closed intent set. The
// real classifier is an opaque external capability; this keyword fallback
// keeps the reference deployment self contained.
func ClassifyIntent(reply string) model.Intent {
	lower := strings.ToLower(reply)
	words := strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	has := func(candidates ...string) bool {
		for _, w := range words {
			for _, c := range candidates {
				if w == c {
					return true
				}
			}
		}
		return false
	}
	switch {
	case has("later", "another", "reschedule", "different"):
		return model.INTENT_RESCHEDULE
	case has("no", "decline", "cancel") || strings.Contains(lower, "not interested"):
		return model.INTENT_DECLINE
	case has("yes", "ok", "okay", "sure", "book", "accept", "confirm"):
		return model.INTENT_ACCEPT
	}
	return model.INTENT_NO_RESPONSE
}
