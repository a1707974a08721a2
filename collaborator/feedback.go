package collaborator

import (
	"context"

	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"go.uber.org/zap"
)

const LABEL_CONFIRMED = "confirmed_accurate"
const LABEL_PARTIAL = "partially_accurate"
const LABEL_FALSE_POSITIVE = "false_positive"

// surveyFeedback starts the post-service survey. Answers arrive through
// the inbound feedback surface; this side only dispatches the request.
type surveyFeedback struct {
	deliver func(req SurveyRequest) error
}

var _ FeedbackService = new(surveyFeedback)

func NewSurveyFeedback(deliver func(req SurveyRequest) error) *surveyFeedback {
	if deliver == nil {
		deliver = func(req SurveyRequest) error {
			logger.Info("survey dispatched",
				zap.String("workflowId", req.WorkflowId),
				zap.String("customerId", req.CustomerId),
				zap.String("component", req.Diagnosis.Component))
			return nil
		}
	}
	return &surveyFeedback{deliver: deliver}
}

func (f *surveyFeedback) StartSurvey(ctx context.Context, req SurveyRequest) error {
	if err := f.deliver(req); err != nil {
		return Transient(err)
	}
	return nil
}

// DeriveAccuracyLabel turns survey answers into the relabeling record the
// retraining pipeline consumes.
func DeriveAccuracyLabel(fb model.Feedback) string {
	switch {
	case fb.IssueResolved && fb.Rating >= 4:
		return LABEL_CONFIRMED
	case fb.IssueResolved:
		return LABEL_PARTIAL
	default:
		return LABEL_FALSE_POSITIVE
	}
}
