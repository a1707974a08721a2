package collaborator

import (
	"context"
	"fmt"
	"strings"

	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
)

type componentProfile struct {
	failureMode   string
	repairActions []string
	baseCost      float64
	downtimeHours float64
}

// component knowledge used by the reference diagnosis implementation;
// the real capability sits behind DiagnosisService and can be swapped.
var componentProfiles = map[string]componentProfile{
	"thermostat": {
		failureMode:   "stuck closed, coolant flow restricted",
		repairActions: []string{"replace thermostat", "flush coolant"},
		baseCost:      450,
		downtimeHours: 3.5,
	},
	"battery": {
		failureMode:   "cell degradation, voltage sag under load",
		repairActions: []string{"replace battery", "test charging system"},
		baseCost:      280,
		downtimeHours: 1.5,
	},
	"brake_pads": {
		failureMode:   "friction material below service limit",
		repairActions: []string{"replace pads", "resurface rotors"},
		baseCost:      350,
		downtimeHours: 2.5,
	},
	"alternator": {
		failureMode:   "bearing wear, intermittent charging",
		repairActions: []string{"replace alternator", "inspect drive belt"},
		baseCost:      620,
		downtimeHours: 4,
	},
	"water_pump": {
		failureMode:   "seal leak, impeller erosion",
		repairActions: []string{"replace water pump", "replace coolant"},
		baseCost:      580,
		downtimeHours: 5,
	},
}

type ruleDiagnosisService struct{}

var _ DiagnosisService = new(ruleDiagnosisService)

func NewRuleDiagnosisService() *ruleDiagnosisService {
	return &ruleDiagnosisService{}
}

func (d *ruleDiagnosisService) Diagnose(ctx context.Context, alert model.Alert) (*model.Diagnosis, error) {
	profile, ok := componentProfiles[strings.ToLower(alert.PredictedComponent)]
	if !ok {
		return nil, Permanent(fmt.Errorf("no diagnosis profile for component %s", alert.PredictedComponent))
	}
	urgency := "routine"
	switch alert.Severity {
	case model.SEVERITY_CRITICAL:
		urgency = "immediate"
	case model.SEVERITY_HIGH:
		urgency = "urgent"
	}
	// cost scales with how certain the model is that the part is failing
	cost := profile.baseCost * (0.8 + 0.4*alert.FailureProbability)
	return &model.Diagnosis{
		Component:           alert.PredictedComponent,
		FailureMode:         profile.failureMode,
		RepairActions:       profile.repairActions,
		EstimatedCost:       cost,
		EstimatedDowntimeHr: profile.downtimeHours,
		Urgency:             urgency,
	}, nil
}
