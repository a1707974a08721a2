package persistence

import (
	"fmt"
	"time"

	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
)

type StorageLayerError struct {
	Message string
}

func (e StorageLayerError) Error() string {
	return fmt.Sprintf("storage layer error %s", e.Message)
}

// Storage persists workflow records and the open-workflow-per-vehicle
// index used for alert dedup. Implementations must make Create atomic with
// respect to the vehicle index: at most one open workflow per vehicle.
type Storage interface {
	// Create persists a new workflow and claims the vehicle index entry.
	// Returns model.DuplicateAlertError carrying the existing workflow id
	// when the vehicle already has an open workflow.
	Create(wf *model.Workflow) error

	// Save overwrites an existing workflow record. Terminal workflows
	// release the vehicle index entry and leave the archive.
	Save(wf *model.Workflow) error

	Get(workflowId string) (*model.Workflow, error)

	// OpenForVehicle returns the open workflow id for a vehicle, if any.
	OpenForVehicle(vehicleId string) (string, bool, error)

	ListOpen() ([]*model.Workflow, error)

	// ListOverdue returns open workflows whose deadline passed without
	// reaching SCHEDULED.
	ListOverdue(now time.Time) ([]*model.Workflow, error)
}

func Overdue(wf *model.Workflow, now time.Time) bool {
	if wf.State.Terminal() || wf.State.Scheduled() {
		return false
	}
	return now.After(wf.SlaDeadline)
}
