package memory

import (
	"sync"
	"time"

	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/persistence"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/util"
)

var _ persistence.Storage = new(inMemStorage)

// inMemStorage keeps workflows as encoded records guarded by one mutex.
// Records are copied through the codec on the way in and out so callers
// never share workflow memory with the store.
type inMemStorage struct {
	mu             sync.RWMutex
	workflows      map[string][]byte
	openByVehicle  map[string]string
	encoderDecoder util.EncoderDecoder[model.Workflow]
}

func NewStorage() *inMemStorage {
	return &inMemStorage{
		workflows:      make(map[string][]byte),
		openByVehicle:  make(map[string]string),
		encoderDecoder: util.NewJsonEncoderDecoder[model.Workflow](),
	}
}

func (s *inMemStorage) Create(wf *model.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.openByVehicle[wf.VehicleId]; ok {
		return model.DuplicateAlertError{VehicleId: wf.VehicleId, WorkflowId: existing}
	}
	data, err := s.encoderDecoder.Encode(*wf)
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	s.workflows[wf.WorkflowId] = data
	s.openByVehicle[wf.VehicleId] = wf.WorkflowId
	return nil
}

func (s *inMemStorage) Save(wf *model.Workflow) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.workflows[wf.WorkflowId]; !ok {
		return model.UnknownWorkflowError{WorkflowId: wf.WorkflowId}
	}
	data, err := s.encoderDecoder.Encode(*wf)
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	s.workflows[wf.WorkflowId] = data
	if wf.State.Terminal() {
		if s.openByVehicle[wf.VehicleId] == wf.WorkflowId {
			delete(s.openByVehicle, wf.VehicleId)
		}
	}
	return nil
}

func (s *inMemStorage) Get(workflowId string) (*model.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.workflows[workflowId]
	if !ok {
		return nil, model.UnknownWorkflowError{WorkflowId: workflowId}
	}
	return s.encoderDecoder.Decode(data)
}

func (s *inMemStorage) OpenForVehicle(vehicleId string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.openByVehicle[vehicleId]
	return id, ok, nil
}

func (s *inMemStorage) ListOpen() ([]*model.Workflow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*model.Workflow
	for _, id := range s.openByVehicle {
		data, ok := s.workflows[id]
		if !ok {
			continue
		}
		wf, err := s.encoderDecoder.Decode(data)
		if err != nil {
			return nil, persistence.StorageLayerError{Message: err.Error()}
		}
		out = append(out, wf)
	}
	return out, nil
}

func (s *inMemStorage) ListOverdue(now time.Time) ([]*model.Workflow, error) {
	open, err := s.ListOpen()
	if err != nil {
		return nil, err
	}
	var out []*model.Workflow
	for _, wf := range open {
		if persistence.Overdue(wf, now) {
			out = append(out, wf)
		}
	}
	return out, nil
}
