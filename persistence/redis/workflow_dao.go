package redis

import (
	"context"
	"errors"
	"time"

	rd "github.com/go-redis/redis/v9"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/persistence"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/util"
)

const WORKFLOW_KEY string = "WORKFLOW"
const OPEN_VEHICLE_KEY string = "OPEN_VEHICLE"

var _ persistence.Storage = new(redisStorage)

type redisStorage struct {
	*baseDao
	encoderDecoder util.EncoderDecoder[model.Workflow]
}

func NewStorage(conf Config) *redisStorage {
	return &redisStorage{
		baseDao:        newBaseDao(conf),
		encoderDecoder: util.NewJsonEncoderDecoder[model.Workflow](),
	}
}

func (r *redisStorage) Create(wf *model.Workflow) error {
	ctx := context.Background()
	indexKey := r.getNamespaceKey(OPEN_VEHICLE_KEY, wf.VehicleId)
	// Claim the vehicle index first; the claim is what makes dedup atomic.
	claimed, err := r.redisClient.SetNX(ctx, indexKey, wf.WorkflowId, 0).Result()
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	if !claimed {
		existing, err := r.redisClient.Get(ctx, indexKey).Result()
		if err != nil {
			return persistence.StorageLayerError{Message: err.Error()}
		}
		return model.DuplicateAlertError{VehicleId: wf.VehicleId, WorkflowId: existing}
	}
	if err := r.write(ctx, wf); err != nil {
		return err
	}
	return nil
}

func (r *redisStorage) Save(wf *model.Workflow) error {
	ctx := context.Background()
	if err := r.write(ctx, wf); err != nil {
		return err
	}
	if wf.State.Terminal() {
		indexKey := r.getNamespaceKey(OPEN_VEHICLE_KEY, wf.VehicleId)
		current, err := r.redisClient.Get(ctx, indexKey).Result()
		if err != nil && !errors.Is(err, rd.Nil) {
			return persistence.StorageLayerError{Message: err.Error()}
		}
		if current == wf.WorkflowId {
			if err := r.redisClient.Del(ctx, indexKey).Err(); err != nil {
				return persistence.StorageLayerError{Message: err.Error()}
			}
		}
	}
	return nil
}

func (r *redisStorage) write(ctx context.Context, wf *model.Workflow) error {
	data, err := r.encoderDecoder.Encode(*wf)
	if err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	key := r.getNamespaceKey(WORKFLOW_KEY)
	if err := r.redisClient.HSet(ctx, key, []string{wf.WorkflowId, string(data)}).Err(); err != nil {
		return persistence.StorageLayerError{Message: err.Error()}
	}
	return nil
}

func (r *redisStorage) Get(workflowId string) (*model.Workflow, error) {
	ctx := context.Background()
	key := r.getNamespaceKey(WORKFLOW_KEY)
	data, err := r.redisClient.HGet(ctx, key, workflowId).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return nil, model.UnknownWorkflowError{WorkflowId: workflowId}
		}
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return r.encoderDecoder.Decode([]byte(data))
}

func (r *redisStorage) OpenForVehicle(vehicleId string) (string, bool, error) {
	ctx := context.Background()
	indexKey := r.getNamespaceKey(OPEN_VEHICLE_KEY, vehicleId)
	id, err := r.redisClient.Get(ctx, indexKey).Result()
	if err != nil {
		if errors.Is(err, rd.Nil) {
			return "", false, nil
		}
		return "", false, persistence.StorageLayerError{Message: err.Error()}
	}
	return id, true, nil
}

func (r *redisStorage) ListOpen() ([]*model.Workflow, error) {
	ctx := context.Background()
	pattern := r.getNamespaceKey(OPEN_VEHICLE_KEY, "*")
	var out []*model.Workflow
	iter := r.redisClient.Scan(ctx, 0, pattern, 0).Iterator()
	for iter.Next(ctx) {
		id, err := r.redisClient.Get(ctx, iter.Val()).Result()
		if err != nil {
			if errors.Is(err, rd.Nil) {
				continue
			}
			return nil, persistence.StorageLayerError{Message: err.Error()}
		}
		wf, err := r.Get(id)
		if err != nil {
			if _, ok := err.(model.UnknownWorkflowError); ok {
				continue
			}
			return nil, err
		}
		out = append(out, wf)
	}
	if err := iter.Err(); err != nil {
		return nil, persistence.StorageLayerError{Message: err.Error()}
	}
	return out, nil
}

func (r *redisStorage) ListOverdue(now time.Time) ([]*model.Workflow, error) {
	open, err := r.ListOpen()
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
