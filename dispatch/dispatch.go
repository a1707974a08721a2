// Package dispatch fans workflow events out to a bounded pool of
// partition workers. A workflow's events always land on the same
// partition, which gives strict per-workflow ordering without any global
// lock; different workflows only share a partition's queue.
package dispatch

import (
	"fmt"
	"sync"

	"github.com/buraksezer/consistent"
	"github.com/spaolacci/murmur3"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/engine"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/util"
	"go.uber.org/zap"
)

type hasher struct{}

func (h hasher) Sum64(data []byte) uint64 {
	return murmur3.Sum64(data)
}

type partition struct {
	name   string
	worker *util.Worker
}

func (p partition) String() string {
	return p.name
}

type Dispatcher struct {
	engine     *engine.Engine
	ring       *consistent.Consistent
	partitions map[string]*partition
	wg         *sync.WaitGroup
}

func NewDispatcher(eng *engine.Engine, partitionCount int, capacity int, wg *sync.WaitGroup) *Dispatcher {
	cfg := consistent.Config{
		PartitionCount:    partitionCount,
		ReplicationFactor: 20,
		Load:              1.25,
		Hasher:            hasher{},
	}
	d := &Dispatcher{
		engine:     eng,
		ring:       consistent.New(nil, cfg),
		partitions: make(map[string]*partition),
		wg:         wg,
	}
	for i := 0; i < partitionCount; i++ {
		p := &partition{name: fmt.Sprintf("partition-%d", i)}
		p.worker = util.NewWorker(p.name, wg, d.handle, capacity)
		d.partitions[p.name] = p
		d.ring.Add(p)
	}
	eng.SetSubmitter(d.Submit)
	return d
}

func (d *Dispatcher) handle(task util.Task) error {
	event, ok := task.(model.Event)
	if !ok {
		return fmt.Errorf("unexpected task type %T", task)
	}
	err := d.engine.HandleEvent(event)
	if err != nil {
		// late results against terminal workflows are discarded by design
		if _, terminal := err.(model.TerminalWorkflowError); terminal {
			return nil
		}
		return err
	}
	return nil
}

// Submit routes an event to its workflow's partition. Routing hashes the
// vehicle id so duplicate alerts and their workflow share a partition.
func (d *Dispatcher) Submit(event model.Event) {
	key := event.VehicleId
	if len(key) == 0 {
		key = event.WorkflowId
	}
	member := d.ring.LocateKey([]byte(key))
	p := d.partitions[member.String()]
	p.worker.Sender() <- util.Task(event)
}

func (d *Dispatcher) Start() {
	for _, p := range d.partitions {
		p.worker.Start()
	}
	logger.Info("dispatcher started", zap.Int("partitions", len(d.partitions)))
}

func (d *Dispatcher) Stop() {
	for _, p := range d.partitions {
		p.worker.Stop()
	}
}
