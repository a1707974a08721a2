// Package scheduler holds the service-center slot catalog. The catalog is
// the one resource concurrent workflows contend over, so booking is
// compare-and-swap: availability is re-validated at commit time under the
// catalog lock and a taken slot yields a conflict, never a double booking.
package scheduler

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/collaborator"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/logger"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/model"
	"go.uber.org/zap"
)

const maxCandidates = 5

type slotRecord struct {
	slot     model.Slot
	bookedBy string
}

type Catalog struct {
	mu           sync.Mutex
	slots        map[string]*slotRecord
	appointments map[string]string
}

var _ collaborator.SchedulingService = new(Catalog)

func NewCatalog() *Catalog {
	return &Catalog{
		slots:        make(map[string]*slotRecord),
		appointments: make(map[string]string),
	}
}

func (c *Catalog) AddSlot(slot model.Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(slot.SlotId) == 0 {
		slot.SlotId = uuid.New().String()
	}
	c.slots[slot.SlotId] = &slotRecord{slot: slot}
}

// Seed fills the catalog with slotsPerDay evenly spaced slots per center
// per day between from and until, starting each day at 09:00.
func (c *Catalog) Seed(centers []string, from time.Time, until time.Time, duration time.Duration, slotsPerDay int) {
	for day := from.Truncate(24 * time.Hour); day.Before(until); day = day.Add(24 * time.Hour) {
		for _, center := range centers {
			start := day.Add(9 * time.Hour)
			for i := 0; i < slotsPerDay; i++ {
				c.AddSlot(model.Slot{
					ServiceCenter: center,
					StartTime:     start,
					EndTime:       start.Add(duration),
				})
				start = start.Add(duration)
			}
		}
	}
}

func (c *Catalog) FindSlots(ctx context.Context, req collaborator.SlotSearchRequest) ([]model.Slot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	excluded := make(map[string]bool, len(req.Exclude))
	for _, id := range req.Exclude {
		excluded[id] = true
	}
	var out []model.Slot
	for _, rec := range c.slots {
		if len(rec.bookedBy) != 0 || excluded[rec.slot.SlotId] {
			continue
		}
		if len(req.ServiceCenter) != 0 && rec.slot.ServiceCenter != req.ServiceCenter {
			continue
		}
		if rec.slot.StartTime.Before(req.WindowStart) || rec.slot.EndTime.After(req.WindowEnd) {
			continue
		}
		out = append(out, rec.slot)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	if len(out) > maxCandidates {
		out = out[:maxCandidates]
	}
	return out, nil
}

func (c *Catalog) Book(ctx context.Context, customerId string, slotId string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.slots[slotId]
	if !ok {
		return "", collaborator.Permanent(fmt.Errorf("slot %s does not exist", slotId))
	}
	if len(rec.bookedBy) != 0 {
		return "", collaborator.Conflict(fmt.Errorf("slot %s already booked", slotId))
	}
	rec.bookedBy = customerId
	appointmentId := uuid.New().String()
	c.appointments[appointmentId] = slotId
	logger.Info("slot booked", zap.String("slotId", slotId), zap.String("appointmentId", appointmentId), zap.String("customerId", customerId))
	return appointmentId, nil
}

func (c *Catalog) Cancel(ctx context.Context, appointmentId string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	slotId, ok := c.appointments[appointmentId]
	if !ok {
		return collaborator.Permanent(fmt.Errorf("appointment %s does not exist", appointmentId))
	}
	delete(c.appointments, appointmentId)
	if rec, ok := c.slots[slotId]; ok {
		rec.bookedBy = ""
	}
	logger.Info("appointment cancelled", zap.String("appointmentId", appointmentId), zap.String("slotId", slotId))
	return nil
}

// Slot returns a copy of the slot record by id for status reads.
func (c *Catalog) Slot(slotId string) (model.Slot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	rec, ok := c.slots[slotId]
	if !ok {
		return model.Slot{}, false
	}
	return rec.slot, true
}
