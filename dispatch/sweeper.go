package dispatch

import (
	"sync"
	"time"

	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/engine"
	"github.com/venkatesh21bit/ProActive-Mobility-Intelligence-PMI-sub001/util"
)

// Sweeper periodically scans open workflows for missed deadlines and
// injects expiry events through the dispatcher. Timers cover the common
// case; the sweep catches workflows whose timer was lost to a restart.
type Sweeper struct {
	tw *util.TickWorker
}

func NewSweeper(eng *engine.Engine, interval time.Duration, wg *sync.WaitGroup) *Sweeper {
	return &Sweeper{
		tw: util.NewTickWorker("sla-sweeper", interval, eng.ExpireOverdue, wg),
	}
}

func (s *Sweeper) Start() {
	s.tw.Start()
}

func (s *Sweeper) Stop() {
	if s.tw.IsRunning() {
		s.tw.Stop()
	}
}
