package dispatch

import (
	"time"

	"github.com/RussellLuo/timingwheel"
)

// TimerManager backs response-timeout, feedback-window and retry delays
// with a single timing wheel instead of one runtime timer per workflow.
type TimerManager struct {
	wheel *timingwheel.TimingWheel
}

func NewTimerManager() *TimerManager {
	return &TimerManager{
		wheel: timingwheel.NewTimingWheel(time.Second, 3600),
	}
}

func (tm *TimerManager) Start() {
	tm.wheel.Start()
}

func (tm *TimerManager) Stop() {
	tm.wheel.Stop()
}

func (tm *TimerManager) Schedule(delay time.Duration, fn func()) {
	if delay < time.Second {
		delay = time.Second
	}
	tm.wheel.AfterFunc(delay, fn)
}
