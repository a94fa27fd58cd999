package worker

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/osse101/NexusMissions_Go/internal/clock"
	"github.com/osse101/NexusMissions_Go/internal/logger"
	"github.com/osse101/NexusMissions_Go/internal/notify"
)

// Ticker advances every live mission countdown
type Ticker interface {
	TickAll(ctx context.Context) int
}

// MissionTickJob is the single heartbeat of the service: it ticks every
// cached engine and fires alerts that have come due. Overlapping runs
// are skipped.
type MissionTickJob struct {
	engines    Ticker
	dispatcher notify.Dispatcher
	clock      clock.Clock
	running    atomic.Bool
}

// NewMissionTickJob creates the tick job. dispatcher may be nil.
func NewMissionTickJob(engines Ticker, dispatcher notify.Dispatcher, clk clock.Clock) *MissionTickJob {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &MissionTickJob{
		engines:    engines,
		dispatcher: dispatcher,
		clock:      clk,
	}
}

// Process runs one tick
func (j *MissionTickJob) Process(ctx context.Context) error {
	if !j.running.CompareAndSwap(false, true) {
		logger.Debug(LogMsgTickSkipped)
		return nil
	}
	defer j.running.Store(false)

	start := time.Now()
	ready := j.engines.TickAll(ctx)

	fired := 0
	if j.dispatcher != nil {
		n, err := j.dispatcher.DispatchDue(ctx, j.clock.Now())
		if err != nil {
			return err
		}
		fired = n
	}

	if ready > 0 || fired > 0 {
		logger.FromContext(ctx).Debug(LogMsgTickCompleted,
			"ready", ready,
			"alerts_fired", fired,
			"duration", time.Since(start))
	}
	return nil
}
