package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/NexusMissions_Go/internal/clock"
	"github.com/osse101/NexusMissions_Go/internal/event"
	"github.com/osse101/NexusMissions_Go/internal/notify"
)

type countingTicker struct {
	calls atomic.Int32
	ready int
	block chan struct{}
}

func (c *countingTicker) TickAll(context.Context) int {
	c.calls.Add(1)
	if c.block != nil {
		<-c.block
	}
	return c.ready
}

type failingDispatcher struct{}

func (failingDispatcher) DispatchDue(context.Context, time.Time) (int, error) {
	return 0, errors.New("redis down")
}

type nopPublisher struct {
	count atomic.Int32
}

func (p *nopPublisher) PublishWithRetry(context.Context, event.Event) {
	p.count.Add(1)
}

func TestMissionTickJob_TicksAndDispatches(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewSimulatedClock(now)

	pub := &nopPublisher{}
	store := notify.NewMemoryStore(pub)
	userID := uuid.New()
	require.NoError(t, store.ScheduleAlert(ctx, notify.Alert{Key: "mission-a", UserID: userID, FireAt: now.Add(time.Minute)}))
	require.NoError(t, store.ScheduleAlert(ctx, notify.Alert{Key: "mission-b", UserID: userID, FireAt: now.Add(time.Hour)}))

	engines := &countingTicker{ready: 1}
	job := NewMissionTickJob(engines, store, clk)

	require.NoError(t, job.Process(ctx))
	assert.Equal(t, int32(1), engines.calls.Load())
	assert.Equal(t, int32(0), pub.count.Load())

	clk.Advance(2 * time.Minute)
	require.NoError(t, job.Process(ctx))
	assert.Equal(t, int32(1), pub.count.Load())
	assert.Equal(t, 1, store.Pending())
}

func TestMissionTickJob_SkipsOverlappingRun(t *testing.T) {
	engines := &countingTicker{block: make(chan struct{})}
	job := NewMissionTickJob(engines, nil, nil)

	done := make(chan error, 1)
	go func() { done <- job.Process(context.Background()) }()
	require.Eventually(t, func() bool { return engines.calls.Load() == 1 }, time.Second, time.Millisecond)

	require.NoError(t, job.Process(context.Background()))
	assert.Equal(t, int32(1), engines.calls.Load())

	close(engines.block)
	require.NoError(t, <-done)
}

func TestMissionTickJob_DispatchError(t *testing.T) {
	job := NewMissionTickJob(&countingTicker{}, failingDispatcher{}, nil)

	err := job.Process(context.Background())
	assert.EqualError(t, err, "redis down")
}
