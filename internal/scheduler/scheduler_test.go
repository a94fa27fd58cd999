package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osse101/NexusMissions_Go/internal/testing/leaktest"
	"github.com/osse101/NexusMissions_Go/internal/worker"
)

type rejectingPool struct {
	attempts atomic.Int32
}

func (p *rejectingPool) TryEnqueue(worker.Job) bool {
	p.attempts.Add(1)
	return false
}

func TestScheduler_RunsJobOnInterval(t *testing.T) {
	checker := leaktest.NewGoroutineChecker(t)

	pool := worker.NewPool(1, 10)
	pool.Start()

	var runs atomic.Int32
	sched := New(pool)
	sched.Schedule(10*time.Millisecond, worker.JobFunc(func(context.Context) error {
		runs.Add(1)
		return nil
	}))

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)

	require.NoError(t, sched.Stop(context.Background()))
	pool.Stop()
	checker.Check(0)
}

func TestScheduler_DropsTickWhenQueueFull(t *testing.T) {
	pool := &rejectingPool{}
	sched := New(pool)
	sched.Schedule(5*time.Millisecond, worker.JobFunc(func(context.Context) error { return nil }))

	assert.Eventually(t, func() bool { return pool.attempts.Load() >= 3 }, time.Second, 5*time.Millisecond)
	require.NoError(t, sched.Stop(context.Background()))
}

func TestScheduler_StopIsIdempotent(t *testing.T) {
	sched := New(&rejectingPool{})
	require.NoError(t, sched.Stop(context.Background()))
	require.NoError(t, sched.Stop(context.Background()))
}
