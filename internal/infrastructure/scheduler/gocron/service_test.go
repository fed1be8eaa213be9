package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSchedulerService(t *testing.T) {
	t.Run("Schedule Polling", func(t *testing.T) {
		svc := NewScheduler()
		svc.Start()
		defer svc.Stop()

		done := make(chan struct{})
		var fired atomic.Bool
		poll := func() {
			if fired.CompareAndSwap(false, true) {
				close(done)
			}
		}

		err := svc.SchedulePolling("swap-1", 100*time.Millisecond, poll)
		require.NoError(t, err)

		select {
		case <-done:
		case <-time.After(5 * time.Second):
			require.Fail(t, "job did not execute within expected time")
		}
	})

	t.Run("Schedule Twice Is Noop", func(t *testing.T) {
		svc := NewScheduler()
		svc.Start()
		defer svc.Stop()

		var count atomic.Int32
		err := svc.SchedulePolling("swap-2", 100*time.Millisecond, func() {
			count.Add(1)
		})
		require.NoError(t, err)

		// the second registration must not double the tick rate
		err = svc.SchedulePolling("swap-2", 10*time.Millisecond, func() {
			count.Add(100)
		})
		require.NoError(t, err)

		time.Sleep(350 * time.Millisecond)
		require.LessOrEqual(t, count.Load(), int32(5))
	})

	t.Run("Invalid Interval", func(t *testing.T) {
		svc := NewScheduler()
		svc.Start()
		defer svc.Stop()

		err := svc.SchedulePolling("swap-3", 0, func() {})
		require.Error(t, err)
	})

	t.Run("Cancel Polling", func(t *testing.T) {
		svc := NewScheduler()
		svc.Start()
		defer svc.Stop()

		var count atomic.Int32
		err := svc.SchedulePolling("swap-4", 100*time.Millisecond, func() {
			count.Add(1)
		})
		require.NoError(t, err)

		time.Sleep(250 * time.Millisecond)
		svc.CancelPolling("swap-4")
		after := count.Load()

		time.Sleep(300 * time.Millisecond)
		require.Equal(t, after, count.Load())

		// cancelling an unknown id is harmless
		svc.CancelPolling("never-scheduled")
	})
}
