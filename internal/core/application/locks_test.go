package application

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type nopScheduler struct{}

func (nopScheduler) Start() {}
func (nopScheduler) Stop()  {}
func (nopScheduler) SchedulePolling(string, time.Duration, func()) error {
	return nil
}
func (nopScheduler) CancelPolling(string) {}

func TestFinalizeReleasesSendLock(t *testing.T) {
	s := &Service{scheduler: nopScheduler{}}

	s.lockFor("swap-a")
	s.lockFor("swap-b")
	s.finalize("swap-a")

	var remaining []string
	s.sendLocks.Range(func(key, _ any) bool {
		remaining = append(remaining, key.(string))
		return true
	})
	require.Equal(t, []string{"swap-b"}, remaining)
}
