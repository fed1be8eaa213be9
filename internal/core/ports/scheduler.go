package ports

import (
	"time"
)

// SchedulerService drives the per-swap polling loops. Each active swap
// has exactly one recurring job invoking the lifecycle's next action.
type SchedulerService interface {
	Start()
	Stop()
	SchedulePolling(swapId string, every time.Duration, poll func()) error
	CancelPolling(swapId string)
}
