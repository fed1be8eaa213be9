package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/TeleportDAO/teleswapd/internal/core/ports"
	"github.com/go-co-op/gocron"
)

type service struct {
	scheduler *gocron.Scheduler
	mu        *sync.Mutex
	jobs      map[string]*gocron.Job
}

func NewScheduler() ports.SchedulerService {
	svc := gocron.NewScheduler(time.UTC)
	// a slow poll must not pile up behind itself
	svc.SingletonModeAll()
	return &service{svc, &sync.Mutex{}, make(map[string]*gocron.Job)}
}

func (s *service) Start() {
	s.scheduler.StartAsync()
}

func (s *service) Stop() {
	s.scheduler.Stop()
}

// SchedulePolling registers a recurring job for one swap. Scheduling
// the same swap twice is a no-op, the original job keeps running.
func (s *service) SchedulePolling(swapId string, every time.Duration, poll func()) error {
	if every <= 0 {
		return fmt.Errorf("invalid polling interval: %s", every)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[swapId]; ok {
		return nil
	}

	job, err := s.scheduler.Every(every).Do(poll)
	if err != nil {
		return err
	}
	s.jobs[swapId] = job
	return nil
}

func (s *service) CancelPolling(swapId string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[swapId]
	if !ok {
		return
	}
	s.scheduler.RemoveByReference(job)
	delete(s.jobs, swapId)
}
