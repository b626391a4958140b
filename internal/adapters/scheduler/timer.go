package scheduler

import (
	"sync"
	"time"
)

// TimerScheduler runs callbacks on time.AfterFunc timers. Scheduled work
// cannot be cancelled; Wait lets one-shot commands stay alive until it ran.
type TimerScheduler struct {
	wg sync.WaitGroup
}

// NewTimerScheduler creates a scheduler
func NewTimerScheduler() *TimerScheduler {
	return &TimerScheduler{}
}

// After runs fn once after delay
func (s *TimerScheduler) After(delay time.Duration, fn func()) {
	s.wg.Add(1)
	time.AfterFunc(delay, func() {
		defer s.wg.Done()
		fn()
	})
}

// Wait blocks until every scheduled callback has returned
func (s *TimerScheduler) Wait() {
	s.wg.Wait()
}
