package monitoring

import (
	"fmt"
	"sync"
	"time"
)

// Monitor tracks request outcomes for the health endpoints and the
// scheduled status report. All methods are safe for concurrent use.
type Monitor struct {
	mu            sync.RWMutex
	startTime     time.Time
	requests      int64
	failures      int64
	totalDuration time.Duration
	lastOutcome   bool
	lastRunTime   time.Time
}

func NewMonitor() *Monitor {
	return &Monitor{startTime: time.Now()}
}

func (m *Monitor) RecordSuccess(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests++
	m.totalDuration += duration
	m.lastOutcome = true
	m.lastRunTime = time.Now()
}

func (m *Monitor) RecordFailure(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests++
	m.failures++
	m.totalDuration += duration
	m.lastOutcome = false
	m.lastRunTime = time.Now()
}

func (m *Monitor) IsHealthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return true // No requests yet, assume healthy
	}
	return m.lastOutcome
}

func (m *Monitor) StatusSummary() string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.lastRunTime.IsZero() {
		return fmt.Sprintf("no requests yet (up since %s)", m.startTime.Format("Jan 2 15:04"))
	}

	average := m.totalDuration / time.Duration(m.requests)
	return fmt.Sprintf("%d requests, %d failures, avg %v, last request %s",
		m.requests, m.failures, average.Round(time.Millisecond),
		m.lastRunTime.Format("Jan 2 15:04:05"))
}
