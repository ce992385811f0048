package supervisor

import (
	"sync"
	"time"

	"fleetd/pkg/types"
)

// WorkerHealth is the last status report received from one worker.
type WorkerHealth struct {
	Address    string
	LastReport time.Time
	Resources  map[string]types.ResourceStatus
}

// HealthMonitor ingests push-style status reports from workers. Workers
// are never probed; silence past the dead timeout is what kills them.
type HealthMonitor struct {
	mu       sync.RWMutex
	statuses map[string]WorkerHealth
	now      func() time.Time
}

func NewHealthMonitor() *HealthMonitor {
	return &HealthMonitor{
		statuses: make(map[string]WorkerHealth),
		now:      time.Now,
	}
}

// Report upserts the health record for a worker with the current time.
func (h *HealthMonitor) Report(address string, resources map[string]types.ResourceStatus) {
	h.mu.Lock()
	h.statuses[address] = WorkerHealth{
		Address:    address,
		LastReport: h.now(),
		Resources:  resources,
	}
	h.mu.Unlock()
}

// Status returns the last report for a worker, if any.
func (h *HealthMonitor) Status(address string) (WorkerHealth, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	s, ok := h.statuses[address]
	return s, ok
}

// Expired lists workers whose last report is older than timeout. Purely
// local: no remote calls, only timestamp inspection.
func (h *HealthMonitor) Expired(timeout time.Duration) []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	now := h.now()
	var out []string
	for addr, s := range h.statuses {
		if now.Sub(s.LastReport) > timeout {
			out = append(out, addr)
		}
	}
	return out
}

// Forget drops the health record for a worker.
func (h *HealthMonitor) Forget(address string) {
	h.mu.Lock()
	delete(h.statuses, address)
	h.mu.Unlock()
}

func (h *HealthMonitor) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.statuses)
}
