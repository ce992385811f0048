package supervisor

import (
	"context"
	"sync"

	"fleetd/internal/worker"
)

// WorkerRegistry holds the known worker nodes and their callable handles,
// in registration order.
type WorkerRegistry struct {
	mu      sync.RWMutex
	order   []string
	workers map[string]worker.Client
	dialer  worker.Dialer
}

func NewWorkerRegistry(dialer worker.Dialer) *WorkerRegistry {
	return &WorkerRegistry{
		workers: make(map[string]worker.Client),
		dialer:  dialer,
	}
}

// Add resolves a handle for the address and registers it. The worker is
// eligible for placement immediately.
func (r *WorkerRegistry) Add(address string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workers[address]; ok {
		return ErrAlreadyExists(address)
	}
	c, err := r.dialer(address)
	if err != nil {
		return err
	}
	r.workers[address] = c
	r.order = append(r.order, address)
	workersRegistered.Set(float64(len(r.workers)))
	return nil
}

// Remove deregisters a worker. Replica bindings referencing the worker are
// left untouched; later calls against them fail at the transport.
func (r *WorkerRegistry) Remove(address string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.workers[address]; !ok {
		return
	}
	delete(r.workers, address)
	for i, a := range r.order {
		if a == address {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	workersRegistered.Set(float64(len(r.workers)))
}

// Get returns the handle registered for an address.
func (r *WorkerRegistry) Get(address string) (worker.Client, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.workers[address]
	return c, ok
}

// Clients snapshots the registered handles in registration order.
func (r *WorkerRegistry) Clients() []worker.Client {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]worker.Client, 0, len(r.order))
	for _, a := range r.order {
		out = append(out, r.workers[a])
	}
	return out
}

// Addresses snapshots the registered addresses in registration order.
func (r *WorkerRegistry) Addresses() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]string(nil), r.order...)
}

func (r *WorkerRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.workers)
}

// Choose picks the worker hosting the fewest models right now, asking each
// worker in turn. Ties go to the earliest-registered worker. This is a
// simple least-loaded heuristic, not a bin-packing guarantee.
//
// The registry lock is not held across the remote count calls; placement
// races with registration are resolved by whichever snapshot Choose took.
func (r *WorkerRegistry) Choose(ctx context.Context) (worker.Client, error) {
	candidates := r.Clients()
	if len(candidates) == 0 {
		return nil, ErrNoAvailableWorker()
	}
	var target worker.Client
	minCount := -1
	for _, c := range candidates {
		n, err := c.GetModelCount(ctx)
		if err != nil {
			return nil, ErrRemote(c.Address(), err)
		}
		if minCount < 0 || n < minCount {
			minCount = n
			target = c
		}
	}
	return target, nil
}

// IsLocalDeployment reports whether the only registered worker is the
// supervisor's own address, i.e. registry mutations need no fan-out.
func (r *WorkerRegistry) IsLocalDeployment(selfAddress string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order) == 1 && r.order[0] == selfAddress
}
