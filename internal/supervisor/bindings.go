package supervisor

import (
	"sort"
	"sync"

	"fleetd/internal/worker"
)

// bindingTable maps concrete replica model ids to the worker hosting them.
// Entries are recorded only after a worker confirms a successful load.
//
// Eviction of a dead worker does not clear its bindings: in-flight gets and
// terminates against those replicas proceed and fail at the transport, the
// same way the original deployment behaves.
type bindingTable struct {
	mu        sync.RWMutex
	byReplica map[string]worker.Client
}

func newBindingTable() *bindingTable {
	return &bindingTable{byReplica: make(map[string]worker.Client)}
}

func (b *bindingTable) Get(replicaModelID string) (worker.Client, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	c, ok := b.byReplica[replicaModelID]
	return c, ok
}

func (b *bindingTable) Has(replicaModelID string) bool {
	_, ok := b.Get(replicaModelID)
	return ok
}

func (b *bindingTable) Put(replicaModelID string, c worker.Client) {
	b.mu.Lock()
	b.byReplica[replicaModelID] = c
	replicaBindings.Set(float64(len(b.byReplica)))
	b.mu.Unlock()
}

func (b *bindingTable) Delete(replicaModelID string) {
	b.mu.Lock()
	delete(b.byReplica, replicaModelID)
	replicaBindings.Set(float64(len(b.byReplica)))
	b.mu.Unlock()
}

// ForWorker lists the replica ids currently bound to an address, sorted
// for stable log output.
func (b *bindingTable) ForWorker(address string) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []string
	for id, c := range b.byReplica {
		if c.Address() == address {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func (b *bindingTable) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.byReplica)
}
