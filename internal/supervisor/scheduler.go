package supervisor

import (
	"sync"

	"fleetd/pkg/types"
)

// replicaGroup is one logical model deployment: its intended replica count
// and the round-robin cursor routing traffic across the replicas. The
// cursor is a plain modulo counter, advanced only by the routing path.
type replicaGroup struct {
	replica int
	cursor  int
}

// ReplicaScheduler tracks replica groups per logical model and hands out
// replica ids round-robin.
type ReplicaScheduler struct {
	mu     sync.Mutex
	groups map[string]*replicaGroup
}

func NewReplicaScheduler() *ReplicaScheduler {
	return &ReplicaScheduler{groups: make(map[string]*replicaGroup)}
}

// CreateGroup records the intended replica count for a model. It runs
// before any replica is launched so a failed launch can still be rolled
// back against a known scope.
func (s *ReplicaScheduler) CreateGroup(modelUID string, replica int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.groups[modelUID]; ok {
		return ErrAlreadyExists(modelUID)
	}
	s.groups[modelUID] = &replicaGroup{replica: replica}
	return nil
}

// Next returns the replica id at the cursor and advances it. Only traffic
// routing calls this; introspection must not consume routing state.
func (s *ReplicaScheduler) Next(modelUID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[modelUID]
	if !ok {
		return "", ErrNotFound(modelUID)
	}
	id := types.BuildReplicaModelID(modelUID, g.replica, g.cursor)
	g.cursor = (g.cursor + 1) % g.replica
	return id, nil
}

// Stable returns the replica-0 id without touching the cursor; used by
// describe/list style reads.
func (s *ReplicaScheduler) Stable(modelUID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[modelUID]
	if !ok {
		return "", ErrNotFound(modelUID)
	}
	return types.BuildReplicaModelID(modelUID, g.replica, 0), nil
}

// Replica returns the group's replica count.
func (s *ReplicaScheduler) Replica(modelUID string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.groups[modelUID]
	if !ok {
		return 0, false
	}
	return g.replica, true
}

// Exists reports whether a group is live for the model.
func (s *ReplicaScheduler) Exists(modelUID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.groups[modelUID]
	return ok
}

// DeleteGroup removes the group; no error when absent.
func (s *ReplicaScheduler) DeleteGroup(modelUID string) {
	s.mu.Lock()
	delete(s.groups, modelUID)
	s.mu.Unlock()
}
