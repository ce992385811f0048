package registry

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"fleetd/pkg/types"
)

// MemStore is the in-memory FamilyStore: a fixed builtin set plus
// user-defined families registered at runtime. The persist flag is
// accepted and ignored; definitions live for the process lifetime.
type MemStore struct {
	mu       sync.RWMutex
	builtins map[types.ModelKind]map[string]Family
	users    map[types.ModelKind]map[string]Family
}

// NewMemStore builds a store seeded with the given builtin families.
func NewMemStore(builtins ...Family) *MemStore {
	s := &MemStore{
		builtins: make(map[types.ModelKind]map[string]Family),
		users:    make(map[types.ModelKind]map[string]Family),
	}
	for _, f := range builtins {
		f.Builtin = true
		if s.builtins[f.Kind] == nil {
			s.builtins[f.Kind] = make(map[string]Family)
		}
		s.builtins[f.Kind][f.Name] = f
	}
	return s
}

func (s *MemStore) List(kind types.ModelKind) ([]Family, error) {
	if _, err := types.ParseModelKind(string(kind)); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Family, 0, len(s.builtins[kind])+len(s.users[kind]))
	for _, f := range s.builtins[kind] {
		out = append(out, f)
	}
	for _, f := range s.users[kind] {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (s *MemStore) Get(kind types.ModelKind, name string) (Family, error) {
	if _, err := types.ParseModelKind(string(kind)); err != nil {
		return Family{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if f, ok := s.builtins[kind][name]; ok {
		return f, nil
	}
	if f, ok := s.users[kind][name]; ok {
		return f, nil
	}
	return Family{}, ErrFamilyNotFound(name)
}

func (s *MemStore) Register(kind types.ModelKind, f Family, persist bool) error {
	if _, err := types.ParseModelKind(string(kind)); err != nil {
		return err
	}
	if f.Name == "" {
		return fmt.Errorf("register family: empty model_name")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.builtins[kind][f.Name]; ok {
		return ErrFamilyExists(f.Name)
	}
	if _, ok := s.users[kind][f.Name]; ok {
		return ErrFamilyExists(f.Name)
	}
	f.Kind = kind
	f.Builtin = false
	if s.users[kind] == nil {
		s.users[kind] = make(map[string]Family)
	}
	s.users[kind][f.Name] = f
	return nil
}

func (s *MemStore) Unregister(kind types.ModelKind, name string) error {
	if _, err := types.ParseModelKind(string(kind)); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.builtins[kind][name]; ok {
		return fmt.Errorf("model family is builtin and cannot be unregistered: %s", name)
	}
	if _, ok := s.users[kind][name]; !ok {
		return ErrFamilyNotFound(name)
	}
	delete(s.users[kind], name)
	return nil
}
