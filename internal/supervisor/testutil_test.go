package supervisor

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"fleetd/internal/registry"
	"fleetd/internal/worker"
	"fleetd/pkg/types"
)

// fakeWorker implements worker.Client in memory and records every call.
type fakeWorker struct {
	mu      sync.Mutex
	address string
	models  map[string]types.ModelSpec

	loads      []string
	unloads    []string
	countCalls int

	baseCount int
	loadErr   func(rid string) error
	unloadErr func(rid string) error
	countErr  error

	// loadHook runs at the top of LoadModel, outside the worker lock, so a
	// test can park a launch mid-flight. Set before concurrent use.
	loadHook func(rid string)

	familyRegs   []string
	familyUnregs []string
}

func newFakeWorker(address string) *fakeWorker {
	return &fakeWorker{address: address, models: make(map[string]types.ModelSpec)}
}

func (f *fakeWorker) Address() string { return f.address }

func (f *fakeWorker) GetModelCount(context.Context) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.countCalls++
	if f.countErr != nil {
		return 0, f.countErr
	}
	return f.baseCount + len(f.models), nil
}

func (f *fakeWorker) LoadModel(_ context.Context, rid string, spec types.ModelSpec) error {
	if f.loadHook != nil {
		f.loadHook(rid)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		if err := f.loadErr(rid); err != nil {
			return err
		}
	}
	f.models[rid] = spec
	f.loads = append(f.loads, rid)
	return nil
}

func (f *fakeWorker) UnloadModel(_ context.Context, rid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.unloadErr != nil {
		if err := f.unloadErr(rid); err != nil {
			return err
		}
	}
	delete(f.models, rid)
	f.unloads = append(f.unloads, rid)
	return nil
}

func (f *fakeWorker) DescribeModel(_ context.Context, rid string) (map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	spec, ok := f.models[rid]
	if !ok {
		return nil, fmt.Errorf("no such replica: %s", rid)
	}
	return map[string]any{"model_name": spec.Name, "replica_id": rid}, nil
}

func (f *fakeWorker) ListModels(context.Context) (map[string]map[string]any, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]map[string]any, len(f.models))
	for rid, spec := range f.models {
		out[rid] = map[string]any{"model_name": spec.Name}
	}
	return out, nil
}

func (f *fakeWorker) GetModelHandle(_ context.Context, rid string) (worker.ModelHandle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.models[rid]; !ok {
		return worker.ModelHandle{}, fmt.Errorf("no such replica: %s", rid)
	}
	return worker.ModelHandle{ReplicaModelID: rid, WorkerAddress: f.address}, nil
}

func (f *fakeWorker) RegisterFamily(_ context.Context, _ types.ModelKind, fam registry.Family, _ bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.familyRegs = append(f.familyRegs, fam.Name)
	return nil
}

func (f *fakeWorker) UnregisterFamily(_ context.Context, _ types.ModelKind, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.familyUnregs = append(f.familyUnregs, name)
	return nil
}

func (f *fakeWorker) loaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.loads...)
}

func (f *fakeWorker) unloaded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.unloads...)
}

func (f *fakeWorker) counts() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.countCalls
}

// fleet is a set of fake workers plus the dialer resolving them.
type fleet struct {
	mu      sync.Mutex
	workers map[string]*fakeWorker
}

func newFleet(addresses ...string) *fleet {
	f := &fleet{workers: make(map[string]*fakeWorker)}
	for _, a := range addresses {
		f.workers[a] = newFakeWorker(a)
	}
	return f
}

func (f *fleet) dialer() worker.Dialer {
	return func(address string) (worker.Client, error) {
		f.mu.Lock()
		defer f.mu.Unlock()
		w, ok := f.workers[address]
		if !ok {
			w = newFakeWorker(address)
			f.workers[address] = w
		}
		return w, nil
	}
}

func (f *fleet) get(address string) *fakeWorker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.workers[address]
}

// newTestSupervisor wires a supervisor over a fake fleet and registers
// every fake as a worker.
func newTestSupervisor(t *testing.T, fl *fleet, addresses ...string) *Supervisor {
	t.Helper()
	s, err := New(Options{
		Address:  "supervisor:9997",
		Dialer:   fl.dialer(),
		Families: registry.NewMemStore(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for _, a := range addresses {
		if err := s.AddWorker(a); err != nil {
			t.Fatalf("AddWorker(%s) error = %v", a, err)
		}
	}
	return s
}
