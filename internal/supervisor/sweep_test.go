package supervisor

import (
	"context"
	"testing"
	"time"

	"fleetd/internal/registry"
	"fleetd/pkg/types"
)

func TestSweepEvictsSilentWorker(t *testing.T) {
	fl := newFleet("w1:1", "w2:1")
	s := newTestSupervisor(t, fl, "w1:1", "w2:1")

	now := time.Unix(1_700_000_000, 0)
	s.health.now = func() time.Time { return now }
	s.ReportWorkerStatus("w1:1", nil)
	s.ReportWorkerStatus("w2:1", nil)

	// w2 keeps reporting; w1 goes silent past the threshold.
	now = now.Add(s.deadTimeout + time.Second)
	s.ReportWorkerStatus("w2:1", nil)
	s.sweepDeadWorkers()

	addrs := s.Workers()
	if len(addrs) != 1 || addrs[0] != "w2:1" {
		t.Fatalf("Workers() after sweep = %v, want [w2:1]", addrs)
	}
	if _, ok := s.WorkerHealth("w1:1"); ok {
		t.Fatalf("health record should be gone after eviction")
	}

	// The evicted worker is absent from placement candidates.
	w, err := s.workers.Choose(context.Background())
	if err != nil {
		t.Fatalf("Choose() error = %v", err)
	}
	if w.Address() != "w2:1" {
		t.Fatalf("Choose() = %s, want w2:1", w.Address())
	}

	// Re-registration under the former address is a fresh logical worker.
	if err := s.AddWorker("w1:1"); err != nil {
		t.Fatalf("re-AddWorker() error = %v", err)
	}
}

func TestSweepKeepsStaleBindings(t *testing.T) {
	fl := newFleet("w1:1")
	s := newTestSupervisor(t, fl, "w1:1")
	ctx := context.Background()

	now := time.Unix(1_700_000_000, 0)
	s.health.now = func() time.Time { return now }
	s.ReportWorkerStatus("w1:1", nil)

	if _, err := s.LaunchModel(ctx, "m1", types.ModelSpec{Name: "llama"}, 1); err != nil {
		t.Fatalf("LaunchModel() error = %v", err)
	}

	now = now.Add(s.deadTimeout + time.Second)
	s.sweepDeadWorkers()

	// Eviction removes the worker, not its bindings; teardown still
	// reaches out to the stale handle.
	rid := types.BuildReplicaModelID("m1", 1, 0)
	if !s.bindings.Has(rid) {
		t.Fatalf("binding should survive worker eviction")
	}
	if err := s.TerminateModel(ctx, "m1", false); err != nil {
		t.Fatalf("TerminateModel() error = %v", err)
	}
	if got := fl.get("w1:1").unloaded(); len(got) != 1 || got[0] != rid {
		t.Fatalf("unloads = %v, want [%s]", got, rid)
	}
}

func TestSweepLoopStopsOnCancel(t *testing.T) {
	fl := newFleet("w1:1")
	s, err := New(Options{
		Address:       "supervisor:9997",
		Dialer:        fl.dialer(),
		Families:      registry.NewMemStore(),
		SweepInterval: 5 * time.Millisecond,
		DeadTimeout:   40 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.AddWorker("w1:1"); err != nil {
		t.Fatalf("AddWorker() error = %v", err)
	}
	s.ReportWorkerStatus("w1:1", nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s.Start(ctx)
	// The loop exits before its first tick; letting the report go stale
	// afterwards must not evict anything.
	time.Sleep(60 * time.Millisecond)
	if got := len(s.Workers()); got != 1 {
		t.Fatalf("stopped sweep evicted a worker: %d left", got)
	}
}

func TestNewValidatesSweepConfig(t *testing.T) {
	fl := newFleet()
	base := Options{Dialer: fl.dialer(), Families: registry.NewMemStore()}

	bad := base
	bad.SweepInterval = 30 * time.Second
	bad.DeadTimeout = 5 * time.Second
	if _, err := New(bad); err == nil {
		t.Fatalf("expected error when interval >= timeout")
	}

	bad = base
	bad.SweepInterval = -time.Second
	if _, err := New(bad); err == nil {
		t.Fatalf("expected error for negative interval")
	}
}
