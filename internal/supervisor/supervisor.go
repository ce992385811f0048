package supervisor

import (
	"context"
	"fmt"
	"time"

	"fleetd/internal/logx"
	"fleetd/internal/registry"
	"fleetd/internal/worker"
	"fleetd/pkg/types"
)

// Defaults applied when corresponding Options fields are unset.
const (
	DefaultSweepInterval = 5 * time.Second
	DefaultDeadTimeout   = 30 * time.Second
)

// Options encapsulates all tunables for Supervisor construction.
type Options struct {
	// Address is the supervisor's own cluster address, used to detect
	// single-node deployments.
	Address string
	// Dialer resolves worker addresses into callable handles. Required.
	Dialer worker.Dialer
	// Families is the model-definition registry. Required.
	Families registry.FamilyStore
	// Publisher receives lifecycle events; nil drops them.
	Publisher EventPublisher
	// SweepInterval is the dead-worker sweep cadence; 0 uses the default.
	SweepInterval time.Duration
	// DeadTimeout is how long a worker may stay silent before the sweep
	// declares it dead; 0 uses the default.
	DeadTimeout time.Duration
}

// Supervisor is the cluster control plane: it owns the worker registry,
// health table, replica groups, and replica-to-worker bindings, and
// orchestrates model lifecycle across the fleet.
type Supervisor struct {
	addr      string
	workers   *WorkerRegistry
	health    *HealthMonitor
	scheduler *ReplicaScheduler
	bindings  *bindingTable
	families  registry.FamilyStore
	publisher EventPublisher
	locks     *keyedMutex

	sweepInterval time.Duration
	deadTimeout   time.Duration
}

// New constructs a Supervisor. The dead-worker sweep does not run until
// Start is called.
func New(opts Options) (*Supervisor, error) {
	if opts.Dialer == nil {
		return nil, fmt.Errorf("supervisor: nil worker dialer")
	}
	if opts.Families == nil {
		return nil, fmt.Errorf("supervisor: nil family store")
	}
	if opts.SweepInterval == 0 {
		opts.SweepInterval = DefaultSweepInterval
	}
	if opts.DeadTimeout == 0 {
		opts.DeadTimeout = DefaultDeadTimeout
	}
	if opts.SweepInterval < 0 || opts.DeadTimeout < 0 {
		return nil, fmt.Errorf("supervisor: negative sweep interval or dead timeout")
	}
	if opts.SweepInterval >= opts.DeadTimeout {
		return nil, fmt.Errorf("supervisor: sweep interval %v must be smaller than dead timeout %v",
			opts.SweepInterval, opts.DeadTimeout)
	}
	if opts.Publisher == nil {
		opts.Publisher = noopPublisher{}
	}
	return &Supervisor{
		addr:          opts.Address,
		workers:       NewWorkerRegistry(opts.Dialer),
		health:        NewHealthMonitor(),
		scheduler:     NewReplicaScheduler(),
		bindings:      newBindingTable(),
		families:      opts.Families,
		publisher:     opts.Publisher,
		locks:         newKeyedMutex(),
		sweepInterval: opts.SweepInterval,
		deadTimeout:   opts.DeadTimeout,
	}, nil
}

// Start launches the dead-worker sweep. It returns immediately; the sweep
// stops when ctx is canceled.
func (s *Supervisor) Start(ctx context.Context) {
	go s.runSweep(ctx)
}

func (s *Supervisor) runSweep(ctx context.Context) {
	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			// Shutdown, not a failure.
			logx.Log.Info().Msg("dead-worker sweep stopped")
			return
		case <-ticker.C:
			s.sweepDeadWorkers()
		}
	}
}

// sweepDeadWorkers evicts workers whose last report exceeded the dead
// timeout. Bindings to evicted workers are kept; see bindingTable.
func (s *Supervisor) sweepDeadWorkers() {
	for _, address := range s.health.Expired(s.deadTimeout) {
		impacted := s.bindings.ForWorker(address)
		logx.Log.Error().
			Str("worker", address).
			Strs("impacted_models", impacted).
			Msg("worker timeout, evicting")
		s.health.Forget(address)
		s.workers.Remove(address)
		workersEvictedTotal.Inc()
		s.publisher.Publish(Event{Name: "worker_dead", Fields: map[string]any{
			"address":  address,
			"impacted": impacted,
		}})
	}
}

// AddWorker registers a worker node by address.
func (s *Supervisor) AddWorker(address string) error {
	if err := s.workers.Add(address); err != nil {
		return err
	}
	logx.Log.Info().Str("worker", address).Msg("worker added")
	return nil
}

// RemoveWorker deregisters a worker node. Its bindings are untouched.
func (s *Supervisor) RemoveWorker(address string) {
	s.workers.Remove(address)
	logx.Log.Info().Str("worker", address).Msg("worker removed")
}

// ReportWorkerStatus ingests a push-style health report from a worker.
func (s *Supervisor) ReportWorkerStatus(address string, resources map[string]types.ResourceStatus) {
	s.health.Report(address, resources)
}

// WorkerHealth returns the last health report for a worker, if any.
func (s *Supervisor) WorkerHealth(address string) (WorkerHealth, bool) {
	return s.health.Status(address)
}

// Workers lists the registered worker addresses in registration order.
func (s *Supervisor) Workers() []string {
	return s.workers.Addresses()
}

// IsLocalDeployment reports whether the only registered worker is this
// process itself, so that registry mutations need no fan-out.
func (s *Supervisor) IsLocalDeployment() bool {
	return s.workers.IsLocalDeployment(s.addr)
}
