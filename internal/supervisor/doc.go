// Package supervisor is the control plane of a fleetd cluster: one
// coordinating process that tracks worker nodes, places model replicas,
// load-balances requests across them, and evicts workers that go silent.
// It is structured into small files by concern:
//
//   - supervisor.go: Supervisor type, Options, sweep loop, worker admin.
//   - registry.go: WorkerRegistry and least-loaded placement.
//   - health.go: HealthMonitor, push-style report ingestion, expiry scan.
//   - scheduler.go: ReplicaScheduler, round-robin groups and cursors.
//   - bindings.go: replica-id to worker binding table.
//   - lifecycle.go: launch/terminate with rollback, get/describe/list.
//   - families.go: model-definition registry delegation and fan-out.
//   - errors.go: error taxonomy and helpers (IsNotFound, IsRemoteFailure, ...).
//   - events.go: lifecycle event publishing.
//
// All shared tables have their own locks; multi-step launch and terminate
// sequences additionally serialize per model uid so that no two lifecycle
// operations for the same model interleave across remote calls.
package supervisor
