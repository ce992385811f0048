// Package worker defines the callable handle the supervisor uses to talk
// to one worker node, and the dialer that resolves addresses into handles.
// The worker's server side lives in the worker binary, not here.
package worker

import (
	"context"

	"fleetd/internal/registry"
	"fleetd/pkg/types"
)

// ModelHandle identifies one live replica on a worker, resolved for a
// caller that wants to send it inference traffic.
type ModelHandle struct {
	ReplicaModelID string `json:"replica_model_id"`
	WorkerAddress  string `json:"worker_address"`
}

// Client is the remote surface of one worker node. Every call crosses the
// network and may fail with a transport error; the supervisor owns the
// policy for what happens then.
type Client interface {
	// Address returns the worker's cluster address this client is bound to.
	Address() string

	// GetModelCount reports how many replicas the worker currently hosts.
	GetModelCount(ctx context.Context) (int, error)
	// LoadModel launches one replica on the worker.
	LoadModel(ctx context.Context, replicaModelID string, spec types.ModelSpec) error
	// UnloadModel terminates one replica.
	UnloadModel(ctx context.Context, replicaModelID string) error
	// DescribeModel returns the worker's description of one replica.
	DescribeModel(ctx context.Context, replicaModelID string) (map[string]any, error)
	// ListModels returns every hosted replica keyed by replica model id.
	ListModels(ctx context.Context) (map[string]map[string]any, error)
	// GetModelHandle resolves a live replica into a routable handle.
	GetModelHandle(ctx context.Context, replicaModelID string) (ModelHandle, error)

	// RegisterFamily mirrors a model-definition registration on the worker.
	RegisterFamily(ctx context.Context, kind types.ModelKind, f registry.Family, persist bool) error
	// UnregisterFamily mirrors a model-definition removal on the worker.
	UnregisterFamily(ctx context.Context, kind types.ModelKind, name string) error
}

// Dialer resolves a worker address into a Client. Dialing is cheap and
// does not probe the worker; liveness comes from health reports.
type Dialer func(address string) (Client, error)
