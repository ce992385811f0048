package types

// ResourceStatus is one resource-kind entry of a worker's health report,
// keyed by resource name ("cpu", "memory", "gpu-0", ...). Values are
// reported by workers and treated as opaque by the supervisor; only the
// report's arrival time drives liveness decisions.
type ResourceStatus struct {
	// Usage is the utilization fraction in [0, 1].
	Usage float64 `json:"usage"`
	// Total capacity in resource-specific units (cores, devices, ...).
	Total float64 `json:"total"`
	// Memory accounting in bytes, when the resource has memory.
	MemoryUsed      uint64 `json:"memory_used,omitempty"`
	MemoryAvailable uint64 `json:"memory_available,omitempty"`
	MemoryTotal     uint64 `json:"memory_total,omitempty"`
}
