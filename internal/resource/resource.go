// Package resource gathers the local machine's resource snapshot used in
// push-style health reports toward the supervisor.
package resource

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"

	"fleetd/pkg/types"
)

// Snapshot samples cpu and memory utilization, keyed by resource name.
func Snapshot() (map[string]types.ResourceStatus, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil, err
	}
	out := map[string]types.ResourceStatus{
		"memory": {
			Usage:           vm.UsedPercent / 100,
			Total:           float64(vm.Total),
			MemoryUsed:      vm.Used,
			MemoryAvailable: vm.Available,
			MemoryTotal:     vm.Total,
		},
	}
	// cpu.Percent with zero interval compares against the previous call;
	// the first sample of a process may read 0.
	pcts, err := cpu.Percent(0, false)
	if err == nil && len(pcts) > 0 {
		out["cpu"] = types.ResourceStatus{
			Usage: pcts[0] / 100,
			Total: float64(runtime.NumCPU()),
		}
	}
	return out, nil
}
