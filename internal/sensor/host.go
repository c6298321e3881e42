package sensor

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/net"
)

// HostStats reads interfaces, memory and load from the OS via gopsutil.
// Every call goes to the OS; nothing is cached.
type HostStats struct{}

// NewHostStats creates a HostStats.
func NewHostStats() *HostStats {
	return &HostStats{}
}

// InterfaceAddrs returns each interface's addresses in CIDR form.
func (h *HostStats) InterfaceAddrs(ctx context.Context) (map[string][]string, error) {
	ifaces, err := net.InterfacesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list interfaces: %w", err)
	}

	result := make(map[string][]string, len(ifaces))
	for _, iface := range ifaces {
		addrs := make([]string, 0, len(iface.Addrs))
		for _, a := range iface.Addrs {
			addrs = append(addrs, a.Addr)
		}
		result[iface.Name] = addrs
	}
	return result, nil
}

// Memory returns total and free memory in bytes.
func (h *HostStats) Memory(ctx context.Context) (uint64, uint64, error) {
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to read memory: %w", err)
	}
	return vm.Total, vm.Free, nil
}

// LoadAverage returns the one-minute load average.
func (h *HostStats) LoadAverage(ctx context.Context) (float64, error) {
	avg, err := load.AvgWithContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to read load average: %w", err)
	}
	return avg.Load1, nil
}
