// Package system собирает сведения о хосте и держит пулы буферов изображений.
package system

import (
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// HostInfo is a snapshot of the resources the local models will compete for.
type HostInfo struct {
	LogicalCPUs int
	TotalMemMB  uint64
	AvailMemMB  uint64
	UsedPercent float64
	GoMaxProcs  int
}

// Host читает данные о CPU и памяти. Если gopsutil не смог получить число
// ядер, берется runtime.NumCPU.
func Host() (HostInfo, error) {
	info := HostInfo{GoMaxProcs: runtime.GOMAXPROCS(0)}

	cpus, err := cpu.Counts(true)
	if err != nil || cpus == 0 {
		cpus = runtime.NumCPU()
	}
	info.LogicalCPUs = cpus

	vm, err := mem.VirtualMemory()
	if err != nil {
		return info, fmt.Errorf("не удалось получить данные о памяти: %w", err)
	}
	info.TotalMemMB = vm.Total / 1024 / 1024
	info.AvailMemMB = vm.Available / 1024 / 1024
	info.UsedPercent = vm.UsedPercent
	return info, nil
}

// LowMemory reports whether available memory is under the given floor.
// A zero floor disables the check.
func (h HostInfo) LowMemory(minFreeMB uint64) bool {
	return minFreeMB > 0 && h.AvailMemMB > 0 && h.AvailMemMB < minFreeMB
}

func (h HostInfo) String() string {
	return fmt.Sprintf("CPU: %d | RAM: %d/%d MB свободно (%.0f%% занято)",
		h.LogicalCPUs, h.AvailMemMB, h.TotalMemMB, h.UsedPercent)
}
