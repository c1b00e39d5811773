package systemd

import (
	"context"
	"fmt"
	"math"

	"github.com/shirou/gopsutil/v3/process"

	"evalgo.org/serverdash/models"
)

// ProcessSampler reads resident memory and CPU usage of a process.
type ProcessSampler interface {
	Sample(ctx context.Context, pid int32) (models.Resources, error)
}

// ProcessTable samples processes through gopsutil.
type ProcessTable struct{}

// Sample returns RSS in megabytes and the CPU percentage averaged over the
// process lifetime, as ps reports it.
func (ProcessTable) Sample(ctx context.Context, pid int32) (models.Resources, error) {
	p, err := process.NewProcessWithContext(ctx, pid)
	if err != nil {
		return models.Resources{}, fmt.Errorf("process %d: %w", pid, err)
	}

	mem, err := p.MemoryInfoWithContext(ctx)
	if err != nil {
		return models.Resources{}, fmt.Errorf("memory of process %d: %w", pid, err)
	}

	cpu, err := p.CPUPercentWithContext(ctx)
	if err != nil {
		return models.Resources{}, fmt.Errorf("cpu of process %d: %w", pid, err)
	}

	return models.Resources{
		CPU:    round2(cpu),
		Memory: round2(float64(mem.RSS) / (1024 * 1024)),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
