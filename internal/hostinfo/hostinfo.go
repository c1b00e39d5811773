// Package hostinfo reads a summary of the host operating system and
// hardware.
package hostinfo

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"evalgo.org/serverdash/models"
)

// Reader gathers host facts. The zero value reads the local host.
type Reader struct {
	hostInfo   func(ctx context.Context) (*host.InfoStat, error)
	cpuInfo    func(ctx context.Context) ([]cpu.InfoStat, error)
	memoryInfo func(ctx context.Context) (*mem.VirtualMemoryStat, error)
}

// New returns a Reader backed by gopsutil.
func New() *Reader {
	return &Reader{
		hostInfo:   host.InfoWithContext,
		cpuInfo:    cpu.InfoWithContext,
		memoryInfo: mem.VirtualMemoryWithContext,
	}
}

// SystemInfo returns "<OS> <kernel release>", the model name of the first
// CPU and total memory in whole gigabytes.
func (p *Reader) SystemInfo(ctx context.Context) (models.SystemInfo, error) {
	if p.hostInfo == nil {
		p = New()
	}

	h, err := p.hostInfo(ctx)
	if err != nil {
		return models.SystemInfo{}, fmt.Errorf("host info: %w", err)
	}

	cpus, err := p.cpuInfo(ctx)
	if err != nil {
		return models.SystemInfo{}, fmt.Errorf("cpu info: %w", err)
	}
	if len(cpus) == 0 {
		return models.SystemInfo{}, errors.New("cpu info: no processors reported")
	}

	vm, err := p.memoryInfo(ctx)
	if err != nil {
		return models.SystemInfo{}, fmt.Errorf("memory info: %w", err)
	}

	return models.SystemInfo{
		OS:  strings.TrimSpace(cases.Title(language.English).String(h.OS) + " " + h.KernelVersion),
		CPU: strings.TrimSpace(cpus[0].ModelName),
		RAM: int(math.Round(float64(vm.Total) / (1 << 30))),
	}, nil
}
