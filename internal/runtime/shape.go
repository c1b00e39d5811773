package runtime

import (
	"math"
	"sort"
	"strings"

	"github.com/distribution/reference"
	"github.com/docker/docker/api/types/container"

	"evalgo.org/serverdash/models"
)

const bytesPerMB = 1024 * 1024

// containerName strips the single leading "/" the engine prefixes names with.
func containerName(names []string, fallback string) string {
	name := fallback
	if len(names) > 0 {
		name = names[0]
	}
	return strings.TrimPrefix(name, "/")
}

// serviceState collapses an engine state into the Service vocabulary.
func serviceState(state string) models.State {
	switch state {
	case "running":
		return models.StateRunning
	case "exited", "stopped":
		return models.StateStopped
	default:
		return models.StateError
	}
}

// containerState maps an engine state for the container detail view.
// Anything other than running, exited and stopped collapses to error.
func containerState(state string) models.ContainerState {
	switch state {
	case "running":
		return models.ContainerRunning
	case "exited":
		return models.ContainerExited
	case "stopped":
		return models.ContainerStopped
	default:
		return models.ContainerError
	}
}

// portMappings converts engine port entries. Entries without a container
// port are skipped, an unpublished port maps to itself, and duplicate
// bindings (one per host address family) are reported once.
func portMappings(ports []container.Port) []models.PortMapping {
	out := make([]models.PortMapping, 0, len(ports))
	seen := make(map[models.PortMapping]bool, len(ports))
	for _, p := range ports {
		if p.PrivatePort == 0 {
			continue
		}
		external := p.PublicPort
		if external == 0 {
			external = p.PrivatePort
		}
		m := models.PortMapping{
			Internal: int(p.PrivatePort),
			External: int(external),
			Protocol: protocol(p.Type),
		}
		if seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

func protocol(t string) string {
	if strings.EqualFold(t, "udp") {
		return "udp"
	}
	return "tcp"
}

// envMap splits KEY=VALUE entries on the first "=".
func envMap(env []string) map[string]string {
	out := make(map[string]string, len(env))
	for _, kv := range env {
		key, value, _ := strings.Cut(kv, "=")
		if key == "" {
			continue
		}
		out[key] = value
	}
	return out
}

func volumes(mounts []container.MountPoint) []models.Volume {
	out := make([]models.Volume, 0, len(mounts))
	for _, m := range mounts {
		out = append(out, models.Volume{Source: m.Source, Target: m.Destination})
	}
	return out
}

// linkTargets reduces legacy links ("/db:/web/db") to the linked container name.
func linkTargets(links []string) []string {
	out := make([]string, 0, len(links))
	for _, link := range links {
		name, _, _ := strings.Cut(link, ":")
		name = strings.TrimPrefix(name, "/")
		if name != "" {
			out = append(out, name)
		}
	}
	return out
}

func mountSources(mounts []container.MountPoint) []string {
	out := make([]string, 0, len(mounts))
	for _, m := range mounts {
		out = append(out, m.Source)
	}
	return out
}

func networkNames(settings *container.NetworkSettings) []string {
	if settings == nil {
		return []string{}
	}
	out := make([]string, 0, len(settings.Networks))
	for name := range settings.Networks {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// familiarImage shortens fully qualified Docker Hub references
// ("docker.io/library/nginx:latest" becomes "nginx:latest"). Image IDs and
// unparsable references are returned unchanged.
func familiarImage(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "sha256:") {
		return ref
	}
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return ref
	}
	return reference.FamiliarString(named)
}

// primed reports whether the sample carries previous CPU counters. Without
// them the current counters are lifetime totals, not an interval.
func primed(s *container.StatsResponse) bool {
	return s.PreCPUStats.SystemUsage != 0
}

// cpuPercent derives usage from the engine's own previous/current counters.
// An unprimed sample or a non-positive system delta reports zero.
func cpuPercent(s *container.StatsResponse) float64 {
	if !primed(s) {
		return 0
	}
	cpuDelta := float64(s.CPUStats.CPUUsage.TotalUsage) - float64(s.PreCPUStats.CPUUsage.TotalUsage)
	systemDelta := float64(s.CPUStats.SystemUsage) - float64(s.PreCPUStats.SystemUsage)
	if systemDelta <= 0 || cpuDelta < 0 {
		return 0
	}
	return round2(cpuDelta / systemDelta * 100)
}

func memoryMB(s *container.StatsResponse) float64 {
	return round2(float64(s.MemoryStats.Usage) / bytesPerMB)
}

func containerStats(s *container.StatsResponse) models.ContainerStats {
	out := models.ContainerStats{
		CPUPercent:  cpuPercent(s),
		MemoryUsage: s.MemoryStats.Usage,
		MemoryLimit: s.MemoryStats.Limit,
	}
	for _, n := range s.Networks {
		out.NetworkRxBytes += n.RxBytes
		out.NetworkTxBytes += n.TxBytes
	}
	for _, entry := range s.BlkioStats.IoServiceBytesRecursive {
		switch strings.ToLower(entry.Op) {
		case "read":
			out.BlockReadBytes += entry.Value
		case "write":
			out.BlockWriteBytes += entry.Value
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
