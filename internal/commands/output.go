package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"evalgo.org/serverdash/models"
	"evalgo.org/serverdash/pkg/serverdash/client"
)

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newClient() (*client.Client, error) {
	return client.New(cfg.Client.APIURL,
		client.WithToken(cfg.Client.Token),
		client.WithTimeout(cfg.Client.Timeout),
	)
}

func printServices(out io.Writer, resp *client.ServicesResponse) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	switch resp.List.Detail {
	case models.DetailStatus:
		fmt.Fprintln(w, "NAME\tSTATUS\tUPTIME\tCPU %\tMEMORY MB")
		for _, s := range resp.List.Statuses {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.2f\n", s.Name, s.Status, s.Uptime, s.CPU, s.Memory)
		}
	default:
		fmt.Fprintln(w, "NAME\tTYPE\tSTATUS\tCATEGORY\tPORTS\tUPTIME")
		for _, s := range resp.List.Services {
			category := "-"
			if s.Category != nil {
				category = s.Category.Name
			}
			uptime := s.Uptime
			if uptime == "" {
				uptime = "-"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", s.Name, s.Kind, s.Status, category, formatPorts(s.PortMapping), uptime)
		}
	}
	_ = w.Flush()

	fmt.Fprintf(out, "\nTotal: %d services\n", resp.List.Len())
	if resp.Degraded > 0 {
		fmt.Fprintf(out, "Degraded sub-queries: %d\n", resp.Degraded)
	}
	if len(resp.Failed) > 0 {
		fmt.Fprintf(out, "⚠️  Failed collectors: %s\n", strings.Join(resp.Failed, ", "))
	}
}

func printContainers(out io.Writer, containers []models.DockerContainer) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tIMAGE\tSTATE\tUPTIME\tCPU %\tMEMORY")
	for _, c := range containers {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%.2f\t%s\n",
			shortID(c.ID), c.Name, c.Image, c.State, c.Uptime, c.Stats.CPUPercent,
			formatBytes(c.Stats.MemoryUsage))
	}
	_ = w.Flush()
	fmt.Fprintf(out, "\nTotal: %d containers\n", len(containers))
}

func formatPorts(ports []models.PortMapping) string {
	if len(ports) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(ports))
	for _, p := range ports {
		parts = append(parts, fmt.Sprintf("%d->%d/%s", p.External, p.Internal, p.Protocol))
	}
	return strings.Join(parts, ",")
}

func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
