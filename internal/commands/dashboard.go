package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"evalgo.org/serverdash/internal/aggregator"
	"evalgo.org/serverdash/models"
	"evalgo.org/serverdash/pkg/serverdash/client"
)

var (
	outputFormat string
	filterFlag   string
	detailFlag   string
	logsTail     int
	logsSince    string
	watchEvery   time.Duration
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List containers and system services",
	Long: `Query the aggregated service list of a running server.

Examples:
  serverdash services
  serverdash services --filter critical --detail status
  serverdash services --filter docker --format json`,
	Args: cobra.NoArgs,
	RunE: runServices,
}

var containersCmd = &cobra.Command{
	Use:   "containers",
	Short: "List Docker containers with resource usage",
	Args:  cobra.NoArgs,
	RunE:  runContainers,
}

var logsCmd = &cobra.Command{
	Use:   "logs [container]",
	Short: "Show the recent log lines of a container",
	Long: `Fetch the tail of a container's combined output.

Examples:
  serverdash logs web
  serverdash logs web --tail 500 --since 10m`,
	Args: cobra.ExactArgs(1),
	RunE: runLogs,
}

var actionCmd = &cobra.Command{
	Use:   "action [container] [start|stop|restart]",
	Short: "Start, stop or restart a container",
	Long: `Run a lifecycle action on a container.

When the server has security.auth_enabled set, client.token must hold a
token created with "serverdash token".

Examples:
  serverdash action web restart`,
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{string(models.ActionStart), string(models.ActionStop), string(models.ActionRestart)},
	RunE:      runAction,
}

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show host, network and container totals",
	Args:  cobra.NoArgs,
	RunE:  runSystem,
}

var watchCmd = &cobra.Command{
	Use:   "watch [services|critical|containers|system]",
	Short: "Continuously refresh a dashboard view",
	Long: `Re-query one dashboard view until interrupted.

The refresh interval defaults to the cadence the server publishes for the
resource. "critical" is the services view restricted to the critical
filter.

Examples:
  serverdash watch
  serverdash watch critical --detail status
  serverdash watch containers --interval 2s`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"services", "critical", "containers", "system"},
	RunE:      runWatch,
}

func init() {
	for _, c := range []*cobra.Command{servicesCmd, containersCmd, logsCmd, systemCmd} {
		c.Flags().StringVar(&outputFormat, "format", "table", "output format (table, json)")
	}
	for _, c := range []*cobra.Command{servicesCmd, watchCmd} {
		c.Flags().StringVar(&filterFlag, "filter", string(models.FilterAll), "service filter (all, critical, docker, system)")
		c.Flags().StringVar(&detailFlag, "detail", string(models.DetailFull), "detail level (full, status)")
	}

	logsCmd.Flags().IntVar(&logsTail, "tail", 100, "number of lines")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "only lines newer than this (e.g. 10m, RFC 3339)")

	watchCmd.Flags().DurationVar(&watchEvery, "interval", 0, "refresh interval (default: published by the server)")
}

func parseServiceFlags() (models.Filter, models.Detail, error) {
	filter, err := aggregator.ParseFilter(filterFlag)
	if err != nil {
		return "", "", err
	}
	detail, err := aggregator.ParseDetail(detailFlag)
	if err != nil {
		return "", "", err
	}
	return filter, detail, nil
}

func runServices(cmd *cobra.Command, args []string) error {
	filter, detail, err := parseServiceFlags()
	if err != nil {
		return err
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	resp, err := c.Services(cmd.Context(), filter, detail)
	if err != nil {
		return fmt.Errorf("failed to fetch services: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), resp.List)
	}
	printServices(cmd.OutOrStdout(), resp)
	return nil
}

func runContainers(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	containers, err := c.Containers(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to fetch containers: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), containers)
	}
	printContainers(cmd.OutOrStdout(), containers)
	return nil
}

func runLogs(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}

	lines, err := c.Logs(cmd.Context(), args[0], logsTail, logsSince)
	if err != nil {
		return fmt.Errorf("failed to fetch logs: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(cmd.OutOrStdout(), lines)
	}
	for _, line := range lines {
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

func runAction(cmd *cobra.Command, args []string) error {
	id, action := args[0], models.ContainerAction(args[1])
	if !action.Valid() {
		return fmt.Errorf("invalid action %q (use start, stop or restart)", args[1])
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	if err := c.Action(cmd.Context(), id, action); err != nil {
		return fmt.Errorf("failed to %s container: %w", action, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s: %s\n", id, action)
	return nil
}

func runSystem(cmd *cobra.Command, args []string) error {
	c, err := newClient()
	if err != nil {
		return err
	}
	return printSystem(cmd.Context(), cmd.OutOrStdout(), c)
}

// printSystem renders host facts, network status and container totals.
func printSystem(ctx context.Context, out io.Writer, c *client.Client) error {
	info, err := c.System(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch system information: %w", err)
	}
	network, err := c.Network(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch network information: %w", err)
	}
	stats, err := c.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch docker statistics: %w", err)
	}

	if outputFormat == "json" {
		return printJSON(out, map[string]interface{}{
			"system":  info,
			"network": network,
			"docker":  stats,
		})
	}

	fmt.Fprintf(out, "OS:           %s\n", info.OS)
	fmt.Fprintf(out, "CPU:          %s\n", info.CPU)
	fmt.Fprintf(out, "RAM:          %d GB\n", info.RAM)
	fmt.Fprintf(out, "Networks:     %d\n", network.DockerNetworks)
	fmt.Fprintf(out, "VPN:          %s\n", network.VPNStatus)
	fmt.Fprintf(out, "Proxy:        %s\n", network.ProxyStatus)
	fmt.Fprintf(out, "Containers:   %d (%d running, %d stopped, %d errored)\n",
		stats.Containers, stats.ContainersRunning, stats.ContainersStopped, stats.ContainersErrored)
	fmt.Fprintf(out, "Images:       %d\n", stats.Images)
	fmt.Fprintf(out, "Volumes:      %d\n", stats.Volumes)
	return nil
}

// watchInterval picks the explicit interval, else the server's cadence for
// the resource, else a fallback.
func watchInterval(ctx context.Context, c *client.Client, resource string) time.Duration {
	const fallback = 30 * time.Second
	if watchEvery > 0 {
		return watchEvery
	}

	p, err := c.Polling(ctx)
	if err != nil {
		return fallback
	}
	if d := p.Interval(resource); d > 0 {
		return d
	}
	return fallback
}

func runWatch(cmd *cobra.Command, args []string) error {
	resource := "services"
	if len(args) == 1 {
		resource = args[0]
	}

	filter, detail, err := parseServiceFlags()
	if err != nil {
		return err
	}

	var render func(ctx context.Context, out io.Writer, c *client.Client) error
	switch resource {
	case "services", "critical":
		if resource == "critical" {
			filter = models.FilterCritical
		}
		render = func(ctx context.Context, out io.Writer, c *client.Client) error {
			resp, err := c.Services(ctx, filter, detail)
			if err != nil {
				return err
			}
			printServices(out, resp)
			return nil
		}
	case "containers":
		render = func(ctx context.Context, out io.Writer, c *client.Client) error {
			containers, err := c.Containers(ctx)
			if err != nil {
				return err
			}
			printContainers(out, containers)
			return nil
		}
	case "system":
		render = printSystem
	default:
		return fmt.Errorf("unknown resource %q (use services, critical, containers or system)", resource)
	}

	c, err := newClient()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	interval := watchInterval(ctx, c, resource)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	out := cmd.OutOrStdout()
	for {
		fmt.Fprint(out, "\033[H\033[2J")
		fmt.Fprintf(out, "serverdash %s every %s, %s\n\n", resource, interval, time.Now().Format(time.TimeOnly))

		if err := render(ctx, out, c); err != nil {
			fmt.Fprintf(out, "⚠️  %v\n", err)
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}
