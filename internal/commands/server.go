package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"evalgo.org/serverdash/internal/aggregator"
	"evalgo.org/serverdash/internal/api"
	"evalgo.org/serverdash/internal/config"
	"evalgo.org/serverdash/internal/hostinfo"
	"evalgo.org/serverdash/internal/runtime"
	"evalgo.org/serverdash/internal/systemd"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the API server",
	Long: `Start the dashboard HTTP API server.

The server connects to the Docker engine (DOCKER_HOST or docker.host) and,
unless systemd.enabled is false, to the systemd manager over D-Bus.`,
	RunE: runServer,
}

// collectors bundles the live data sources behind the API.
type collectors struct {
	runtime *runtime.Collector
	systemd *systemd.Collector
}

func (c *collectors) Close() {
	if c.systemd != nil {
		c.systemd.Close()
	}
	if c.runtime != nil {
		_ = c.runtime.Close()
	}
}

func openCollectors(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*collectors, error) {
	docker, err := runtime.NewDockerClient(cfg.Docker.Host)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize docker client: %w", err)
	}

	c := &collectors{
		runtime: runtime.New(docker,
			runtime.WithCallTimeout(cfg.Docker.CallTimeout),
			runtime.WithActionTimeout(cfg.Docker.ActionTimeout),
			runtime.WithLogger(logger),
		),
	}

	if !cfg.Systemd.Enabled {
		logger.Info("systemd collector disabled")
		return c, nil
	}

	conn, err := systemd.Connect(ctx)
	if err != nil {
		// The dashboard still serves containers without a service manager.
		logger.Warn("systemd unavailable, system services will be empty", "error", err)
		return c, nil
	}

	c.systemd = systemd.New(conn, nil,
		systemd.WithCriticalServices(cfg.Systemd.CriticalServices),
		systemd.WithCallTimeout(cfg.Systemd.CallTimeout),
		systemd.WithLogger(logger),
	)
	return c, nil
}

// newAggregator avoids handing a typed nil to the aggregator when the
// systemd collector is absent.
func newAggregator(c *collectors, logger *slog.Logger) *aggregator.Aggregator {
	var system aggregator.SystemSource
	if c.systemd != nil {
		system = c.systemd
	}
	return aggregator.New(c.runtime, system, aggregator.WithLogger(logger))
}

func runServer(cmd *cobra.Command, args []string) error {
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	sources, err := openCollectors(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer sources.Close()

	server := api.New(cfg, api.Dependencies{
		Services: newAggregator(sources, logger),
		Runtime:  sources.runtime,
		Host:     hostinfo.New(),
	}, logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		return nil

	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	}
}
