package runtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/docker/docker/api/types/container"
	"golang.org/x/sync/errgroup"

	"evalgo.org/serverdash/internal/metrics"
	"evalgo.org/serverdash/models"
)

const (
	defaultCallTimeout   = 5 * time.Second
	defaultActionTimeout = 30 * time.Second
)

// Collector queries the container runtime. It holds no per-request state
// and is safe for concurrent use.
type Collector struct {
	api           API
	callTimeout   time.Duration
	actionTimeout time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

// Option configures a Collector.
type Option func(*Collector)

// WithCallTimeout bounds every query issued to the engine.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.callTimeout = d
		}
	}
}

// WithActionTimeout bounds start, stop and restart commands.
func WithActionTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.actionTimeout = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *Collector) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithClock replaces the time source used for uptime.
func WithClock(now func() time.Time) Option {
	return func(c *Collector) {
		if now != nil {
			c.now = now
		}
	}
}

// New creates a Collector over an engine client.
func New(api API, opts ...Option) *Collector {
	c := &Collector{
		api:           api,
		callTimeout:   defaultCallTimeout,
		actionTimeout: defaultActionTimeout,
		logger:        slog.Default(),
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("collector", metrics.CollectorRuntime)
	return c
}

// Close releases the engine connection.
func (c *Collector) Close() error {
	return c.api.Close()
}

func (c *Collector) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.callTimeout)
}

// ListServices returns every container, running or not, as a Service in
// engine enumeration order. Containers that cannot be inspected are dropped;
// a failed usage sample leaves zeroed resources.
func (c *Collector) ListServices(ctx context.Context) ([]models.Service, error) {
	summaries, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	slots := make([]*models.Service, len(summaries))
	var g errgroup.Group
	for i, s := range summaries {
		g.Go(func() error {
			slots[i] = c.buildService(ctx, s)
			return nil
		})
	}
	_ = g.Wait()

	services := make([]models.Service, 0, len(slots))
	for _, svc := range slots {
		if svc != nil {
			services = append(services, *svc)
		}
	}
	return services, nil
}

func (c *Collector) list(ctx context.Context) ([]container.Summary, error) {
	callCtx, cancel := c.call(ctx)
	defer cancel()

	summaries, err := c.api.ContainerList(callCtx, container.ListOptions{All: true})
	if err != nil {
		metrics.CollectorFailures.WithLabelValues(metrics.CollectorRuntime).Inc()
		return nil, wrapErr("list", "", err)
	}
	return summaries, nil
}

func (c *Collector) buildService(ctx context.Context, s container.Summary) *models.Service {
	var (
		details container.InspectResponse
		usage   models.Result[models.Resources]
		inspErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		details, inspErr = c.inspect(ctx, s.ID)
		return nil
	})
	g.Go(func() error {
		usage = c.Usage(ctx, s.ID)
		return nil
	})
	_ = g.Wait()

	if inspErr != nil {
		metrics.CollectorDropped.WithLabelValues(metrics.CollectorRuntime).Inc()
		c.logger.Warn("dropping container that could not be inspected", "id", s.ID, "error", inspErr)
		return nil
	}

	svc := models.NewService(s.ID, containerName(s.Names, inspectedName(details)), models.KindApp)
	svc.Status = serviceState(string(s.State))
	svc.PortMapping = portMappings(s.Ports)
	if details.Config != nil {
		svc.Env = envMap(details.Config.Env)
	}
	svc.Volumes = volumes(details.Mounts)
	if details.ContainerJSONBase != nil && details.HostConfig != nil {
		svc.Dependencies = linkTargets(details.HostConfig.Links)
	}
	resources := usage.Value
	svc.Resources = &resources
	svc.ResourcesDegraded = usage.Degraded
	svc.Uptime = c.uptimeOf(details)
	return &svc
}

func (c *Collector) inspect(ctx context.Context, id string) (container.InspectResponse, error) {
	callCtx, cancel := c.call(ctx)
	defer cancel()

	details, err := c.api.ContainerInspect(callCtx, id)
	if err != nil {
		return container.InspectResponse{}, wrapErr("inspect", id, err)
	}
	return details, nil
}

func inspectedName(details container.InspectResponse) string {
	if details.ContainerJSONBase == nil {
		return ""
	}
	return details.Name
}

func (c *Collector) uptimeOf(details container.InspectResponse) string {
	if details.ContainerJSONBase == nil || details.State == nil {
		return models.UnknownUptime
	}
	return models.ParseUptime(details.State.StartedAt, c.now())
}

// sample takes a single, non-streaming stats reading. The engine primes it
// so that the previous CPU counters describe the preceding interval.
func (c *Collector) sample(ctx context.Context, id string) (*container.StatsResponse, error) {
	callCtx, cancel := c.call(ctx)
	defer cancel()

	resp, err := c.api.ContainerStats(callCtx, id, false)
	if err != nil {
		return nil, wrapErr("stats", id, err)
	}
	defer resp.Body.Close()

	var stats container.StatsResponse
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return nil, &RuntimeError{Op: "stats", ID: id, Err: fmt.Errorf("decode: %w", err)}
	}
	return &stats, nil
}

// Usage samples CPU percentage and memory in megabytes. On failure the
// result is degraded to zeros.
func (c *Collector) Usage(ctx context.Context, id string) models.Result[models.Resources] {
	stats, err := c.sample(ctx, id)
	if err != nil {
		metrics.Degraded(metrics.CollectorRuntime, "usage")
		c.logger.Debug("usage sample failed", "id", id, "error", err)
		return models.Degraded(models.Resources{}, err)
	}
	if !primed(stats) {
		metrics.Degraded(metrics.CollectorRuntime, "usage")
		return models.Degraded(models.Resources{Memory: memoryMB(stats)}, &RuntimeError{Op: "stats", ID: id, Err: errUnprimed})
	}
	return models.Ok(models.Resources{CPU: cpuPercent(stats), Memory: memoryMB(stats)})
}

// Uptime reports time since the container last started, degraded to
// "Unknown" when the container cannot be inspected.
func (c *Collector) Uptime(ctx context.Context, id string) models.Result[string] {
	details, err := c.inspect(ctx, id)
	if err != nil {
		metrics.Degraded(metrics.CollectorRuntime, "uptime")
		return models.Degraded(models.UnknownUptime, err)
	}
	return models.Ok(c.uptimeOf(details))
}
