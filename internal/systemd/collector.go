package systemd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/coreos/go-systemd/v22/dbus"
	"golang.org/x/sync/errgroup"

	"evalgo.org/serverdash/internal/metrics"
	"evalgo.org/serverdash/models"
)

const defaultCallTimeout = 5 * time.Second

var (
	errNoMainPID  = errors.New("unit has no main process")
	errNoActivity = errors.New("unit has no activation timestamp")
)

// Collector answers service unit queries. Every query is best effort:
// failures degrade to a default value and never propagate.
type Collector struct {
	units       UnitManager
	sampler     ProcessSampler
	critical    []string
	callTimeout time.Duration
	logger      *slog.Logger
}

type Option func(*Collector)

// WithCriticalServices replaces the critical allowlist.
func WithCriticalServices(names []string) Option {
	return func(c *Collector) {
		if len(names) > 0 {
			c.critical = append([]string(nil), names...)
		}
	}
}

// WithCallTimeout bounds every D-Bus and process table query.
func WithCallTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.callTimeout = d
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

// New creates a Collector. A nil sampler uses the process table.
func New(units UnitManager, sampler ProcessSampler, opts ...Option) *Collector {
	if sampler == nil {
		sampler = ProcessTable{}
	}
	c := &Collector{
		units:       units,
		sampler:     sampler,
		critical:    []string{"nginx", "postgresql", "docker", "ssh", "ufw", "cron", "fail2ban"},
		callTimeout: defaultCallTimeout,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("collector", metrics.CollectorSystemd)
	return c
}

// Close releases the D-Bus connection.
func (c *Collector) Close() {
	c.units.Close()
}

func (c *Collector) call(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.callTimeout)
}

// unitName appends the .service suffix to bare service names.
func unitName(name string) string {
	if strings.Contains(name, ".") {
		return name
	}
	return name + ".service"
}

// CriticalServices returns the allowlist of operationally important services.
func (c *Collector) CriticalServices() []string {
	return append([]string(nil), c.critical...)
}

// ListUnitNames enumerates every loaded service unit, sorted by name.
// Enumeration failure yields an empty, degraded result.
func (c *Collector) ListUnitNames(ctx context.Context) models.Result[[]string] {
	callCtx, cancel := c.call(ctx)
	defer cancel()

	units, err := c.listServiceUnits(callCtx)
	if err != nil {
		metrics.CollectorFailures.WithLabelValues(metrics.CollectorSystemd).Inc()
		c.logger.Error("failed to enumerate units", "error", err)
		return models.Degraded([]string{}, fmt.Errorf("list units: %w", err))
	}

	names := make([]string, 0, len(units))
	for _, u := range units {
		names = append(names, u.Name)
	}
	sort.Strings(names)
	return models.Ok(names)
}

// listServiceUnits lists loaded service units. ListUnitsByPatterns needs
// systemd 230 or later; older managers are listed in full and filtered.
func (c *Collector) listServiceUnits(ctx context.Context) ([]dbus.UnitStatus, error) {
	units, err := c.units.ListUnitsByPatternsContext(ctx, nil, []string{"*.service"})
	if err == nil {
		return units, nil
	}
	c.logger.Debug("listing units by pattern failed, listing all units", "error", err)

	all, err := c.units.ListUnitsContext(ctx)
	if err != nil {
		return nil, err
	}
	units = all[:0]
	for _, u := range all {
		if strings.HasSuffix(u.Name, ".service") {
			units = append(units, u)
		}
	}
	return units, nil
}

// UnitActive reports whether the unit's ActiveState is "active".
func (c *Collector) UnitActive(ctx context.Context, name string) models.Result[bool] {
	props, err := c.unitProperties(ctx, name)
	if err != nil {
		metrics.Degraded(metrics.CollectorSystemd, "active")
		return models.Degraded(false, err)
	}
	state, _ := props["ActiveState"].(string)
	return models.Ok(state == "active")
}

// IsActive is UnitActive with failures reported as inactive.
func (c *Collector) IsActive(ctx context.Context, name string) bool {
	return c.UnitActive(ctx, name).Value
}

// ActiveSince returns when the unit last entered the active state. The
// zero time marks an unknown activation.
func (c *Collector) ActiveSince(ctx context.Context, name string) models.Result[time.Time] {
	props, err := c.unitProperties(ctx, name)
	if err != nil {
		metrics.Degraded(metrics.CollectorSystemd, "active_since")
		return models.Degraded(time.Time{}, err)
	}
	usec, _ := props["ActiveEnterTimestamp"].(uint64)
	if usec == 0 {
		metrics.Degraded(metrics.CollectorSystemd, "active_since")
		return models.Degraded(time.Time{}, errNoActivity)
	}
	return models.Ok(time.UnixMicro(int64(usec)))
}

// Uptime formats ActiveSince, rendering an unknown activation as "Unknown".
func (c *Collector) Uptime(ctx context.Context, name string, now time.Time) models.Result[string] {
	since := c.ActiveSince(ctx, name)
	return models.Result[string]{
		Value:    models.FormatUptime(since.Value, now),
		Degraded: since.Degraded,
		Err:      since.Err,
	}
}

// ResourceUsage resolves the unit's main process and samples it. Any
// failure yields zeros.
func (c *Collector) ResourceUsage(ctx context.Context, name string) models.Result[models.Resources] {
	callCtx, cancel := c.call(ctx)
	defer cancel()

	props, err := c.units.GetUnitTypePropertiesContext(callCtx, unitName(name), "Service")
	if err != nil {
		metrics.Degraded(metrics.CollectorSystemd, "usage")
		return models.Degraded(models.Resources{}, fmt.Errorf("service properties of %s: %w", name, err))
	}

	pid, _ := props["MainPID"].(uint32)
	if pid == 0 {
		metrics.Degraded(metrics.CollectorSystemd, "usage")
		return models.Degraded(models.Resources{}, errNoMainPID)
	}

	usage, err := c.sampler.Sample(callCtx, int32(pid))
	if err != nil {
		metrics.Degraded(metrics.CollectorSystemd, "usage")
		c.logger.Debug("process sample failed", "unit", name, "pid", pid, "error", err)
		return models.Degraded(models.Resources{}, err)
	}
	return models.Ok(usage)
}

func (c *Collector) unitProperties(ctx context.Context, name string) (map[string]interface{}, error) {
	callCtx, cancel := c.call(ctx)
	defer cancel()

	props, err := c.units.GetUnitPropertiesContext(callCtx, unitName(name))
	if err != nil {
		return nil, fmt.Errorf("unit properties of %s: %w", name, err)
	}
	return props, nil
}

// Services builds a Service per name, in the given order, querying the
// active state of each concurrently.
func (c *Collector) Services(ctx context.Context, names []string) []models.Service {
	services := make([]models.Service, len(names))
	var g errgroup.Group
	for i, name := range names {
		g.Go(func() error {
			svc := models.NewService(name, name, models.KindSystem)
			if c.IsActive(ctx, name) {
				svc.Status = models.StateRunning
			}
			svc.PortMapping = portsFor(name)
			services[i] = svc
			return nil
		})
	}
	_ = g.Wait()
	return services
}
