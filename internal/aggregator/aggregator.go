// Package aggregator merges container and system service listings into one
// classified collection and derives the full and status projections.
package aggregator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"evalgo.org/serverdash/internal/category"
	"evalgo.org/serverdash/internal/metrics"
	"evalgo.org/serverdash/models"
)

// RuntimeSource lists container services. *runtime.Collector satisfies it.
type RuntimeSource interface {
	ListServices(ctx context.Context) ([]models.Service, error)
	Usage(ctx context.Context, id string) models.Result[models.Resources]
	Uptime(ctx context.Context, id string) models.Result[string]
}

// SystemSource lists service manager units. *systemd.Collector satisfies it.
type SystemSource interface {
	ListUnitNames(ctx context.Context) models.Result[[]string]
	CriticalServices() []string
	Services(ctx context.Context, names []string) []models.Service
	ResourceUsage(ctx context.Context, name string) models.Result[models.Resources]
	Uptime(ctx context.Context, name string, now time.Time) models.Result[string]
}

// Report describes how an aggregation degraded. Failed names the collectors
// whose whole listing failed; Degraded counts per-service sub-queries that
// fell back to a default.
type Report struct {
	Failed   []string
	Degraded int
	Err      error
}

// OK reports whether every collector listing succeeded.
func (r Report) OK() bool {
	return len(r.Failed) == 0 && r.Err == nil
}

// FailedHeader renders Failed as a comma separated list.
func (r Report) FailedHeader() string {
	return strings.Join(r.Failed, ",")
}

// Aggregator answers service queries. It holds no state between calls;
// every call re-queries the collectors.
type Aggregator struct {
	runtime RuntimeSource
	system  SystemSource
	logger  *slog.Logger
	now     func() time.Time
}

type Option func(*Aggregator)

func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Aggregator. A nil system source disables system services.
func New(rt RuntimeSource, sys SystemSource, opts ...Option) *Aggregator {
	a := &Aggregator{
		runtime: rt,
		system:  sys,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ParseFilter validates a filter query value. Empty means all.
func ParseFilter(s string) (models.Filter, error) {
	switch f := models.Filter(s); f {
	case "":
		return models.FilterAll, nil
	case models.FilterAll, models.FilterCritical, models.FilterDocker, models.FilterSystem:
		return f, nil
	default:
		return "", fmt.Errorf("unknown filter %q", s)
	}
}

// ParseDetail validates a detail query value. Empty means full.
func ParseDetail(s string) (models.Detail, error) {
	switch d := models.Detail(s); d {
	case "":
		return models.DetailFull, nil
	case models.DetailFull, models.DetailStatus:
		return d, nil
	default:
		return "", fmt.Errorf("unknown detail %q", s)
	}
}

// GetServices lists the services selected by filter in the projection
// selected by detail. It never fails: an unexpected fault yields an empty
// list, and the report tells a failed aggregation apart from an empty one.
func (a *Aggregator) GetServices(ctx context.Context, filter models.Filter, detail models.Detail) (list models.ServiceList, report Report) {
	start := time.Now()
	defer func() {
		metrics.AggregationDuration.WithLabelValues(string(filter), string(detail)).Observe(time.Since(start).Seconds())
	}()
	defer func() {
		if r := recover(); r != nil {
			err, ok := r.(*panicError)
			if !ok {
				err = &panicError{value: r}
			}
			a.logger.Error("service aggregation failed", "filter", filter, "detail", detail, "panic", err.value)
			list = models.EmptyList(detail)
			report = Report{Err: err}
		}
	}()

	services, report := a.collect(ctx, filter)
	for i := range services {
		cat := category.Lookup(services[i].Name)
		services[i].Category = &cat
	}

	if detail == models.DetailStatus {
		statuses, degraded := a.statuses(ctx, services)
		report.Degraded += degraded
		return models.StatusList(statuses), report
	}
	return models.FullList(services), report
}

func (a *Aggregator) collect(ctx context.Context, filter models.Filter) ([]models.Service, Report) {
	var report Report

	switch filter {
	case models.FilterDocker:
		return a.containers(ctx, &report), report
	case models.FilterSystem:
		return a.units(ctx, &report, false), report
	case models.FilterCritical:
		return a.units(ctx, &report, true), report
	case models.FilterAll:
		var containers, units []models.Service
		var rtReport, sysReport Report
		var g errgroup.Group
		goSafe(&g, func() {
			containers = a.containers(ctx, &rtReport)
		})
		goSafe(&g, func() {
			units = a.units(ctx, &sysReport, false)
		})
		wait(&g)
		report.Failed = append(rtReport.Failed, sysReport.Failed...)
		return uniqueIDs(append(containers, units...)), report
	default:
		a.logger.Warn("unknown service filter", "filter", filter)
		return []models.Service{}, report
	}
}

func (a *Aggregator) containers(ctx context.Context, report *Report) []models.Service {
	if a.runtime == nil {
		return []models.Service{}
	}
	services, err := a.runtime.ListServices(ctx)
	if err != nil {
		a.logger.Error("failed to list container services", "error", err)
		report.Failed = append(report.Failed, metrics.CollectorRuntime)
		return []models.Service{}
	}
	return services
}

func (a *Aggregator) units(ctx context.Context, report *Report, critical bool) []models.Service {
	if a.system == nil {
		return []models.Service{}
	}
	var names []string
	if critical {
		names = a.system.CriticalServices()
	} else {
		res := a.system.ListUnitNames(ctx)
		if res.Degraded {
			a.logger.Error("failed to list system services", "error", res.Err)
			report.Failed = append(report.Failed, metrics.CollectorSystemd)
		}
		names = res.Value
	}
	return a.system.Services(ctx, names)
}

// errSampleDegraded marks a usage value the runtime already defaulted while
// listing.
var errSampleDegraded = errors.New("usage sampled during listing was degraded")

// panicError carries a panic raised by a collaborator.
type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("aggregation panicked: %v", e.value)
}

// goSafe runs fn on g. A panic in fn is returned from g.Wait instead of
// terminating the process.
func goSafe(g *errgroup.Group, fn func()) {
	g.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				if pe, ok := r.(*panicError); ok {
					err = pe
				} else {
					err = &panicError{value: r}
				}
			}
		}()
		fn()
		return nil
	})
}

// wait waits for g and raises a worker panic again on the calling
// goroutine, where GetServices recovers it.
func wait(g *errgroup.Group) {
	if err := g.Wait(); err != nil {
		panic(err)
	}
}

// uniqueIDs drops later services whose id was already seen.
func uniqueIDs(services []models.Service) []models.Service {
	seen := make(map[string]struct{}, len(services))
	out := services[:0]
	for _, svc := range services {
		if _, ok := seen[svc.ID]; ok {
			continue
		}
		seen[svc.ID] = struct{}{}
		out = append(out, svc)
	}
	return out
}

// statuses resolves the status projection of each service concurrently,
// keeping the input order. It returns the number of degraded sub-queries.
func (a *Aggregator) statuses(ctx context.Context, services []models.Service) ([]models.ServiceStatus, int) {
	out := make([]models.ServiceStatus, len(services))
	var degraded atomic.Int64
	var g errgroup.Group
	for i, svc := range services {
		goSafe(&g, func() {
			usage, uptime := a.resolve(ctx, svc)
			if usage.Degraded {
				degraded.Add(1)
			}
			if uptime.Degraded {
				degraded.Add(1)
			}
			out[i] = ToStatus(svc, usage.Value, uptime.Value)
		})
	}
	wait(&g)
	return out, int(degraded.Load())
}

// resolve returns usage and uptime of one service. Container services carry
// values sampled during this listing, including a degraded usage sample;
// anything missing is queried again.
func (a *Aggregator) resolve(ctx context.Context, svc models.Service) (models.Result[models.Resources], models.Result[string]) {
	var (
		usage  models.Result[models.Resources]
		uptime models.Result[string]
	)

	if svc.Kind == models.KindApp {
		if svc.Resources != nil {
			usage = models.Ok(*svc.Resources)
			if svc.ResourcesDegraded {
				usage = models.Degraded(*svc.Resources, errSampleDegraded)
			}
		}
		if svc.Uptime != "" {
			uptime = models.Ok(svc.Uptime)
		}
		if svc.Resources != nil && svc.Uptime != "" {
			return usage, uptime
		}
	}

	var g errgroup.Group
	if svc.Kind != models.KindApp || svc.Resources == nil {
		goSafe(&g, func() {
			usage = a.usage(ctx, svc)
		})
	}
	if svc.Kind != models.KindApp || svc.Uptime == "" {
		goSafe(&g, func() {
			uptime = a.uptime(ctx, svc)
		})
	}
	wait(&g)
	return usage, uptime
}

func (a *Aggregator) usage(ctx context.Context, svc models.Service) models.Result[models.Resources] {
	if svc.Kind == models.KindApp {
		if a.runtime == nil {
			return models.Degraded(models.Resources{}, fmt.Errorf("no container runtime"))
		}
		return a.runtime.Usage(ctx, svc.ID)
	}
	if a.system == nil {
		return models.Degraded(models.Resources{}, fmt.Errorf("no service manager"))
	}
	return a.system.ResourceUsage(ctx, svc.ID)
}

func (a *Aggregator) uptime(ctx context.Context, svc models.Service) models.Result[string] {
	if svc.Kind == models.KindApp {
		if a.runtime == nil {
			return models.Degraded(models.UnknownUptime, fmt.Errorf("no container runtime"))
		}
		return a.runtime.Uptime(ctx, svc.ID)
	}
	if a.system == nil {
		return models.Degraded(models.UnknownUptime, fmt.Errorf("no service manager"))
	}
	return a.system.Uptime(ctx, svc.ID, a.now())
}

// ToStatus maps a Service to its status projection.
func ToStatus(svc models.Service, usage models.Resources, uptime string) models.ServiceStatus {
	if uptime == "" {
		uptime = models.UnknownUptime
	}
	return models.ServiceStatus{
		Name:   svc.Name,
		Status: models.HealthOf(svc.Status),
		Uptime: uptime,
		Memory: usage.Memory,
		CPU:    usage.CPU,
	}
}
