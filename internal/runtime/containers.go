package runtime

import (
	"context"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"golang.org/x/sync/errgroup"

	"evalgo.org/serverdash/internal/metrics"
	"evalgo.org/serverdash/models"
)

// Containers returns the detail view of every container in enumeration
// order, including live statistics. The same partial failure policy as
// ListServices applies.
func (c *Collector) Containers(ctx context.Context) ([]models.DockerContainer, error) {
	summaries, err := c.list(ctx)
	if err != nil {
		return nil, err
	}

	slots := make([]*models.DockerContainer, len(summaries))
	var g errgroup.Group
	for i, s := range summaries {
		g.Go(func() error {
			slots[i] = c.buildContainer(ctx, s)
			return nil
		})
	}
	_ = g.Wait()

	out := make([]models.DockerContainer, 0, len(slots))
	for _, dc := range slots {
		if dc != nil {
			out = append(out, *dc)
		}
	}
	return out, nil
}

func (c *Collector) buildContainer(ctx context.Context, s container.Summary) *models.DockerContainer {
	var (
		details  container.InspectResponse
		inspErr  error
		stats    *container.StatsResponse
		statsErr error
	)

	var g errgroup.Group
	g.Go(func() error {
		details, inspErr = c.inspect(ctx, s.ID)
		return nil
	})
	g.Go(func() error {
		stats, statsErr = c.sample(ctx, s.ID)
		return nil
	})
	_ = g.Wait()

	if inspErr != nil {
		metrics.CollectorDropped.WithLabelValues(metrics.CollectorRuntime).Inc()
		c.logger.Warn("dropping container that could not be inspected", "id", s.ID, "error", inspErr)
		return nil
	}

	state := string(s.State)
	if details.ContainerJSONBase != nil && details.State != nil {
		state = string(details.State.Status)
	}

	dc := &models.DockerContainer{
		ID:       s.ID,
		Name:     containerName(s.Names, inspectedName(details)),
		Image:    familiarImage(s.Image),
		State:    containerState(state),
		Status:   s.Status,
		Uptime:   c.uptimeOf(details),
		Ports:    portMappings(s.Ports),
		Mounts:   mountSources(details.Mounts),
		Networks: networkNames(details.NetworkSettings),
	}

	if statsErr != nil {
		metrics.Degraded(metrics.CollectorRuntime, "stats")
		c.logger.Debug("stats sample failed", "id", s.ID, "error", statsErr)
	} else {
		dc.Stats = containerStats(stats)
	}
	return dc
}

// Stats counts containers by state together with images, volumes and
// networks. Any failed enumeration fails the whole call.
func (c *Collector) Stats(ctx context.Context) (models.DockerStats, error) {
	var (
		containers []container.Summary
		images     []image.Summary
		vols       volume.ListResponse
		networks   []network.Summary
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		containers, err = c.list(gctx)
		return err
	})
	g.Go(func() error {
		callCtx, cancel := c.call(gctx)
		defer cancel()
		var err error
		if images, err = c.api.ImageList(callCtx, image.ListOptions{}); err != nil {
			return wrapErr("images", "", err)
		}
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := c.call(gctx)
		defer cancel()
		var err error
		if vols, err = c.api.VolumeList(callCtx, volume.ListOptions{}); err != nil {
			return wrapErr("volumes", "", err)
		}
		return nil
	})
	g.Go(func() error {
		callCtx, cancel := c.call(gctx)
		defer cancel()
		var err error
		if networks, err = c.api.NetworkList(callCtx, network.ListOptions{}); err != nil {
			return wrapErr("networks", "", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return models.DockerStats{}, err
	}

	stats := models.DockerStats{
		Containers: len(containers),
		Images:     len(images),
		Volumes:    len(vols.Volumes),
		Networks:   len(networks),
	}
	for _, s := range containers {
		switch string(s.State) {
		case "running":
			stats.ContainersRunning++
		case "exited":
			stats.ContainersStopped++
		default:
			stats.ContainersErrored++
		}
	}
	return stats, nil
}

// NetworkCount returns the number of engine networks.
func (c *Collector) NetworkCount(ctx context.Context) (int, error) {
	callCtx, cancel := c.call(ctx)
	defer cancel()

	networks, err := c.api.NetworkList(callCtx, network.ListOptions{})
	if err != nil {
		return 0, wrapErr("networks", "", err)
	}
	return len(networks), nil
}
