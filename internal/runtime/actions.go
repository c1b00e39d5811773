package runtime

import (
	"context"
	"fmt"

	"github.com/docker/docker/api/types/container"

	"evalgo.org/serverdash/models"
)

// PerformAction starts, stops or restarts a container. Unknown actions are
// rejected with ErrInvalidAction before the engine is contacted. Failed
// commands are not retried.
func (c *Collector) PerformAction(ctx context.Context, id, action string) error {
	act := models.ContainerAction(action)
	if !act.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.actionTimeout)
	defer cancel()

	var err error
	switch act {
	case models.ActionStart:
		err = c.api.ContainerStart(callCtx, id, container.StartOptions{})
	case models.ActionStop:
		err = c.api.ContainerStop(callCtx, id, container.StopOptions{})
	case models.ActionRestart:
		err = c.api.ContainerRestart(callCtx, id, container.StopOptions{})
	}
	if err != nil {
		return wrapErr(action, id, err)
	}

	c.logger.Info("container action completed", "id", id, "action", action)
	return nil
}
