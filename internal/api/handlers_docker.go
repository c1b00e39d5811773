package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"evalgo.org/serverdash/internal/runtime"
	"evalgo.org/serverdash/internal/validation"
	"evalgo.org/serverdash/models"
)

// ContainerLogsRequest represents the request parameters for fetching container logs
type ContainerLogsRequest struct {
	ID    string `param:"id" validate:"required,container_ref"`
	Tail  string `query:"tail"`  // Number of lines from end (default: 100)
	Since string `query:"since"` // Show logs since timestamp/duration
}

// ContainerActionRequest represents a lifecycle command on one container.
type ContainerActionRequest struct {
	ID     string `param:"id" validate:"required,container_ref"`
	Action string `param:"action" validate:"required"`
}

// listContainers returns every container with inspected detail and stats.
// @Summary List containers
// @Description Get every container with inspected ports, mounts, networks and a stats sample
// @Tags Docker
// @Produce json
// @Success 200 {array} models.DockerContainer "List of containers"
// @Failure 500 {object} APIError "Internal server error"
// @Router /api/docker/containers [get]
func (s *Server) listContainers(c echo.Context) error {
	containers, err := s.deps.Runtime.Containers(detached(c))
	if err != nil {
		s.logger.Error("failed to fetch containers", "error", err)
		return InternalError("Failed to fetch containers", err)
	}
	if containers == nil {
		containers = []models.DockerContainer{}
	}
	return c.JSON(http.StatusOK, containers)
}

// getDockerStats returns container, image, volume and network counts.
// @Summary Get Docker statistics
// @Description Get container, image, volume and network counts
// @Tags Docker
// @Produce json
// @Success 200 {object} models.DockerStats "Docker statistics"
// @Failure 500 {object} APIError "Internal server error"
// @Router /api/docker/stats [get]
func (s *Server) getDockerStats(c echo.Context) error {
	stats, err := s.deps.Runtime.Stats(detached(c))
	if err != nil {
		s.logger.Error("failed to fetch docker statistics", "error", err)
		return InternalError("Failed to fetch Docker statistics", err)
	}
	return c.JSON(http.StatusOK, stats)
}

// getContainerLogs returns the trailing log lines of a container.
// @Summary Get container logs
// @Description Get the trailing log lines of a container, one entry per line
// @Tags Docker
// @Produce json
// @Param id path string true "Container ID or name"
// @Param tail query int false "Number of lines from the end" default(100)
// @Param since query string false "Only lines since a timestamp or relative duration"
// @Success 200 {array} string "Log lines"
// @Failure 400 {object} APIError "Invalid container reference"
// @Failure 500 {object} APIError "Internal server error"
// @Router /api/docker/containers/{id}/logs [get]
func (s *Server) getContainerLogs(c echo.Context) error {
	var req ContainerLogsRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid query parameters", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	lines, err := s.deps.Runtime.Logs(detached(c), req.ID, parseTail(req.Tail), req.Since)
	if err != nil {
		s.logger.Error("failed to fetch container logs", "id", req.ID, "error", err)
		if errors.Is(err, runtime.ErrNotFound) {
			return InternalError("Failed to fetch container logs: container not found", err)
		}
		return InternalError("Failed to fetch container logs", err)
	}
	if lines == nil {
		lines = []string{}
	}
	return c.JSON(http.StatusOK, lines)
}

// parseTail reads the tail parameter, falling back to the default for
// anything that is not a positive integer.
func parseTail(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return runtime.DefaultLogTail
	}
	return n
}

// containerAction starts, stops or restarts a container.
// @Summary Perform container action
// @Description Start, stop or restart a container
// @Tags Docker
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Container ID or name"
// @Param action path string true "Lifecycle action" Enums(start, stop, restart)
// @Success 200 {object} map[string]bool "Action succeeded"
// @Failure 400 {object} APIError "Invalid action"
// @Failure 401 {object} APIError "Unauthorized"
// @Failure 500 {object} APIError "Internal server error"
// @Router /api/docker/containers/{id}/{action} [post]
func (s *Server) containerAction(c echo.Context) error {
	var req ContainerActionRequest
	if err := c.Bind(&req); err != nil {
		return BadRequestError("Invalid request", err.Error())
	}

	if !models.ContainerAction(req.Action).Valid() {
		return BadRequestError("Invalid action", "")
	}
	if err := c.Validate(&req); err != nil {
		return validationError(err)
	}

	if err := s.deps.Runtime.PerformAction(detached(c), req.ID, req.Action); err != nil {
		if errors.Is(err, runtime.ErrInvalidAction) {
			return BadRequestError("Invalid action", "")
		}
		s.logger.Error("container action failed", "id", req.ID, "action", req.Action, "error", err)
		return InternalError(fmt.Sprintf("Failed to %s container", req.Action), err)
	}

	return c.JSON(http.StatusOK, map[string]bool{"success": true})
}

func validationError(err error) error {
	var result *validation.ValidationResult
	if errors.As(err, &result) {
		return BadRequestError("Invalid request parameters", result.Error())
	}
	return BadRequestError("Invalid request parameters", err.Error())
}
