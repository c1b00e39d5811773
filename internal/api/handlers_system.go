package api

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"evalgo.org/serverdash/models"
)

// getSystemInfo returns the host OS, CPU model and memory size.
// @Summary Get system information
// @Description Get the host OS, CPU model and memory size in GB
// @Tags System
// @Produce json
// @Success 200 {object} models.SystemInfo "System information"
// @Failure 500 {object} APIError "Internal server error"
// @Router /api/system [get]
func (s *Server) getSystemInfo(c echo.Context) error {
	info, err := s.deps.Host.SystemInfo(detached(c))
	if err != nil {
		s.logger.Error("failed to fetch system information", "error", err)
		return InternalError("Failed to fetch system information", err)
	}
	return c.JSON(http.StatusOK, info)
}

// getNetworkInfo returns the container network count together with the
// configured VPN and proxy status.
// @Summary Get network information
// @Description Get the container network count with the configured VPN and proxy status
// @Tags System
// @Produce json
// @Success 200 {object} models.NetworkInfo "Network information"
// @Failure 500 {object} APIError "Internal server error"
// @Router /api/network [get]
func (s *Server) getNetworkInfo(c echo.Context) error {
	count, err := s.deps.Runtime.NetworkCount(detached(c))
	if err != nil {
		s.logger.Error("failed to fetch network information", "error", err)
		return InternalError("Failed to fetch network information", err)
	}

	return c.JSON(http.StatusOK, models.NetworkInfo{
		DockerNetworks: count,
		VPNStatus:      s.config.Network.VPNStatus,
		ProxyStatus:    s.config.Network.ProxyStatus,
	})
}

// getPolling publishes the refresh cadence dashboard clients follow.
// @Summary Get polling intervals
// @Description Get the refresh cadence in milliseconds for each dashboard resource
// @Tags System
// @Produce json
// @Success 200 {object} models.PollingIntervals "Polling intervals"
// @Router /api/ui/polling [get]
func (s *Server) getPolling(c echo.Context) error {
	return c.JSON(http.StatusOK, s.config.Polling())
}
