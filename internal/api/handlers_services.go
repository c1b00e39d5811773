package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"evalgo.org/serverdash/internal/aggregator"
	"evalgo.org/serverdash/models"
)

const (
	// HeaderServicesDegraded carries the number of per-service sub-queries
	// that fell back to a default value.
	HeaderServicesDegraded = "X-Services-Degraded"
	// HeaderServicesFailed names the collectors whose listing failed.
	HeaderServicesFailed = "X-Services-Failed"
)

// ServicesRequest selects which services to list and in which projection.
type ServicesRequest struct {
	Filter string `query:"filter" validate:"omitempty,oneof=all critical docker system"`
	Detail string `query:"detail" validate:"omitempty,oneof=full status"`
}

func (s *Server) bindServicesRequest(c echo.Context) (models.Filter, models.Detail, error) {
	var req ServicesRequest
	if err := c.Bind(&req); err != nil {
		return "", "", BadRequestError("Invalid query parameters", err.Error())
	}
	if err := c.Validate(&req); err != nil {
		return "", "", validationError(err)
	}

	filter, err := aggregator.ParseFilter(req.Filter)
	if err != nil {
		return "", "", BadRequestError("Invalid query parameters", err.Error())
	}
	detail, err := aggregator.ParseDetail(req.Detail)
	if err != nil {
		return "", "", BadRequestError("Invalid query parameters", err.Error())
	}
	return filter, detail, nil
}

// getServices lists container and system services. A collector that fails
// outright yields an empty contribution, reported through response headers,
// unless strict errors are enabled.
// @Summary List services
// @Description List container and systemd services. Failed collectors are named in X-Services-Failed and defaulted sub-queries are counted in X-Services-Degraded.
// @Tags Services
// @Produce json
// @Param filter query string false "Service filter" Enums(all, critical, docker, system) default(all)
// @Param detail query string false "Projection" Enums(full, status) default(full)
// @Success 200 {array} models.Service "Services; detail=status returns models.ServiceStatus entries"
// @Header 200 {integer} X-Services-Degraded "Number of defaulted sub-queries"
// @Header 200 {string} X-Services-Failed "Comma-separated failed collectors"
// @Failure 400 {object} APIError "Invalid query parameters"
// @Failure 500 {object} APIError "Internal server error"
// @Router /api/services [get]
func (s *Server) getServices(c echo.Context) error {
	filter, detail, err := s.bindServicesRequest(c)
	if err != nil {
		return err
	}

	list, report := s.deps.Services.GetServices(detached(c), filter, detail)

	if !report.OK() && s.config.Services.StrictErrors {
		cause := report.Err
		if cause == nil {
			cause = errors.New("collectors failed: " + report.FailedHeader())
		}
		return InternalError("Failed to fetch services", cause)
	}

	header := c.Response().Header()
	header.Set(HeaderServicesDegraded, strconv.Itoa(report.Degraded))
	if len(report.Failed) > 0 {
		header.Set(HeaderServicesFailed, report.FailedHeader())
	}

	return c.JSON(http.StatusOK, list)
}
