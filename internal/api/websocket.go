package api

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"evalgo.org/serverdash/internal/config"
	"evalgo.org/serverdash/models"
)

const (
	wsWriteWait   = 10 * time.Second
	wsPongWait    = 60 * time.Second
	wsPingPeriod  = 54 * time.Second
	minStreamTick = time.Second
)

// ServiceStreamMessage is one frame of the service status stream.
type ServiceStreamMessage struct {
	Type      string             `json:"type"`
	Timestamp string             `json:"timestamp"`
	Filter    models.Filter      `json:"filter"`
	Detail    models.Detail      `json:"detail"`
	Degraded  int                `json:"degraded"`
	Failed    []string           `json:"failed,omitempty"`
	Data      models.ServiceList `json:"data"`
}

// newUpgrader accepts any origin outside production and only the
// configured origins in production.
func newUpgrader(cfg *config.Config) websocket.Upgrader {
	origins := cfg.CORSOrigins()
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if cfg.Server.Environment != config.EnvProduction {
				return true
			}
			origin := r.Header.Get("Origin")
			return origin == "" || slices.Contains(origins, origin)
		},
	}
}

// streamClient pushes a fresh aggregation to one connection every tick.
type streamClient struct {
	conn     *websocket.Conn
	server   *Server
	filter   models.Filter
	detail   models.Detail
	interval time.Duration

	done     chan struct{}
	mu       sync.Mutex
	isClosed bool
}

// streamServices upgrades the connection and streams service snapshots.
// Each tick re-queries the collectors.
// @Summary Stream services
// @Description Upgrade to a WebSocket and push a service snapshot every interval
// @Tags Services
// @Param filter query string false "Service filter" Enums(all, critical, docker, system) default(all)
// @Param detail query string false "Projection" Enums(full, status) default(full)
// @Success 101 {string} string "Switching Protocols"
// @Failure 400 {object} APIError "Invalid query parameters"
// @Failure 403 {object} APIError "Origin not allowed"
// @Router /api/ws/services [get]
func (s *Server) streamServices(c echo.Context) error {
	filter, detail, err := s.bindServicesRequest(c)
	if err != nil {
		return err
	}

	interval := s.config.UI.ServicesInterval
	if raw := c.QueryParam("interval"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return BadRequestError("Invalid query parameters", "interval must be a duration such as 15s")
		}
		interval = d
	}
	if interval < minStreamTick {
		interval = minStreamTick
	}

	upgrader := newUpgrader(s.config)
	ws, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	client := &streamClient{
		conn:     ws,
		server:   s,
		filter:   filter,
		detail:   detail,
		interval: interval,
		done:     make(chan struct{}),
	}

	wsClients.Inc()
	go client.readPump()
	go client.writePump()

	return nil
}

// readPump drains the connection so that pongs and close frames are seen.
func (c *streamClient) readPump() {
	defer c.close()

	_ = c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.server.logger.Warn("service stream read failed", "error", err)
			}
			return
		}
	}
}

// writePump sends a snapshot immediately and then once per interval.
func (c *streamClient) writePump() {
	ticker := time.NewTicker(c.interval)
	ping := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		ping.Stop()
		c.close()
	}()

	if !c.send() {
		return
	}

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			if !c.send() {
				return
			}
		case <-ping.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *streamClient) send() bool {
	list, report := c.server.deps.Services.GetServices(context.Background(), c.filter, c.detail)

	message := ServiceStreamMessage{
		Type:      "services",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Filter:    c.filter,
		Detail:    c.detail,
		Degraded:  report.Degraded,
		Failed:    report.Failed,
		Data:      list,
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	if err := c.conn.WriteJSON(message); err != nil {
		c.server.logger.Debug("service stream write failed", "error", err)
		return false
	}
	return true
}

// close closes the WebSocket connection and cleans up resources.
func (c *streamClient) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isClosed {
		return
	}

	c.isClosed = true
	close(c.done)
	_ = c.conn.Close()
	wsClients.Dec()
}
