package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/serverdash/internal/aggregator"
	"evalgo.org/serverdash/internal/config"
	"evalgo.org/serverdash/models"
)

func dialStream(t *testing.T, f *fixture, query string, header http.Header) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	srv := httptest.NewServer(f.server())
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/ws/services" + query
	return websocket.DefaultDialer.Dial(url, header)
}

func TestStreamServices_SendsSnapshots(t *testing.T) {
	f := newFixture()
	f.agg.list = models.StatusList([]models.ServiceStatus{
		{Name: "nginx", Status: models.HealthHealthy, Uptime: "1d 0h"},
	})
	f.agg.report = aggregator.Report{Degraded: 1}

	conn, _, err := dialStream(t, f, "?filter=critical&detail=status&interval=1s", nil)
	require.NoError(t, err)
	defer conn.Close()

	for i := 0; i < 2; i++ {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))

		var msg struct {
			Type     string                 `json:"type"`
			Filter   models.Filter          `json:"filter"`
			Detail   models.Detail          `json:"detail"`
			Degraded int                    `json:"degraded"`
			Data     []models.ServiceStatus `json:"data"`
		}
		require.NoError(t, conn.ReadJSON(&msg))

		assert.Equal(t, "services", msg.Type)
		assert.Equal(t, models.FilterCritical, msg.Filter)
		assert.Equal(t, models.DetailStatus, msg.Detail)
		assert.Equal(t, 1, msg.Degraded)
		require.Len(t, msg.Data, 1)
		assert.Equal(t, "nginx", msg.Data[0].Name)
	}
}

func TestStreamServices_InvalidQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"unknown filter", "?filter=everything"},
		{"bad interval", "?interval=soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, resp, err := dialStream(t, newFixture(), tt.query, nil)
			require.Error(t, err)
			require.NotNil(t, resp)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestStreamServices_ProductionOrigin(t *testing.T) {
	f := newFixture()
	f.cfg.Server.Environment = config.EnvProduction

	_, resp, err := dialStream(t, f, "", http.Header{"Origin": {"https://evil.example"}})
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := dialStream(t, f, "", http.Header{"Origin": {"https://server-dashboard.mrspinn.ca"}})
	require.NoError(t, err)
	_ = conn.Close()
}

func TestNewUpgrader_AllowsAnyOriginOutsideProduction(t *testing.T) {
	cfg := config.Default()
	up := newUpgrader(cfg)

	req := httptest.NewRequest(http.MethodGet, "/api/ws/services", nil)
	req.Header.Set("Origin", "http://example.test")
	assert.True(t, up.CheckOrigin(req))
}
