package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/serverdash/internal/aggregator"
	"evalgo.org/serverdash/internal/auth"
	"evalgo.org/serverdash/internal/config"
	"evalgo.org/serverdash/internal/runtime"
	"evalgo.org/serverdash/models"
)

type fakeAggregator struct {
	list   models.ServiceList
	report aggregator.Report
	filter models.Filter
	detail models.Detail
	calls  int
}

func (f *fakeAggregator) GetServices(_ context.Context, filter models.Filter, detail models.Detail) (models.ServiceList, aggregator.Report) {
	f.calls++
	f.filter, f.detail = filter, detail
	if f.list.Detail == "" {
		return models.EmptyList(detail), f.report
	}
	return f.list, f.report
}

type fakeRuntime struct {
	containers []models.DockerContainer
	stats      models.DockerStats
	logs       []string
	networks   int
	err        error
	actionErr  error

	logID, logSince string
	logTail         int
	actions         []string
}

func (f *fakeRuntime) Containers(context.Context) ([]models.DockerContainer, error) {
	return f.containers, f.err
}

func (f *fakeRuntime) Stats(context.Context) (models.DockerStats, error) {
	return f.stats, f.err
}

func (f *fakeRuntime) Logs(_ context.Context, id string, tail int, since string) ([]string, error) {
	f.logID, f.logTail, f.logSince = id, tail, since
	return f.logs, f.err
}

func (f *fakeRuntime) PerformAction(_ context.Context, id, action string) error {
	f.actions = append(f.actions, id+"/"+action)
	return f.actionErr
}

func (f *fakeRuntime) NetworkCount(context.Context) (int, error) {
	return f.networks, f.err
}

type fakeHost struct {
	info models.SystemInfo
	err  error
}

func (f fakeHost) SystemInfo(context.Context) (models.SystemInfo, error) {
	return f.info, f.err
}

type fixture struct {
	cfg     *config.Config
	agg     *fakeAggregator
	runtime *fakeRuntime
	host    fakeHost
}

func newFixture() *fixture {
	cfg := config.Default()
	cfg.Security.RateLimit = 0
	return &fixture{
		cfg:     cfg,
		agg:     &fakeAggregator{},
		runtime: &fakeRuntime{},
	}
}

func (f *fixture) server() *Server {
	return New(f.cfg, Dependencies{Services: f.agg, Runtime: f.runtime, Host: f.host}, nil)
}

func (f *fixture) do(t *testing.T, method, target string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	f.server().ServeHTTP(rec, req)
	return rec
}

func errorBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body["error"]
}

func TestHealth(t *testing.T) {
	rec := newFixture().do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, rec.Body.String())
}

func TestSecurityHeadersApplied(t *testing.T) {
	rec := newFixture().do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestGetServices_Defaults(t *testing.T) {
	f := newFixture()
	svc := models.NewService("c1", "web", models.KindApp)
	svc.Status = models.StateRunning
	f.agg.list = models.FullList([]models.Service{svc})

	rec := f.do(t, http.MethodGet, "/api/services", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.FilterAll, f.agg.filter)
	assert.Equal(t, models.DetailFull, f.agg.detail)
	assert.Equal(t, "0", rec.Header().Get(HeaderServicesDegraded))
	assert.Empty(t, rec.Header().Get(HeaderServicesFailed))

	var got []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "c1", got[0]["id"])
	assert.Equal(t, "app", got[0]["type"])
	assert.Equal(t, "running", got[0]["status"])
	assert.Equal(t, []any{}, got[0]["portMapping"])
}

func TestGetServices_StatusDetail(t *testing.T) {
	f := newFixture()
	f.agg.list = models.StatusList([]models.ServiceStatus{{Name: "nginx", Status: models.HealthHealthy, Uptime: "1d 2h", Memory: 12, CPU: 0.5}})
	f.agg.report = aggregator.Report{Degraded: 2}

	rec := f.do(t, http.MethodGet, "/api/services?filter=critical&detail=status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.FilterCritical, f.agg.filter)
	assert.Equal(t, models.DetailStatus, f.agg.detail)
	assert.Equal(t, "2", rec.Header().Get(HeaderServicesDegraded))
	assert.JSONEq(t, `[{"name":"nginx","status":"healthy","uptime":"1d 2h","memory":12,"cpu":0.5}]`, rec.Body.String())
}

func TestGetServices_InvalidQuery(t *testing.T) {
	for _, q := range []string{"filter=everything", "detail=summary"} {
		t.Run(q, func(t *testing.T) {
			f := newFixture()
			rec := f.do(t, http.MethodGet, "/api/services?"+q, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, 0, f.agg.calls)
		})
	}
}

func TestGetServices_FailedCollectorDegradesToEmpty(t *testing.T) {
	f := newFixture()
	f.agg.report = aggregator.Report{Failed: []string{"runtime", "systemd"}}

	rec := f.do(t, http.MethodGet, "/api/services?filter=all", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
	assert.Equal(t, "runtime,systemd", rec.Header().Get(HeaderServicesFailed))
}

func TestGetServices_StrictErrors(t *testing.T) {
	f := newFixture()
	f.cfg.Services.StrictErrors = true
	f.agg.report = aggregator.Report{Failed: []string{"runtime"}}

	rec := f.do(t, http.MethodGet, "/api/services", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch services", errorBody(t, rec))
}

func TestListContainers(t *testing.T) {
	f := newFixture()
	f.runtime.containers = []models.DockerContainer{{ID: "c1", Name: "web", State: models.ContainerRunning}}

	rec := f.do(t, http.MethodGet, "/api/docker/containers", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.DockerContainer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, f.runtime.containers, got)
}

func TestListContainers_Empty(t *testing.T) {
	rec := newFixture().do(t, http.MethodGet, "/api/docker/containers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestDockerEndpointsFailure(t *testing.T) {
	tests := map[string]string{
		"/api/docker/containers":         "Failed to fetch containers",
		"/api/docker/stats":              "Failed to fetch Docker statistics",
		"/api/docker/containers/c1/logs": "Failed to fetch container logs",
		"/api/network":                   "Failed to fetch network information",
	}
	for target, msg := range tests {
		t.Run(target, func(t *testing.T) {
			f := newFixture()
			f.runtime.err = errors.New("cannot connect to the docker daemon")

			rec := f.do(t, http.MethodGet, target, nil)
			assert.Equal(t, http.StatusInternalServerError, rec.Code)
			assert.Equal(t, msg, errorBody(t, rec))
			assert.NotContains(t, rec.Body.String(), "docker daemon")
		})
	}
}

func TestGetDockerStats(t *testing.T) {
	f := newFixture()
	f.runtime.stats = models.DockerStats{Containers: 3, ContainersRunning: 1, ContainersStopped: 1, ContainersErrored: 1, Images: 4, Volumes: 2, Networks: 5}

	rec := f.do(t, http.MethodGet, "/api/docker/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"containers":3,"containersRunning":1,"containersStopped":1,"containersErrored":1,"images":4,"volumes":2,"networks":5}`, rec.Body.String())
}

func TestGetContainerLogs(t *testing.T) {
	tests := []struct {
		query     string
		wantTail  int
		wantSince string
	}{
		{"", 100, ""},
		{"?tail=20", 20, ""},
		{"?tail=abc", 100, ""},
		{"?tail=-5", 100, ""},
		{"?tail=50&since=2024-01-01T00:00:00Z", 50, "2024-01-01T00:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			f := newFixture()
			f.runtime.logs = []string{"line one", "line two"}

			rec := f.do(t, http.MethodGet, "/api/docker/containers/c1/logs"+tt.query, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `["line one","line two"]`, rec.Body.String())
			assert.Equal(t, "c1", f.runtime.logID)
			assert.Equal(t, tt.wantTail, f.runtime.logTail)
			assert.Equal(t, tt.wantSince, f.runtime.logSince)
		})
	}
}

func TestGetContainerLogs_NotFound(t *testing.T) {
	f := newFixture()
	f.runtime.err = fmt.Errorf("%w: no such container", runtime.ErrNotFound)

	rec := f.do(t, http.MethodGet, "/api/docker/containers/missing/logs", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch container logs: container not found", errorBody(t, rec))
}

func TestContainerAction(t *testing.T) {
	for _, action := range []string{"start", "stop", "restart"} {
		t.Run(action, func(t *testing.T) {
			f := newFixture()
			rec := f.do(t, http.MethodPost, "/api/docker/containers/c1/"+action, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.JSONEq(t, `{"success":true}`, rec.Body.String())
			assert.Equal(t, []string{"c1/" + action}, f.runtime.actions)
		})
	}
}

func TestContainerAction_Invalid(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodPost, "/api/docker/containers/c1/pause", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid action", errorBody(t, rec))
	assert.Empty(t, f.runtime.actions)
}

func TestContainerAction_InvalidID(t *testing.T) {
	f := newFixture()
	rec := f.do(t, http.MethodPost, "/api/docker/containers/-bad/start", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, f.runtime.actions)
}

func TestContainerAction_Failure(t *testing.T) {
	f := newFixture()
	f.runtime.actionErr = &runtime.RuntimeError{Op: "stop", ID: "c1", Err: errors.New("timeout")}

	rec := f.do(t, http.MethodPost, "/api/docker/containers/c1/stop", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to stop container", errorBody(t, rec))
}

func TestContainerAction_RequiresTokenWhenEnabled(t *testing.T) {
	f := newFixture()
	f.cfg.Security.AuthEnabled = true
	f.cfg.Security.JWTSecret = "secret"
	f.cfg.Security.JWTExpiration = time.Hour

	rec := f.do(t, http.MethodPost, "/api/docker/containers/c1/start", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, f.runtime.actions)

	token, err := auth.NewJWTService(f.cfg).GenerateToken("ops", 0)
	require.NoError(t, err)

	rec = f.do(t, http.MethodPost, "/api/docker/containers/c1/start", http.Header{"Authorization": {"Bearer " + token}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"c1/start"}, f.runtime.actions)

	// Reads stay open.
	rec = f.do(t, http.MethodGet, "/api/docker/containers", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetSystemInfo(t *testing.T) {
	f := newFixture()
	f.host.info = models.SystemInfo{OS: "Linux 6.8.0", CPU: "AMD EPYC", RAM: 64}

	rec := f.do(t, http.MethodGet, "/api/system", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"os":"Linux 6.8.0","cpu":"AMD EPYC","ram":64}`, rec.Body.String())

	f.host.err = errors.New("permission denied")
	rec = f.do(t, http.MethodGet, "/api/system", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to fetch system information", errorBody(t, rec))
}

func TestGetNetworkInfo(t *testing.T) {
	f := newFixture()
	f.runtime.networks = 4

	rec := f.do(t, http.MethodGet, "/api/network", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"dockerNetworks":4,"vpnStatus":"Connected","proxyStatus":"Active"}`, rec.Body.String())
}

func TestGetPolling(t *testing.T) {
	rec := newFixture().do(t, http.MethodGet, "/api/ui/polling", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"containers":5000,"containerDetail":2000,"services":30000,"critical":15000,"system":60000}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	f := newFixture()
	f.cfg.Server.Environment = config.EnvProduction

	rec := f.do(t, http.MethodOptions, "/api/services", http.Header{
		"Origin":                        {"https://server-dashboard.mrspinn.ca"},
		"Access-Control-Request-Method": {"GET"},
	})
	assert.Equal(t, "https://server-dashboard.mrspinn.ca", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = f.do(t, http.MethodOptions, "/api/services", http.Header{
		"Origin":                        {"http://localhost:5173"},
		"Access-Control-Request-Method": {"GET"},
	})
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	f := newFixture()
	f.do(t, http.MethodGet, "/health", nil)

	rec := f.do(t, http.MethodGet, "/metrics", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "serverdash_http_requests_total"))
}

func TestUnknownRoute(t *testing.T) {
	rec := newFixture().do(t, http.MethodGet, "/api/unknown", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", errorBody(t, rec))
}

func TestDocsServesOpenAPIDocument(t *testing.T) {
	rec := newFixture().do(t, http.MethodGet, "/docs/doc.json", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Info struct {
			Title string `json:"title"`
		} `json:"info"`
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, "serverdash API", doc.Info.Title)
	assert.Contains(t, doc.Paths["/api/services"], "get")
	assert.Contains(t, doc.Paths["/api/docker/containers/{id}/{action}"], "post")
}

func TestDocsServesUI(t *testing.T) {
	rec := newFixture().do(t, http.MethodGet, "/docs/index.html", http.Header{
		"Accept": {"text/html,application/xhtml+xml,*/*;q=0.8"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "swagger-ui")
}

func TestDocsCoverEveryRoute(t *testing.T) {
	s := newFixture().server()

	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/docs/doc.json", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		Paths map[string]map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))

	for _, r := range s.echo.Routes() {
		if r.Path == "/metrics" || strings.HasPrefix(r.Path, "/docs") {
			continue
		}
		segments := strings.Split(r.Path, "/")
		for i, seg := range segments {
			if strings.HasPrefix(seg, ":") {
				segments[i] = "{" + seg[1:] + "}"
			}
		}
		path := strings.Join(segments, "/")
		assert.Contains(t, doc.Paths[path], strings.ToLower(r.Method), "undocumented route %s %s", r.Method, path)
	}
}
