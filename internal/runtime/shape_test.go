package runtime

import (
	"encoding/json"
	"testing"

	"github.com/docker/docker/api/types/container"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"evalgo.org/serverdash/models"
)

func decodeStats(t *testing.T, body string) *container.StatsResponse {
	t.Helper()
	var s container.StatsResponse
	require.NoError(t, json.Unmarshal([]byte(body), &s))
	return &s
}

func TestCPUPercent(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{
			name: "normal delta",
			body: `{"cpu_stats":{"cpu_usage":{"total_usage":400},"system_cpu_usage":2000},
				"precpu_stats":{"cpu_usage":{"total_usage":200},"system_cpu_usage":1000}}`,
			want: 20,
		},
		{
			name: "zero system delta",
			body: `{"cpu_stats":{"cpu_usage":{"total_usage":400},"system_cpu_usage":1000},
				"precpu_stats":{"cpu_usage":{"total_usage":200},"system_cpu_usage":1000}}`,
			want: 0,
		},
		{
			name: "first sample without previous counters",
			body: `{"cpu_stats":{"cpu_usage":{"total_usage":0},"system_cpu_usage":0}}`,
			want: 0,
		},
		{
			name: "counter reset",
			body: `{"cpu_stats":{"cpu_usage":{"total_usage":100},"system_cpu_usage":2000},
				"precpu_stats":{"cpu_usage":{"total_usage":500},"system_cpu_usage":1000}}`,
			want: 0,
		},
		{
			name: "rounded to two decimals",
			body: `{"cpu_stats":{"cpu_usage":{"total_usage":1},"system_cpu_usage":6},
				"precpu_stats":{"cpu_usage":{"total_usage":0},"system_cpu_usage":3}}`,
			want: 33.33,
		},
		{
			name: "lifetime counters without previous sample",
			body: `{"cpu_stats":{"cpu_usage":{"total_usage":50000000000},"system_cpu_usage":100000000000},
				"precpu_stats":{"cpu_usage":{"total_usage":0},"system_cpu_usage":0}}`,
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, cpuPercent(decodeStats(t, tt.body)))
		})
	}
}

func TestContainerName(t *testing.T) {
	assert.Equal(t, "web", containerName([]string{"/web"}, ""))
	assert.Equal(t, "web", containerName([]string{"web"}, ""))
	assert.Equal(t, "/web", containerName([]string{"//web"}, ""))
	assert.Equal(t, "fallback", containerName(nil, "/fallback"))
	assert.Equal(t, "", containerName(nil, ""))
}

func TestServiceState(t *testing.T) {
	assert.Equal(t, models.StateRunning, serviceState("running"))
	assert.Equal(t, models.StateStopped, serviceState("exited"))
	assert.Equal(t, models.StateStopped, serviceState("stopped"))
	assert.Equal(t, models.StateError, serviceState("created"))
	assert.Equal(t, models.StateError, serviceState("restarting"))
	assert.Equal(t, models.StateError, serviceState(""))
}

func TestEnvMap(t *testing.T) {
	got := envMap([]string{"A=1", "B=x=y", "C=", "NOVALUE", "=orphan"})
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y", "C": "", "NOVALUE": ""}, got)
}

func TestLinkTargets(t *testing.T) {
	assert.Equal(t, []string{"db", "cache"}, linkTargets([]string{"/db:/web/db", "cache:alias"}))
	assert.Equal(t, []string{}, linkTargets(nil))
}

func TestFamiliarImage(t *testing.T) {
	tests := map[string]string{
		"docker.io/library/nginx:latest": "nginx:latest",
		"nginx":                          "nginx",
		"ghcr.io/org/app:v1":             "ghcr.io/org/app:v1",
		"sha256:abcdef":                  "sha256:abcdef",
		"":                               "",
		"Not A Valid Ref":                "Not A Valid Ref",
	}
	for in, want := range tests {
		assert.Equal(t, want, familiarImage(in), in)
	}
}
