package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthOf(t *testing.T) {
	tests := []struct {
		state State
		want  Health
	}{
		{StateRunning, HealthHealthy},
		{StateStopped, HealthWarning},
		{StateError, HealthError},
		{State("paused"), HealthError},
		{State(""), HealthError},
	}

	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			got := HealthOf(tt.state)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.state == StateRunning, got == HealthHealthy)
		})
	}
}

func TestNewService_SerializesEmptyCollections(t *testing.T) {
	svc := NewService("nginx.service", "nginx.service", KindSystem)

	data, err := json.Marshal(svc)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, []interface{}{}, raw["portMapping"])
	assert.Equal(t, []interface{}{}, raw["volumes"])
	assert.Equal(t, []interface{}{}, raw["dependencies"])
	assert.Equal(t, map[string]interface{}{}, raw["env"])
	assert.Equal(t, "system", raw["type"])
	assert.NotContains(t, raw, "resources")
	assert.NotContains(t, raw, "category")
}

func TestServiceList_MarshalJSON(t *testing.T) {
	t.Run("full list renders services", func(t *testing.T) {
		list := FullList([]Service{NewService("c1", "web", KindApp)})
		data, err := json.Marshal(list)
		require.NoError(t, err)

		var out []Service
		require.NoError(t, json.Unmarshal(data, &out))
		require.Len(t, out, 1)
		assert.Equal(t, "c1", out[0].ID)
	})

	t.Run("status list renders statuses", func(t *testing.T) {
		list := StatusList([]ServiceStatus{{Name: "web", Status: HealthHealthy, Uptime: "1d 2h"}})
		data, err := json.Marshal(list)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"name":"web","status":"healthy","uptime":"1d 2h","memory":0,"cpu":0}]`, string(data))
	})

	t.Run("empty lists render as arrays", func(t *testing.T) {
		for _, detail := range []Detail{DetailFull, DetailStatus} {
			data, err := json.Marshal(EmptyList(detail))
			require.NoError(t, err)
			assert.Equal(t, "[]", string(data))
			assert.Equal(t, 0, EmptyList(detail).Len())
		}
	})

	t.Run("unknown detail fails", func(t *testing.T) {
		_, err := json.Marshal(ServiceList{Detail: "verbose"})
		assert.Error(t, err)
	})
}

func TestFormatUptime(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		start time.Time
		want  string
	}{
		{"zero start", time.Time{}, UnknownUptime},
		{"just started", now, "0d 0h"},
		{"hours floor", now.Add(-(5*time.Hour + 59*time.Minute)), "0d 5h"},
		{"days and hours", now.Add(-(3*24*time.Hour + 7*time.Hour + 30*time.Minute)), "3d 7h"},
		{"start in future", now.Add(time.Hour), "0d 0h"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatUptime(tt.start, now))
		})
	}
}

func TestParseUptime(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, "1d 2h", ParseUptime("2025-03-09T10:00:00Z", now))
	// Just under 26h elapsed floors to the previous hour.
	assert.Equal(t, "1d 1h", ParseUptime("2025-03-09T10:00:00.123456789Z", now))
	assert.Equal(t, UnknownUptime, ParseUptime("not-a-timestamp", now))
	assert.Equal(t, UnknownUptime, ParseUptime("", now))
	assert.Equal(t, UnknownUptime, ParseUptime("0001-01-01T00:00:00Z", now))
}

func TestContainerAction_Valid(t *testing.T) {
	for _, a := range []ContainerAction{ActionStart, ActionStop, ActionRestart} {
		assert.True(t, a.Valid(), a)
	}
	for _, a := range []ContainerAction{"pause", "", "START", "kill"} {
		assert.False(t, a.Valid(), a)
	}
}
