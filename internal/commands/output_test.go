package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"evalgo.org/serverdash/models"
	"evalgo.org/serverdash/pkg/serverdash/client"
)

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "512 B", formatBytes(512))
	assert.Equal(t, "1.0 KiB", formatBytes(1024))
	assert.Equal(t, "1.5 MiB", formatBytes(1572864))
	assert.Equal(t, "2.0 GiB", formatBytes(2<<30))
}

func TestFormatPorts(t *testing.T) {
	assert.Equal(t, "-", formatPorts(nil))
	assert.Equal(t, "8080->80/tcp,53->53/udp", formatPorts([]models.PortMapping{
		{Internal: 80, External: 8080, Protocol: "tcp"},
		{Internal: 53, External: 53, Protocol: "udp"},
	}))
}

func TestShortID(t *testing.T) {
	assert.Equal(t, "0123456789ab", shortID("0123456789abcdef"))
	assert.Equal(t, "abc", shortID("abc"))
}

func TestPrintServicesFull(t *testing.T) {
	svc := models.NewService("abc", "nginx", models.KindSystem)
	svc.Status = models.StateRunning
	svc.Category = &models.Category{ID: "web", Name: "Web Services"}

	var buf bytes.Buffer
	printServices(&buf, &client.ServicesResponse{
		List:   models.FullList([]models.Service{svc}),
		Failed: []string{"runtime"},
	})

	out := buf.String()
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "Web Services")
	assert.Contains(t, out, "Total: 1 services")
	assert.Contains(t, out, "Failed collectors: runtime")
	assert.NotContains(t, out, "Degraded")
}

func TestPrintServicesStatus(t *testing.T) {
	var buf bytes.Buffer
	printServices(&buf, &client.ServicesResponse{
		List: models.StatusList([]models.ServiceStatus{
			{Name: "cron", Status: models.HealthWarning, Uptime: models.UnknownUptime},
		}),
		Degraded: 2,
	})

	lines := strings.Split(buf.String(), "\n")
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.Contains(t, lines[1], "warning")
	assert.Contains(t, buf.String(), "Degraded sub-queries: 2")
}

func TestPrintContainers(t *testing.T) {
	var buf bytes.Buffer
	printContainers(&buf, []models.DockerContainer{{
		ID:    "0123456789abcdef",
		Name:  "web",
		Image: "nginx:latest",
		State: models.ContainerRunning,
		Stats: models.ContainerStats{CPUPercent: 1.5, MemoryUsage: 2048},
	}})

	out := buf.String()
	assert.Contains(t, out, "0123456789ab ")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "Total: 1 containers")
}
