package systemd

import (
	"strings"

	"github.com/docker/go-connections/nat"

	"evalgo.org/serverdash/models"
)

// wellKnownPorts lists the ports served by common system daemons, keyed by
// unit name without the .service suffix.
var wellKnownPorts = map[string][]nat.Port{
	"nginx":      {"80/tcp", "443/tcp"},
	"postgresql": {"5432/tcp"},
	"ssh":        {"22/tcp"},
}

// portsFor returns the port mapping of a unit. System daemons bind host
// ports directly, so external always equals internal.
func portsFor(unit string) []models.PortMapping {
	ports := wellKnownPorts[strings.TrimSuffix(unit, ".service")]
	out := make([]models.PortMapping, 0, len(ports))
	for _, p := range ports {
		n := p.Int()
		if n <= 0 {
			continue
		}
		out = append(out, models.PortMapping{Internal: n, External: n, Protocol: p.Proto()})
	}
	return out
}
