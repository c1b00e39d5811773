package models

// Kind identifies where a Service was discovered.
type Kind string

const (
	KindApp        Kind = "app"
	KindSystem     Kind = "system"
	KindDatabase   Kind = "database"
	KindMonitoring Kind = "monitoring"
)

// State is the collapsed run state of a Service.
type State string

const (
	StateRunning State = "running"
	StateStopped State = "stopped"
	StateError   State = "error"
)

// Health is the status vocabulary of the condensed projection.
type Health string

const (
	HealthHealthy Health = "healthy"
	HealthWarning Health = "warning"
	HealthError   Health = "error"
)

// HealthOf maps a run state to its health status.
func HealthOf(s State) Health {
	switch s {
	case StateRunning:
		return HealthHealthy
	case StateStopped:
		return HealthWarning
	default:
		return HealthError
	}
}

type Service struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	Kind         Kind              `json:"type"`
	Status       State             `json:"status"`
	PortMapping  []PortMapping     `json:"portMapping"`
	Env          map[string]string `json:"env"`
	Volumes      []Volume          `json:"volumes"`
	Dependencies []string          `json:"dependencies"`
	Resources    *Resources        `json:"resources,omitempty"`
	Uptime       string            `json:"uptime,omitempty"`
	Category     *Category         `json:"category,omitempty"`

	// ResourcesDegraded marks Resources as a defaulted value.
	ResourcesDegraded bool `json:"-"`
}

type PortMapping struct {
	Internal int    `json:"internal"`
	External int    `json:"external"`
	Protocol string `json:"protocol"`
}

type Volume struct {
	Source string `json:"source"`
	Target string `json:"target"`
}

// Resources holds a point-in-time usage sample. Memory is in megabytes.
type Resources struct {
	CPU    float64 `json:"cpu"`
	Memory float64 `json:"memory"`
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ServiceStatus is the condensed projection of a Service.
type ServiceStatus struct {
	Name   string  `json:"name"`
	Status Health  `json:"status"`
	Uptime string  `json:"uptime"`
	Memory float64 `json:"memory"`
	CPU    float64 `json:"cpu"`
}

// NewService returns a Service with empty, non-nil collections so that it
// serializes as [] and {} rather than null.
func NewService(id, name string, kind Kind) Service {
	return Service{
		ID:           id,
		Name:         name,
		Kind:         kind,
		Status:       StateStopped,
		PortMapping:  []PortMapping{},
		Env:          map[string]string{},
		Volumes:      []Volume{},
		Dependencies: []string{},
	}
}
