package models

import "time"

type SystemInfo struct {
	OS  string `json:"os"`
	CPU string `json:"cpu"`
	RAM int    `json:"ram"`
}

type NetworkInfo struct {
	DockerNetworks int    `json:"dockerNetworks"`
	VPNStatus      string `json:"vpnStatus"`
	ProxyStatus    string `json:"proxyStatus"`
}

// PollingIntervals is the refresh cadence dashboard clients follow per
// resource, in milliseconds.
type PollingIntervals struct {
	Containers      int64 `json:"containers"`
	ContainerDetail int64 `json:"containerDetail"`
	Services        int64 `json:"services"`
	Critical        int64 `json:"critical"`
	System          int64 `json:"system"`
}

// Interval returns the cadence of a resource name, or zero if unknown.
func (p PollingIntervals) Interval(resource string) time.Duration {
	var ms int64
	switch resource {
	case "containers":
		ms = p.Containers
	case "container":
		ms = p.ContainerDetail
	case "services":
		ms = p.Services
	case "critical":
		ms = p.Critical
	case "system":
		ms = p.System
	}
	return time.Duration(ms) * time.Millisecond
}
