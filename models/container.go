package models

// ContainerState is the detail-view state of a container.
type ContainerState string

const (
	ContainerRunning ContainerState = "running"
	ContainerStopped ContainerState = "stopped"
	ContainerExited  ContainerState = "exited"
	ContainerError   ContainerState = "error"
)

type DockerContainer struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Image    string         `json:"image"`
	State    ContainerState `json:"state"`
	Status   string         `json:"status"`
	Uptime   string         `json:"uptime"`
	Ports    []PortMapping  `json:"ports"`
	Mounts   []string       `json:"mounts"`
	Networks []string       `json:"networks"`
	Stats    ContainerStats `json:"stats"`
}

// ContainerStats values are raw bytes except CPUPercent.
type ContainerStats struct {
	CPUPercent      float64 `json:"cpu_percent"`
	MemoryUsage     uint64  `json:"memory_usage"`
	MemoryLimit     uint64  `json:"memory_limit"`
	NetworkRxBytes  uint64  `json:"network_rx_bytes"`
	NetworkTxBytes  uint64  `json:"network_tx_bytes"`
	BlockReadBytes  uint64  `json:"block_read_bytes"`
	BlockWriteBytes uint64  `json:"block_write_bytes"`
}

type DockerStats struct {
	Containers        int `json:"containers"`
	ContainersRunning int `json:"containersRunning"`
	ContainersStopped int `json:"containersStopped"`
	ContainersErrored int `json:"containersErrored"`
	Images            int `json:"images"`
	Volumes           int `json:"volumes"`
	Networks          int `json:"networks"`
}

// ContainerAction is a lifecycle command accepted by the runtime.
type ContainerAction string

const (
	ActionStart   ContainerAction = "start"
	ActionStop    ContainerAction = "stop"
	ActionRestart ContainerAction = "restart"
)

func (a ContainerAction) Valid() bool {
	switch a {
	case ActionStart, ActionStop, ActionRestart:
		return true
	}
	return false
}
