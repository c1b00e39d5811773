package models

import (
	"encoding/json"
	"fmt"
)

// Detail selects which projection of the services is produced.
type Detail string

const (
	DetailFull   Detail = "full"
	DetailStatus Detail = "status"
)

// Filter selects which collectors contribute to an aggregation.
type Filter string

const (
	FilterAll      Filter = "all"
	FilterCritical Filter = "critical"
	FilterDocker   Filter = "docker"
	FilterSystem   Filter = "system"
)

// ServiceList is the result of an aggregation. Detail tags which of
// Services or Statuses is populated; the other is always nil.
type ServiceList struct {
	Detail   Detail
	Services []Service
	Statuses []ServiceStatus
}

// FullList wraps services as a full-detail list.
func FullList(services []Service) ServiceList {
	if services == nil {
		services = []Service{}
	}
	return ServiceList{Detail: DetailFull, Services: services}
}

// StatusList wraps statuses as a status-detail list.
func StatusList(statuses []ServiceStatus) ServiceList {
	if statuses == nil {
		statuses = []ServiceStatus{}
	}
	return ServiceList{Detail: DetailStatus, Statuses: statuses}
}

// EmptyList returns an empty list of the requested detail kind.
func EmptyList(detail Detail) ServiceList {
	if detail == DetailStatus {
		return StatusList(nil)
	}
	return FullList(nil)
}

func (l ServiceList) Len() int {
	if l.Detail == DetailStatus {
		return len(l.Statuses)
	}
	return len(l.Services)
}

// MarshalJSON renders the populated projection as a bare JSON array.
func (l ServiceList) MarshalJSON() ([]byte, error) {
	switch l.Detail {
	case DetailStatus:
		return json.Marshal(StatusList(l.Statuses).Statuses)
	case DetailFull, "":
		return json.Marshal(FullList(l.Services).Services)
	default:
		return nil, fmt.Errorf("unknown detail kind %q", l.Detail)
	}
}
