// Package serverdash is the backend of a single-host server dashboard.
//
// # Overview
//
// Serverdash reports what is running on one machine: Docker containers,
// systemd services, host facts and network status. It exposes them as a
// JSON API polled by dashboard clients.
//
//	┌─────────────────┐      ┌─────────────────┐
//	│  serverdash CLI │      │  Dashboard UI   │
//	│  (watch, logs)  │      │  (polling)      │
//	└────────┬────────┘      └────────┬────────┘
//	         └───────────┬────────────┘
//	            ┌────────▼────────┐
//	            │  API Server     │
//	            │  (Echo REST+WS) │
//	            └────────┬────────┘
//	            ┌────────▼────────┐
//	            │   Aggregator    │
//	            └───┬─────────┬───┘
//	      ┌─────────▼──┐   ┌──▼──────────┐
//	      │  Runtime   │   │  systemd    │
//	      │  (Docker)  │   │  (D-Bus)    │
//	      └────────────┘   └─────────────┘
//
// # Core Features
//
// Service aggregation:
//   - Containers and system services merged into one list
//   - Filters: all, critical, docker, system
//   - Full records or a condensed health/uptime/resource view
//   - Category classification by name
//   - Partial failures degrade to defaults instead of failing the request
//
// Container endpoints:
//   - Listing with CPU, memory, network and block I/O statistics
//   - Engine totals (containers, images, volumes, networks)
//   - Log tails
//   - Start, stop and restart, optionally behind a bearer token
//
// # Usage
//
// Start the API server:
//
//	serverdash server --config config.yaml
//
// Query a running server:
//
//	serverdash services --filter critical --detail status
//	serverdash watch
//
// # Configuration
//
// Configuration can be provided via:
//   - YAML file (config.yaml)
//   - Environment variables (SD_ prefix)
//   - .env file
//
// Example configuration:
//
//	server:
//	  port: 3021
//	  environment: production
//	systemd:
//	  critical_services: [nginx, postgresql, docker]
package serverdash
