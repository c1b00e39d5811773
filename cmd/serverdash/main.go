// Command serverdash serves the server dashboard API and queries it from
// the command line.
package main

import (
	"fmt"
	"os"

	"evalgo.org/serverdash/internal/commands"
	"evalgo.org/serverdash/internal/version"
)

//go:generate swag init -g cmd/serverdash/main.go -d ../.. -o ../../docs --parseInternal

var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// @title serverdash API
// @version 1.0
// @description Server dashboard backend: Docker containers, systemd units and host facts.
// @license.name MIT
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and a JWT.
func main() {
	version.Version = Version
	version.BuildTime = BuildTime
	version.GitCommit = GitCommit

	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
