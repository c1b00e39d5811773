// Package version holds build metadata injected with -ldflags.
package version

import (
	"fmt"
	"log/slog"
	"runtime"
)

// Set from cmd/serverdash at startup.
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Info describes the running serverdash binary.
type Info struct {
	Version   string `json:"version"`
	BuildTime string `json:"build_time"`
	GitCommit string `json:"git_commit"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func Get() Info {
	return Info{
		Version:   Version,
		BuildTime: BuildTime,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  runtime.GOOS + "/" + runtime.GOARCH,
	}
}

// Release reports whether the binary was built with an injected version.
func (i Info) Release() bool {
	return i.Version != "" && i.Version != "dev"
}

func (i Info) String() string {
	if !i.Release() {
		return fmt.Sprintf("serverdash dev build on %s (%s)", i.Platform, i.GoVersion)
	}
	return fmt.Sprintf("serverdash %s (%s) built at %s on %s",
		i.Version,
		i.GitCommit,
		i.BuildTime,
		i.Platform,
	)
}

// UserAgent is the User-Agent the API client sends.
func (i Info) UserAgent() string {
	v := i.Version
	if v == "" {
		v = "dev"
	}
	return fmt.Sprintf("serverdash-client/%s (%s)", v, i.Platform)
}

// LogValue renders Info as a log group.
func (i Info) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("version", i.Version),
		slog.String("commit", i.GitCommit),
		slog.String("built", i.BuildTime),
		slog.String("go", i.GoVersion),
	)
}
