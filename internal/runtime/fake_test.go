package runtime

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/api/types/volume"
	"github.com/docker/docker/pkg/stdcopy"
)

// notFoundError satisfies the engine's not-found error classification.
type notFoundError struct{ msg string }

func (e notFoundError) Error() string { return e.msg }
func (e notFoundError) NotFound()     {}

type fakeAPI struct {
	mu    sync.Mutex
	calls map[string]int

	containers []container.Summary
	listErr    error

	inspect    map[string]container.InspectResponse
	inspectErr map[string]error

	stats      map[string]string
	statsErr   map[string]error
	statsDelay map[string]time.Duration

	logs    map[string][]byte
	logOpts container.LogsOptions

	actionErr error

	images   int
	volumes  int
	networks int
	auxErr   error
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		calls:      make(map[string]int),
		inspect:    make(map[string]container.InspectResponse),
		inspectErr: make(map[string]error),
		stats:      make(map[string]string),
		statsErr:   make(map[string]error),
		statsDelay: make(map[string]time.Duration),
		logs:       make(map[string][]byte),
	}
}

func (f *fakeAPI) record(name string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[name]++
}

func (f *fakeAPI) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

func (f *fakeAPI) ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error) {
	f.record("list")
	if !options.All {
		return nil, errors.New("expected all containers to be requested")
	}
	return f.containers, f.listErr
}

func (f *fakeAPI) ContainerInspect(ctx context.Context, id string) (container.InspectResponse, error) {
	f.record("inspect")
	if err := f.inspectErr[id]; err != nil {
		return container.InspectResponse{}, err
	}
	details, ok := f.inspect[id]
	if !ok {
		return container.InspectResponse{}, notFoundError{msg: "No such container: " + id}
	}
	return details, nil
}

func (f *fakeAPI) ContainerStats(ctx context.Context, id string, stream bool) (container.StatsResponseReader, error) {
	f.record("stats")
	if stream {
		return container.StatsResponseReader{}, errors.New("expected a single stats sample")
	}
	if d := f.statsDelay[id]; d > 0 {
		time.Sleep(d)
	}
	if err := f.statsErr[id]; err != nil {
		return container.StatsResponseReader{}, err
	}
	body, ok := f.stats[id]
	if !ok {
		body = `{}`
	}
	return container.StatsResponseReader{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func (f *fakeAPI) ContainerLogs(ctx context.Context, id string, options container.LogsOptions) (io.ReadCloser, error) {
	f.record("logs")
	f.mu.Lock()
	f.logOpts = options
	f.mu.Unlock()
	return io.NopCloser(bytes.NewReader(f.logs[id])), nil
}

func (f *fakeAPI) ContainerStart(ctx context.Context, id string, options container.StartOptions) error {
	f.record("start")
	return f.actionErr
}

func (f *fakeAPI) ContainerStop(ctx context.Context, id string, options container.StopOptions) error {
	f.record("stop")
	return f.actionErr
}

func (f *fakeAPI) ContainerRestart(ctx context.Context, id string, options container.StopOptions) error {
	f.record("restart")
	return f.actionErr
}

func (f *fakeAPI) ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error) {
	f.record("images")
	return make([]image.Summary, f.images), f.auxErr
}

func (f *fakeAPI) VolumeList(ctx context.Context, options volume.ListOptions) (volume.ListResponse, error) {
	f.record("volumes")
	return volume.ListResponse{Volumes: make([]*volume.Volume, f.volumes)}, f.auxErr
}

func (f *fakeAPI) NetworkList(ctx context.Context, options network.ListOptions) ([]network.Summary, error) {
	f.record("networks")
	return make([]network.Summary, f.networks), f.auxErr
}

func (f *fakeAPI) Close() error { return nil }

// addContainer registers a container with matching inspect data.
func (f *fakeAPI) addContainer(s container.Summary, details container.InspectResponse) {
	f.containers = append(f.containers, s)
	f.inspect[s.ID] = details
}

func inspectResponse(name, status, startedAt string) container.InspectResponse {
	// Decoded rather than assigned so the helper does not depend on the
	// declared type of State.Status.
	state := &container.State{}
	raw := fmt.Sprintf(`{"Status":%q,"StartedAt":%q}`, status, startedAt)
	if err := json.Unmarshal([]byte(raw), state); err != nil {
		panic(err)
	}
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:         name,
			Name:       "/" + name,
			State:      state,
			HostConfig: &container.HostConfig{},
		},
		Config:          &container.Config{},
		NetworkSettings: &container.NetworkSettings{},
	}
}

func multiplexed(stdout, stderr string) []byte {
	var buf bytes.Buffer
	if stdout != "" {
		_, _ = stdcopy.NewStdWriter(&buf, stdcopy.Stdout).Write([]byte(stdout))
	}
	if stderr != "" {
		_, _ = stdcopy.NewStdWriter(&buf, stdcopy.Stderr).Write([]byte(stderr))
	}
	return buf.Bytes()
}

const statsBody = `{
	"cpu_stats": {"cpu_usage": {"total_usage": 400}, "system_cpu_usage": 2000},
	"precpu_stats": {"cpu_usage": {"total_usage": 200}, "system_cpu_usage": 1000},
	"memory_stats": {"usage": 52428800, "limit": 104857600},
	"networks": {
		"eth0": {"rx_bytes": 100, "tx_bytes": 200},
		"eth1": {"rx_bytes": 1, "tx_bytes": 2}
	},
	"blkio_stats": {"io_service_bytes_recursive": [
		{"major": 8, "minor": 0, "op": "Read", "value": 4096},
		{"major": 8, "minor": 0, "op": "Write", "value": 8192},
		{"major": 8, "minor": 0, "op": "Total", "value": 12288}
	]}
}`
