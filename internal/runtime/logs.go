package runtime

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/pkg/stdcopy"
)

// DefaultLogTail is the number of lines returned when no tail is given.
const DefaultLogTail = 100

// Logs returns the last tail lines of combined stdout and stderr with
// timestamps, optionally limited to entries after since. Empty lines are
// removed.
func (c *Collector) Logs(ctx context.Context, id string, tail int, since string) ([]string, error) {
	if tail <= 0 {
		tail = DefaultLogTail
	}

	details, err := c.inspect(ctx, id)
	if err != nil {
		return nil, err
	}

	callCtx, cancel := c.call(ctx)
	defer cancel()

	rc, err := c.api.ContainerLogs(callCtx, id, container.LogsOptions{
		ShowStdout: true,
		ShowStderr: true,
		Timestamps: true,
		Tail:       strconv.Itoa(tail),
		Since:      since,
	})
	if err != nil {
		return nil, wrapErr("logs", id, err)
	}
	defer rc.Close()

	var buf bytes.Buffer
	if details.Config != nil && details.Config.Tty {
		_, err = io.Copy(&buf, rc)
	} else {
		// Without a TTY the engine multiplexes both streams behind 8-byte frame headers.
		_, err = stdcopy.StdCopy(&buf, &buf, rc)
	}
	if err != nil {
		return nil, &RuntimeError{Op: "logs", ID: id, Err: fmt.Errorf("read: %w", err)}
	}

	return splitLines(buf.String()), nil
}

func splitLines(s string) []string {
	raw := strings.Split(s, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimSuffix(line, "\r")
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}
