package runtime

import (
	"errors"
	"fmt"

	"github.com/docker/docker/client"
)

var (
	// ErrInvalidAction is returned for lifecycle actions other than start, stop and restart.
	ErrInvalidAction = errors.New("invalid action")
	// ErrNotFound is returned when the engine does not know the container.
	ErrNotFound = errors.New("container not found")
	// ErrUnavailable is returned when the engine cannot be reached.
	ErrUnavailable = errors.New("container runtime unavailable")

	errUnprimed = errors.New("stats sample has no previous cpu counters")
)

// RuntimeError wraps an engine failure with the operation that caused it.
type RuntimeError struct {
	Op  string
	ID  string
	Err error
}

func (e *RuntimeError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("docker %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("docker %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// wrapErr tags engine errors with the matching sentinel.
func wrapErr(op, id string, err error) error {
	switch {
	case client.IsErrNotFound(err):
		err = fmt.Errorf("%w: %v", ErrNotFound, err)
	case client.IsErrConnectionFailed(err):
		err = fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return &RuntimeError{Op: op, ID: id, Err: err}
}
