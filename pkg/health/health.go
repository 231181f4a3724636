// Package health classifies the reachability of the remote controller
// into a three-state model, recomputed on every poll.
package health

import (
	"errors"
	"time"

	rcterrors "rct/pkg/errors"
)

// Status represents the current reachability of the controller.
type Status int

const (
	// NoConnection means there is no transport-level reachability.
	NoConnection Status = iota

	// NoServer means the transport is connected but the controller did
	// not answer a liveness probe within the bounded wait.
	NoServer

	// OK means the last probe round trip succeeded.
	OK
)

func (s Status) String() string {
	switch s {
	case NoConnection:
		return "NO_CONNECTION"
	case NoServer:
		return "NO_SERVER"
	case OK:
		return "OK"
	default:
		return "UNKNOWN"
	}
}

// Description returns operator-facing text for the status.
func (s Status) Description() string {
	switch s {
	case NoConnection:
		return "There is no connection to the controller. Check comms."
	case NoServer:
		return "A connection to the controller exists, but the server is unresponsive."
	case OK:
		return "Connection is OK."
	default:
		return "Unknown status code."
	}
}

// DefaultProbeTimeout bounds one liveness probe. It is kept strictly
// below the 200ms UI refresh interval so a polling caller is never
// stalled past one refresh.
const DefaultProbeTimeout = 150 * time.Millisecond

// Prober performs one bounded-time liveness probe of the controller.
// It returns nil on a successful round trip, ErrProbeTimeout when the
// peer did not answer in time, and any other error (typically
// ErrNotConnected or ErrConnClosed) when no usable transport exists.
type Prober interface {
	Probe(timeout time.Duration) error
}

// Monitor derives a Status on demand. It stores nothing between polls:
// the status reflects real-time health, never a cached value.
type Monitor struct {
	prober  Prober
	timeout time.Duration
}

// NewMonitor creates a monitor polling the given prober.
func NewMonitor(prober Prober) *Monitor {
	return &Monitor{prober: prober, timeout: DefaultProbeTimeout}
}

// Poll runs one liveness probe and classifies the outcome. Safe to call
// repeatedly and rapidly; each call blocks at most the probe timeout.
func (m *Monitor) Poll() Status {
	err := m.prober.Probe(m.timeout)
	switch {
	case err == nil:
		return OK
	case errors.Is(err, rcterrors.ErrProbeTimeout):
		return NoServer
	default:
		return NoConnection
	}
}
