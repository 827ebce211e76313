package sensor

import (
	"log/slog"
	"sync"
	"time"
)

// LinkState describes sensor connectivity.
type LinkState string

// Link states. The machine starts Disconnected; an explicit Connect moves it
// to Connected; repeated read failures degrade it to Simulating; a
// successful read heals it back to Connected.
const (
	StateDisconnected LinkState = "disconnected"
	StateConnected    LinkState = "connected"
	StateSimulating   LinkState = "simulating"
)

// DefaultFailureThreshold is the number of consecutive read failures after
// which a connected link degrades to simulation.
const DefaultFailureThreshold = 3

// link tracks connectivity and the consecutive-failure counter. All
// mutations run under one mutex so a polling loop and an ad-hoc command
// sender can share the sensor.
type link struct {
	mu         sync.Mutex
	state      LinkState
	failures   int
	threshold  int
	lastChange time.Time
	log        *slog.Logger
}

func newLink(threshold int, log *slog.Logger) *link {
	if threshold <= 0 {
		threshold = DefaultFailureThreshold
	}
	return &link{
		state:      StateDisconnected,
		threshold:  threshold,
		lastChange: time.Now(),
		log:        log,
	}
}

// markConnected records a successful health check.
func (l *link) markConnected() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = 0
	l.transition(StateConnected, "health check succeeded")
}

// readFailure counts a failed read. Crossing the threshold while Connected
// degrades the link to Simulating; Disconnected and Simulating states are
// left alone.
func (l *link) readFailure(reason string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures++
	if l.state == StateConnected && l.failures >= l.threshold {
		l.log.Warn("sensor link degraded, switching to simulated readings",
			"consecutive_failures", l.failures, "reason", reason)
		l.transition(StateSimulating, reason)
	}
}

// readSuccess resets the failure counter and heals the link if a real read
// succeeded while Simulating or Disconnected.
func (l *link) readSuccess() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures = 0
	if l.state != StateConnected {
		l.log.Info("sensor link recovered", "previous_state", string(l.state))
		l.transition(StateConnected, "read succeeded")
	}
}

// transition must be called with the mutex held.
func (l *link) transition(to LinkState, reason string) {
	if l.state == to {
		return
	}
	l.log.Debug("link state change", "from", string(l.state), "to", string(to), "reason", reason)
	l.state = to
	l.lastChange = time.Now()
}

func (l *link) snapshot() (LinkState, int, time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state, l.failures, l.lastChange
}
