// Recorder drives the fixed-interval polling loop and fans readings out to
// the configured writers.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zjy020422/rehabit-sys/internal/logging"
	"github.com/Zjy020422/rehabit-sys/internal/record"
	"github.com/Zjy020422/rehabit-sys/internal/sensor"
	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

// DefaultInterval is the poll interval when none is configured.
const DefaultInterval = 200 * time.Millisecond

// StatusSink receives link status updates alongside the reading stream.
// The TUI writer implements it; other writers don't need to.
type StatusSink interface {
	SetStatus(sensor.Status)
}

// Recorder polls the sensor on a fixed interval, stamps rows with a session
// ID and writes them out. It owns the only long-running loop in the
// process; the sensor itself is purely request-driven.
type Recorder struct {
	sensor    *sensor.Sensor
	writer    record.Writer
	events    record.EventWriter
	interval  time.Duration
	sessionID string
	deviceID  string
	now       func() time.Time

	mu        sync.Mutex
	latest    telemetry.ReadingRow
	haveRow   bool
	lastState sensor.LinkState
}

// NewRecorder creates a Recorder with a fresh session ID. events may be nil.
func NewRecorder(s *sensor.Sensor, writer record.Writer, events record.EventWriter, interval time.Duration, deviceID string) *Recorder {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Recorder{
		sensor:    s,
		writer:    writer,
		events:    events,
		interval:  interval,
		sessionID: uuid.NewString(),
		deviceID:  deviceID,
		now:       time.Now,
		lastState: s.Status().State,
	}
}

// SessionID returns the ID stamped on every row of this session.
func (r *Recorder) SessionID() string { return r.sessionID }

// Run polls until the context is done.
func (r *Recorder) Run(ctx context.Context) {
	log := logging.FromContext(ctx)
	log.Info("starting session recorder",
		"session_id", r.sessionID, "poll_interval", r.interval)
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.tick(ctx)
		case <-ctx.Done():
			log.Info("stopping session recorder", "session_id", r.sessionID)
			return
		}
	}
}

// tick performs one poll. The read itself never fails; only writer errors
// are reported.
func (r *Recorder) tick(ctx context.Context) {
	log := logging.FromContext(ctx)

	reading, source := r.sensor.ReadOnce(ctx)
	row := telemetry.ReadingRow{
		SessionID: r.sessionID,
		DeviceID:  r.deviceID,
		Force:     reading.Force,
		Angle:     reading.Angle,
		Quality:   reading.Quality,
		Source:    source,
		Timestamp: reading.Time(),
	}

	r.mu.Lock()
	r.latest = row
	r.haveRow = true
	r.mu.Unlock()

	if err := r.writer.Write(row); err != nil {
		log.Error("reading write failed", "session_id", r.sessionID, "err", err)
	}

	st := r.sensor.Status()
	if sink, ok := r.writer.(StatusSink); ok {
		sink.SetStatus(st)
	}
	r.mu.Lock()
	changed := st.State != r.lastState
	prev := r.lastState
	if changed {
		r.lastState = st.State
	}
	r.mu.Unlock()
	if changed {
		r.emitEvent(ctx, telemetry.EventStateChange,
			fmt.Sprintf("%s -> %s", prev, st.State))
	}
}

// RecordEvent writes an ad-hoc event row (forwarded commands, mode
// changes) into the session log.
func (r *Recorder) RecordEvent(ctx context.Context, kind, detail string) {
	r.emitEvent(ctx, kind, detail)
}

func (r *Recorder) emitEvent(ctx context.Context, kind, detail string) {
	if r.events == nil {
		return
	}
	ev := telemetry.EventRow{
		SessionID: r.sessionID,
		DeviceID:  r.deviceID,
		Kind:      kind,
		Detail:    detail,
		Timestamp: r.now(),
	}
	if err := r.events.WriteEvent(ev); err != nil {
		logging.FromContext(ctx).Error("event write failed", "kind", kind, "err", err)
	}
}

// Latest returns the most recent row, if any poll has completed yet.
func (r *Recorder) Latest() (telemetry.ReadingRow, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest, r.haveRow
}
