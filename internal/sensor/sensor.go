// Package sensor is the single entry point the rest of the application uses
// to talk to the force/angle sensor. It hides the transport, the link state
// machine and the simulated fallback: reads never fail upward, they degrade
// to synthetic data instead.
package sensor

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/Zjy020422/rehabit-sys/internal/device"
	"github.com/Zjy020422/rehabit-sys/internal/telemetry"
)

// Device operating modes.
const (
	ModeAngle = "angle"
	ModeForce = "force"
	ModeAll   = "all"
)

// Config carries construction-time settings. The sensor itself reads no
// files or environment variables.
type Config struct {
	Endpoint         device.Endpoint
	Timeout          time.Duration
	FailureThreshold int
	Logger           *slog.Logger
}

// Status is the snapshot exposed to the hosting application.
type Status struct {
	State      LinkState `json:"connection_state"`
	IP         string    `json:"sensor_ip"`
	Port       int       `json:"sensor_port"`
	ErrorCount int       `json:"error_count"`
	Mode       string    `json:"mode"`
	LastChange time.Time `json:"last_change"`
}

// Sensor owns one device link. Construct it at startup and pass it to the
// components that need it; it is safe for concurrent use.
type Sensor struct {
	transport device.Transport
	endpoint  device.Endpoint
	link      *link
	gen       *telemetry.Generator
	log       *slog.Logger

	muMode sync.Mutex
	mode   string
}

// New creates a Sensor over the given transport. A nil logger falls back to
// slog.Default().
func New(transport device.Transport, cfg Config) *Sensor {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Sensor{
		transport: transport,
		endpoint:  cfg.Endpoint,
		link:      newLink(cfg.FailureThreshold, log),
		gen:       telemetry.NewGenerator(),
		log:       log,
		mode:      ModeAll,
	}
}

// Connect performs a health check. On success the link becomes Connected;
// on failure it stays Disconnected and the error is returned so the caller
// can decide whether to proceed in simulation.
func (s *Sensor) Connect(ctx context.Context) error {
	if err := s.transport.Ping(ctx); err != nil {
		s.log.Warn("sensor connect failed", "endpoint", s.endpoint.URL(), "err", err)
		return fmt.Errorf("connect %s: %w", s.endpoint.URL(), err)
	}
	s.link.markConnected()
	s.log.Info("sensor connected", "endpoint", s.endpoint.URL())
	return nil
}

// ReadOnce returns one reading. While the link is Connected or Simulating a
// real fetch is attempted so a degraded link can heal itself; any transport
// or parse failure is absorbed and a simulated reading is returned instead.
// The second return value names the reading source.
func (s *Sensor) ReadOnce(ctx context.Context) (telemetry.Reading, string) {
	state, _, _ := s.link.snapshot()
	if state == StateDisconnected {
		// Connecting is an explicit caller decision; don't probe the
		// device behind its back.
		return s.gen.Next(), telemetry.SourceSimulated
	}

	raw, err := s.transport.Fetch(ctx)
	if err != nil {
		s.link.readFailure(err.Error())
		return s.gen.Next(), telemetry.SourceSimulated
	}
	reading, err := telemetry.ParseReading(raw)
	if err != nil {
		s.link.readFailure(err.Error())
		return s.gen.Next(), telemetry.SourceSimulated
	}
	s.link.readSuccess()
	return reading, telemetry.SourceDevice
}

// SetMode switches the device operating mode. Unlike reads, failures here
// surface to the caller: a mode change expects a definite outcome.
func (s *Sensor) SetMode(ctx context.Context, mode string) error {
	if !validMode(mode) {
		return fmt.Errorf("invalid mode %q (want %s, %s or %s)", mode, ModeAngle, ModeForce, ModeAll)
	}
	if err := s.transport.SetMode(ctx, mode); err != nil {
		return fmt.Errorf("set mode %q: %w", mode, err)
	}
	s.muMode.Lock()
	s.mode = mode
	s.muMode.Unlock()
	s.log.Info("sensor mode set", "mode", mode)
	return nil
}

// SendCommand forwards a command to the device. Failures surface to the
// caller. Only range checks are applied locally; the device owns command
// semantics, including which mode strings it accepts here.
func (s *Sensor) SendCommand(ctx context.Context, cmd device.Command) error {
	if cmd.Command == "" {
		return fmt.Errorf("empty command")
	}
	if math.IsNaN(cmd.Force) || math.IsInf(cmd.Force, 0) || cmd.Force < 0 {
		return fmt.Errorf("invalid force %v in command", cmd.Force)
	}
	if math.IsNaN(cmd.Angle) || cmd.Angle < 0 || cmd.Angle > 180 {
		return fmt.Errorf("invalid angle %v in command", cmd.Angle)
	}
	if err := s.transport.Send(ctx, cmd); err != nil {
		return fmt.Errorf("send command %q: %w", cmd.Command, err)
	}
	s.log.Debug("command forwarded", "command", cmd.Command, "mode", cmd.Mode)
	return nil
}

// Status returns the current link snapshot.
func (s *Sensor) Status() Status {
	state, failures, last := s.link.snapshot()
	s.muMode.Lock()
	mode := s.mode
	s.muMode.Unlock()
	return Status{
		State:      state,
		IP:         s.endpoint.IP,
		Port:       s.endpoint.Port,
		ErrorCount: failures,
		Mode:       mode,
		LastChange: last,
	}
}

func validMode(mode string) bool {
	switch mode {
	case ModeAngle, ModeForce, ModeAll:
		return true
	}
	return false
}
