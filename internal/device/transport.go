// Package device talks to the physical force/angle sensor. The wired-serial
// and WiFi/HTTP integrations are interchangeable implementations of the
// Transport interface; only the HTTP one is built in.
package device

import (
	"context"
	"errors"
	"fmt"
)

// Transport failure classes. ErrUnreachable covers connection refused, DNS
// failures and unreachable hosts; ErrTimeout covers requests that got no
// response within the configured bound; ErrRejected covers non-2xx
// application-level responses.
var (
	ErrUnreachable = errors.New("device unreachable")
	ErrTimeout     = errors.New("device timed out")
	ErrRejected    = errors.New("device rejected request")
)

// Endpoint identifies the sensor's HTTP API. Immutable once a transport is
// constructed.
type Endpoint struct {
	IP       string
	Port     int
	BasePath string
}

// URL returns the base URL for the endpoint.
func (e Endpoint) URL() string {
	return fmt.Sprintf("http://%s:%d%s", e.IP, e.Port, e.BasePath)
}

// Command is forwarded verbatim to the device.
type Command struct {
	Command string  `json:"command"`
	Mode    string  `json:"mode"`
	Force   float64 `json:"force"`
	Angle   float64 `json:"angle"`
}

// Transport is the capability set a sensor link must provide. Every call is
// a single bounded request-response; retry policy belongs to the caller.
type Transport interface {
	// Ping checks device health.
	Ping(ctx context.Context) error
	// Fetch retrieves one raw telemetry payload.
	Fetch(ctx context.Context) ([]byte, error)
	// SetMode switches the device operating mode.
	SetMode(ctx context.Context, mode string) error
	// Send forwards a command to the device.
	Send(ctx context.Context, cmd Command) error
}
