// Reading structs with greptime tags
package telemetry

import (
	"os"
	"time"
)

// Reading is one force/angle sample as delivered to consumers. Values are
// never modified after creation.
type Reading struct {
	Force     float64 `json:"force"`     // Newtons
	Angle     float64 `json:"angle"`     // degrees, 0-180 nominal
	Timestamp float64 `json:"timestamp"` // seconds since epoch
	Quality   float64 `json:"quality"`   // 0.0-1.0
}

// Time converts the epoch-seconds timestamp to a time.Time.
func (r Reading) Time() time.Time {
	sec := int64(r.Timestamp)
	nsec := int64((r.Timestamp - float64(sec)) * 1e9)
	return time.Unix(sec, nsec).UTC()
}

// Reading sources.
const (
	SourceDevice    = "device"
	SourceSimulated = "simulated"
)

// ReadingRow represents one recorded sample for GreptimeDB.
type ReadingRow struct {
	SessionID string    `json:"session_id"` // TAG
	DeviceID  string    `json:"device_id"`  // TAG
	Force     float64   `json:"force"`      // FIELD
	Angle     float64   `json:"angle"`      // FIELD
	Quality   float64   `json:"quality"`    // FIELD
	Source    string    `json:"source"`     // FIELD
	Timestamp time.Time `json:"ts"`         // TIME INDEX
}

// ReadingTableName holds the table name used when writing to GreptimeDB.
// It defaults to "sensor_readings" but can be overridden via the
// GREPTIMEDB_TABLE environment variable.
var ReadingTableName = func() string {
	if env := os.Getenv("GREPTIMEDB_TABLE"); env != "" {
		return env
	}
	return "sensor_readings"
}()

func (ReadingRow) TableName() string {
	return ReadingTableName
}

// Event kinds recorded alongside readings.
const (
	EventStateChange = "state_change"
	EventMode        = "mode"
	EventCommand     = "command"
)

// EventRow records a link state transition or a forwarded command.
type EventRow struct {
	SessionID string    `json:"session_id"`
	DeviceID  string    `json:"device_id"`
	Kind      string    `json:"kind"`
	Detail    string    `json:"detail"`
	Timestamp time.Time `json:"ts"`
}
