package telemetry

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrMalformed indicates a device payload that could not be validated.
var ErrMalformed = errors.New("malformed sensor payload")

// ParseReading validates a raw device payload and converts it into a
// Reading. It requires all four fields to be present and numeric, rejects
// non-finite force/angle/timestamp values and quality outside [0,1].
// It never returns a partially populated Reading.
func ParseReading(raw []byte) (Reading, error) {
	var payload struct {
		Force     *float64 `json:"force"`
		Angle     *float64 `json:"angle"`
		Timestamp *float64 `json:"timestamp"`
		Quality   *float64 `json:"quality"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return Reading{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	fields := map[string]*float64{
		"force":     payload.Force,
		"angle":     payload.Angle,
		"timestamp": payload.Timestamp,
		"quality":   payload.Quality,
	}
	for name, v := range fields {
		if v == nil {
			return Reading{}, fmt.Errorf("%w: missing field %q", ErrMalformed, name)
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return Reading{}, fmt.Errorf("%w: field %q is not finite", ErrMalformed, name)
		}
	}
	if *payload.Quality < 0 || *payload.Quality > 1 {
		return Reading{}, fmt.Errorf("%w: quality %v outside [0,1]", ErrMalformed, *payload.Quality)
	}

	return Reading{
		Force:     *payload.Force,
		Angle:     *payload.Angle,
		Timestamp: *payload.Timestamp,
		Quality:   *payload.Quality,
	}, nil
}
