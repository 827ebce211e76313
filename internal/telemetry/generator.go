package telemetry

import (
	"math"
	"math/rand"
	"time"
)

// Simulated reading bounds.
const (
	simForceMin   = 10.0
	simForceMax   = 100.0
	simAngleMin   = 0.0
	simAngleMax   = 180.0
	simQualityMin = 0.85
	simQualityMax = 1.0
)

// Generator produces synthetic readings when the device is unavailable.
// The waveform mimics a rehabilitation exercise: a periodic muscle
// contraction riding on a base force with a slow fatigue decay, and a
// range-of-motion sweep with a slight tremor on the joint angle.
type Generator struct {
	rand  *rand.Rand
	start time.Time
	now   func() time.Time
}

// NewGenerator creates a Generator seeded from the current time.
func NewGenerator() *Generator {
	return &Generator{
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
		start: time.Now(),
		now:   time.Now,
	}
}

// Next returns a fresh simulated Reading. Force is always within
// [10,100] N, angle within [0,180] degrees and quality within [0.85,1.0].
func (g *Generator) Next() Reading {
	now := g.now()
	t := now.Sub(g.start).Seconds()

	// Fatigue lowers the contraction amplitude over each minute of activity.
	fatigue := math.Max(0.7, 1-math.Mod(t, 60)/300)
	contraction := 20 * math.Sin(t*0.8) * fatigue
	force := 50 + contraction + g.rand.NormFloat64()*5
	force = clamp(force, simForceMin, simForceMax)

	rom := 30 * math.Sin(t*0.4)
	tremor := 2 * math.Sin(t*3) * (0.5 + g.rand.Float64()*0.5)
	angle := 90 + rom + tremor + g.rand.NormFloat64()
	angle = clamp(angle, simAngleMin, simAngleMax)

	quality := simQualityMin + g.rand.Float64()*(simQualityMax-simQualityMin)

	return Reading{
		Force:     force,
		Angle:     angle,
		Timestamp: float64(now.UnixNano()) / 1e9,
		Quality:   quality,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
