// Package motion provides scripted exercise waveforms for the device
// emulator: force/angle trajectories shaped like real rehabilitation
// movements instead of white noise.
package motion

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Profile produces a force/angle pair for a point in session time.
type Profile interface {
	// Name identifies the profile in CLI flags and logs.
	Name() string
	// At returns force (N) and angle (degrees) at elapsed time t.
	At(t time.Duration) (force, angle float64)
}

// ROMSweep sweeps the joint through its range of motion under light load.
type ROMSweep struct{}

func (ROMSweep) Name() string { return "rom-sweep" }

func (ROMSweep) At(t time.Duration) (float64, float64) {
	sec := t.Seconds()
	angle := 90 + 75*math.Sin(sec*0.4)
	force := 20 + 5*math.Sin(sec*0.8)
	return force, angle
}

// IsometricHold holds a fixed joint angle against a sustained contraction
// that slowly fatigues.
type IsometricHold struct{}

func (IsometricHold) Name() string { return "isometric-hold" }

func (IsometricHold) At(t time.Duration) (float64, float64) {
	sec := t.Seconds()
	fatigue := math.Max(0.6, 1-sec/120)
	force := 70 * fatigue
	angle := 90 + 1.5*math.Sin(sec*3) // slight tremor
	return force, angle
}

// ContractionCycles alternates contraction and release, the standard
// strength-training pattern.
type ContractionCycles struct{}

func (ContractionCycles) Name() string { return "contraction-cycles" }

func (ContractionCycles) At(t time.Duration) (float64, float64) {
	sec := t.Seconds()
	phase := math.Mod(sec, 6)
	force := 15.0
	if phase < 3 {
		// 3s contraction ramp, 3s rest.
		force = 15 + 60*math.Sin(phase/3*math.Pi)
	}
	angle := 90 + 30*math.Sin(sec*0.4)
	return force, angle
}

var profiles = map[string]Profile{
	ROMSweep{}.Name():          ROMSweep{},
	IsometricHold{}.Name():     IsometricHold{},
	ContractionCycles{}.Name(): ContractionCycles{},
}

// ByName looks up a profile.
func ByName(name string) (Profile, error) {
	p, ok := profiles[name]
	if !ok {
		return nil, fmt.Errorf("unknown motion profile %q (available: %v)", name, Names())
	}
	return p, nil
}

// Names lists the available profiles in stable order.
func Names() []string {
	names := make([]string, 0, len(profiles))
	for n := range profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
