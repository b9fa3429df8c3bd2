package battery

import (
	"context"
	"sync"
)

// Simulator fakes a battery that drains to Min, charges back up to Max and
// repeats. Power saving switches on below PowerSaveLevel while discharging.
type Simulator struct {
	Min            int
	Max            int
	Step           int
	PowerSaveLevel int

	mu       sync.Mutex
	level    int
	charging bool
}

// NewSimulator starts at level, charging or not.
func NewSimulator(level int, charging bool) *Simulator {
	return &Simulator{
		Min:            10,
		Max:            95,
		Step:           1,
		PowerSaveLevel: 20,
		level:          level,
		charging:       charging,
	}
}

// Read advances the simulation by one step and returns the new reading.
func (s *Simulator) Read(_ context.Context) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.charging {
		s.level += s.Step
		if s.level >= s.Max {
			s.level = s.Max
			s.charging = false
		}
	} else {
		s.level -= s.Step
		if s.level <= s.Min {
			s.level = s.Min
			s.charging = true
		}
	}

	return State{
		Present:   true,
		Level:     s.level,
		PluggedIn: s.charging,
		Charging:  s.charging,
		PowerSave: !s.charging && s.level <= s.PowerSaveLevel,
	}, nil
}
