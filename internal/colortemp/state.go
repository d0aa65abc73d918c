// Package colortemp drives display warmth from the solar day/night cycle.
package colortemp

import (
	"fmt"
	"time"
)

// StateKind discriminates the color temperature automation states.
type StateKind int

const (
	StateNight StateKind = iota
	StateDay
	StateSunriseTransition
	StateSunsetTransition
)

// State is the automation state for one instant. Progress is meaningful only
// for the transition kinds: 0 at the start of the window, 1 at the end.
// State is transient - recomputed every tick, never persisted.
type State struct {
	Kind     StateKind
	Progress float64
}

func (s State) String() string {
	switch s.Kind {
	case StateNight:
		return "night"
	case StateDay:
		return "day"
	case StateSunriseTransition:
		return fmt.Sprintf("sunrise_transition(%.2f)", s.Progress)
	case StateSunsetTransition:
		return fmt.Sprintf("sunset_transition(%.2f)", s.Progress)
	}
	return "unknown"
}

// DetermineState classifies now against the sunrise/sunset instants. The
// transition windows span [event - half, event + half]; window boundaries are
// inclusive. With a zero half duration the windows collapse to the event
// instants themselves, where progress is 1 (transition-complete).
func DetermineState(now, sunrise, sunset time.Time, half time.Duration) State {
	if half <= 0 {
		switch {
		case now.Equal(sunrise):
			return State{Kind: StateSunriseTransition, Progress: 1}
		case now.Equal(sunset):
			return State{Kind: StateSunsetTransition, Progress: 1}
		case now.Before(sunrise):
			return State{Kind: StateNight}
		case now.Before(sunset):
			return State{Kind: StateDay}
		default:
			return State{Kind: StateNight}
		}
	}

	riseStart := sunrise.Add(-half)
	riseEnd := sunrise.Add(half)
	setStart := sunset.Add(-half)
	setEnd := sunset.Add(half)

	switch {
	case !now.Before(riseStart) && !now.After(riseEnd):
		return State{Kind: StateSunriseTransition, Progress: windowProgress(now, riseStart, half)}
	case !now.Before(setStart) && !now.After(setEnd):
		return State{Kind: StateSunsetTransition, Progress: windowProgress(now, setStart, half)}
	case now.After(riseEnd) && now.Before(setStart):
		return State{Kind: StateDay}
	default:
		return State{Kind: StateNight}
	}
}

func windowProgress(now, start time.Time, half time.Duration) float64 {
	p := float64(now.Sub(start)) / float64(2*half)
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// KelvinFor returns the target color temperature for a state. Transitions
// interpolate linearly between the night and day temperatures; sunrise moves
// toward day, sunset toward night.
func KelvinFor(s State, dayKelvin, nightKelvin float64) float64 {
	switch s.Kind {
	case StateDay:
		return dayKelvin
	case StateNight:
		return nightKelvin
	case StateSunriseTransition:
		return nightKelvin + (dayKelvin-nightKelvin)*s.Progress
	case StateSunsetTransition:
		return nightKelvin + (dayKelvin-nightKelvin)*(1-s.Progress)
	}
	return nightKelvin
}

// WarmthForKelvin normalizes a Kelvin target into [0,1] warmth: 0 at the day
// temperature, 1 at the night temperature, monotonically increasing as
// Kelvin decreases.
func WarmthForKelvin(kelvin, dayKelvin, nightKelvin float64) float64 {
	if dayKelvin == nightKelvin {
		return 0
	}
	w := (dayKelvin - kelvin) / (dayKelvin - nightKelvin)
	if w < 0 {
		return 0
	}
	if w > 1 {
		return 1
	}
	return w
}
