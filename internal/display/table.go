// Package display holds the live per-display brightness/warmth/contrast
// values and the rendering curves that turn them into output parameters.
package display

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Value ranges. Brightness has a hard floor above zero so software dimming
// can never turn a display fully black.
const (
	MinBrightness = 0.1
	MaxBrightness = 1.0

	NeutralContrast = 0.5
)

// State holds the three output scalars for one display.
type State struct {
	Brightness float64 `json:"brightness"`
	Warmth     float64 `json:"warmth"`
	Contrast   float64 `json:"contrast"`
}

// DefaultState is the state a newly connected display starts with.
func DefaultState() State {
	return State{Brightness: MaxBrightness, Warmth: 0, Contrast: NeutralContrast}
}

func clampState(s State) State {
	s.Brightness = clamp(s.Brightness, MinBrightness, MaxBrightness)
	s.Warmth = clamp(s.Warmth, 0, 1)
	s.Contrast = clamp(s.Contrast, 0, 1)
	return s
}

// ChangeFunc is called after a display's state changes, with the new state.
type ChangeFunc func(id string, s State)

// Table is the shared table of connected displays, keyed by a stable display
// identifier. Entries are created and removed by display connect/disconnect
// handling; everything else only reads and writes the three scalars.
// Last write wins per scalar; callers needing an atomic multi-field update
// use SetAll.
type Table struct {
	mu       sync.RWMutex
	displays map[string]State
	onChange ChangeFunc
}

// NewTable creates an empty display table.
func NewTable() *Table {
	return &Table{
		displays: make(map[string]State),
	}
}

// SetOnChange registers a callback invoked after every state change.
// The callback runs outside the table lock.
func (t *Table) SetOnChange(fn ChangeFunc) {
	t.mu.Lock()
	t.onChange = fn
	t.mu.Unlock()
}

// Upsert adds or replaces a display entry with the given state (clamped).
func (t *Table) Upsert(id string, s State) {
	s = clampState(s)
	t.mu.Lock()
	_, existed := t.displays[id]
	t.displays[id] = s
	fn := t.onChange
	t.mu.Unlock()

	if !existed {
		log.Debug().Str("display", id).Msg("Display added")
	}
	if fn != nil {
		fn(id, s)
	}
}

// Remove deletes a display entry. Removing an unknown id is a no-op.
func (t *Table) Remove(id string) {
	t.mu.Lock()
	_, existed := t.displays[id]
	delete(t.displays, id)
	t.mu.Unlock()

	if existed {
		log.Debug().Str("display", id).Msg("Display removed")
	}
}

// Get returns the state for a display, and whether the display is known.
func (t *Table) Get(id string) (State, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.displays[id]
	return s, ok
}

// IDs returns the identifiers of all connected displays.
func (t *Table) IDs() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.displays))
	for id := range t.displays {
		ids = append(ids, id)
	}
	return ids
}

// Snapshot returns a copy of the whole table.
func (t *Table) Snapshot() map[string]State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make(map[string]State, len(t.displays))
	for id, s := range t.displays {
		out[id] = s
	}
	return out
}

// SetBrightness sets a display's brightness, clamped into [0.1, 1.0].
// Unknown display identifiers are a silent no-op: displays can disconnect
// between a read and a write.
func (t *Table) SetBrightness(id string, v float64) {
	t.set(id, func(s State) State {
		s.Brightness = clamp(v, MinBrightness, MaxBrightness)
		return s
	})
}

// SetWarmth sets a display's warmth, clamped into [0, 1].
func (t *Table) SetWarmth(id string, v float64) {
	t.set(id, func(s State) State {
		s.Warmth = clamp(v, 0, 1)
		return s
	})
}

// SetContrast sets a display's contrast, clamped into [0, 1].
func (t *Table) SetContrast(id string, v float64) {
	t.set(id, func(s State) State {
		s.Contrast = clamp(v, 0, 1)
		return s
	})
}

// SetAll replaces all three scalars for a display in a single write, so
// observers never see a partially applied update. Unknown ids are a no-op.
func (t *Table) SetAll(id string, s State) {
	t.set(id, func(State) State {
		return clampState(s)
	})
}

func (t *Table) set(id string, modify func(State) State) {
	t.mu.Lock()
	cur, ok := t.displays[id]
	if !ok {
		t.mu.Unlock()
		return
	}
	next := modify(cur)
	t.displays[id] = next
	fn := t.onChange
	t.mu.Unlock()

	if fn != nil && next != cur {
		fn(id, next)
	}
}
