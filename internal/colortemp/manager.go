package colortemp

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/avetisov/dimmerd/internal/display"
	"github.com/avetisov/dimmerd/internal/kv"
	"github.com/avetisov/dimmerd/internal/location"
	"github.com/avetisov/dimmerd/internal/solar"
)

// enabledKey is the settings bucket key holding the user's automation
// setting.
const enabledKey = "automation_enabled"

// Options configures the color temperature manager.
type Options struct {
	DayKelvin   float64
	NightKelvin float64
	// TransitionDuration is the full width of a sunrise/sunset transition
	// window, centered on the event.
	TransitionDuration time.Duration
	Timezone           *time.Location
	// Enabled is the configured default; a setting stored in Settings wins.
	Enabled bool
	// Settings, when non-nil, persists the automation setting across
	// restarts.
	Settings kv.Bucket
}

// Manager is the day/night color temperature state machine. It is driven by
// an external periodic tick and must only be mutated from that single
// driving goroutine.
type Manager struct {
	displays *display.Table
	loc      *location.Provider
	opts     Options

	// enabled mirrors the user's automation setting; active is the actual
	// write gate. A manual warmth change clears active while enabled stays
	// true; only an off-to-on edge of the setting re-arms it.
	enabled bool
	active  bool

	lastState State
	hasState  bool
}

// NewManager creates a color temperature manager, restoring the user's
// automation setting from the settings bucket when one was stored.
func NewManager(displays *display.Table, loc *location.Provider, opts Options) *Manager {
	if opts.Timezone == nil {
		opts.Timezone = time.Local
	}
	enabled := opts.Enabled
	if opts.Settings != nil {
		if v, err := opts.Settings.Get(enabledKey); err != nil {
			log.Warn().Err(err).Msg("Failed to restore automation setting")
		} else if stored, ok := v.(bool); ok {
			enabled = stored
		}
	}
	return &Manager{
		displays: displays,
		loc:      loc,
		opts:     opts,
		enabled:  enabled,
		active:   enabled,
	}
}

// Update recomputes the automation state for now and writes the resulting
// warmth into every connected display. Suspended (manually overridden or
// disabled) managers do nothing. A missing location or a polar day/night
// holds the last computed state rather than failing.
func (m *Manager) Update(now time.Time) {
	if !m.active {
		return
	}

	coord := m.loc.Current()
	if coord == nil {
		m.hold(now)
		return
	}

	events := solar.EventsFor(coord.Latitude, coord.Longitude, now, m.opts.Timezone)
	if events.Polar() {
		m.hold(now)
		return
	}

	state := DetermineState(now, *events.Sunrise, *events.Sunset, m.opts.TransitionDuration/2)
	m.apply(state)
}

// hold keeps the last computed state, or falls back to night when the
// manager has never computed one.
func (m *Manager) hold(now time.Time) {
	if m.hasState {
		return
	}
	log.Debug().Time("now", now).Msg("No solar events available, defaulting to night")
	m.apply(State{Kind: StateNight})
}

func (m *Manager) apply(state State) {
	kelvin := KelvinFor(state, m.opts.DayKelvin, m.opts.NightKelvin)
	warmth := WarmthForKelvin(kelvin, m.opts.DayKelvin, m.opts.NightKelvin)

	for _, id := range m.displays.IDs() {
		m.displays.SetWarmth(id, warmth)
	}

	if !m.hasState || state != m.lastState {
		log.Debug().
			Stringer("state", state).
			Float64("kelvin", kelvin).
			Float64("warmth", warmth).
			Msg("Color temperature updated")
	}

	m.lastState = state
	m.hasState = true
}

// State returns the last computed state and whether one has been computed.
func (m *Manager) State() (State, bool) {
	return m.lastState, m.hasState
}

// Active reports whether automatic warmth writes are currently armed.
func (m *Manager) Active() bool {
	return m.active
}

// NotifyManualWarmth suspends automatic writes. Called when a manual warmth
// change is observed, or when a preset carrying an explicit warmth value is
// applied, so the automation loop never fights a user's adjustment.
func (m *Manager) NotifyManualWarmth() {
	if m.active {
		log.Info().Msg("Manual warmth change, suspending color temperature automation")
	}
	m.active = false
}

// SetEnabled records the user's automation setting. Re-arming is
// edge-triggered: only an off-to-on transition restores automatic writes
// after a manual override.
func (m *Manager) SetEnabled(enabled bool) {
	if enabled && !m.enabled {
		m.active = true
		log.Info().Msg("Color temperature automation re-enabled")
	}
	if !enabled {
		m.active = false
	}
	m.enabled = enabled

	if m.opts.Settings != nil {
		if err := m.opts.Settings.Store(enabledKey, enabled); err != nil {
			log.Warn().Err(err).Msg("Failed to persist automation setting")
		}
	}
}
