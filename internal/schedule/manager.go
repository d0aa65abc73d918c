package schedule

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/avetisov/dimmerd/internal/location"
	"github.com/avetisov/dimmerd/internal/solar"
)

// Schedule is one user-defined dimming schedule. PresetID is a reference,
// not ownership: it may dangle if the preset is later deleted.
type Schedule struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Trigger   Trigger   `json:"trigger"`
	PresetID  string    `json:"preset_id"`
	IsEnabled bool      `json:"is_enabled"`
	CreatedAt time.Time `json:"created_at"`
}

// civilDay identifies a local calendar day for same-day dedup.
type civilDay struct {
	year  int
	month time.Month
	day   int
}

func dayOf(t time.Time, tz *time.Location) civilDay {
	local := t.In(tz)
	return civilDay{local.Year(), local.Month(), local.Day()}
}

// FireFunc is invoked synchronously for every schedule that crosses its
// trigger instant during a check, once per firing schedule.
type FireFunc func(s Schedule)

// Manager owns the schedule collection and evaluates triggers on each tick.
// It is driven by a single goroutine; the runtime dedup state (lastFired,
// lastCheck) lives only in memory and resets on restart, which re-arms
// catch-up for the day of the restart.
type Manager struct {
	schedules []*Schedule
	loc       *location.Provider
	tz        *time.Location
	onFire    FireFunc
	store     *Store

	lastFired map[string]civilDay
	lastCheck time.Time
}

// NewManager creates a schedule manager. lastCheck is seeded to now, so
// triggers that already passed earlier the same day before the engine
// started are not retroactively fired. If store is non-nil the persisted
// collection is loaded, skipping malformed records.
func NewManager(loc *location.Provider, tz *time.Location, onFire FireFunc, store *Store, now time.Time) *Manager {
	if tz == nil {
		tz = time.Local
	}

	m := &Manager{
		loc:       loc,
		tz:        tz,
		onFire:    onFire,
		store:     store,
		lastFired: make(map[string]civilDay),
		lastCheck: now,
	}

	if store != nil {
		schedules, err := store.Load()
		if err != nil {
			log.Error().Err(err).Msg("Failed to load schedules")
		} else {
			m.schedules = schedules
			log.Info().Int("count", len(schedules)).Msg("Schedules loaded")
		}
	}

	return m
}

// Add creates, persists, and returns a new schedule.
func (m *Manager) Add(name string, trigger Trigger, presetID string) (Schedule, error) {
	if err := trigger.Validate(); err != nil {
		return Schedule{}, err
	}

	s := &Schedule{
		ID:        uuid.NewString(),
		Name:      name,
		Trigger:   trigger,
		PresetID:  presetID,
		IsEnabled: true,
		CreatedAt: time.Now().UTC(),
	}
	m.schedules = append(m.schedules, s)
	m.persist()

	log.Info().
		Str("schedule_id", s.ID).
		Str("name", name).
		Stringer("trigger", trigger).
		Msg("Schedule added")

	return *s, nil
}

// Update replaces a schedule's name, trigger, and preset reference. The
// same-day fired flag is cleared: an edited schedule is a fresh trigger
// definition and may fire again today.
func (m *Manager) Update(id, name string, trigger Trigger, presetID string) error {
	if err := trigger.Validate(); err != nil {
		return err
	}

	s := m.find(id)
	if s == nil {
		return fmt.Errorf("no such schedule: %s", id)
	}

	s.Name = name
	s.Trigger = trigger
	s.PresetID = presetID
	delete(m.lastFired, id)
	m.persist()

	log.Info().
		Str("schedule_id", id).
		Stringer("trigger", trigger).
		Msg("Schedule updated")

	return nil
}

// Delete removes a schedule.
func (m *Manager) Delete(id string) error {
	for i, s := range m.schedules {
		if s.ID == id {
			m.schedules = append(m.schedules[:i], m.schedules[i+1:]...)
			delete(m.lastFired, id)
			m.persist()
			log.Info().Str("schedule_id", id).Msg("Schedule deleted")
			return nil
		}
	}
	return fmt.Errorf("no such schedule: %s", id)
}

// SetEnabled toggles a schedule. Re-enabling a disabled schedule clears its
// same-day fired flag, allowing it to fire again today.
func (m *Manager) SetEnabled(id string, enabled bool) error {
	s := m.find(id)
	if s == nil {
		return fmt.Errorf("no such schedule: %s", id)
	}

	if enabled && !s.IsEnabled {
		delete(m.lastFired, id)
	}
	s.IsEnabled = enabled
	m.persist()

	log.Info().Str("schedule_id", id).Bool("enabled", enabled).Msg("Schedule toggled")
	return nil
}

// Reorder rearranges the collection to match the given ID order. Every
// existing schedule must appear exactly once.
func (m *Manager) Reorder(ids []string) error {
	if len(ids) != len(m.schedules) {
		return fmt.Errorf("reorder needs %d ids, got %d", len(m.schedules), len(ids))
	}

	byID := make(map[string]*Schedule, len(m.schedules))
	for _, s := range m.schedules {
		byID[s.ID] = s
	}

	reordered := make([]*Schedule, 0, len(ids))
	for _, id := range ids {
		s, ok := byID[id]
		if !ok {
			return fmt.Errorf("no such schedule: %s", id)
		}
		delete(byID, id)
		reordered = append(reordered, s)
	}

	m.schedules = reordered
	m.persist()
	return nil
}

// List returns a copy of the collection in iteration order.
func (m *Manager) List() []Schedule {
	out := make([]Schedule, 0, len(m.schedules))
	for _, s := range m.schedules {
		out = append(out, *s)
	}
	return out
}

// Get returns a schedule by ID.
func (m *Manager) Get(id string) (Schedule, bool) {
	if s := m.find(id); s != nil {
		return *s, true
	}
	return Schedule{}, false
}

// CheckSchedules evaluates every enabled schedule against now. A schedule
// fires when its resolved trigger instant T satisfies lastCheck < T <= now
// and it has not already fired on now's calendar day. lastCheck always
// advances to now, so a trigger instant inside a long gap between checks
// still fires exactly once on the next call (catch-up).
func (m *Manager) CheckSchedules(now time.Time) {
	today := dayOf(now, m.tz)
	events := m.solarEvents(now)

	var fired []Schedule
	for _, s := range m.schedules {
		if !s.IsEnabled {
			continue
		}

		t, ok := s.Trigger.Resolve(now, events, m.tz)
		if !ok {
			continue
		}
		if !t.After(m.lastCheck) || t.After(now) {
			continue
		}
		if last, ok := m.lastFired[s.ID]; ok && last == today {
			continue
		}

		m.lastFired[s.ID] = today
		fired = append(fired, *s)
	}

	m.lastCheck = now

	for _, s := range fired {
		log.Info().
			Str("schedule_id", s.ID).
			Str("name", s.Name).
			Str("preset_id", s.PresetID).
			Stringer("trigger", s.Trigger).
			Msg("Schedule fired")
		if m.onFire != nil {
			m.onFire(s)
		}
	}
}

// solarEvents resolves today's sunrise/sunset if any enabled schedule needs
// them. Returns nil when no location is known.
func (m *Manager) solarEvents(now time.Time) *solar.Events {
	needed := false
	for _, s := range m.schedules {
		if s.IsEnabled && s.Trigger.RequiresLocation() {
			needed = true
			break
		}
	}
	if !needed {
		return nil
	}

	coord := m.loc.Current()
	if coord == nil {
		return nil
	}

	events := solar.EventsFor(coord.Latitude, coord.Longitude, now, m.tz)
	return &events
}

func (m *Manager) find(id string) *Schedule {
	for _, s := range m.schedules {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (m *Manager) persist() {
	if m.store == nil {
		return
	}
	if err := m.store.Save(m.schedules); err != nil {
		log.Error().Err(err).Msg("Failed to persist schedules")
	}
}
