package colortemp

import (
	"testing"
	"time"

	"github.com/avetisov/dimmerd/internal/display"
	"github.com/avetisov/dimmerd/internal/kv"
	"github.com/avetisov/dimmerd/internal/location"
)

func newTestManager(t *testing.T, withLocation bool) (*Manager, *display.Table) {
	t.Helper()

	displays := display.NewTable()
	displays.Upsert("main", display.DefaultState())
	displays.Upsert("side", display.DefaultState())

	loc := location.NewProvider(nil)
	if withLocation {
		// New York
		if err := loc.Set(40.7128, -74.0060); err != nil {
			t.Fatal(err)
		}
	}

	tz, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}

	m := NewManager(displays, loc, Options{
		DayKelvin:          6500,
		NightKelvin:        3400,
		TransitionDuration: 40 * time.Minute,
		Timezone:           tz,
		Enabled:            true,
	})
	return m, displays
}

func warmthOf(t *testing.T, displays *display.Table, id string) float64 {
	t.Helper()
	s, ok := displays.Get(id)
	if !ok {
		t.Fatalf("display %s missing", id)
	}
	return s.Warmth
}

func TestManagerUpdateWritesAllDisplays(t *testing.T) {
	m, displays := newTestManager(t, true)

	// Midday in New York: full day, neutral warmth
	noon := time.Date(2026, 3, 20, 13, 0, 0, 0, time.UTC)
	m.Update(noon)

	if state, ok := m.State(); !ok || state.Kind != StateDay {
		t.Fatalf("state = %v, want day", state)
	}
	if w := warmthOf(t, displays, "main"); w != 0 {
		t.Errorf("main warmth = %v, want 0 at midday", w)
	}
	if w := warmthOf(t, displays, "side"); w != 0 {
		t.Errorf("side warmth = %v, want 0 at midday", w)
	}

	// Late night: full warmth
	night := time.Date(2026, 3, 21, 4, 0, 0, 0, time.UTC)
	m.Update(night)

	if state, _ := m.State(); state.Kind != StateNight {
		t.Fatalf("state = %v, want night", state)
	}
	if w := warmthOf(t, displays, "main"); w != 1 {
		t.Errorf("main warmth = %v, want 1 at night", w)
	}
}

func TestManagerWithoutLocationDefaultsToNight(t *testing.T) {
	m, displays := newTestManager(t, false)

	m.Update(time.Date(2026, 3, 20, 13, 0, 0, 0, time.UTC))

	if state, ok := m.State(); !ok || state.Kind != StateNight {
		t.Fatalf("state = %v, want night default without location", state)
	}
	if w := warmthOf(t, displays, "main"); w != 1 {
		t.Errorf("warmth = %v, want 1 for night default", w)
	}
}

func TestManagerHoldsStateThroughLocationLoss(t *testing.T) {
	m, displays := newTestManager(t, true)

	noon := time.Date(2026, 3, 20, 13, 0, 0, 0, time.UTC)
	m.Update(noon)

	// Location disappears; the manager holds day rather than snapping to night.
	m.loc.Clear()
	m.Update(noon.Add(time.Minute))

	if state, _ := m.State(); state.Kind != StateDay {
		t.Errorf("state = %v, want held day state", state)
	}
	if w := warmthOf(t, displays, "main"); w != 0 {
		t.Errorf("warmth = %v, want held 0", w)
	}
}

func TestManagerManualOverrideSuspendsWrites(t *testing.T) {
	m, displays := newTestManager(t, true)

	night := time.Date(2026, 3, 21, 4, 0, 0, 0, time.UTC)
	m.Update(night)
	if w := warmthOf(t, displays, "main"); w != 1 {
		t.Fatalf("warmth = %v, want 1", w)
	}

	// User drags warmth down; the automation must stop fighting it.
	displays.SetWarmth("main", 0.2)
	m.NotifyManualWarmth()

	m.Update(night.Add(time.Minute))
	if w := warmthOf(t, displays, "main"); w != 0.2 {
		t.Errorf("warmth = %v, automation overwrote a manual change", w)
	}
	if m.Active() {
		t.Error("manager still active after manual override")
	}
}

func TestManagerReEnableIsEdgeTriggered(t *testing.T) {
	m, displays := newTestManager(t, true)

	night := time.Date(2026, 3, 21, 4, 0, 0, 0, time.UTC)
	m.Update(night)

	displays.SetWarmth("main", 0.2)
	m.NotifyManualWarmth()

	// Setting remains true: not an edge, stays suspended.
	m.SetEnabled(true)
	m.Update(night.Add(time.Minute))
	if w := warmthOf(t, displays, "main"); w != 0.2 {
		t.Fatalf("warmth = %v, a level-triggered enable must not re-arm", w)
	}

	// Off then on: an edge, re-arms automatic writes.
	m.SetEnabled(false)
	m.SetEnabled(true)
	m.Update(night.Add(2 * time.Minute))
	if w := warmthOf(t, displays, "main"); w != 1 {
		t.Errorf("warmth = %v, want 1 after edge-triggered re-enable", w)
	}
}

func TestManagerEnabledSettingSurvivesRestart(t *testing.T) {
	displays := display.NewTable()
	displays.Upsert("main", display.DefaultState())
	loc := location.NewProvider(nil)
	if err := loc.Set(40.7128, -74.0060); err != nil {
		t.Fatal(err)
	}

	opts := Options{
		DayKelvin:          6500,
		NightKelvin:        3400,
		TransitionDuration: 40 * time.Minute,
		Timezone:           time.UTC,
		Enabled:            true,
		Settings:           kv.NewMemoryBucket("settings"),
	}

	m := NewManager(displays, loc, opts)
	if !m.Active() {
		t.Fatal("manager not active with default-enabled config")
	}
	m.SetEnabled(false)

	// A restarted manager over the same store honors the stored setting,
	// not the config default.
	m = NewManager(displays, loc, opts)
	if m.Active() {
		t.Fatal("restarted manager ignored the persisted disable")
	}

	m.SetEnabled(true)
	m = NewManager(displays, loc, opts)
	if !m.Active() {
		t.Error("restarted manager ignored the persisted enable")
	}
}

func TestManagerDisabledDoesNotWrite(t *testing.T) {
	m, displays := newTestManager(t, true)
	m.SetEnabled(false)

	m.Update(time.Date(2026, 3, 21, 4, 0, 0, 0, time.UTC))

	if w := warmthOf(t, displays, "main"); w != 0 {
		t.Errorf("warmth = %v, disabled manager wrote a value", w)
	}
	if _, ok := m.State(); ok {
		t.Error("disabled manager computed a state")
	}
}
