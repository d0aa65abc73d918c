// Package schedule owns the dimming schedule collection: user-defined
// triggers that apply a preset at a fixed time of day or relative to
// sunrise/sunset.
package schedule

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/avetisov/dimmerd/internal/solar"
)

// TriggerKind discriminates the trigger variants.
type TriggerKind string

const (
	TriggerFixedTime TriggerKind = "fixed_time"
	TriggerSunrise   TriggerKind = "sunrise"
	TriggerSunset    TriggerKind = "sunset"
)

// Trigger defines when a schedule fires. FixedTime uses Hour/Minute in the
// local calendar; the solar kinds use OffsetMinutes (signed) relative to the
// day's sunrise or sunset.
type Trigger struct {
	Kind          TriggerKind `json:"kind"`
	Hour          int         `json:"hour"`
	Minute        int         `json:"minute"`
	OffsetMinutes int         `json:"offset_minutes"`
}

// FixedAt builds a fixed-time trigger.
func FixedAt(hour, minute int) Trigger {
	return Trigger{Kind: TriggerFixedTime, Hour: hour, Minute: minute}
}

// AtSunrise builds a sunrise-relative trigger.
func AtSunrise(offsetMinutes int) Trigger {
	return Trigger{Kind: TriggerSunrise, OffsetMinutes: offsetMinutes}
}

// AtSunset builds a sunset-relative trigger.
func AtSunset(offsetMinutes int) Trigger {
	return Trigger{Kind: TriggerSunset, OffsetMinutes: offsetMinutes}
}

// Validate checks the trigger's tag and payload ranges.
func (t Trigger) Validate() error {
	switch t.Kind {
	case TriggerFixedTime:
		if t.Hour < 0 || t.Hour > 23 {
			return fmt.Errorf("invalid hour: %d", t.Hour)
		}
		if t.Minute < 0 || t.Minute > 59 {
			return fmt.Errorf("invalid minute: %d", t.Minute)
		}
		return nil
	case TriggerSunrise, TriggerSunset:
		return nil
	default:
		return fmt.Errorf("unknown trigger kind: %q", t.Kind)
	}
}

// RequiresLocation reports whether the trigger needs coordinates to resolve.
func (t Trigger) RequiresLocation() bool {
	return t.Kind == TriggerSunrise || t.Kind == TriggerSunset
}

// Resolve computes the trigger instant on now's calendar day. For solar
// triggers events may be nil (no location); resolution also fails when the
// sun does not rise or set that day.
func (t Trigger) Resolve(now time.Time, events *solar.Events, tz *time.Location) (time.Time, bool) {
	local := now.In(tz)

	switch t.Kind {
	case TriggerFixedTime:
		return time.Date(local.Year(), local.Month(), local.Day(),
			t.Hour, t.Minute, 0, 0, tz), true

	case TriggerSunrise:
		if events == nil || events.Sunrise == nil {
			return time.Time{}, false
		}
		return events.Sunrise.Add(time.Duration(t.OffsetMinutes) * time.Minute), true

	case TriggerSunset:
		if events == nil || events.Sunset == nil {
			return time.Time{}, false
		}
		return events.Sunset.Add(time.Duration(t.OffsetMinutes) * time.Minute), true
	}

	return time.Time{}, false
}

func (t Trigger) String() string {
	switch t.Kind {
	case TriggerFixedTime:
		return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
	case TriggerSunrise:
		return fmt.Sprintf("sunrise%+dm", t.OffsetMinutes)
	case TriggerSunset:
		return fmt.Sprintf("sunset%+dm", t.OffsetMinutes)
	}
	return "unknown"
}

// UnmarshalJSON decodes and validates a trigger, so malformed persisted
// records are rejected at parse time.
func (t *Trigger) UnmarshalJSON(data []byte) error {
	type raw Trigger
	var r raw
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	parsed := Trigger(r)
	if err := parsed.Validate(); err != nil {
		return err
	}
	*t = parsed
	return nil
}
