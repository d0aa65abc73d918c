// Package preset provides named brightness/warmth/contrast bundles that can
// be applied to the display table as a unit.
package preset

import (
	"time"

	"github.com/avetisov/dimmerd/internal/display"
)

// Preset is a named bundle of display values. Each of the three scalars may
// be given as a single universal value, a per-display mapping, or both (the
// per-display value wins). A nil/absent value means "leave the current value
// untouched" when the preset is applied.
type Preset struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`

	Brightness *float64 `json:"brightness,omitempty"`
	Warmth     *float64 `json:"warmth,omitempty"`
	Contrast   *float64 `json:"contrast,omitempty"`

	BrightnessPerDisplay map[string]float64 `json:"brightness_per_display,omitempty"`
	WarmthPerDisplay     map[string]float64 `json:"warmth_per_display,omitempty"`
	ContrastPerDisplay   map[string]float64 `json:"contrast_per_display,omitempty"`
}

// SpecifiesWarmth reports whether applying this preset writes any explicit
// warmth value. Such an application suspends color temperature automation.
func (p *Preset) SpecifiesWarmth() bool {
	return p.Warmth != nil || len(p.WarmthPerDisplay) > 0
}

// resolve picks the value for one display: per-display over universal over
// the current value.
func resolve(current float64, universal *float64, perDisplay map[string]float64, id string) float64 {
	if v, ok := perDisplay[id]; ok {
		return v
	}
	if universal != nil {
		return *universal
	}
	return current
}

// Apply writes the preset into every connected display. Writes are batched
// per display (one SetAll each) so observers never see a torn preset.
func (p *Preset) Apply(table *display.Table) {
	for _, id := range table.IDs() {
		cur, ok := table.Get(id)
		if !ok {
			continue
		}
		table.SetAll(id, display.State{
			Brightness: resolve(cur.Brightness, p.Brightness, p.BrightnessPerDisplay, id),
			Warmth:     resolve(cur.Warmth, p.Warmth, p.WarmthPerDisplay, id),
			Contrast:   resolve(cur.Contrast, p.Contrast, p.ContrastPerDisplay, id),
		})
	}
}
