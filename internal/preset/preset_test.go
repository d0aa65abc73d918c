package preset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/avetisov/dimmerd/internal/display"
)

func f(v float64) *float64 { return &v }

func TestApplyUniversalValues(t *testing.T) {
	table := display.NewTable()
	table.Upsert("main", display.State{Brightness: 1.0, Warmth: 0.0, Contrast: 0.5})
	table.Upsert("side", display.State{Brightness: 0.8, Warmth: 0.3, Contrast: 0.5})

	p := &Preset{
		Name:       "evening",
		Brightness: f(0.4),
		Warmth:     f(0.9),
	}
	p.Apply(table)

	for _, id := range []string{"main", "side"} {
		s, _ := table.Get(id)
		assert.Equal(t, 0.4, s.Brightness, id)
		assert.Equal(t, 0.9, s.Warmth, id)
		// Contrast is unspecified: the current value stays untouched.
		assert.Equal(t, 0.5, s.Contrast, id)
	}
}

func TestApplyAbsentMeansUntouched(t *testing.T) {
	table := display.NewTable()
	table.Upsert("main", display.State{Brightness: 0.7, Warmth: 0.2, Contrast: 0.6})

	// An empty preset changes nothing: unspecified is not zero.
	(&Preset{Name: "noop"}).Apply(table)

	s, _ := table.Get("main")
	assert.Equal(t, display.State{Brightness: 0.7, Warmth: 0.2, Contrast: 0.6}, s)
}

func TestApplyPerDisplayWinsOverUniversal(t *testing.T) {
	table := display.NewTable()
	table.Upsert("main", display.DefaultState())
	table.Upsert("side", display.DefaultState())

	p := &Preset{
		Name:                 "mixed",
		Brightness:           f(0.5),
		BrightnessPerDisplay: map[string]float64{"side": 0.25},
	}
	p.Apply(table)

	main, _ := table.Get("main")
	side, _ := table.Get("side")
	assert.Equal(t, 0.5, main.Brightness)
	assert.Equal(t, 0.25, side.Brightness)

	// A mapping for a disconnected display is silently ignored.
	(&Preset{BrightnessPerDisplay: map[string]float64{"gone": 0.9}}).Apply(table)
	assert.Len(t, table.IDs(), 2)
}

func TestApplyClampsThroughTable(t *testing.T) {
	table := display.NewTable()
	table.Upsert("main", display.DefaultState())

	(&Preset{Brightness: f(0.0)}).Apply(table)

	s, _ := table.Get("main")
	assert.Equal(t, display.MinBrightness, s.Brightness)
}

func TestSpecifiesWarmth(t *testing.T) {
	assert.False(t, (&Preset{Brightness: f(0.5)}).SpecifiesWarmth())
	assert.True(t, (&Preset{Warmth: f(0.5)}).SpecifiesWarmth())
	assert.True(t, (&Preset{WarmthPerDisplay: map[string]float64{"main": 0.5}}).SpecifiesWarmth())
}
