package display

import (
	"math"
	"testing"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestChannelMultipliers(t *testing.T) {
	tests := []struct {
		name    string
		warmth  float64
		r, g, b float64
	}{
		{"neutral", 0.0, 1.0, 1.0, 1.0},
		{"half", 0.5, 1.0, 0.91, 0.78},
		{"max", 1.0, 1.0, 0.82, 0.56},
		{"clamped_low", -0.5, 1.0, 1.0, 1.0},
		{"clamped_high", 1.5, 1.0, 0.82, 0.56},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, g, b := ChannelMultipliers(tt.warmth)
			if !almostEqual(r, tt.r) || !almostEqual(g, tt.g) || !almostEqual(b, tt.b) {
				t.Errorf("ChannelMultipliers(%v) = (%v, %v, %v), want (%v, %v, %v)",
					tt.warmth, r, g, b, tt.r, tt.g, tt.b)
			}
		})
	}
}

func TestChannelMultipliersMonotone(t *testing.T) {
	prevG, prevB := math.Inf(1), math.Inf(1)
	for w := 0.0; w <= 1.0; w += 0.05 {
		r, g, b := ChannelMultipliers(w)
		if r != 1.0 {
			t.Fatalf("red multiplier must stay 1.0, got %v at warmth %v", r, w)
		}
		if g > prevG || b > prevB {
			t.Fatalf("multipliers increased at warmth %v: g=%v b=%v", w, g, b)
		}
		prevG, prevB = g, b
	}
}

func TestApplyContrastIdentity(t *testing.T) {
	for x := 0.0; x <= 1.0; x += 0.05 {
		if got := ApplyContrast(x, 0.5); !almostEqual(got, x) {
			t.Errorf("ApplyContrast(%v, 0.5) = %v, want identity", x, got)
		}
	}
}

func TestApplyContrastFixedPoints(t *testing.T) {
	for _, c := range []float64{0.0, 0.1, 0.3, 0.5, 0.7, 0.9, 1.0} {
		if got := ApplyContrast(0, c); !almostEqual(got, 0) {
			t.Errorf("ApplyContrast(0, %v) = %v, want 0", c, got)
		}
		if got := ApplyContrast(1, c); !almostEqual(got, 1) {
			t.Errorf("ApplyContrast(1, %v) = %v, want 1", c, got)
		}
		if got := ApplyContrast(0.5, c); !almostEqual(got, 0.5) {
			t.Errorf("ApplyContrast(0.5, %v) = %v, want 0.5", c, got)
		}
	}
}

func TestApplyContrastSymmetry(t *testing.T) {
	for _, c := range []float64{0.2, 0.5, 0.8, 0.95} {
		for x := 0.0; x <= 1.0; x += 0.05 {
			lo := ApplyContrast(x, c)
			hi := ApplyContrast(1-x, c)
			if !almostEqual(lo+hi, 1) {
				t.Errorf("contrast %v: t'(%v) + t'(%v) = %v, want 1", c, x, 1-x, lo+hi)
			}
		}
	}
}

func TestApplyContrastSteepensAndFlattens(t *testing.T) {
	// High contrast pushes low values lower and high values higher
	if got := ApplyContrast(0.25, 0.9); got >= 0.25 {
		t.Errorf("ApplyContrast(0.25, 0.9) = %v, want < 0.25", got)
	}
	if got := ApplyContrast(0.75, 0.9); got <= 0.75 {
		t.Errorf("ApplyContrast(0.75, 0.9) = %v, want > 0.75", got)
	}

	// Low contrast does the opposite
	if got := ApplyContrast(0.25, 0.2); got <= 0.25 {
		t.Errorf("ApplyContrast(0.25, 0.2) = %v, want > 0.25", got)
	}
	if got := ApplyContrast(0.75, 0.2); got >= 0.75 {
		t.Errorf("ApplyContrast(0.75, 0.2) = %v, want < 0.75", got)
	}
}

func TestApplyContrastMaxIsNearBinary(t *testing.T) {
	if got := ApplyContrast(0.4, 1.0); got > 0.001 {
		t.Errorf("ApplyContrast(0.4, 1.0) = %v, want near 0", got)
	}
	if got := ApplyContrast(0.6, 1.0); got < 0.999 {
		t.Errorf("ApplyContrast(0.6, 1.0) = %v, want near 1", got)
	}
	if got := ApplyContrast(0.5, 1.0); !almostEqual(got, 0.5) {
		t.Errorf("ApplyContrast(0.5, 1.0) = %v, want 0.5", got)
	}
}
