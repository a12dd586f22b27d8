package blend

import (
	"math"
	"testing"
)

func nearly(a, b [4]float32) bool {
	for i := range a {
		if math.Abs(float64(a[i]-b[i])) > 1e-5 {
			return false
		}
	}
	return true
}

func TestParseModeRoundTrip(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		if err != nil || got != m {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", m.String(), got, err, m)
		}
	}
	if got, _ := ParseMode(""); got != Mix {
		t.Errorf("ParseMode(\"\") = %v, want mix", got)
	}
	if _, err := ParseMode("burn"); err == nil {
		t.Error("ParseMode(burn) succeeded")
	}
	if got := Mode(200).String(); got != "Mode(200)" {
		t.Errorf("String() = %q", got)
	}
}

func TestSeparable(t *testing.T) {
	for _, m := range Modes() {
		want := m != Hue && m != Saturation && m != Value && m != Color
		if got := m.Separable(); got != want {
			t.Errorf("%v.Separable() = %v, want %v", m, got, want)
		}
	}
}

func TestApplyAdd(t *testing.T) {
	c1 := [4]float32{0.2, 0.2, 0.2, 1.0}
	c2 := [4]float32{0.4, 0.4, 0.4, 0.8}

	got := Apply(Add, 0.5, c1, c2)
	if want := ([4]float32{0.4, 0.4, 0.4, 1.0}); !nearly(got, want) {
		t.Errorf("Apply(add, 0.5) = %v, want %v", got, want)
	}

	p := Params{Mode: Add, UseAlpha: true}
	got = Apply(Add, p.Factor(0.5, c2[3]), c1, c2)
	if want := ([4]float32{0.36, 0.36, 0.36, 1.0}); !nearly(got, want) {
		t.Errorf("Apply(add, alpha) = %v, want %v", got, want)
	}
}

func TestApplySeparable(t *testing.T) {
	c1 := [4]float32{0.5, 0.2, 0.8, 0.7}
	c2 := [4]float32{0.25, 0.6, 0.0, 0.3}
	tests := []struct {
		mode Mode
		want [4]float32
	}{
		{Mix, [4]float32{0.375, 0.4, 0.4, 0.7}},
		{Subtract, [4]float32{0.375, -0.1, 0.8, 0.7}},
		{Multiply, [4]float32{0.3125, 0.16, 0.4, 0.7}},
		{Screen, [4]float32{0.5625, 0.44, 0.8, 0.7}},
		{Divide, [4]float32{1.25, 0.2666667, 0, 0.7}},
		{Difference, [4]float32{0.375, 0.3, 0.8, 0.7}},
		{Darken, [4]float32{0.125, 0.2, 0, 0.7}},
		{Lighten, [4]float32{0.5, 0.3, 0.8, 0.7}},
	}
	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			if got := Apply(tt.mode, 0.5, c1, c2); !nearly(got, tt.want) {
				t.Errorf("Apply(%v) = %v, want %v", tt.mode, got, tt.want)
			}
		})
	}
}

func TestApplyFactorZeroKeepsFirstColor(t *testing.T) {
	c1 := [4]float32{0.3, 0.6, 0.9, 0.5}
	c2 := [4]float32{0.9, 0.1, 0.4, 1.0}
	for _, m := range []Mode{Mix, Add, Subtract, Multiply, Screen, Difference, Overlay, Hue, Saturation, Value, Color} {
		if got := Apply(m, 0, c1, c2); !nearly(got, c1) {
			t.Errorf("Apply(%v, 0) = %v, want %v", m, got, c1)
		}
	}
}

func TestApplySaturation(t *testing.T) {
	grey := [4]float32{0.5, 0.5, 0.5, 1}
	red := [4]float32{1, 0, 0, 1}
	if got := Apply(Saturation, 1, grey, red); !nearly(got, grey) {
		t.Errorf("saturation on grey = %v, want unchanged", got)
	}

	pale := [4]float32{1, 0.5, 0.5, 0.25}
	got := Apply(Saturation, 1, pale, red)
	if want := ([4]float32{1, 0, 0, 0.25}); !nearly(got, want) {
		t.Errorf("saturation = %v, want %v", got, want)
	}
}

func TestApplyValueAndColor(t *testing.T) {
	red := [4]float32{1, 0, 0, 1}
	dark := [4]float32{0.25, 0.25, 0.25, 1}
	if got := Apply(Value, 1, red, dark); !nearly(got, [4]float32{0.25, 0, 0, 1}) {
		t.Errorf("value = %v", got)
	}
	blue := [4]float32{0, 0, 1, 1}
	if got := Apply(Color, 1, dark, blue); !nearly(got, [4]float32{0, 0, 0.25, 1}) {
		t.Errorf("color = %v", got)
	}
	if got := Apply(Hue, 1, [4]float32{1, 0.5, 0.5, 1}, blue); !nearly(got, [4]float32{0.5, 0.5, 1, 1}) {
		t.Errorf("hue = %v", got)
	}
}

func TestClamp(t *testing.T) {
	p := [4]float32{-0.5, 0.5, 1.5, 2}
	Clamp(&p)
	if want := ([4]float32{0, 0.5, 1, 1}); p != want {
		t.Errorf("Clamp = %v, want %v", p, want)
	}
}

// ============================================================================
// Span
// ============================================================================

func TestApplySpanMatchesApply(t *testing.T) {
	fac := []float32{0.5, 1, 0.25}
	c1 := []float32{0.2, 0.2, 0.2, 1, 0.9, 0.8, 0.7, 0.5, 0, 0, 0, 0}
	c2 := []float32{0.4, 0.4, 0.4, 0.8, 0.5, 0.5, 0.5, 1, 1, 1, 1, 1}
	dst := make([]float32, 12)

	p := Params{Mode: Add, UseAlpha: true, Clamp: true}
	ApplySpan(p, fac, c1, c2, dst)

	for i := range fac {
		a := [4]float32(c1[i*4 : i*4+4])
		b := [4]float32(c2[i*4 : i*4+4])
		want := Apply(p.Mode, p.Factor(fac[i], b[3]), a, b)
		Clamp(&want)
		if got := [4]float32(dst[i*4 : i*4+4]); !nearly(got, want) {
			t.Errorf("pixel %d = %v, want %v", i, got, want)
		}
	}
}

func TestApplySpanInPlace(t *testing.T) {
	c1 := []float32{0.1, 0.1, 0.1, 1}
	c2 := []float32{0.2, 0.2, 0.2, 1}
	ApplySpan(Params{Mode: Add}, []float32{1}, c1, c2, c1)
	if !nearly([4]float32(c1), [4]float32{0.3, 0.3, 0.3, 1}) {
		t.Errorf("in place = %v", c1)
	}
}
