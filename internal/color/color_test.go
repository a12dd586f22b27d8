package color

import (
	"math"
	"testing"
)

func approx(a, b, eps float32) bool {
	return math.Abs(float64(a-b)) <= float64(eps)
}

func TestSRGBRoundTrip(t *testing.T) {
	for i := 0; i < 256; i++ {
		got := EncodeSRGB(DecodeSRGB(uint8(i)))
		if got != uint8(i) {
			t.Errorf("EncodeSRGB(DecodeSRGB(%d)) = %d", i, got)
		}
	}
}

func TestEncodeSRGBClamps(t *testing.T) {
	tests := []struct {
		in   float32
		want uint8
	}{
		{-1, 0},
		{0, 0},
		{1, 255},
		{2.5, 255},
		{float32(math.NaN()), 0},
	}
	for _, tt := range tests {
		if got := EncodeSRGB(tt.in); got != tt.want {
			t.Errorf("EncodeSRGB(%v) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestColorSpaceDecode(t *testing.T) {
	if got := ColorSpaceLinear.Decode(255); got != 1 {
		t.Errorf("linear Decode(255) = %v, want 1", got)
	}
	if got := ColorSpaceSRGB.Decode(128); !approx(got, 0.2158605, 1e-5) {
		t.Errorf("srgb Decode(128) = %v, want ~0.2159", got)
	}
	if got := ColorSpaceLinear.Encode(0.5); got != 128 {
		t.Errorf("linear Encode(0.5) = %d, want 128", got)
	}
}

func TestParseColorSpace(t *testing.T) {
	tests := []struct {
		in      string
		want    ColorSpace
		wantErr bool
	}{
		{"", ColorSpaceSRGB, false},
		{"srgb", ColorSpaceSRGB, false},
		{"linear", ColorSpaceLinear, false},
		{"rec709", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseColorSpace(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseColorSpace(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColorSpace(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

// ============================================================================
// HSV
// ============================================================================

func TestRGBToHSV(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b float32
		h, s, v float32
	}{
		{"black", 0, 0, 0, 0, 0, 0},
		{"grey", 0.5, 0.5, 0.5, 0, 0, 0.5},
		{"red", 1, 0, 0, 0, 1, 1},
		{"green", 0, 1, 0, 1.0 / 3, 1, 1},
		{"blue", 0, 0, 1, 2.0 / 3, 1, 1},
		{"magenta", 1, 0, 1, 5.0 / 6, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, s, v := RGBToHSV(tt.r, tt.g, tt.b)
			if !approx(h, tt.h, 1e-6) || !approx(s, tt.s, 1e-6) || !approx(v, tt.v, 1e-6) {
				t.Errorf("RGBToHSV = (%v, %v, %v), want (%v, %v, %v)", h, s, v, tt.h, tt.s, tt.v)
			}
		})
	}
}

func TestHSVRoundTrip(t *testing.T) {
	colors := [][3]float32{
		{0.2, 0.4, 0.6},
		{0.9, 0.1, 0.3},
		{0.05, 0.7, 0.2},
		{1, 1, 0},
		{0.3, 0.3, 0.3},
	}
	for _, c := range colors {
		h, s, v := RGBToHSV(c[0], c[1], c[2])
		r, g, b := HSVToRGB(h, s, v)
		if !approx(r, c[0], 1e-5) || !approx(g, c[1], 1e-5) || !approx(b, c[2], 1e-5) {
			t.Errorf("round trip %v = (%v, %v, %v)", c, r, g, b)
		}
	}
}

func TestHSVToRGBWrapsHue(t *testing.T) {
	r1, g1, b1 := HSVToRGB(0.25, 1, 1)
	r2, g2, b2 := HSVToRGB(1.25, 1, 1)
	if !approx(r1, r2, 1e-6) || !approx(g1, g2, 1e-6) || !approx(b1, b2, 1e-6) {
		t.Errorf("HSVToRGB(1.25) = (%v,%v,%v), want (%v,%v,%v)", r2, g2, b2, r1, g1, b1)
	}
}

func TestLuminance(t *testing.T) {
	if got := Luminance(1, 1, 1); !approx(got, 1, 1e-6) {
		t.Errorf("Luminance(white) = %v, want 1", got)
	}
	if got := Luminance(0, 1, 0); !approx(got, 0.45, 1e-6) {
		t.Errorf("Luminance(green) = %v, want 0.45", got)
	}
}
