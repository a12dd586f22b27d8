// Package color provides colour space conversions for the compositor.
//
// Working buffers hold linear float RGBA. 8-bit images are converted on the
// way in and out through lookup tables, and hue/saturation/value conversions
// serve the HSV based mix modes and correction operations.
package color

import "fmt"

// ColorSpace tells how 8-bit image data is encoded.
type ColorSpace uint8

const (
	// ColorSpaceSRGB marks gamma encoded data (the common case for PNG/JPEG).
	ColorSpaceSRGB ColorSpace = iota
	// ColorSpaceLinear marks data that is already linear.
	ColorSpaceLinear
)

// String returns the lower-case name used in job files.
func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceSRGB:
		return "srgb"
	case ColorSpaceLinear:
		return "linear"
	default:
		return fmt.Sprintf("ColorSpace(%d)", c)
	}
}

// ParseColorSpace parses "srgb" or "linear". The empty string means sRGB.
func ParseColorSpace(s string) (ColorSpace, error) {
	switch s {
	case "", "srgb", "sRGB":
		return ColorSpaceSRGB, nil
	case "linear":
		return ColorSpaceLinear, nil
	default:
		return 0, fmt.Errorf("color: unknown color space %q", s)
	}
}

// Decode converts an 8-bit channel stored in space c to a linear float.
func (c ColorSpace) Decode(v uint8) float32 {
	if c == ColorSpaceLinear {
		return float32(v) / 255
	}
	return decodeLUT[v]
}

// Encode converts a linear float channel to an 8-bit value in space c.
// Values outside [0,1] are clamped.
func (c ColorSpace) Encode(l float32) uint8 {
	if c == ColorSpaceLinear {
		return clampAndRound(l)
	}
	return EncodeSRGB(l)
}

// clampAndRound clamps a float32 to [0,1] and converts to uint8 with rounding.
func clampAndRound(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v*255.0 + 0.5)
}
