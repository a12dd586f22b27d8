// Package blend implements the colour mix modes used by the compositor's
// mix operations.
//
// All functions work on straight linear RGBA float values. The blend factor
// is applied by the mode itself; alpha always passes through from the first
// colour.
package blend

import (
	"fmt"

	"github.com/chewxy/math32"

	"github.com/gogpu/compositor/internal/color"
)

// Mode selects a mix formula.
type Mode uint8

// Mix modes. Values are stable and shared with the GPU kernel.
const (
	Mix Mode = iota
	Add
	Subtract
	Multiply
	Screen
	Divide
	Difference
	Darken
	Lighten
	Overlay
	Hue
	Saturation
	Value
	Color

	modeCount
)

var modeNames = [modeCount]string{
	Mix:        "mix",
	Add:        "add",
	Subtract:   "subtract",
	Multiply:   "multiply",
	Screen:     "screen",
	Divide:     "divide",
	Difference: "difference",
	Darken:     "darken",
	Lighten:    "lighten",
	Overlay:    "overlay",
	Hue:        "hue",
	Saturation: "saturation",
	Value:      "value",
	Color:      "color",
}

// String returns the mode name used in job files.
func (m Mode) String() string {
	if m < modeCount {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// ParseMode parses a mode name. The empty string selects Mix.
func ParseMode(s string) (Mode, error) {
	if s == "" {
		return Mix, nil
	}
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("blend: unknown mode %q", s)
}

// Modes returns every mode in declaration order.
func Modes() []Mode {
	out := make([]Mode, modeCount)
	for i := range out {
		out[i] = Mode(i)
	}
	return out
}

// Separable reports whether the mode treats channels independently.
// Only separable modes have a GPU kernel.
func (m Mode) Separable() bool {
	return m <= Overlay
}

// Apply mixes c2 into c1 with factor value.
func Apply(m Mode, value float32, c1, c2 [4]float32) [4]float32 {
	out := c1
	switch m {
	case Hue, Saturation, Value, Color:
		applyHSV(m, value, c1, c2, &out)
	default:
		for i := range 3 {
			out[i] = Separate(m, value, c1[i], c2[i])
		}
	}
	out[3] = c1[3]
	return out
}

// Separate applies a separable mode to one channel.
func Separate(m Mode, value, a, b float32) float32 {
	valuem := 1 - value
	switch m {
	case Add:
		return a + value*b
	case Subtract:
		return a - value*b
	case Multiply:
		return a * (valuem + value*b)
	case Screen:
		return 1 - (valuem+value*(1-b))*(1-a)
	case Divide:
		if b == 0 {
			return 0
		}
		return valuem*a + value*a/b
	case Difference:
		return valuem*a + value*math32.Abs(a-b)
	case Darken:
		return min(a, value*b)
	case Lighten:
		return max(a, value*b)
	case Overlay:
		if a < 0.5 {
			return a * (valuem + 2*value*b)
		}
		return 1 - (valuem+2*value*(1-b))*(1-a)
	default:
		return valuem*a + value*b
	}
}

func applyHSV(m Mode, value float32, c1, c2 [4]float32, out *[4]float32) {
	valuem := 1 - value
	rH, rS, rV := color.RGBToHSV(c1[0], c1[1], c1[2])
	cH, cS, cV := color.RGBToHSV(c2[0], c2[1], c2[2])

	var tr, tg, tb float32
	switch m {
	case Hue:
		if cS == 0 {
			return
		}
		tr, tg, tb = color.HSVToRGB(cH, rS, rV)
	case Saturation:
		if rS == 0 {
			return
		}
		out[0], out[1], out[2] = color.HSVToRGB(rH, valuem*rS+value*cS, rV)
		return
	case Value:
		out[0], out[1], out[2] = color.HSVToRGB(rH, rS, valuem*rV+value*cV)
		return
	case Color:
		if cS == 0 {
			return
		}
		tr, tg, tb = color.HSVToRGB(cH, cS, rV)
	}
	out[0] = valuem*c1[0] + value*tr
	out[1] = valuem*c1[1] + value*tg
	out[2] = valuem*c1[2] + value*tb
}

// Clamp limits every channel of p to [0,1].
func Clamp(p *[4]float32) {
	for i := range p {
		p[i] = min(max(p[i], 0), 1)
	}
}
