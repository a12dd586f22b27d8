package image

import "math"

// InterpolationMode defines how a buffer is sampled at fractional coordinates.
type InterpolationMode uint8

const (
	// InterpNearest selects the closest pixel (no interpolation).
	InterpNearest InterpolationMode = iota

	// InterpBilinear performs linear interpolation between 4 neighboring pixels.
	InterpBilinear

	// InterpBicubic performs Catmull-Rom interpolation over a 4x4 neighborhood.
	InterpBicubic
)

// String returns a string representation of the interpolation mode.
func (m InterpolationMode) String() string {
	switch m {
	case InterpNearest:
		return "Nearest"
	case InterpBilinear:
		return "Bilinear"
	case InterpBicubic:
		return "Bicubic"
	default:
		return "Unknown"
	}
}

// Sample reads the buffer at pixel coordinates (x, y), where integer
// coordinates hit pixel centres exactly. Neighbours outside the buffer are
// clamped to the edge.
func Sample(b *FloatBuf, x, y float64, mode InterpolationMode) [4]float32 {
	switch mode {
	case InterpBilinear:
		return SampleBilinear(b, x, y)
	case InterpBicubic:
		return SampleBicubic(b, x, y)
	default:
		return SampleNearest(b, x, y)
	}
}

// SampleNearest returns the pixel whose centre is closest to (x, y).
func SampleNearest(b *FloatBuf, x, y float64) [4]float32 {
	px := clamp(int(math.Floor(x+0.5)), 0, b.width-1)
	py := clamp(int(math.Floor(y+0.5)), 0, b.height-1)
	return b.At(px, py)
}

// SampleBilinear interpolates between the 4 pixels surrounding (x, y).
func SampleBilinear(b *FloatBuf, x, y float64) [4]float32 {
	fx := math.Floor(x)
	fy := math.Floor(y)
	tx := float32(x - fx)
	ty := float32(y - fy)

	x0 := clamp(int(fx), 0, b.width-1)
	y0 := clamp(int(fy), 0, b.height-1)
	x1 := clamp(int(fx)+1, 0, b.width-1)
	y1 := clamp(int(fy)+1, 0, b.height-1)

	p00 := b.At(x0, y0)
	p10 := b.At(x1, y0)
	p01 := b.At(x0, y1)
	p11 := b.At(x1, y1)

	var out [4]float32
	for c := range out {
		out[c] = lerp(lerp(p00[c], p10[c], tx), lerp(p01[c], p11[c], tx), ty)
	}
	return out
}

// SampleBicubic uses Catmull-Rom splines over the 4x4 neighbourhood of (x, y).
func SampleBicubic(b *FloatBuf, x, y float64) [4]float32 {
	fx := math.Floor(x)
	fy := math.Floor(y)
	tx := x - fx
	ty := y - fy
	ix := int(fx)
	iy := int(fy)

	var wx, wy [4]float32
	for i := range 4 {
		wx[i] = float32(cubicWeight(tx - float64(i-1)))
		wy[i] = float32(cubicWeight(ty - float64(i-1)))
	}

	var out [4]float32
	for dy := range 4 {
		py := clamp(iy+dy-1, 0, b.height-1)
		var row [4]float32
		for dx := range 4 {
			p := b.At(clamp(ix+dx-1, 0, b.width-1), py)
			for c := range row {
				row[c] += p[c] * wx[dx]
			}
		}
		for c := range out {
			out[c] += row[c] * wy[dy]
		}
	}
	return out
}

// clamp clamps an integer value to [minVal, maxVal].
//
//nolint:unparam // minVal is always 0 currently, but function is general-purpose
func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}

// cubicWeight computes the Catmull-Rom cubic weight for distance t.
func cubicWeight(t float64) float64 {
	// |t| < 1: (1.5|t|³ - 2.5|t|² + 1)
	// 1 ≤ |t| < 2: (-0.5|t|³ + 2.5|t|² - 4|t| + 2)
	absT := math.Abs(t)
	if absT < 1 {
		return 1.5*absT*absT*absT - 2.5*absT*absT + 1.0
	}
	if absT < 2 {
		return -0.5*absT*absT*absT + 2.5*absT*absT - 4.0*absT + 2.0
	}
	return 0
}
