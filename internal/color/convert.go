package color

import "github.com/chewxy/math32"

// SRGBToLinear converts an sRGB component to linear.
// Formula: if s <= 0.04045: s/12.92; else: pow((s+0.055)/1.055, 2.4)
func SRGBToLinear(s float32) float32 {
	if s <= 0.04045 {
		return s / 12.92
	}
	return math32.Pow((s+0.055)/1.055, 2.4)
}

// LinearToSRGB converts a linear component to sRGB.
// Formula: if l <= 0.0031308: l*12.92; else: 1.055*pow(l, 1/2.4)-0.055
func LinearToSRGB(l float32) float32 {
	if l <= 0.0031308 {
		return l * 12.92
	}
	return 1.055*math32.Pow(l, 1.0/2.4) - 0.055
}

// RGBToHSV converts linear RGB to hue, saturation and value, all in [0,1]
// for inputs in [0,1]. Grey colours report hue 0.
func RGBToHSV(r, g, b float32) (h, s, v float32) {
	cmax := max(r, g, b)
	cmin := min(r, g, b)
	v = cmax
	if cmax == 0 {
		return 0, 0, v
	}
	delta := cmax - cmin
	s = delta / cmax
	if s == 0 {
		return 0, 0, v
	}

	rc := (cmax - r) / delta
	gc := (cmax - g) / delta
	bc := (cmax - b) / delta
	switch cmax {
	case r:
		h = bc - gc
	case g:
		h = 2 + rc - bc
	default:
		h = 4 + gc - rc
	}
	h /= 6
	if h < 0 {
		h++
	}
	return h, s, v
}

// HSVToRGB is the inverse of RGBToHSV. Hue wraps around at 1.
func HSVToRGB(h, s, v float32) (r, g, b float32) {
	if s == 0 {
		return v, v, v
	}
	h -= math32.Floor(h)
	h *= 6
	i := math32.Floor(h)
	f := h - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	switch int(i) {
	case 0:
		return v, t, p
	case 1:
		return q, v, p
	case 2:
		return p, v, t
	case 3:
		return p, q, v
	case 4:
		return t, p, v
	default:
		return v, p, q
	}
}

// Luminance returns the BW weighting of a colour (0.35R + 0.45G + 0.2B).
func Luminance(r, g, b float32) float32 {
	return 0.35*r + 0.45*g + 0.2*b
}
