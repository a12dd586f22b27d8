package blend

// Params configures a batch mix.
type Params struct {
	Mode Mode

	// UseAlpha multiplies the factor by the alpha of the second colour.
	UseAlpha bool

	// Clamp limits the result to [0,1].
	Clamp bool
}

// Factor returns the effective mix factor for one pixel.
func (p Params) Factor(value, alpha2 float32) float32 {
	if p.UseAlpha {
		return value * alpha2
	}
	return value
}

// ApplySpan mixes whole spans: fac holds one value per pixel, c1, c2 and dst
// hold four channels per pixel. dst may alias c1. The span length is taken
// from fac; the colour slices must hold at least 4*len(fac) values.
func ApplySpan(p Params, fac, c1, c2, dst []float32) {
	n := len(fac)
	if n == 0 {
		return
	}
	_ = c1[n*4-1]
	_ = c2[n*4-1]
	_ = dst[n*4-1]

	for i := range n {
		o := i * 4
		a := [4]float32(c1[o : o+4])
		b := [4]float32(c2[o : o+4])
		out := Apply(p.Mode, p.Factor(fac[i], b[3]), a, b)
		if p.Clamp {
			Clamp(&out)
		}
		copy(dst[o:o+4], out[:])
	}
}
