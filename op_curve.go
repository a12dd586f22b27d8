package compositor

// ColorCurveOperation applies black/white levels and tone curves, mixed by
// Fac. Inputs are Fac, Image, Black and White.
type ColorCurveOperation struct {
	OperationBase
	curves CurveMapping
}

// NewColorCurveOperation creates a curves operation.
func NewColorCurveOperation(curves CurveMapping) *ColorCurveOperation {
	op := &ColorCurveOperation{curves: curves}
	op.setup("ColorCurve", &SocketTemplate{Name: "Image", Type: DataTypeColor},
		valueSocket("Fac", 1),
		colorSocket("Image", white),
		colorSocket("Black", black),
		colorSocket("White", white),
	)
	return op
}

// InitExecution binds the input readers.
func (op *ColorCurveOperation) InitExecution(in Inputs) (Executor, error) {
	e := &colorCurveExecutor{curves: &op.curves}
	e.bind(in)
	return e, nil
}

type colorCurveExecutor struct {
	readers
	curves *CurveMapping
}

func (e *colorCurveExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	var fac, c, lo, hi Pixel
	e.read(0, &fac, x, y, s)
	e.read(1, &c, x, y, s)
	e.read(2, &lo, x, y, s)
	e.read(3, &hi, x, y, s)

	leveled := c
	for i := range 3 {
		d := hi[i] - lo[i]
		var mul float32
		if d != 0 {
			mul = 1 / d
		}
		leveled[i] = (c[i] - lo[i]) * mul
	}
	r := e.curves.Eval(leveled)

	f := fac[0]
	switch {
	case f >= 1:
		*out = r
	case f <= 0:
		*out = c
	default:
		for i := range 3 {
			out[i] = (1-f)*c[i] + f*r[i]
		}
		out[3] = c[3]
	}
}
