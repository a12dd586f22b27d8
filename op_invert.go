package compositor

// InvertOperation inverts colour channels, mixed by Fac.
type InvertOperation struct {
	OperationBase
	rgb, alpha bool
}

// NewInvertOperation creates an inversion of the selected channels.
func NewInvertOperation(rgb, alpha bool) *InvertOperation {
	op := &InvertOperation{rgb: rgb, alpha: alpha}
	op.setup("Invert", &SocketTemplate{Name: "Color", Type: DataTypeColor},
		valueSocket("Fac", 1), colorSocket("Color", white))
	return op
}

// InitExecution binds the input readers.
func (op *InvertOperation) InitExecution(in Inputs) (Executor, error) {
	e := &invertExecutor{rgb: op.rgb, alpha: op.alpha}
	e.bind(in)
	return e, nil
}

type invertExecutor struct {
	readers
	rgb, alpha bool
}

func (e *invertExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	var fac, c Pixel
	e.read(0, &fac, x, y, s)
	e.read(1, &c, x, y, s)

	v, vm := fac[0], 1-fac[0]
	*out = c
	if e.rgb {
		for i := range 3 {
			out[i] = (1-c[i])*v + c[i]*vm
		}
	}
	if e.alpha {
		out[3] = (1-c[3])*v + c[3]*vm
	}
}
