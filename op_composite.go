package compositor

// CompositeOperation is an output sink. When its optional Alpha input is
// connected it replaces the alpha of Image; with useAlpha unset the result
// is opaque.
type CompositeOperation struct {
	OperationBase
	output   string
	useAlpha bool
}

// NewCompositeOperation creates a sink producing the result named output.
func NewCompositeOperation(output string, useAlpha bool) *CompositeOperation {
	op := &CompositeOperation{output: output, useAlpha: useAlpha}
	op.setup("Composite", nil,
		colorSocket("Image", Pixel{}),
		SocketTemplate{Name: "Alpha", Type: DataTypeValue, Default: ValuePixel(1), Optional: true},
	)
	return op
}

// OutputName returns the result name.
func (op *CompositeOperation) OutputName() string { return op.output }

// InitExecution allocates the result buffer.
func (op *CompositeOperation) InitExecution(in Inputs) (Executor, error) {
	w, h := in.Size()
	buf, err := NewMemoryBuffer(w, h)
	if err != nil {
		return nil, err
	}
	e := &compositeExecutor{result: buf, useAlpha: op.useAlpha}
	e.bind(in)
	return e, nil
}

type compositeExecutor struct {
	readers
	result   *MemoryBuffer
	useAlpha bool
}

func (e *compositeExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	e.read(0, out, x, y, s)
	switch {
	case !e.useAlpha:
		out[3] = 1
	case len(e.in) > 1 && e.in[1] != nil:
		var a Pixel
		e.read(1, &a, x, y, s)
		out[3] = a[0]
	}
}

func (e *compositeExecutor) ExecuteRegion(x0, y0, x1, y1 int, s PixelSampler) {
	e.check()
	var p Pixel
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			e.ExecutePixel(&p, float64(x), float64(y), s)
			e.result.Write(x, y, p)
		}
	}
}

func (e *compositeExecutor) Result() *MemoryBuffer { return e.result }
