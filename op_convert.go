package compositor

import "github.com/gogpu/compositor/internal/color"

// ConvertOperation adapts a value between socket types. The execution
// system inserts one wherever a link joins sockets of different types.
type ConvertOperation struct {
	OperationBase
	from, to DataType
}

// NewConvertOperation creates a conversion from one type to another.
func NewConvertOperation(from, to DataType) *ConvertOperation {
	op := &ConvertOperation{from: from, to: to}
	op.setup("Convert"+typeSuffix(from)+"To"+typeSuffix(to),
		&SocketTemplate{Name: "Value", Type: to},
		SocketTemplate{Name: "Value", Type: from},
	)
	return op
}

// Types returns the source and destination types.
func (op *ConvertOperation) Types() (from, to DataType) { return op.from, op.to }

// InitExecution binds the input reader.
func (op *ConvertOperation) InitExecution(in Inputs) (Executor, error) {
	e := &convertExecutor{from: op.from, to: op.to}
	e.bind(in)
	return e, nil
}

type convertExecutor struct {
	readers
	from, to DataType
}

func (e *convertExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	var p Pixel
	e.read(0, &p, x, y, s)
	*out = ConvertPixel(e.from, e.to, p)
}

// ConvertPixel converts p from one socket type to another.
func ConvertPixel(from, to DataType, p Pixel) Pixel {
	switch {
	case from == to:
		return p
	case from == DataTypeValue && to == DataTypeColor:
		return Pixel{p[0], p[0], p[0], 1}
	case from == DataTypeValue && to == DataTypeVector:
		return Pixel{p[0], p[0], p[0], 0}
	case from == DataTypeColor && to == DataTypeValue:
		return Pixel{color.Luminance(p[0], p[1], p[2])}
	case from == DataTypeColor && to == DataTypeVector:
		return Pixel{p[0], p[1], p[2], 0}
	case from == DataTypeVector && to == DataTypeValue:
		return Pixel{(p[0] + p[1] + p[2]) / 3}
	default: // vector to color
		return Pixel{p[0], p[1], p[2], 1}
	}
}
