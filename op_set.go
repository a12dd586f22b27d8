package compositor

// SetOperation produces a constant. It has no inputs.
type SetOperation struct {
	OperationBase
	value Pixel
}

// NewSetOperation creates a constant of type t. Vectors keep channel 3 at
// zero and values keep only channel 0.
func NewSetOperation(t DataType, value Pixel) *SetOperation {
	switch t {
	case DataTypeValue:
		value = Pixel{value[0]}
	case DataTypeVector:
		value[3] = 0
	}
	op := &SetOperation{value: value}
	op.setup("Set"+typeSuffix(t), &SocketTemplate{Name: "Value", Type: t})
	return op
}

// Value returns the constant.
func (op *SetOperation) Value() Pixel { return op.value }

// InitExecution returns an executor writing the constant.
func (op *SetOperation) InitExecution(Inputs) (Executor, error) {
	return &setExecutor{value: op.value}, nil
}

type setExecutor struct {
	window
	value Pixel
}

func (e *setExecutor) ExecutePixel(out *Pixel, _, _ float64, _ PixelSampler) {
	e.check()
	*out = e.value
}

func (e *setExecutor) DeinitExecution() { e.close() }

func typeSuffix(t DataType) string {
	switch t {
	case DataTypeValue:
		return "Value"
	case DataTypeVector:
		return "Vector"
	default:
		return "Color"
	}
}
