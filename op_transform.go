package compositor

import (
	"fmt"

	"github.com/chewxy/math32"
)

// Transform is a similarity transform about the canvas centre followed by
// an offset in pixels.
type Transform struct {
	X, Y  float32
	Angle float32 // radians
	Scale float32
}

// TransformOperation resamples its input through a Transform. The sampler
// it is called with is forwarded to the input.
type TransformOperation struct {
	OperationBase
	xf Transform
}

// NewTransformOperation creates a transform. Scale must be non-zero.
func NewTransformOperation(xf Transform) (*TransformOperation, error) {
	if xf.Scale == 0 {
		return nil, fmt.Errorf("%w: transform scale must be non-zero", ErrInvalidProperty)
	}
	op := &TransformOperation{xf: xf}
	op.setup("Transform", &SocketTemplate{Name: "Image", Type: DataTypeColor}, colorSocket("Image", Pixel{}))
	return op, nil
}

// InitExecution precomputes the inverse mapping for the canvas.
func (op *TransformOperation) InitExecution(in Inputs) (Executor, error) {
	w, h := in.Size()
	sin, cos := math32.Sincos(-op.xf.Angle)
	e := &transformExecutor{
		cx:   float64(w-1) / 2,
		cy:   float64(h-1) / 2,
		offX: float64(op.xf.X),
		offY: float64(op.xf.Y),
		sin:  float64(sin / op.xf.Scale),
		cos:  float64(cos / op.xf.Scale),
	}
	e.bind(in)
	return e, nil
}

type transformExecutor struct {
	readers
	cx, cy     float64
	offX, offY float64
	sin, cos   float64
}

func (e *transformExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	dx := x - e.cx - e.offX
	dy := y - e.cy - e.offY
	sx := e.cx + dx*e.cos + dy*e.sin
	sy := e.cy - dx*e.sin + dy*e.cos
	e.read(0, out, sx, sy, s)
}
