package compositor

import (
	"fmt"
	"math"
)

// BlurOperation averages a disc of the buffered input around each pixel.
// Quality controls the sampling stride inside the disc.
type BlurOperation struct {
	OperationBase
	radius  float32
	quality Quality
}

// NewBlurOperation creates a fixed radius blur. Radius is in pixels.
func NewBlurOperation(radius float32, q Quality) *BlurOperation {
	op := &BlurOperation{radius: max(radius, 0), quality: q}
	op.setup("Blur", &SocketTemplate{Name: "Image", Type: DataTypeColor}, colorSocket("Image", white))
	return op
}

// Radius returns the blur radius in pixels.
func (op *BlurOperation) Radius() float32 { return op.radius }

// RequiresBufferedInputs reports true.
func (op *BlurOperation) RequiresBufferedInputs() bool { return true }

// InitExecution captures the input buffer.
func (op *BlurOperation) InitExecution(in Inputs) (Executor, error) {
	src := in.Buffer(0)
	if src == nil {
		return nil, fmt.Errorf("%w: %s needs a buffered input", ErrDanglingSocket, op.Base())
	}
	return &blurExecutor{src: src, radius: op.radius, step: op.quality.step()}, nil
}

type blurExecutor struct {
	window
	src    *MemoryBuffer
	size   *MemoryBuffer
	radius float32
	step   int
}

func (e *blurExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	r := e.radius
	if e.size != nil {
		var sz Pixel
		e.size.Sample(&sz, x, y, s)
		r = min(max(sz[0], 0), 1) * e.radius
	}
	if r < 0.5 {
		e.src.Sample(out, x, y, s)
		return
	}
	*out = discAverage(e.src, int(math.Floor(x+0.5)), int(math.Floor(y+0.5)), r, e.step)
}

func (e *blurExecutor) DeinitExecution() {
	if e.close() {
		e.src, e.size = nil, nil
	}
}

// discAverage averages the pixels of src within radius r of (cx, cy),
// visiting every step-th row and column. Reads beyond the edge are clamped.
func discAverage(src *MemoryBuffer, cx, cy int, r float32, step int) Pixel {
	ir := int(r)
	r2 := r * r
	var sum Pixel
	var n float32
	var p Pixel
	for dy := -ir; dy <= ir; dy += step {
		for dx := -ir; dx <= ir; dx += step {
			if float32(dx*dx+dy*dy) > r2 {
				continue
			}
			src.ReadClamped(&p, cx+dx, cy+dy)
			for i := range sum {
				sum[i] += p[i]
			}
			n++
		}
	}
	for i := range sum {
		sum[i] /= n
	}
	return sum
}

// VariableSizeBlurOperation blurs with a per-pixel radius: the Size input,
// clamped to [0,1], scales the maximum radius.
type VariableSizeBlurOperation struct {
	OperationBase
	maxRadius float32
	quality   Quality
}

// NewVariableSizeBlurOperation creates a variable blur. Inputs are Image
// and Size.
func NewVariableSizeBlurOperation(maxRadius float32, q Quality) *VariableSizeBlurOperation {
	op := &VariableSizeBlurOperation{maxRadius: max(maxRadius, 0), quality: q}
	op.setup("VariableSizeBlur", &SocketTemplate{Name: "Image", Type: DataTypeColor},
		colorSocket("Image", white), valueSocket("Size", 1))
	return op
}

// RequiresBufferedInputs reports true.
func (op *VariableSizeBlurOperation) RequiresBufferedInputs() bool { return true }

// InitExecution captures both input buffers.
func (op *VariableSizeBlurOperation) InitExecution(in Inputs) (Executor, error) {
	src, size := in.Buffer(0), in.Buffer(1)
	if src == nil || size == nil {
		return nil, fmt.Errorf("%w: %s needs buffered inputs", ErrDanglingSocket, op.Base())
	}
	return &blurExecutor{src: src, size: size, radius: op.maxRadius, step: op.quality.step()}, nil
}
