package compositor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/compositor/internal/blend"
)

func mixSockets() []SocketTemplate {
	return []SocketTemplate{
		valueSocket("Fac", 1),
		colorSocket("Image1", white),
		colorSocket("Image2", white),
	}
}

func mixName(prefix string, p MixParams) string {
	mode := p.Mode.String()
	return prefix + strings.ToUpper(mode[:1]) + mode[1:]
}

// MixOperation blends Image2 into Image1 per pixel.
type MixOperation struct {
	OperationBase
	params MixParams
}

// NewMixOperation creates a CPU mix. Inputs are Fac, Image1 and Image2.
func NewMixOperation(p MixParams) *MixOperation {
	op := &MixOperation{params: p}
	op.setup(mixName("Mix", p), &SocketTemplate{Name: "Image", Type: DataTypeColor}, mixSockets()...)
	return op
}

// Params returns the mix configuration.
func (op *MixOperation) Params() MixParams { return op.params }

// InitExecution binds the three input readers.
func (op *MixOperation) InitExecution(in Inputs) (Executor, error) {
	e := &mixExecutor{params: op.params}
	e.bind(in)
	return e, nil
}

type mixExecutor struct {
	readers
	params MixParams
}

func (e *mixExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	var fac, c1, c2 Pixel
	e.read(0, &fac, x, y, s)
	e.read(1, &c1, x, y, s)
	e.read(2, &c2, x, y, s)
	*out = MixPixel(e.params, fac[0], c1, c2)
}

// MixPixel mixes c2 into c1. With UseAlpha the factor is multiplied by the
// alpha of c2. The result keeps the alpha of c1.
func MixPixel(p MixParams, value float32, c1, c2 Pixel) Pixel {
	r := blend.Apply(p.Mode, p.Factor(value, c2[3]), c1, c2)
	if p.Clamp {
		blend.Clamp(&r)
	}
	return r
}

// AcceleratedMixOperation mixes whole buffers on an Accelerator. Its inputs
// are rendered to buffers first; if the accelerator declines or fails the
// same buffers are mixed on the CPU.
type AcceleratedMixOperation struct {
	OperationBase
	params MixParams
	accel  Accelerator
}

// NewAcceleratedMixOperation creates a buffered mix running on a.
func NewAcceleratedMixOperation(p MixParams, a Accelerator) *AcceleratedMixOperation {
	op := &AcceleratedMixOperation{params: p, accel: a}
	op.setup(mixName("AcceleratedMix", p), &SocketTemplate{Name: "Image", Type: DataTypeColor}, mixSockets()...)
	return op
}

// Params returns the mix configuration.
func (op *AcceleratedMixOperation) Params() MixParams { return op.params }

// RequiresBufferedInputs reports true.
func (op *AcceleratedMixOperation) RequiresBufferedInputs() bool { return true }

// InitExecution mixes the input buffers into a result buffer.
func (op *AcceleratedMixOperation) InitExecution(in Inputs) (Executor, error) {
	facBuf, c1, c2 := in.Buffer(0), in.Buffer(1), in.Buffer(2)
	if facBuf == nil || c1 == nil || c2 == nil {
		return nil, fmt.Errorf("%w: %s needs all inputs buffered", ErrDanglingSocket, op.Base())
	}
	w, h := in.Size()
	dst, err := NewMemoryBuffer(w, h)
	if err != nil {
		return nil, err
	}

	n := w * h
	fac := make([]float32, n)
	src := facBuf.Pixels()
	for i := range fac {
		fac[i] = src[i*4]
	}

	err = op.accel.MixBuffers(op.params, fac, c1.Pixels(), c2.Pixels(), dst.Pixels())
	if err != nil {
		if errors.Is(err, ErrFallbackToCPU) {
			Logger().Debug("compositor: mix on CPU", "op", op.Base().String(), "mode", op.params.Mode.String())
		} else {
			Logger().Warn("compositor: accelerator failed, mixing on CPU",
				"accelerator", op.accel.Name(), "op", op.Base().String(), "err", err)
		}
		blend.ApplySpan(op.params, fac, c1.Pixels(), c2.Pixels(), dst.Pixels())
	}
	return &bufferExecutor{buf: dst, channel: allChannels}, nil
}
