package compositor

import (
	"github.com/chewxy/math32"

	"github.com/gogpu/compositor/internal/color"
)

// HSVConvertOperation converts between RGB and HSV, keeping alpha.
type HSVConvertOperation struct {
	OperationBase
	toHSV bool
}

// NewRGBToHSVOperation creates an RGB to HSV conversion.
func NewRGBToHSVOperation() *HSVConvertOperation {
	op := &HSVConvertOperation{toHSV: true}
	op.setup("RGBToHSV", &SocketTemplate{Name: "Color", Type: DataTypeColor}, colorSocket("Color", white))
	return op
}

// NewHSVToRGBOperation creates an HSV to RGB conversion.
func NewHSVToRGBOperation() *HSVConvertOperation {
	op := &HSVConvertOperation{}
	op.setup("HSVToRGB", &SocketTemplate{Name: "Color", Type: DataTypeColor}, colorSocket("Color", white))
	return op
}

// InitExecution binds the input reader.
func (op *HSVConvertOperation) InitExecution(in Inputs) (Executor, error) {
	e := &hsvConvertExecutor{toHSV: op.toHSV}
	e.bind(in)
	return e, nil
}

type hsvConvertExecutor struct {
	readers
	toHSV bool
}

func (e *hsvConvertExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	var c Pixel
	e.read(0, &c, x, y, s)
	if e.toHSV {
		out[0], out[1], out[2] = color.RGBToHSV(c[0], c[1], c[2])
	} else {
		out[0], out[1], out[2] = color.HSVToRGB(c[0], c[1], c[2])
	}
	out[3] = c[3]
}

// HSVCorrectOperation adjusts an HSV colour with curves indexed by hue.
// A curve value of 0.5 leaves its component unchanged.
type HSVCorrectOperation struct {
	OperationBase
	hue, sat, val Curve
}

// NewHSVCorrectOperation creates a hue correction.
func NewHSVCorrectOperation(hue, sat, val Curve) *HSVCorrectOperation {
	op := &HSVCorrectOperation{hue: hue, sat: sat, val: val}
	op.setup("HSVCorrect", &SocketTemplate{Name: "Color", Type: DataTypeColor}, colorSocket("Color", white))
	return op
}

// InitExecution binds the input reader.
func (op *HSVCorrectOperation) InitExecution(in Inputs) (Executor, error) {
	e := &hsvCorrectExecutor{op: op}
	e.bind(in)
	return e, nil
}

type hsvCorrectExecutor struct {
	readers
	op *HSVCorrectOperation
}

func (e *hsvCorrectExecutor) ExecutePixel(out *Pixel, x, y float64, s PixelSampler) {
	e.check()
	var hsv Pixel
	e.read(0, &hsv, x, y, s)
	*out = CorrectHSV(hsv, e.op.hue, e.op.sat, e.op.val)
}

// CorrectHSV applies hue, saturation and value curves to an HSV pixel. The
// hue is wrapped to [0,1) and the saturation clamped to [0,1].
func CorrectHSV(hsv Pixel, hue, sat, val Curve) Pixel {
	h := hsv[0]
	hsv[0] += hue.Eval(h) - 0.5
	hsv[1] *= sat.Eval(h) * 2
	hsv[2] *= val.Eval(h) * 2

	hsv[0] -= math32.Floor(hsv[0])
	hsv[1] = min(max(hsv[1], 0), 1)
	return hsv
}
