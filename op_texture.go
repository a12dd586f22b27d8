package compositor

import (
	"fmt"

	"github.com/chewxy/math32"
)

// TexturePattern selects a procedural texture.
type TexturePattern uint8

const (
	// PatternChecker alternates the two colours in squares.
	PatternChecker TexturePattern = iota

	// PatternBlend is a horizontal gradient.
	PatternBlend

	// PatternRing is concentric sine rings around the centre.
	PatternRing
)

// String returns the pattern name.
func (p TexturePattern) String() string {
	switch p {
	case PatternChecker:
		return "checker"
	case PatternBlend:
		return "blend"
	case PatternRing:
		return "ring"
	default:
		return fmt.Sprintf("TexturePattern(%d)", p)
	}
}

// ParseTexturePattern parses a pattern name. The empty string selects
// PatternChecker.
func ParseTexturePattern(s string) (TexturePattern, error) {
	switch s {
	case "", "checker":
		return PatternChecker, nil
	case "blend":
		return PatternBlend, nil
	case "ring":
		return PatternRing, nil
	default:
		return 0, fmt.Errorf("%w: unknown texture pattern %q", ErrInvalidProperty, s)
	}
}

// Texture configures a procedural texture in normalised coordinates: u and v
// run from 1 at the left and top edges to -1 at the right and bottom edges.
type Texture struct {
	Pattern TexturePattern

	// Color1 and Color2 are mixed by the pattern intensity.
	Color1, Color2 Pixel

	// Offset is added to the texture coordinates before they are scaled.
	Scale, Offset [2]float32

	// Size is the checker square size in texture units.
	Size float32

	// Rings is the number of rings per texture unit.
	Rings float32
}

// intensity returns the pattern value in [0,1] at texture coordinates.
func (t *Texture) intensity(u, v float32) float32 {
	switch t.Pattern {
	case PatternBlend:
		return min(max((u+1)/2, 0), 1)
	case PatternRing:
		d := math32.Sqrt(u*u + v*v)
		return 0.5 + 0.5*math32.Sin(d*t.Rings*2*math32.Pi)
	default:
		size := t.Size
		if size <= 0 {
			size = 0.25
		}
		ix := int(math32.Floor(u / size))
		iy := int(math32.Floor(v / size))
		if (ix+iy)&1 == 0 {
			return 1
		}
		return 0
	}
}

// Eval returns the texture colour at canvas position (x, y) on a
// width x height canvas. RGB mixes the two colours by intensity; alpha is
// the intensity.
func (t *Texture) Eval(x, y float64, width, height int) Pixel {
	cx, cy := float64(width)/2, float64(height)/2
	u := t.Scale[0] * (float32((cx-x)/float64(width)*2) + t.Offset[0])
	v := t.Scale[1] * (float32((cy-y)/float64(height)*2) + t.Offset[1])

	f := t.intensity(u, v)
	var out Pixel
	for i := range 3 {
		out[i] = (1-f)*t.Color1[i] + f*t.Color2[i]
	}
	out[3] = f
	return out
}

// TextureOperation evaluates a procedural texture. The alpha variant
// outputs the texture alpha as a value.
type TextureOperation struct {
	OperationBase
	tex   Texture
	alpha bool
}

// NewTextureOperation creates a colour texture.
func NewTextureOperation(tex Texture) *TextureOperation {
	op := &TextureOperation{tex: tex}
	op.setup("Texture", &SocketTemplate{Name: "Color", Type: DataTypeColor})
	return op
}

// NewTextureAlphaOperation creates a texture whose alpha is returned in
// channel 0.
func NewTextureAlphaOperation(tex Texture) *TextureOperation {
	op := &TextureOperation{tex: tex, alpha: true}
	op.setup("TextureAlpha", &SocketTemplate{Name: "Value", Type: DataTypeValue})
	return op
}

// InitExecution captures the canvas size.
func (op *TextureOperation) InitExecution(in Inputs) (Executor, error) {
	w, h := in.Size()
	return &textureExecutor{tex: op.tex, alpha: op.alpha, width: w, height: h}, nil
}

type textureExecutor struct {
	window
	tex           Texture
	alpha         bool
	width, height int
}

func (e *textureExecutor) ExecutePixel(out *Pixel, x, y float64, _ PixelSampler) {
	e.check()
	c := e.tex.Eval(x, y, e.width, e.height)
	if e.alpha {
		*out = Pixel{c[3]}
		return
	}
	*out = c
}

func (e *textureExecutor) DeinitExecution() { e.close() }
