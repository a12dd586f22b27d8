package compositor

import (
	stdimage "image"
	"io"

	"github.com/gogpu/compositor/internal/color"
	"github.com/gogpu/compositor/internal/image"
)

// MemoryBuffer is a float RGBA pixel buffer. Pixel (x, y) of the canvas is
// stored at buffer position (x-X, y-Y) where (X, Y) is the buffer origin.
//
// Reads outside the buffer return transparent black.
type MemoryBuffer struct {
	x, y int
	buf  *image.FloatBuf
}

// NewMemoryBuffer allocates a zeroed buffer of the given size at the origin.
func NewMemoryBuffer(width, height int) (*MemoryBuffer, error) {
	buf, err := image.NewFloatBuf(width, height)
	if err != nil {
		return nil, ErrInvalidDimensions
	}
	return &MemoryBuffer{buf: buf}, nil
}

func wrapFloatBuf(buf *image.FloatBuf) *MemoryBuffer {
	return &MemoryBuffer{buf: buf}
}

// Origin returns the canvas position of the top-left pixel.
func (m *MemoryBuffer) Origin() (x, y int) { return m.x, m.y }

// SetOrigin moves the buffer on the canvas.
func (m *MemoryBuffer) SetOrigin(x, y int) { m.x, m.y = x, y }

// Width returns the buffer width.
func (m *MemoryBuffer) Width() int { return m.buf.Width() }

// Height returns the buffer height.
func (m *MemoryBuffer) Height() int { return m.buf.Height() }

// Contains reports whether canvas pixel (x, y) is stored in the buffer.
func (m *MemoryBuffer) Contains(x, y int) bool {
	return m.buf.InBounds(x-m.x, y-m.y)
}

// Read copies the pixel at integer canvas coordinates into out.
func (m *MemoryBuffer) Read(out *Pixel, x, y int) {
	if !m.Contains(x, y) {
		*out = Pixel{}
		return
	}
	*out = m.buf.At(x-m.x, y-m.y)
}

// ReadClamped reads the pixel at integer canvas coordinates, clamping them
// to the buffer edge.
func (m *MemoryBuffer) ReadClamped(out *Pixel, x, y int) {
	lx := min(max(x-m.x, 0), m.buf.Width()-1)
	ly := min(max(y-m.y, 0), m.buf.Height()-1)
	*out = m.buf.At(lx, ly)
}

// Sample reads the buffer at fractional canvas coordinates with the given
// sampler. Coordinates farther than half a pixel outside the buffer read as
// transparent black; neighbours are clamped to the edge.
func (m *MemoryBuffer) Sample(out *Pixel, x, y float64, sampler PixelSampler) {
	lx, ly := x-float64(m.x), y-float64(m.y)
	if lx < -0.5 || ly < -0.5 || lx >= float64(m.buf.Width())-0.5 || ly >= float64(m.buf.Height())-0.5 {
		*out = Pixel{}
		return
	}
	*out = image.Sample(m.buf, lx, ly, sampler.interpolation())
}

// Write stores p at canvas pixel (x, y). Writes outside the buffer are
// ignored.
func (m *MemoryBuffer) Write(x, y int, p Pixel) {
	_ = m.buf.Set(x-m.x, y-m.y, p)
}

// Fill sets every pixel to p.
func (m *MemoryBuffer) Fill(p Pixel) { m.buf.Fill(p) }

// Pixels returns the raw storage, four float32 values per pixel.
func (m *MemoryBuffer) Pixels() []float32 { return m.buf.Pix() }

// Image converts the buffer to an 8-bit sRGB image.
func (m *MemoryBuffer) Image() *stdimage.NRGBA {
	return m.buf.ToImage(color.ColorSpaceSRGB)
}

// Encode writes the buffer as sRGB in the named format ("png", "jpeg",
// "bmp" or "tiff").
func (m *MemoryBuffer) Encode(w io.Writer, format string) error {
	return image.Encode(w, m.buf, format, color.ColorSpaceSRGB)
}

// Save writes the buffer as sRGB, choosing the format from the extension.
func (m *MemoryBuffer) Save(path string) error {
	return image.Save(path, m.buf, color.ColorSpaceSRGB)
}
