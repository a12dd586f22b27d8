// Package image provides float pixel buffers for the compositor: storage,
// sampling, pooling and file I/O.
//
// Buffers hold straight (non-premultiplied) linear RGBA as float32, four
// values per pixel, row by row with no padding.
package image

import "errors"

// Common errors for buffer operations.
var (
	// ErrInvalidDimensions is returned when width or height is non-positive.
	ErrInvalidDimensions = errors.New("image: invalid dimensions")

	// ErrOutOfBounds is returned when pixel coordinates are outside the buffer.
	ErrOutOfBounds = errors.New("image: coordinates out of bounds")
)

// Channels is the number of float32 values stored per pixel.
const Channels = 4

// FloatBuf is a float32 RGBA buffer.
//
// Thread safety: concurrent reads are safe. Concurrent writes to distinct
// pixels are safe; anything else requires external synchronization.
type FloatBuf struct {
	data   []float32
	width  int
	height int
}

// NewFloatBuf allocates a zeroed buffer.
func NewFloatBuf(width, height int) (*FloatBuf, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &FloatBuf{
		data:   make([]float32, width*height*Channels),
		width:  width,
		height: height,
	}, nil
}

// Bounds returns the buffer dimensions.
func (b *FloatBuf) Bounds() (width, height int) {
	return b.width, b.height
}

// Width returns the buffer width in pixels.
func (b *FloatBuf) Width() int { return b.width }

// Height returns the buffer height in pixels.
func (b *FloatBuf) Height() int { return b.height }

// Pix returns the underlying storage. Pixel (x, y) starts at
// (y*width + x) * Channels.
func (b *FloatBuf) Pix() []float32 { return b.data }

// InBounds reports whether (x, y) addresses a pixel of the buffer.
func (b *FloatBuf) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < b.width && y < b.height
}

// At returns the pixel at (x, y). The caller guarantees the coordinates are
// in bounds.
func (b *FloatBuf) At(x, y int) [4]float32 {
	i := (y*b.width + x) * Channels
	return [4]float32{b.data[i], b.data[i+1], b.data[i+2], b.data[i+3]}
}

// Set stores a pixel. Out-of-bounds writes return ErrOutOfBounds.
func (b *FloatBuf) Set(x, y int, p [4]float32) error {
	if !b.InBounds(x, y) {
		return ErrOutOfBounds
	}
	i := (y*b.width + x) * Channels
	copy(b.data[i:i+Channels], p[:])
	return nil
}

// Fill sets every pixel to p.
func (b *FloatBuf) Fill(p [4]float32) {
	for i := 0; i < len(b.data); i += Channels {
		copy(b.data[i:i+Channels], p[:])
	}
}

// Clear zeroes all pixels.
func (b *FloatBuf) Clear() {
	clear(b.data)
}

// Clone returns a deep copy.
func (b *FloatBuf) Clone() *FloatBuf {
	return &FloatBuf{
		data:   append([]float32(nil), b.data...),
		width:  b.width,
		height: b.height,
	}
}
