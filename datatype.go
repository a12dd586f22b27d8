package compositor

import "fmt"

// DataType is the kind of value carried by a socket.
type DataType uint8

const (
	// DataTypeValue is a scalar stored in channel 0.
	DataTypeValue DataType = iota

	// DataTypeVector is a 3-component vector stored in channels 0..2.
	DataTypeVector

	// DataTypeColor is straight linear RGBA.
	DataTypeColor
)

// String returns the lower-case type name.
func (t DataType) String() string {
	switch t {
	case DataTypeValue:
		return "value"
	case DataTypeVector:
		return "vector"
	case DataTypeColor:
		return "color"
	default:
		return fmt.Sprintf("DataType(%d)", t)
	}
}

// Pixel is one evaluated value: a colour, a vector in the first three
// channels or a scalar in channel 0.
type Pixel [4]float32

// ValuePixel returns a pixel carrying the scalar v.
func ValuePixel(v float32) Pixel {
	return Pixel{v}
}

// Value returns channel 0.
func (p Pixel) Value() float32 { return p[0] }
