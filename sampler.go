package compositor

import (
	"fmt"

	"github.com/gogpu/compositor/internal/image"
)

// PixelSampler selects the interpolation used when a buffer is read at
// fractional coordinates. Operations forward the sampler they were called
// with to their inputs.
type PixelSampler uint8

const (
	// SamplerNearest picks the closest pixel.
	SamplerNearest PixelSampler = iota

	// SamplerBilinear interpolates the 4 surrounding pixels.
	SamplerBilinear

	// SamplerBicubic uses Catmull-Rom over a 4x4 neighbourhood.
	SamplerBicubic
)

// String returns the lower-case sampler name.
func (s PixelSampler) String() string {
	switch s {
	case SamplerNearest:
		return "nearest"
	case SamplerBilinear:
		return "bilinear"
	case SamplerBicubic:
		return "bicubic"
	default:
		return fmt.Sprintf("PixelSampler(%d)", s)
	}
}

// ParsePixelSampler parses a sampler name. The empty string selects
// SamplerBilinear.
func ParsePixelSampler(s string) (PixelSampler, error) {
	switch s {
	case "nearest":
		return SamplerNearest, nil
	case "", "bilinear":
		return SamplerBilinear, nil
	case "bicubic":
		return SamplerBicubic, nil
	default:
		return 0, fmt.Errorf("compositor: unknown sampler %q", s)
	}
}

func (s PixelSampler) interpolation() image.InterpolationMode {
	switch s {
	case SamplerBilinear:
		return image.InterpBilinear
	case SamplerBicubic:
		return image.InterpBicubic
	default:
		return image.InterpNearest
	}
}
