package compositor

import (
	"errors"

	"github.com/gogpu/compositor/internal/blend"
)

// ErrFallbackToCPU indicates the accelerator cannot handle a request.
// The caller transparently computes the result on the CPU instead.
var ErrFallbackToCPU = errors.New("compositor: falling back to CPU")

// AcceleratedOp describes operation kinds for capability checks.
type AcceleratedOp uint32

const (
	// AccelMix represents separable colour mixing of whole buffers.
	AccelMix AcceleratedOp = 1 << iota
)

// BlendMode selects the formula of a mix operation.
type BlendMode = blend.Mode

// Blend modes.
const (
	BlendMix        = blend.Mix
	BlendAdd        = blend.Add
	BlendSubtract   = blend.Subtract
	BlendMultiply   = blend.Multiply
	BlendScreen     = blend.Screen
	BlendDivide     = blend.Divide
	BlendDifference = blend.Difference
	BlendDarken     = blend.Darken
	BlendLighten    = blend.Lighten
	BlendOverlay    = blend.Overlay
	BlendHue        = blend.Hue
	BlendSaturation = blend.Saturation
	BlendValue      = blend.Value
	BlendColor      = blend.Color
)

// ParseBlendMode parses a blend mode name such as "add" or "screen".
func ParseBlendMode(s string) (BlendMode, error) {
	return blend.ParseMode(s)
}

// MixParams configures a mix: the mode, whether the factor is multiplied by
// the alpha of the second colour, and whether the result is clamped.
type MixParams = blend.Params

// Accelerator is an optional GPU provider for buffer-wide operations.
//
// A Context built with WithGPU hands the accelerator to node conversion,
// which picks accelerated operation variants for requests the accelerator
// claims via CanAccelerate. Any error from the accelerator makes the
// operation compute the same result on the CPU.
type Accelerator interface {
	// Name returns the accelerator name (e.g., "wgpu").
	Name() string

	// Init initializes GPU resources.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether the accelerator supports the operation.
	CanAccelerate(op AcceleratedOp) bool

	// MixBuffers mixes c2 into c1 for len(fac) pixels and writes dst.
	// fac holds one factor per pixel; c1, c2 and dst hold RGBA.
	// Returns ErrFallbackToCPU for unsupported parameters.
	MixBuffers(p MixParams, fac, c1, c2, dst []float32) error
}

// DeviceProviderAware is implemented by accelerators that can share a GPU
// device with the host application instead of opening their own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}
