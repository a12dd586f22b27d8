//go:build nogpu

// Package gpu provides the GPU accelerator for compositor jobs. This build
// was made with the nogpu tag and has no GPU support.
package gpu

import "github.com/gogpu/compositor"

// New always returns ErrUnavailable.
func New() (compositor.Accelerator, error) { return nil, ErrUnavailable }

// NewShared always returns ErrUnavailable.
func NewShared(any) (compositor.Accelerator, error) { return nil, ErrUnavailable }
