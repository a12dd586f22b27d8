//go:build !nogpu

// Package gpu provides the GPU accelerator for compositor jobs.
//
// The accelerator runs separable mix modes as wgpu/hal compute shaders.
// Pass it to a job with compositor.WithGPU; any request it cannot serve is
// computed on the CPU with identical results.
//
// Usage:
//
//	accel, err := gpu.New()
//	if err != nil {
//	    // no Vulkan device, run on the CPU
//	}
//	defer accel.Close()
//	ctx, err := compositor.NewContext(w, h, compositor.WithGPU(accel))
//
// Build with the nogpu tag to leave out the GPU backends entirely; New then
// always returns ErrUnavailable.
package gpu

import (
	"github.com/gogpu/compositor"
	gpuimpl "github.com/gogpu/compositor/internal/gpu"
)

// New opens a GPU device and returns an initialised accelerator.
// It returns ErrUnavailable when no usable device exists.
func New() (compositor.Accelerator, error) {
	a := &gpuimpl.MixAccelerator{}
	a.SetLogger(compositor.Logger())
	if err := a.Init(); err != nil {
		return nil, err
	}
	if !a.Ready() {
		a.Close()
		return nil, ErrUnavailable
	}
	return a, nil
}

// NewShared returns an accelerator running on a device owned by the host
// application. The provider must implement HalDevice() any and HalQueue()
// any; gogpu windows do.
func NewShared(provider any) (compositor.Accelerator, error) {
	a := &gpuimpl.MixAccelerator{}
	a.SetLogger(compositor.Logger())
	if err := a.SetDeviceProvider(provider); err != nil {
		return nil, err
	}
	return a, nil
}
