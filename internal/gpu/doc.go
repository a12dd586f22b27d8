//go:build !nogpu

// Package gpu implements the compositor's GPU accelerator on top of
// gogpu/wgpu (Pure Go WebGPU, zero CGO).
//
// # Mix kernel
//
// MixAccelerator runs separable mix modes over whole buffers with a single
// compute dispatch:
//
//	fac, color1, color2 -> mix.wgsl (64 invocations per workgroup) -> result -> staging -> host
//
// Inputs are uploaded with Queue.WriteBuffer, the result is copied into a
// MapRead staging buffer and read back after Device.WaitIdle. Modes that
// convert through HSV (hue, saturation, value, color) are not handled and
// report compositor.ErrFallbackToCPU.
//
// # Device selection
//
// Init opens a Vulkan device, preferring discrete and integrated GPUs.
// SetDeviceProvider switches to a device owned by the host application;
// such devices are never destroyed by Close.
//
// The package builds only without the nogpu tag.
package gpu
