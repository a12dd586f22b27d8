//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/compositor"
)

// createNoopDevice creates a noop device and queue for testing.
func createNoopDevice(t *testing.T) (hal.Device, hal.Queue, func()) {
	t.Helper()
	api := noop.API{}
	instance, err := api.CreateInstance(nil)
	if err != nil {
		t.Fatalf("CreateInstance failed: %v", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	openDev, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		t.Fatalf("Open failed: %v", err)
	}
	cleanup := func() {
		openDev.Device.Destroy()
		instance.Destroy()
	}
	return openDev.Device, openDev.Queue, cleanup
}

type testProvider struct {
	device any
	queue  any
}

func (p testProvider) HalDevice() any { return p.device }
func (p testProvider) HalQueue() any  { return p.queue }

func skipOnCompilerLimit(t *testing.T, err error) {
	t.Helper()
	msg := err.Error()
	if strings.Contains(msg, "not yet implemented") || strings.Contains(msg, "not supported") {
		t.Skipf("Skipping: naga feature not yet implemented: %v", err)
	}
}

func TestMixShaderCompiles(t *testing.T) {
	code, err := compileSPIRV(mixShaderSource)
	if err != nil {
		skipOnCompilerLimit(t, err)
		t.Fatalf("failed to compile mix shader: %v", err)
	}
	if len(code) == 0 {
		t.Fatal("SPIR-V output is empty")
	}
	if code[0] != 0x07230203 {
		t.Errorf("SPIR-V magic = %#x, want 0x07230203", code[0])
	}
}

func TestDispatchSize(t *testing.T) {
	tests := []struct {
		count        int
		x, y, stride uint32
	}{
		{0, 0, 0, 0},
		{1, 1, 1, 64},
		{64, 1, 1, 64},
		{65, 2, 1, 128},
		{maxWorkgroupsPerDim * mixWorkgroupSize, maxWorkgroupsPerDim, 1, maxWorkgroupsPerDim * mixWorkgroupSize},
		{maxWorkgroupsPerDim*mixWorkgroupSize + 1, maxWorkgroupsPerDim, 2, maxWorkgroupsPerDim * mixWorkgroupSize},
	}
	for _, tt := range tests {
		x, y, stride := dispatchSize(tt.count)
		if x != tt.x || y != tt.y || stride != tt.stride {
			t.Errorf("dispatchSize(%d) = (%d, %d, %d), want (%d, %d, %d)",
				tt.count, x, y, stride, tt.x, tt.y, tt.stride)
		}
		if tt.count > 0 && int(x)*int(y)*mixWorkgroupSize < tt.count {
			t.Errorf("dispatchSize(%d) covers only %d invocations", tt.count, int(x)*int(y)*mixWorkgroupSize)
		}
	}
}

func TestMakeMixParams(t *testing.T) {
	p := compositor.MixParams{Mode: compositor.BlendScreen, UseAlpha: true}
	buf := makeMixParams(p, 100, 128)
	if len(buf) != mixParamsSize {
		t.Fatalf("len = %d, want %d", len(buf), mixParamsSize)
	}
	want := []uint32{uint32(compositor.BlendScreen), 100, 1, 0, 128, 0, 0, 0}
	for i, w := range want {
		if got := binary.LittleEndian.Uint32(buf[i*4:]); got != w {
			t.Errorf("word %d = %d, want %d", i, got, w)
		}
	}
}

func TestFloatBytes(t *testing.T) {
	if floatBytes(nil) != nil {
		t.Error("floatBytes(nil) should be nil")
	}
	b := floatBytes([]float32{1, 0.5})
	if len(b) != 8 {
		t.Fatalf("len = %d, want 8", len(b))
	}
	if got := binary.LittleEndian.Uint32(b); got != 0x3f800000 {
		t.Errorf("first word = %#x, want 0x3f800000", got)
	}
}

func TestMixAcceleratorWithoutDevice(t *testing.T) {
	a := &MixAccelerator{}
	if a.Name() != "wgpu-mix" {
		t.Errorf("Name() = %q", a.Name())
	}
	if !a.CanAccelerate(compositor.AccelMix) {
		t.Error("CanAccelerate(AccelMix) = false")
	}
	if a.CanAccelerate(0) {
		t.Error("CanAccelerate(0) = true")
	}
	if a.Ready() {
		t.Error("zero accelerator reports ready")
	}

	fac := []float32{0.5}
	c := []float32{1, 1, 1, 1}
	dst := make([]float32, 4)
	err := a.MixBuffers(compositor.MixParams{Mode: compositor.BlendAdd}, fac, c, c, dst)
	if !errors.Is(err, compositor.ErrFallbackToCPU) {
		t.Errorf("MixBuffers without device: err = %v, want ErrFallbackToCPU", err)
	}
	a.Close()
}

func TestMixAcceleratorRejectsHSVModes(t *testing.T) {
	a := &MixAccelerator{gpuReady: true}
	for _, m := range []compositor.BlendMode{compositor.BlendHue, compositor.BlendSaturation, compositor.BlendValue, compositor.BlendColor} {
		err := a.MixBuffers(compositor.MixParams{Mode: m}, []float32{1}, make([]float32, 4), make([]float32, 4), make([]float32, 4))
		if !errors.Is(err, compositor.ErrFallbackToCPU) {
			t.Errorf("mode %v: err = %v, want ErrFallbackToCPU", m, err)
		}
	}
}

func TestMixAcceleratorShortBuffers(t *testing.T) {
	a := &MixAccelerator{}
	err := a.MixBuffers(compositor.MixParams{}, []float32{1, 1}, make([]float32, 4), make([]float32, 8), make([]float32, 8))
	if err == nil || errors.Is(err, compositor.ErrFallbackToCPU) {
		t.Errorf("short c1: err = %v, want a length error", err)
	}
}

func TestSetDeviceProviderRejects(t *testing.T) {
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	tests := []struct {
		name     string
		provider any
	}{
		{"not a provider", struct{}{}},
		{"wrong device", testProvider{device: "device", queue: queue}},
		{"wrong queue", testProvider{device: device, queue: 42}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := &MixAccelerator{}
			if err := a.SetDeviceProvider(tt.provider); err == nil {
				t.Error("expected error")
			}
			if a.Ready() {
				t.Error("accelerator ready after rejected provider")
			}
		})
	}
}

func TestMixAcceleratorSharedDevice(t *testing.T) {
	if _, err := compileSPIRV(mixShaderSource); err != nil {
		skipOnCompilerLimit(t, err)
	}
	device, queue, cleanup := createNoopDevice(t)
	defer cleanup()

	a := &MixAccelerator{}
	if err := a.SetDeviceProvider(testProvider{device: device, queue: queue}); err != nil {
		t.Fatalf("SetDeviceProvider: %v", err)
	}
	if !a.Ready() {
		t.Fatal("accelerator not ready on shared device")
	}

	// Init keeps the shared device.
	if err := a.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	if a.device != device {
		t.Error("Init replaced the shared device")
	}

	const n = 130
	fac := make([]float32, n)
	c1 := make([]float32, n*4)
	c2 := make([]float32, n*4)
	dst := make([]float32, n*4)
	for i := range dst {
		dst[i] = -1
	}
	// The noop device runs no shaders; the result is the zeroed staging
	// buffer copied back to dst.
	if err := a.MixBuffers(compositor.MixParams{Mode: compositor.BlendMultiply}, fac, c1, c2, dst); err != nil {
		t.Fatalf("MixBuffers: %v", err)
	}
	for i, v := range dst {
		if v != 0 {
			t.Fatalf("dst[%d] = %v, want 0 from noop readback", i, v)
		}
	}

	if err := a.MixBuffers(compositor.MixParams{}, nil, nil, nil, nil); err != nil {
		t.Errorf("empty MixBuffers: %v", err)
	}

	a.Close()
	if a.Ready() {
		t.Error("accelerator ready after Close")
	}
	if a.device != nil || a.queue != nil {
		t.Error("Close kept device references")
	}
}
