//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/compositor"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// mixParamsSize is the size of the Params uniform in mix.wgsl.
const mixParamsSize = 32

// MixAccelerator mixes whole colour buffers with a wgpu/hal compute shader.
// It implements compositor.Accelerator and compositor.DeviceProviderAware.
//
// A failed Init is not an error: the accelerator stays usable and every
// MixBuffers call reports compositor.ErrFallbackToCPU.
type MixAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // shared device, not destroyed on Close
}

var (
	_ compositor.Accelerator         = (*MixAccelerator)(nil)
	_ compositor.DeviceProviderAware = (*MixAccelerator)(nil)
)

// Name returns "wgpu-mix".
func (a *MixAccelerator) Name() string { return "wgpu-mix" }

// CanAccelerate reports support for compositor.AccelMix.
func (a *MixAccelerator) CanAccelerate(op compositor.AcceleratedOp) bool {
	return op&compositor.AccelMix != 0
}

// SetLogger sets the package logger.
func (a *MixAccelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// Ready reports whether a device and pipeline are available.
func (a *MixAccelerator) Ready() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.gpuReady
}

// Init opens a GPU device unless one is already in use.
func (a *MixAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.gpuReady {
		return nil
	}
	if err := a.initGPU(); err != nil {
		slogger().Warn("gpu-mix: GPU init failed, using CPU fallback", "err", err)
	}
	return nil
}

// Close releases the pipeline and, unless it is shared, the device.
func (a *MixAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipeline()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
		}
		if a.instance != nil {
			a.instance.Destroy()
		}
	}
	a.device = nil
	a.instance = nil
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetDeviceProvider switches the accelerator to a device owned by the host.
// The provider must implement HalDevice() any and HalQueue() any returning
// hal.Device and hal.Queue.
func (a *MixAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu-mix: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu-mix: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu-mix: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.destroyPipeline()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipeline(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("gpu-mix: create pipeline with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Debug("gpu-mix: switched to shared GPU device")
	return nil
}

// MixBuffers mixes c2 into c1 for len(fac) pixels and writes dst.
func (a *MixAccelerator) MixBuffers(p compositor.MixParams, fac, c1, c2, dst []float32) error {
	if !p.Mode.Separable() {
		return compositor.ErrFallbackToCPU
	}
	n := len(fac)
	if len(c1) < n*4 || len(c2) < n*4 || len(dst) < n*4 {
		return fmt.Errorf("gpu-mix: %d factors need %d colour values (c1=%d c2=%d dst=%d)",
			n, n*4, len(c1), len(c2), len(dst))
	}
	if n == 0 {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return compositor.ErrFallbackToCPU
	}
	return a.dispatch(p, fac, c1[:n*4], c2[:n*4], dst[:n*4])
}

func (a *MixAccelerator) dispatch(p compositor.MixParams, fac, c1, c2, dst []float32) error {
	n := len(fac)
	gx, gy, stride := dispatchSize(n)
	if gy > maxWorkgroupsPerDim {
		return compositor.ErrFallbackToCPU
	}

	factorSize := uint64(n) * 4 //nolint:gosec // n is a slice length
	colorSize := factorSize * 4

	var bufs []hal.Buffer
	defer func() {
		for _, b := range bufs {
			a.device.DestroyBuffer(b)
		}
	}()
	create := func(label string, size uint64, usage gputypes.BufferUsage) (hal.Buffer, error) {
		b, err := a.device.CreateBuffer(&hal.BufferDescriptor{Label: label, Size: size, Usage: usage})
		if err != nil {
			return nil, fmt.Errorf("create %s buffer: %w", label, err)
		}
		bufs = append(bufs, b)
		return b, nil
	}

	const (
		input  = gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst
		output = gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc
	)
	paramsBuf, err := create("mix_params", mixParamsSize, gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	facBuf, err := create("mix_fac", factorSize, input)
	if err != nil {
		return err
	}
	c1Buf, err := create("mix_color1", colorSize, input)
	if err != nil {
		return err
	}
	c2Buf, err := create("mix_color2", colorSize, input)
	if err != nil {
		return err
	}
	resultBuf, err := create("mix_result", colorSize, output)
	if err != nil {
		return err
	}
	stagingBuf, err := create("mix_staging", colorSize, gputypes.BufferUsageMapRead|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}

	uploads := []struct {
		buf  hal.Buffer
		data []byte
	}{
		{paramsBuf, makeMixParams(p, uint32(n), stride)}, //nolint:gosec // n < stride*gy
		{facBuf, floatBytes(fac)},
		{c1Buf, floatBytes(c1)},
		{c2Buf, floatBytes(c2)},
	}
	for _, u := range uploads {
		if err := a.queue.WriteBuffer(u.buf, 0, u.data); err != nil {
			return fmt.Errorf("write buffer: %w", err)
		}
	}

	bindGroup, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  "mix_bind_group",
		Layout: a.bindLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: paramsBuf.NativeHandle(), Size: mixParamsSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: facBuf.NativeHandle(), Size: factorSize}},
			{Binding: 2, Resource: gputypes.BufferBinding{Buffer: c1Buf.NativeHandle(), Size: colorSize}},
			{Binding: 3, Resource: gputypes.BufferBinding{Buffer: c2Buf.NativeHandle(), Size: colorSize}},
			{Binding: 4, Resource: gputypes.BufferBinding{Buffer: resultBuf.NativeHandle(), Size: colorSize}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group: %w", err)
	}
	defer a.device.DestroyBindGroup(bindGroup)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "mix_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("mix"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}
	pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "mix_pass"})
	pass.SetPipeline(a.pipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.Dispatch(gx, gy, 1)
	pass.End()
	encoder.CopyBufferToBuffer(resultBuf, stagingBuf, []hal.BufferCopy{{Size: colorSize}})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	if _, err := a.queue.Submit([]hal.CommandBuffer{cmdBuf}); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := a.device.WaitIdle(); err != nil {
		return fmt.Errorf("wait idle: %w", err)
	}

	mapping, err := a.device.MapBuffer(stagingBuf, 0, colorSize)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	copy(dst, unsafe.Slice((*float32)(mapping.Ptr), len(dst)))
	if err := a.device.UnmapBuffer(stagingBuf); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	slogger().Debug("gpu-mix: dispatched", "mode", p.Mode.String(), "pixels", n, "groups_x", gx, "groups_y", gy)
	return nil
}

func (a *MixAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return fmt.Errorf("no GPU adapters found")
	}
	selected := &adapters[0]
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return fmt.Errorf("open device: %w", err)
	}
	a.instance = instance
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipeline(); err != nil {
		a.device.Destroy()
		a.instance.Destroy()
		a.device, a.queue, a.instance = nil, nil, nil
		return fmt.Errorf("create pipeline: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu-mix: GPU accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *MixAccelerator) createPipeline() error {
	code, err := compileSPIRV(mixShaderSource)
	if err != nil {
		return err
	}
	shader, err := a.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "mix",
		Source: hal.ShaderSource{SPIRV: code},
	})
	if err != nil {
		return fmt.Errorf("create mix shader module: %w", err)
	}
	a.shader = shader

	storage := func(binding uint32, typ gputypes.BufferBindingType) gputypes.BindGroupLayoutEntry {
		return gputypes.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: gputypes.ShaderStageCompute,
			Buffer:     &gputypes.BufferBindingLayout{Type: typ},
		}
	}
	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "mix_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			storage(0, gputypes.BufferBindingTypeUniform),
			storage(1, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(2, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(3, gputypes.BufferBindingTypeReadOnlyStorage),
			storage(4, gputypes.BufferBindingTypeStorage),
		},
	})
	if err != nil {
		return fmt.Errorf("create mix bind group layout: %w", err)
	}
	a.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "mix_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{a.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create mix pipeline layout: %w", err)
	}
	a.pipeLayout = pipeLayout

	pipeline, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: "mix_pipeline", Layout: a.pipeLayout,
		Compute: hal.ComputeState{Module: a.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create mix compute pipeline: %w", err)
	}
	a.pipeline = pipeline
	return nil
}

func (a *MixAccelerator) destroyPipeline() {
	if a.device == nil {
		return
	}
	if a.pipeline != nil {
		a.device.DestroyComputePipeline(a.pipeline)
	}
	if a.pipeLayout != nil {
		a.device.DestroyPipelineLayout(a.pipeLayout)
	}
	if a.bindLayout != nil {
		a.device.DestroyBindGroupLayout(a.bindLayout)
	}
	if a.shader != nil {
		a.device.DestroyShaderModule(a.shader)
	}
	a.pipeline, a.pipeLayout, a.bindLayout, a.shader = nil, nil, nil, nil
}

// makeMixParams encodes the Params uniform of mix.wgsl.
func makeMixParams(p compositor.MixParams, count, stride uint32) []byte {
	buf := make([]byte, mixParamsSize)
	binary.LittleEndian.PutUint32(buf[0:], uint32(p.Mode))
	binary.LittleEndian.PutUint32(buf[4:], count)
	binary.LittleEndian.PutUint32(buf[8:], boolWord(p.UseAlpha))
	binary.LittleEndian.PutUint32(buf[12:], boolWord(p.Clamp))
	binary.LittleEndian.PutUint32(buf[16:], stride)
	return buf
}

func boolWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// floatBytes reinterprets f as its in-memory bytes.
func floatBytes(f []float32) []byte {
	if len(f) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&f[0])), len(f)*4)
}
