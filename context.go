package compositor

import (
	"fmt"
	"runtime"

	"github.com/gogpu/gpucontext"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/compositor/internal/parallel"
)

// tracerName is the instrumentation scope of compositor spans.
const tracerName = "github.com/gogpu/compositor"

// Quality trades blur accuracy for speed.
type Quality uint8

const (
	// QualityHigh evaluates every sample.
	QualityHigh Quality = iota

	// QualityMedium evaluates every second sample.
	QualityMedium

	// QualityLow evaluates every third sample.
	QualityLow
)

// String returns the lower-case quality name.
func (q Quality) String() string {
	switch q {
	case QualityHigh:
		return "high"
	case QualityMedium:
		return "medium"
	case QualityLow:
		return "low"
	default:
		return fmt.Sprintf("Quality(%d)", q)
	}
}

// step returns the sampling stride for the quality level.
func (q Quality) step() int {
	return int(min(q, QualityLow)) + 1
}

// ParseQuality parses "high", "medium" or "low". The empty string selects
// QualityHigh.
func ParseQuality(s string) (Quality, error) {
	switch s {
	case "", "high":
		return QualityHigh, nil
	case "medium":
		return QualityMedium, nil
	case "low":
		return QualityLow, nil
	default:
		return 0, fmt.Errorf("compositor: unknown quality %q", s)
	}
}

// Context is the read-only configuration of one compositing job. It is
// built once by NewContext and passed explicitly to conversion and
// execution; nothing mutates it afterwards.
type Context struct {
	width, height int
	useGPU        bool
	accel         Accelerator
	device        gpucontext.DeviceProvider
	quality       Quality
	sampler       PixelSampler
	workers       int
	tileSize      int
	images        ImageSource
	tracer        trace.Tracer
	jobID         uuid.UUID
}

// Option configures a Context.
type Option func(*Context)

// WithGPU enables accelerated operation variants backed by a.
// A nil accelerator leaves GPU acceleration disabled.
func WithGPU(a Accelerator) Option {
	return func(c *Context) {
		c.accel = a
		c.useGPU = a != nil
	}
}

// WithDeviceProvider shares the host application's GPU device with the
// accelerator, when the accelerator supports it.
func WithDeviceProvider(p gpucontext.DeviceProvider) Option {
	return func(c *Context) { c.device = p }
}

// WithQuality sets the quality of neighbourhood operations.
func WithQuality(q Quality) Option {
	return func(c *Context) { c.quality = q }
}

// WithSampler sets the sampler output operations read their inputs with.
func WithSampler(s PixelSampler) Option {
	return func(c *Context) { c.sampler = s }
}

// WithWorkers sets the number of tile workers. Zero or negative selects
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *Context) { c.workers = n }
}

// WithTileSize sets the square tile edge in pixels.
func WithTileSize(n int) Option {
	return func(c *Context) { c.tileSize = n }
}

// WithImageSource sets where image nodes load their pixels from.
func WithImageSource(s ImageSource) Option {
	return func(c *Context) { c.images = s }
}

// WithTracer sets the OpenTelemetry tracer used for job spans.
func WithTracer(t trace.Tracer) Option {
	return func(c *Context) { c.tracer = t }
}

// WithJobID sets the job identifier reported in logs and spans.
func WithJobID(id uuid.UUID) Option {
	return func(c *Context) { c.jobID = id }
}

// NewContext creates the configuration of a width x height job.
//
// Defaults: GPU disabled, high quality, bilinear sampler, GOMAXPROCS
// workers, 64 pixel tiles, images loaded from the working directory, the
// global OpenTelemetry tracer and a random job ID.
func NewContext(width, height int, opts ...Option) (*Context, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	c := &Context{
		width:    width,
		height:   height,
		quality:  QualityHigh,
		sampler:  SamplerBilinear,
		tileSize: parallel.TileWidth,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.workers <= 0 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	if c.tileSize <= 0 {
		c.tileSize = parallel.TileWidth
	}
	if c.images == nil {
		c.images = NewFileImageSource("")
	}
	if c.tracer == nil {
		c.tracer = otel.Tracer(tracerName)
	}
	if c.jobID == uuid.Nil {
		c.jobID = uuid.New()
	}

	if c.accel != nil {
		propagateLogger(c.accel)
		if c.device != nil {
			if dpa, ok := c.accel.(DeviceProviderAware); ok {
				if err := dpa.SetDeviceProvider(c.device); err != nil {
					Logger().Warn("compositor: device provider rejected", "accelerator", c.accel.Name(), "err", err)
				}
			}
		}
	}
	return c, nil
}

// Width returns the job width in pixels.
func (c *Context) Width() int { return c.width }

// Height returns the job height in pixels.
func (c *Context) Height() int { return c.height }

// UseGPU reports whether accelerated variants may be chosen.
func (c *Context) UseGPU() bool { return c.useGPU && c.accel != nil }

// Accelerator returns the accelerator, or nil.
func (c *Context) Accelerator() Accelerator { return c.accel }

// DeviceProvider returns the shared GPU device provider, or nil.
func (c *Context) DeviceProvider() gpucontext.DeviceProvider { return c.device }

// Quality returns the quality level.
func (c *Context) Quality() Quality { return c.quality }

// Sampler returns the sampler used by output operations.
func (c *Context) Sampler() PixelSampler { return c.sampler }

// Workers returns the number of tile workers.
func (c *Context) Workers() int { return c.workers }

// TileSize returns the tile edge in pixels.
func (c *Context) TileSize() int { return c.tileSize }

// Images returns the image source.
func (c *Context) Images() ImageSource { return c.images }

// Tracer returns the tracer for job spans.
func (c *Context) Tracer() trace.Tracer { return c.tracer }

// JobID returns the job identifier.
func (c *Context) JobID() uuid.UUID { return c.jobID }

// canAccelerate reports whether an accelerated variant of op may be used.
func (c *Context) canAccelerate(op AcceleratedOp) bool {
	return c.UseGPU() && c.accel.CanAccelerate(op)
}
