package compositor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/compositor/internal/image"
	"github.com/gogpu/compositor/internal/parallel"
)

// Result holds the buffers produced by a job, keyed by output node name.
type Result struct {
	JobID    uuid.UUID
	Outputs  map[string]*MemoryBuffer
	Duration time.Duration
}

// Execute evaluates every output of the system.
//
// Operations are initialised in dependency order; buffered operations first
// get their inputs rendered into pooled buffers. Outputs are then evaluated
// tile by tile on a worker pool. Every executor is deinitialised in reverse
// order before Execute returns, also on error or cancellation.
//
// Systems built by hand must be finished with Resolve; Execute fails with
// ErrDanglingSocket when a required input has no source.
func (s *ExecutionSystem) Execute(ctx context.Context) (res *Result, err error) {
	cfg := s.ctx
	outputs := s.Outputs()
	if len(outputs) == 0 {
		return nil, ErrNoOutput
	}
	if err := s.checkInputs(); err != nil {
		return nil, err
	}
	order, err := s.order()
	if err != nil {
		return nil, err
	}

	ctx, span := cfg.Tracer().Start(ctx, "compositor.Execute", trace.WithAttributes(
		attribute.String("compositor.job_id", cfg.JobID().String()),
		attribute.Int("compositor.width", cfg.Width()),
		attribute.Int("compositor.height", cfg.Height()),
		attribute.Int("compositor.operations", len(s.ops)),
		attribute.Bool("compositor.gpu", cfg.UseGPU()),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	start := time.Now()
	pool := parallel.NewWorkerPool(cfg.Workers())
	defer pool.Close()
	grid := parallel.NewGrid(cfg.Width(), cfg.Height(), cfg.TileSize(), cfg.TileSize())
	Logger().Debug("compositor: tile grid", "job", cfg.JobID().String(),
		"columns", grid.TilesX(), "rows", grid.TilesY(), "tile_size", cfg.TileSize())

	execs := make([]Executor, len(s.ops))
	var held []*image.FloatBuf
	defer func() {
		for i := len(order) - 1; i >= 0; i-- {
			if e := execs[order[i].Base().id]; e != nil {
				e.DeinitExecution()
			}
		}
		for _, b := range held {
			s.buffers.Put(b)
		}
	}()

	for _, op := range order {
		b := op.Base()
		readers := make([]Executor, len(b.inputs))
		for i, in := range b.inputs {
			if src := in.Source(); src != nil {
				readers[i] = execs[src.Operation().id]
			}
		}

		var buffers []*MemoryBuffer
		if bo, ok := op.(BufferedOperation); ok && bo.RequiresBufferedInputs() {
			buffers = make([]*MemoryBuffer, len(readers))
			for i, r := range readers {
				if r == nil {
					continue
				}
				fb, err := s.buffers.Get(cfg.Width(), cfg.Height())
				if err != nil {
					return nil, err
				}
				held = append(held, fb)
				buffers[i] = wrapFloatBuf(fb)
				if err := s.render(ctx, pool, grid, r, buffers[i]); err != nil {
					return nil, err
				}
			}
		}

		e, err := op.InitExecution(NewInputs(cfg.Width(), cfg.Height(), readers, buffers))
		if err != nil {
			return nil, fmt.Errorf("init %s: %w", b, err)
		}
		execs[b.id] = e
	}

	res = &Result{JobID: cfg.JobID(), Outputs: make(map[string]*MemoryBuffer, len(outputs))}
	tiles := grid.Tiles()
	for _, out := range outputs {
		re, ok := execs[out.Base().id].(RegionExecutor)
		if !ok {
			return nil, fmt.Errorf("compositor: output %s has no region executor", out.Base())
		}
		err := pool.Run(ctx, len(tiles), func(i int) error {
			x0, y0, x1, y1 := tiles[i].Bounds()
			re.ExecuteRegion(x0, y0, x1, y1, cfg.Sampler())
			return nil
		})
		if err != nil {
			return nil, err
		}
		res.Outputs[out.OutputName()] = re.Result()
		Logger().Debug("compositor: output evaluated", "job", cfg.JobID().String(),
			"output", out.OutputName(), "tiles", len(tiles))
	}

	res.Duration = time.Since(start)
	span.SetAttributes(attribute.Int("compositor.tiles", grid.TileCount()*len(outputs)))
	Logger().Info("compositor: job executed",
		"job", cfg.JobID().String(),
		"outputs", len(res.Outputs),
		"buffers", len(held),
		"duration", res.Duration)
	return res, nil
}

// render evaluates r over the whole canvas into dst.
func (s *ExecutionSystem) render(ctx context.Context, pool *parallel.WorkerPool, grid *parallel.Grid, r Executor, dst *MemoryBuffer) error {
	tiles := grid.Tiles()
	sampler := s.ctx.Sampler()
	return pool.Run(ctx, len(tiles), func(i int) error {
		x0, y0, x1, y1 := tiles[i].Bounds()
		var p Pixel
		for y := y0; y < y1; y++ {
			for x := x0; x < x1; x++ {
				r.ExecutePixel(&p, float64(x), float64(y), sampler)
				dst.Write(x, y, p)
			}
		}
		return nil
	})
}
