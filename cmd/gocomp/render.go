package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/compositor"
	"github.com/gogpu/compositor/gpu"
	"github.com/gogpu/compositor/internal/job"
	"github.com/gogpu/compositor/internal/observability"
)

// shutdownTimeout bounds the flush of pending spans on exit.
const shutdownTimeout = 5 * time.Second

func (a *app) renderCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "render JOB",
		Short: "Render the outputs of a job file",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.render(cmd.Context(), args[0], watch)
		},
	}
	f := cmd.Flags()
	f.BoolVar(&watch, "watch", false, "Re-render whenever the job file changes")
	f.Bool("gpu", false, "Use the GPU for buffer-wide operations when available")
	f.Int("workers", 0, "Tile workers (0 = GOMAXPROCS)")
	f.Int("tile-size", 64, "Tile edge in pixels")
	f.String("quality", "high", "Blur quality: high, medium or low")
	f.String("sampler", "bilinear", "Output sampler: nearest, bilinear or bicubic")
	f.String("trace-endpoint", "", "OTLP gRPC endpoint for traces (empty disables tracing)")
	return cmd
}

// renderer renders job files with one set of resources.
type renderer struct {
	app    *app
	tracer trace.Tracer
	accel  compositor.Accelerator

	// images outlives single renders so watch mode only decodes changed
	// files. It is created for the first job's directory.
	images *compositor.FileImageSource
}

func (a *app) render(ctx context.Context, path string, watch bool) error {
	tp, err := observability.InitTracing(ctx, &observability.TracingConfig{
		ServiceName:    "gocomp",
		ServiceVersion: version,
		OTLPEndpoint:   a.cfg.Tracing.Endpoint,
		SampleRate:     a.cfg.Tracing.SampleRate,
	})
	if err != nil {
		return usageError(err)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		if err := tp.Shutdown(sctx); err != nil {
			a.logger.Warn("trace shutdown failed", "err", err)
		}
	}()

	r := &renderer{app: a, tracer: tp.Tracer()}
	if a.cfg.Render.GPU {
		accel, err := gpu.New()
		if err != nil {
			a.logger.Warn("GPU not available, rendering on the CPU", "err", err)
		} else {
			r.accel = accel
			defer accel.Close()
		}
	}

	if !watch {
		return r.renderFile(ctx, path)
	}
	if err := r.renderFile(ctx, path); err != nil {
		a.logger.Error("render failed", "path", path, "err", err)
	}
	return watchFile(ctx, path, a.logger, func() {
		if err := r.renderFile(ctx, path); err != nil {
			a.logger.Error("render failed", "path", path, "err", err)
		}
	})
}

// renderFile loads, converts and executes one job and writes its files.
func (r *renderer) renderFile(ctx context.Context, path string) error {
	_, span := observability.StartLoadSpan(ctx, r.tracer, path)
	j, err := job.Load(path)
	observability.RecordError(span, err)
	span.End()
	if err != nil {
		return &ExitError{Code: exitJob, Message: err.Error()}
	}

	if r.images == nil {
		r.images = compositor.NewFileImageSource(j.Dir)
	}
	sys, err := r.app.convert(j, r.accel, r.tracer, r.images)
	if err != nil {
		return err
	}
	res, err := sys.Execute(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return &ExitError{Code: exitFailure, Message: err.Error()}
	}

	names := make([]string, 0, len(j.Files))
	for name := range j.Files {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		if err := r.write(ctx, name, j.Files[name], res.Outputs[name]); err != nil {
			return &ExitError{Code: exitFailure, Message: err.Error()}
		}
	}

	st := r.images.CacheStats()
	r.app.logger.Debug("image cache", "images", st.Len, "bytes", st.Cost, "hit_rate", st.HitRate())
	fmt.Fprintf(r.app.out, "%s: rendered %d output(s) in %s\n", path, len(names), res.Duration.Round(time.Millisecond))
	return nil
}

func (r *renderer) write(ctx context.Context, name, path string, buf *compositor.MemoryBuffer) (err error) {
	_, span := observability.StartWriteSpan(ctx, r.tracer, name, path)
	defer func() {
		observability.RecordError(span, err)
		span.End()
	}()

	if buf == nil {
		return fmt.Errorf("output %q produced no result", name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := buf.Save(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	r.app.logger.Info("output written", "output", name, "path", path)
	return nil
}

// convert builds the execution system of j.
// images, when set, replaces the job's own file source.
func (a *app) convert(j *job.Job, accel compositor.Accelerator, tracer trace.Tracer, images compositor.ImageSource) (*compositor.ExecutionSystem, error) {
	opts := a.cfg.Render.contextOptions()
	jobOpts, err := j.Options()
	if err != nil {
		return nil, &ExitError{Code: exitJob, Message: err.Error()}
	}
	opts = append(opts, jobOpts...)
	if images != nil {
		opts = append(opts, compositor.WithImageSource(images))
	}
	if accel != nil {
		opts = append(opts, compositor.WithGPU(accel))
	}
	if tracer != nil {
		opts = append(opts, compositor.WithTracer(tracer))
	}

	ctx, err := compositor.NewContext(j.Output.Width, j.Output.Height, opts...)
	if err != nil {
		return nil, &ExitError{Code: exitJob, Message: fmt.Sprintf("%s: %v", j.Path, err)}
	}
	sys, err := compositor.Convert(j.Tree, ctx)
	if err != nil {
		return nil, &ExitError{Code: exitJob, Message: fmt.Sprintf("%s: %v", j.Path, err)}
	}
	return sys, nil
}
