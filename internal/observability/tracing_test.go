package observability

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestDefaultTracingConfig(t *testing.T) {
	cfg := DefaultTracingConfig()
	if cfg.ServiceName != "gocomp" {
		t.Errorf("ServiceName = %q, want gocomp", cfg.ServiceName)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("SampleRate = %v, want 1", cfg.SampleRate)
	}
}

func TestInitTracingNoEndpoint(t *testing.T) {
	ctx := context.Background()
	for _, cfg := range []*TracingConfig{nil, {ServiceName: "test"}} {
		tp, err := InitTracing(ctx, cfg)
		if err != nil {
			t.Fatalf("InitTracing(%v): %v", cfg, err)
		}
		if tp.Tracer() == nil {
			t.Fatal("nil tracer")
		}
		if err := tp.Shutdown(ctx); err != nil {
			t.Errorf("Shutdown: %v", err)
		}
	}
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1, "ParentBased{root:AlwaysOnSampler"},
		{2, "ParentBased{root:AlwaysOnSampler"},
		{0, "ParentBased{root:AlwaysOffSampler"},
		{-1, "ParentBased{root:AlwaysOffSampler"},
		{0.5, "ParentBased{root:TraceIDRatioBased{0.5}"},
	}
	for _, tt := range tests {
		got := Sampler(tt.rate).Description()
		if len(got) < len(tt.want) || got[:len(tt.want)] != tt.want {
			t.Errorf("Sampler(%v) = %q, want prefix %q", tt.rate, got, tt.want)
		}
	}
}

func TestSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer func() { _ = tp.Shutdown(context.Background()) }()
	tracer := tp.Tracer(TracerName)

	ctx, load := StartLoadSpan(context.Background(), tracer, "job.hcl")
	_, write := StartWriteSpan(ctx, tracer, "out", "out.png")
	RecordError(write, errors.New("disk full"))
	RecordError(write, nil)
	write.End()
	load.End()

	spans := rec.Ended()
	if len(spans) != 2 {
		t.Fatalf("ended spans = %d, want 2", len(spans))
	}
	if spans[0].Name() != "job.write" || spans[1].Name() != "job.load" {
		t.Errorf("span names = %q, %q", spans[0].Name(), spans[1].Name())
	}
	if spans[0].Parent().SpanID() != spans[1].SpanContext().SpanID() {
		t.Error("write span is not a child of the load span")
	}
	if spans[0].Status().Code != codes.Error || spans[0].Status().Description != "disk full" {
		t.Errorf("write status = %+v", spans[0].Status())
	}
	if spans[1].Status().Code != codes.Unset {
		t.Errorf("load status = %+v", spans[1].Status())
	}
}
