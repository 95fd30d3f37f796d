package tracing

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"bcsb-lending/conditions-matrix/pkg/config"
	"bcsb-lending/conditions-matrix/pkg/rules"
)

func newTestTracer(t *testing.T, sampler string) (*Tracer, *tracetest.InMemoryExporter) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	cfg := &config.TracingConfig{Enabled: true, Sampler: sampler, SampleRatio: 1, ServiceName: "lcm-test"}
	tracer, err := NewWithExporter(cfg, "test", exporter)
	if err != nil {
		t.Fatalf("newTracer() error = %v", err)
	}
	t.Cleanup(func() { _ = tracer.Shutdown(context.Background()) })
	return tracer, exporter
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestNew(t *testing.T) {
	if _, err := New(nil, "test"); err == nil {
		t.Error("expected error for nil config")
	}

	tracer, err := New(&config.TracingConfig{Enabled: false}, "test")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if tracer.Enabled() {
		t.Error("disabled config should produce a disabled tracer")
	}
	if err := tracer.Shutdown(context.Background()); err != nil {
		t.Errorf("Shutdown() on noop tracer error = %v", err)
	}

	_, err = New(&config.TracingConfig{Enabled: true, Sampler: "sometimes", Endpoint: "localhost:4317"}, "test")
	if err == nil {
		t.Error("expected error for unknown sampler")
	}
}

func TestNoop_RecordsNothing(t *testing.T) {
	tracer := Noop()
	ctx, span := tracer.Start(context.Background(), "noop")
	defer span.End()

	if span.IsRecording() {
		t.Error("noop span should not record")
	}
	if id := TraceID(ctx); id != "" {
		t.Errorf("TraceID() = %q, want empty", id)
	}
}

func TestCreateSampler(t *testing.T) {
	tests := []struct {
		name     string
		strategy string
		ratio    float64
		wantErr  bool
	}{
		{"always", SamplerAlways, 0, false},
		{"never", SamplerNever, 0, false},
		{"ratio", SamplerRatio, 0.25, false},
		{"ratio zero", SamplerRatio, 0, false},
		{"ratio above one", SamplerRatio, 1.5, true},
		{"ratio negative", SamplerRatio, -0.1, true},
		{"unknown", "sometimes", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sampler, err := createSampler(tt.strategy, tt.ratio)
			if (err != nil) != tt.wantErr {
				t.Fatalf("createSampler() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && sampler == nil {
				t.Error("expected a sampler")
			}
		})
	}
}

func TestTracer_ExportsSpans(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerAlways)

	ctx, parent := tracer.Start(context.Background(), "POST /v1/evaluate")
	if TraceID(ctx) == "" {
		t.Error("expected a trace ID on a sampled span")
	}

	_, child := tracer.Start(ctx, "rules.evaluate")
	SetAnswerAttributes(child, rules.AnswerSet{
		LoanType:       "term_loan",
		BorrowerType:   "llc",
		CollateralType: rules.CodeSet{"equipment"},
	})
	SetReportAttributes(child, rules.Report{
		Summary: rules.Summary{
			Validation:              rules.ValidationResult{IsValid: true},
			RequirementCount:        9,
			EstimatedProcessingTime: 5,
			RiskLevel:               rules.RiskLow,
		},
		AmountBucket: "under_100k",
	})
	child.End()
	parent.End()

	spans := exporter.GetSpans()
	if len(spans) != 2 {
		t.Fatalf("exported %d spans, want 2", len(spans))
	}
	evaluated := spans[0]
	if evaluated.Name != "rules.evaluate" {
		t.Fatalf("first span = %q, want rules.evaluate", evaluated.Name)
	}
	if evaluated.Parent.SpanID() != spans[1].SpanContext.SpanID() {
		t.Error("evaluation span should be a child of the request span")
	}

	checks := map[string]string{
		AttrLoanType:     "term_loan",
		AttrAmountBucket: "under_100k",
		AttrRiskLevel:    "Low",
	}
	for key, want := range checks {
		v, ok := attrValue(evaluated.Attributes, key)
		if !ok || v.AsString() != want {
			t.Errorf("attribute %s = %v, want %q", key, v.Emit(), want)
		}
	}
	if v, _ := attrValue(evaluated.Attributes, AttrRequirements); v.AsInt64() != 9 {
		t.Errorf("requirement count = %d, want 9", v.AsInt64())
	}
	if v, _ := attrValue(evaluated.Attributes, AttrValid); !v.AsBool() {
		t.Error("expected valid attribute true")
	}
}

func TestTracer_NeverSamplerDropsSpans(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerNever)

	_, span := tracer.Start(context.Background(), "dropped")
	span.End()

	if n := len(exporter.GetSpans()); n != 0 {
		t.Errorf("exported %d spans, want 0", n)
	}
}

func TestSetError(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerAlways)

	_, failed := tracer.Start(context.Background(), "failed")
	SetError(failed, errors.New("boom"))
	failed.End()

	_, ok := tracer.Start(context.Background(), "ok")
	SetError(ok, nil)
	ok.End()

	spans := exporter.GetSpans()
	if spans[0].Status.Code != codes.Error || spans[0].Status.Description != "boom" {
		t.Errorf("failed span status = %+v", spans[0].Status)
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected an exception event")
	}
	if spans[1].Status.Code != codes.Ok {
		t.Errorf("ok span status = %+v", spans[1].Status)
	}
}

func TestExtractInject(t *testing.T) {
	const traceparent = "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01"

	headers := http.Header{}
	headers.Set("traceparent", traceparent)

	ctx := Extract(context.Background(), headers)
	if got := TraceID(ctx); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("TraceID() = %q", got)
	}

	out := http.Header{}
	Inject(ctx, out)
	if got := out.Get("traceparent"); got != traceparent {
		t.Errorf("injected traceparent = %q, want %q", got, traceparent)
	}

	if TraceID(Extract(context.Background(), http.Header{})) != "" {
		t.Error("expected no trace ID without headers")
	}
}

func TestTracer_HonoursRemoteParent(t *testing.T) {
	tracer, exporter := newTestTracer(t, SamplerNever)

	headers := http.Header{}
	headers.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")

	_, span := tracer.Start(Extract(context.Background(), headers), "child")
	span.End()

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("exported %d spans, want 1 (sampled parent)", len(spans))
	}
	if got := spans[0].SpanContext.TraceID().String(); got != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("trace ID = %s", got)
	}
}
