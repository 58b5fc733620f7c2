package telemetry

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(context.Background(), "")
	if err != nil {
		t.Fatal(err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("noop shutdown: %v", err)
	}
}

func TestInstallRecordsSpans(t *testing.T) {
	prev := otel.GetTracerProvider()
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	rec := tracetest.NewSpanRecorder()
	shutdown, err := install(context.Background(), sdktrace.WithSpanProcessor(rec))
	if err != nil {
		t.Fatal(err)
	}
	defer shutdown(context.Background())

	_, span := Tracer("test").Start(context.Background(), "generate")
	span.End()

	ended := rec.Ended()
	if len(ended) != 1 || ended[0].Name() != "generate" {
		t.Fatalf("ended spans = %v", ended)
	}
	if got := ended[0].Resource().Attributes(); len(got) == 0 {
		t.Error("span has no resource attributes")
	}
}
