package telemetry

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

// setupTestTracer installs an in-memory span exporter for test assertions.
func setupTestTracer(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := trace.NewTracerProvider(
		trace.WithSyncer(exporter),
	)
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return exporter
}

func hasAttr(span tracetest.SpanStub, key, want string) bool {
	for _, a := range span.Attributes {
		if string(a.Key) == key && a.Value.Emit() == want {
			return true
		}
	}
	return false
}

func TestInitTraceProviderNoopWhenEmpty(t *testing.T) {
	shutdown, err := InitTraceProvider(context.Background(), "", "test")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error: %v", err)
	}
}

func TestAuthenticateSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	_, span := StartAuthenticateSpan(context.Background(), "GET", "/videos")
	EndAuthenticateSpan(span, "authenticated", "admin")

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Name != "auth.authenticate" {
		t.Errorf("span name = %q, want %q", spans[0].Name, "auth.authenticate")
	}
	if !hasAttr(spans[0], "url.path", "/videos") {
		t.Error("missing url.path attribute")
	}
	if !hasAttr(spans[0], "auth.result", "authenticated") {
		t.Error("missing auth.result attribute")
	}
	if !hasAttr(spans[0], "auth.username", "admin") {
		t.Error("missing auth.username attribute")
	}
}

func TestAuthenticateSpan_AnonymousOmitsUsername(t *testing.T) {
	exporter := setupTestTracer(t)

	_, span := StartAuthenticateSpan(context.Background(), "GET", "/videos")
	EndAuthenticateSpan(span, "anonymous", "")

	for _, a := range exporter.GetSpans()[0].Attributes {
		if string(a.Key) == "auth.username" {
			t.Fatal("unexpected auth.username on anonymous span")
		}
	}
}

func TestImportSpan(t *testing.T) {
	exporter := setupTestTracer(t)

	_, span := StartImportSpan(context.Background(), "youtube")
	EndImportSpan(span, 2, errors.New("partial failure"))

	spans := exporter.GetSpans()
	if len(spans) != 1 || spans[0].Name != "catalog.import" {
		t.Fatalf("unexpected spans: %+v", spans)
	}
	if !hasAttr(spans[0], "catalog.imported", "2") {
		t.Error("missing catalog.imported attribute")
	}
	if len(spans[0].Events) != 1 {
		t.Errorf("expected recorded error event, got %d events", len(spans[0].Events))
	}
}
