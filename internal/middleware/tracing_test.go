package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	appmw "github.com/s1natex/tasklist-GO/internal/middleware"
)

func TestTracingMiddleware_RecordsSpan(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := chi.NewRouter()
	r.Use(appmw.TracingMiddleware)
	r.Get("/tasks", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	if rec.Header().Get("Trace-Id") == "" {
		t.Fatalf("expected Trace-Id header")
	}
	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Name() != "GET /tasks" {
		t.Errorf("unexpected span name %q", spans[0].Name())
	}
	var status int64
	for _, kv := range spans[0].Attributes() {
		if kv.Key == attribute.Key("http.response.status_code") {
			status = kv.Value.AsInt64()
		}
	}
	if status != http.StatusOK {
		t.Errorf("expected status attribute 200, got %d", status)
	}
}

func TestTracingMiddleware_ContinuesIncomingTrace(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})

	r := chi.NewRouter()
	r.Use(appmw.TracingMiddleware)
	r.Get("/tasks", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	const (
		traceID = "4bf92f3577b34da6a3ce929d0e0e4736"
		spanID  = "00f067aa0ba902b7"
	)
	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("traceparent", "00-"+traceID+"-"+spanID+"-01")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("Trace-Id"); got != traceID {
		t.Fatalf("expected Trace-Id %s, got %q", traceID, got)
	}
	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if got := spans[0].SpanContext().TraceID().String(); got != traceID {
		t.Errorf("expected trace id %s, got %s", traceID, got)
	}
	parent := spans[0].Parent()
	if !parent.IsRemote() || parent.SpanID().String() != spanID {
		t.Errorf("expected remote parent %s, got %s remote=%v", spanID, parent.SpanID(), parent.IsRemote())
	}
}
