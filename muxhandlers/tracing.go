package muxhandlers

import (
	"net/http"

	"github.com/vitalvas/kestrel/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/vitalvas/kestrel/muxhandlers"

type spanKey struct{}

// Span returns the span started by TracingMiddleware for r, or a no-op span.
func Span(r *http.Request) trace.Span {
	if span, ok := mux.Value(r, spanKey{}).(trace.Span); ok {
		return span
	}
	return trace.SpanFromContext(r.Context())
}

// TracingConfig configures the Tracing middleware behaviour.
type TracingConfig struct {
	// TracerProvider creates the tracer. Defaults to the global provider.
	TracerProvider trace.TracerProvider
}

// TracingMiddleware returns a middleware that wraps the rest of the chain in
// a server span named after the method and matched route template. The span
// records the mount root and the response status as reported by
// mux.ResponseStatus; a fault returned by the chain marks it as failed.
func TracingMiddleware(cfg TracingConfig) mux.MiddlewareFunc {
	provider := cfg.TracerProvider
	if provider == nil {
		provider = otel.GetTracerProvider()
	}
	tracer := provider.Tracer(tracerName)

	return func(w http.ResponseWriter, r *http.Request, next mux.Next) error {
		template := r.URL.Path
		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", r.Method),
			attribute.String("url.path", r.URL.Path),
		}
		if route := mux.CurrentRoute(r); route != nil {
			template = route.Template()
			attrs = append(attrs, attribute.String("http.route", template))
		}
		if mount := mux.CurrentMount(r); mount != nil {
			attrs = append(attrs, attribute.String("kestrel.mount", mount.Root()))
		}

		_, span := tracer.Start(r.Context(), r.Method+" "+template,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		mux.SetValue(r, spanKey{}, span)

		err := next()
		if status := mux.ResponseStatus(w); status != 0 {
			span.SetAttributes(attribute.Int("http.response.status_code", status))
			if status >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(status))
			}
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}

		return err
	}
}
