// Package telemetry wires OpenTelemetry traces and metrics into the web server.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-while/go-starters/internal/config"
	"github.com/go-while/go-starters/internal/router"
)

const instrumentationName = "github.com/go-while/go-starters/internal/telemetry"

// ShutdownFunc flushes and stops the installed providers.
type ShutdownFunc func(context.Context) error

// Setup installs global tracer and meter providers exporting over OTLP/gRPC.
// Without an endpoint the no-op globals stay in place.
func Setup(ctx context.Context, cfg config.TelemetryConfig) (ShutdownFunc, error) {
	if cfg.Endpoint == "" {
		log.Printf("[OTEL]: No OTLP endpoint configured, telemetry export disabled")
		return func(context.Context) error { return nil }, nil
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", config.AppVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("build resource: %w", err)
	}

	traceOpts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	metricOpts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		traceOpts = append(traceOpts, otlptracegrpc.WithInsecure())
		metricOpts = append(metricOpts, otlpmetricgrpc.WithInsecure())
	}

	traceExporter, err := otlptracegrpc.New(ctx, traceOpts...)
	if err != nil {
		return nil, fmt.Errorf("create trace exporter: %w", err)
	}
	metricExporter, err := otlpmetricgrpc.New(ctx, metricOpts...)
	if err != nil {
		_ = traceExporter.Shutdown(ctx)
		return nil, fmt.Errorf("create metric exporter: %w", err)
	}

	tracerProvider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(traceExporter),
		sdktrace.WithResource(res),
	)
	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)
	otel.SetTracerProvider(tracerProvider)
	otel.SetMeterProvider(meterProvider)

	log.Printf("[OTEL]: Exporting traces and metrics to %s as %s", cfg.Endpoint, cfg.ServiceName)

	return func(ctx context.Context) error {
		return errors.Join(
			tracerProvider.Shutdown(ctx),
			meterProvider.Shutdown(ctx),
		)
	}, nil
}

// Handler wraps h so every request gets a server span.
func Handler(h http.Handler, operation string, opts ...otelhttp.Option) http.Handler {
	return otelhttp.NewHandler(h, operation, opts...)
}

// Middleware counts requests per matched route pattern and names the
// active span after it. It has to run in front of the router dispatch.
func Middleware() gin.HandlerFunc {
	meter := otel.Meter(instrumentationName)
	requests, err := meter.Int64Counter("starter.requests",
		metric.WithDescription("Requests handled, by matched route pattern and status"),
		metric.WithUnit("{request}"))
	if err != nil {
		log.Printf("[OTEL]: Failed to create request counter: %v", err)
	}

	return func(c *gin.Context) {
		c.Next()

		pattern := router.MatchedPattern(c)
		route := pattern
		if route == "" {
			route = "unmatched"
		}

		if pattern != "" {
			span := trace.SpanFromContext(c.Request.Context())
			span.SetName(c.Request.Method + " " + pattern)
			span.SetAttributes(attribute.String("http.route", pattern))
		}

		if requests != nil {
			requests.Add(c.Request.Context(), 1, metric.WithAttributes(
				attribute.String("http.request.method", c.Request.Method),
				attribute.String("http.route", route),
				attribute.Int("http.response.status_code", c.Writer.Status()),
			))
		}
	}
}
