package tracing

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc/credentials"
)

// instrumentationName is the fixed scope every tracer returned by New is
// bound to.
const instrumentationName = "github.com/updraft-go/updraft/pkg/tracing"

// ShutdownFunc flushes pending spans and shuts the provider down. Call it
// before process exit so the exporter drains.
type ShutdownFunc func(context.Context) error

// New builds the span pipeline and returns a ready-to-use tracer:
// exporter per the options, a resource tagged with serviceName, a batch
// span processor, and (by default) process-wide provider registration
// with W3C trace-context propagation.
//
// NOTE: global registration is last-wins. Creating multiple instances
// overrides the process-wide provider; call New once at startup. For
// isolated tracers use WithGlobalRegistration(false).
func New(ctx context.Context, serviceName string, opts ...Option) (trace.Tracer, ShutdownFunc, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	if serviceName == "" {
		return nil, nil, errors.New("tracing: serviceName cannot be empty")
	}
	if cfg.BatchSize <= 0 {
		return nil, nil, errors.New("tracing: batch size must be greater than 0")
	}
	if cfg.BatchDelay <= 0 {
		return nil, nil, errors.New("tracing: batch delay must be greater than 0")
	}

	exporter, err := buildExporter(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	res, err := buildResource(serviceName, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("tracing: build resource: %w", err)
	}

	providerOpts := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(res),
	}
	if cfg.Exporter == exporterCustom {
		providerOpts = append(providerOpts, sdktrace.WithSyncer(exporter))
	} else {
		providerOpts = append(providerOpts, sdktrace.WithBatcher(exporter,
			sdktrace.WithMaxExportBatchSize(cfg.BatchSize),
			sdktrace.WithBatchTimeout(cfg.BatchDelay),
		))
	}
	if cfg.Sampler != nil {
		providerOpts = append(providerOpts, sdktrace.WithSampler(cfg.Sampler))
	}

	provider := sdktrace.NewTracerProvider(providerOpts...)

	if cfg.RegisterGlobal {
		otel.SetTracerProvider(provider)
		otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
			propagation.TraceContext{},
			propagation.Baggage{},
		))
	}

	return provider.Tracer(instrumentationName), newShutdown(provider), nil
}

func buildExporter(ctx context.Context, cfg *Config) (sdktrace.SpanExporter, error) {
	switch cfg.Exporter {
	case exporterOTLPGRPC:
		grpcOpts := []otlptracegrpc.Option{
			otlptracegrpc.WithEndpoint(cfg.Endpoint),
		}
		if len(cfg.Headers) > 0 {
			grpcOpts = append(grpcOpts, otlptracegrpc.WithHeaders(cfg.Headers))
		}
		switch {
		case cfg.Insecure:
			grpcOpts = append(grpcOpts, otlptracegrpc.WithInsecure())
		case cfg.TLSConfig != nil:
			grpcOpts = append(grpcOpts, otlptracegrpc.WithTLSCredentials(credentials.NewTLS(cfg.TLSConfig)))
		default:
			grpcOpts = append(grpcOpts, otlptracegrpc.WithTLSCredentials(credentials.NewClientTLSFromCert(nil, "")))
		}
		exporter, err := otlptracegrpc.New(ctx, grpcOpts...)
		if err != nil {
			return nil, fmt.Errorf("tracing: initialize otlp grpc exporter: %w", err)
		}
		return exporter, nil

	case exporterOTLPHTTP:
		httpOpts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(cfg.Endpoint),
		}
		if len(cfg.Headers) > 0 {
			httpOpts = append(httpOpts, otlptracehttp.WithHeaders(cfg.Headers))
		}
		if cfg.Insecure {
			httpOpts = append(httpOpts, otlptracehttp.WithInsecure())
		} else if cfg.TLSConfig != nil {
			httpOpts = append(httpOpts, otlptracehttp.WithTLSClientConfig(cfg.TLSConfig))
		}
		exporter, err := otlptracehttp.New(ctx, httpOpts...)
		if err != nil {
			return nil, fmt.Errorf("tracing: initialize otlp http exporter: %w", err)
		}
		return exporter, nil

	case exporterStdout:
		exporter, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
		if err != nil {
			return nil, fmt.Errorf("tracing: initialize stdout exporter: %w", err)
		}
		return exporter, nil

	case exporterCustom:
		if cfg.SpanExporter == nil {
			return nil, errors.New("tracing: custom exporter cannot be nil")
		}
		return cfg.SpanExporter, nil

	default:
		return nil, fmt.Errorf("tracing: unknown exporter kind %d", cfg.Exporter)
	}
}

func buildResource(serviceName string, cfg *Config) (*resource.Resource, error) {
	host, _ := os.Hostname()

	attrs := []attribute.KeyValue{
		semconv.ServiceName(serviceName),
		semconv.HostName(host),
	}
	if cfg.ServiceVersion != "" {
		attrs = append(attrs, semconv.ServiceVersion(cfg.ServiceVersion))
	}
	if cfg.Environment != "" {
		attrs = append(attrs, semconv.DeploymentEnvironmentName(cfg.Environment))
	}

	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(semconv.SchemaURL, attrs...),
	)
}

func newShutdown(provider *sdktrace.TracerProvider) ShutdownFunc {
	return func(ctx context.Context) error {
		if _, hasDeadline := ctx.Deadline(); !hasDeadline {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, defaultShutdownTimeout)
			defer cancel()
		}

		flushErr := provider.ForceFlush(ctx)
		if err := provider.Shutdown(ctx); err != nil {
			return fmt.Errorf("tracing: shutdown provider: %w", err)
		}
		if flushErr != nil {
			return fmt.Errorf("tracing: flush spans: %w", flushErr)
		}
		return nil
	}
}
