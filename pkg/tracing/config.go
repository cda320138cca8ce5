package tracing

import (
	"crypto/tls"
	"time"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

type exporterKind int

const (
	exporterOTLPGRPC exporterKind = iota
	exporterOTLPHTTP
	exporterStdout
	exporterCustom
)

const (
	defaultEndpoint        = "localhost:4317"
	defaultBatchSize       = 512
	defaultBatchDelay      = 5 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds span-source configuration. Built via Options; zero values
// fall back to the defaults above.
type Config struct {
	ServiceVersion string
	Environment    string

	Exporter  exporterKind
	Endpoint  string
	Headers   map[string]string
	Insecure  bool
	TLSConfig *tls.Config

	Sampler    sdktrace.Sampler
	BatchSize  int
	BatchDelay time.Duration

	// RegisterGlobal installs the provider as the process-wide default.
	// Last registration wins; call New once at startup.
	RegisterGlobal bool

	// SpanExporter overrides the built-in exporters and is exported
	// synchronously (no batching). Meant for tests and in-memory capture.
	SpanExporter sdktrace.SpanExporter
}

// Option configures the span source.
type Option func(*Config)

// WithOTLPEndpoint exports spans over OTLP gRPC to the given "host:port".
func WithOTLPEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.Exporter = exporterOTLPGRPC
		c.Endpoint = endpoint
	}
}

// WithOTLPHTTPEndpoint exports spans over OTLP HTTP to the given "host:port".
func WithOTLPHTTPEndpoint(endpoint string) Option {
	return func(c *Config) {
		c.Exporter = exporterOTLPHTTP
		c.Endpoint = endpoint
	}
}

// WithStdout writes spans to stdout. Development only.
func WithStdout() Option {
	return func(c *Config) {
		c.Exporter = exporterStdout
	}
}

// WithSpanExporter uses a caller-supplied exporter with synchronous
// export. Meant for tests; see tracetest.NewInMemoryExporter.
func WithSpanExporter(exporter sdktrace.SpanExporter) Option {
	return func(c *Config) {
		c.Exporter = exporterCustom
		c.SpanExporter = exporter
	}
}

// WithHeaders sets headers sent with every OTLP export request.
func WithHeaders(headers map[string]string) Option {
	return func(c *Config) {
		c.Headers = headers
	}
}

// WithInsecure disables transport security for the OTLP connection.
// WARNING: only use in development environments.
func WithInsecure() Option {
	return func(c *Config) {
		c.Insecure = true
	}
}

// WithTLS sets a custom TLS configuration for the OTLP connection.
func WithTLS(tlsConfig *tls.Config) Option {
	return func(c *Config) {
		c.TLSConfig = tlsConfig
		c.Insecure = false
	}
}

// WithSampler sets a custom sampler. Defaults to AlwaysSample.
func WithSampler(sampler sdktrace.Sampler) Option {
	return func(c *Config) {
		c.Sampler = sampler
	}
}

// WithBatchSize sets the maximum span export batch size.
func WithBatchSize(size int) Option {
	return func(c *Config) {
		c.BatchSize = size
	}
}

// WithBatchDelay sets the delay between span export batches.
func WithBatchDelay(delay time.Duration) Option {
	return func(c *Config) {
		c.BatchDelay = delay
	}
}

// WithServiceVersion tags the resource with a service version.
func WithServiceVersion(version string) Option {
	return func(c *Config) {
		c.ServiceVersion = version
	}
}

// WithEnvironment tags the resource with a deployment environment.
func WithEnvironment(environment string) Option {
	return func(c *Config) {
		c.Environment = environment
	}
}

// WithGlobalRegistration controls whether the provider is installed as
// the process-wide default. Enabled by default.
func WithGlobalRegistration(register bool) Option {
	return func(c *Config) {
		c.RegisterGlobal = register
	}
}

func defaultConfig() *Config {
	return &Config{
		Exporter:       exporterOTLPGRPC,
		Endpoint:       defaultEndpoint,
		Sampler:        sdktrace.AlwaysSample(),
		BatchSize:      defaultBatchSize,
		BatchDelay:     defaultBatchDelay,
		RegisterGlobal: true,
	}
}
