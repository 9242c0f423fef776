package tracing

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

// Config configures span emission for one discovery/conformance run.
type Config struct {
	Enabled        bool              `yaml:"enabled"`
	ServiceName    string            `yaml:"service_name"`
	ServiceVersion string            `yaml:"service_version"`
	Environment    string            `yaml:"environment"`
	Exporter       string            `yaml:"exporter"` // "otlp", "jaeger", or "console"
	Endpoint       string            `yaml:"endpoint"`
	SampleRate     float64           `yaml:"sample_rate"`
	BatchTimeout   time.Duration     `yaml:"batch_timeout"`
	MaxBatchSize   int               `yaml:"max_batch_size"`
	Headers        map[string]string `yaml:"headers"`
}

// DefaultConfig returns a disabled, otherwise sane tracing configuration.
func DefaultConfig() Config {
	return Config{
		Enabled:        false,
		ServiceName:    "pmcore",
		ServiceVersion: "v1.0.0",
		Environment:    "production",
		Exporter:       "otlp", // "otlp", "jaeger", or "console"
		Endpoint:       "http://localhost:4318/v1/traces",
		SampleRate:     1.0,
		BatchTimeout:   5 * time.Second,
		MaxBatchSize:   512,
		Headers:        make(map[string]string),
	}
}

// Manager owns the tracer provider for one process.
type Manager struct {
	config   Config
	logger   *logrus.Logger
	provider *trace.TracerProvider
	tracer   oteltrace.Tracer
}

// NewManager creates a tracing manager. With tracing disabled it
// returns a no-op tracer so callers never need a nil check.
func NewManager(config Config, logger *logrus.Logger) (*Manager, error) {
	if !config.Enabled {
		return &Manager{
			config: config,
			logger: logger,
			tracer: otel.Tracer("noop"),
		}, nil
	}

	m := &Manager{config: config, logger: logger}
	if err := m.initialize(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Manager) initialize() error {
	exporter, err := m.createExporter()
	if err != nil {
		return fmt.Errorf("failed to create trace exporter: %w", err)
	}

	res, err := m.createResource()
	if err != nil {
		return fmt.Errorf("failed to create trace resource: %w", err)
	}

	m.provider = trace.NewTracerProvider(
		trace.WithBatcher(exporter,
			trace.WithBatchTimeout(m.config.BatchTimeout),
			trace.WithMaxExportBatchSize(m.config.MaxBatchSize),
		),
		trace.WithResource(res),
		trace.WithSampler(trace.TraceIDRatioBased(m.config.SampleRate)),
	)

	otel.SetTracerProvider(m.provider)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	m.tracer = otel.Tracer(m.config.ServiceName)

	m.logger.WithFields(logrus.Fields{
		"service_name": m.config.ServiceName,
		"exporter":     m.config.Exporter,
		"endpoint":     m.config.Endpoint,
		"sample_rate":  m.config.SampleRate,
	}).Info("distributed tracing initialized")

	return nil
}

func (m *Manager) createExporter() (trace.SpanExporter, error) {
	switch m.config.Exporter {
	case "otlp":
		opts := []otlptracehttp.Option{
			otlptracehttp.WithEndpoint(m.config.Endpoint),
		}
		if len(m.config.Headers) > 0 {
			opts = append(opts, otlptracehttp.WithHeaders(m.config.Headers))
		}
		return otlptrace.New(context.Background(), otlptracehttp.NewClient(opts...))

	case "jaeger":
		return jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(m.config.Endpoint)))

	case "console":
		return otlptrace.New(context.Background(), otlptracehttp.NewClient(
			otlptracehttp.WithEndpoint("http://localhost:4318"),
			otlptracehttp.WithInsecure(),
		))

	default:
		return nil, fmt.Errorf("unsupported exporter: %s", m.config.Exporter)
	}
}

func (m *Manager) createResource() (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(m.config.ServiceName),
			semconv.ServiceVersion(m.config.ServiceVersion),
			semconv.DeploymentEnvironment(m.config.Environment),
		),
	)
}

// Tracer returns the tracer instance.
func (m *Manager) Tracer() oteltrace.Tracer {
	return m.tracer
}

// Shutdown flushes and stops the tracer provider.
func (m *Manager) Shutdown(ctx context.Context) error {
	if m.provider != nil {
		return m.provider.Shutdown(ctx)
	}
	return nil
}

// SpanContext wraps a context with its active span, for the phases of
// a discovery/conformance run (projection, DFG build, repair,
// candidate pruning, net assembly, OC-DECLARE discovery).
type SpanContext struct {
	ctx    context.Context
	span   oteltrace.Span
	tracer oteltrace.Tracer
}

// StartSpan begins a new span named after the phase.
func StartSpan(ctx context.Context, tracer oteltrace.Tracer, phase string) *SpanContext {
	ctx, span := tracer.Start(ctx, phase)
	return &SpanContext{ctx: ctx, span: span, tracer: tracer}
}

// Context returns the span-carrying context.
func (sc *SpanContext) Context() context.Context {
	return sc.ctx
}

// SetAttribute adds an attribute to the current span.
func (sc *SpanContext) SetAttribute(key string, value interface{}) {
	var attr attribute.KeyValue
	switch v := value.(type) {
	case string:
		attr = attribute.String(key, v)
	case int:
		attr = attribute.Int(key, v)
	case int64:
		attr = attribute.Int64(key, v)
	case float64:
		attr = attribute.Float64(key, v)
	case bool:
		attr = attribute.Bool(key, v)
	default:
		attr = attribute.String(key, fmt.Sprintf("%v", v))
	}
	sc.span.SetAttributes(attr)
}

// SetError records an error on the current span.
func (sc *SpanContext) SetError(err error) {
	if err != nil {
		sc.span.RecordError(err)
		sc.span.SetStatus(codes.Error, err.Error())
	}
}

// End finalizes the span.
func (sc *SpanContext) End() {
	sc.span.End()
}

// Child starts a nested span under this one.
func (sc *SpanContext) Child(phase string) *SpanContext {
	return StartSpan(sc.ctx, sc.tracer, phase)
}

// Phase wraps a single pipeline phase with a span, recording its error
// (if any) and marking the span Ok otherwise.
func Phase(ctx context.Context, tracer oteltrace.Tracer, name string, fn func(context.Context) error) error {
	sc := StartSpan(ctx, tracer, name)
	defer sc.End()

	start := time.Now()
	err := fn(sc.Context())
	sc.SetAttribute("duration_ms", time.Since(start).Milliseconds())

	if err != nil {
		sc.SetError(err)
		return err
	}
	sc.span.SetStatus(codes.Ok, "completed")
	return nil
}

// ExtractTraceInfo pulls the active trace/span ID pair off a context,
// for structured log correlation.
func ExtractTraceInfo(ctx context.Context) (traceID, spanID string) {
	span := oteltrace.SpanFromContext(ctx)
	if span.SpanContext().IsValid() {
		traceID = span.SpanContext().TraceID().String()
		spanID = span.SpanContext().SpanID().String()
	}
	return
}
