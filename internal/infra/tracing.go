package infra

import (
	"context"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.4.0"
	"go.uber.org/fx"

	"github.com/lottopro/backend/internal/app/appconfig"
	"github.com/lottopro/backend/internal/pkg/bininfo"
	"github.com/lottopro/backend/internal/pkg/observability"
)

// TracerProvider sets up OTLP span export. It returns nil when tracing is disabled.
func TracerProvider(lc fx.Lifecycle, conf *appconfig.Config) (*sdktrace.TracerProvider, error) {
	if !conf.TracingEnabled {
		return nil, nil
	}

	exporter, err := newSpanExporter(conf)
	if err != nil {
		log.Error().Err(err).Msg("infra: tracing: failed to create span exporter")
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(conf.TracingSampleRate))),
		sdktrace.WithResource(resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(observability.ServiceName),
			semconv.ServiceVersionKey.String(bininfo.Version),
			attribute.Bool("dev_mode", conf.DevMode),
		)),
	)
	otel.SetTracerProvider(tp)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return tp.Shutdown(ctx)
		},
	})

	return tp, nil
}

// newSpanExporter prints spans to stdout in dev mode and ships them over OTLP
// otherwise. The OTLP endpoint is read from the standard OTEL_EXPORTER_OTLP_*
// environment variables.
func newSpanExporter(conf *appconfig.Config) (sdktrace.SpanExporter, error) {
	if conf.DevMode {
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	}
	return otlptracegrpc.New(context.Background())
}
