package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/prodtrack/auth-service/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

type AppMetrics struct {
	registerCounter        metric.Int64Counter
	loginCounter           metric.Int64Counter
	tokenValidationCounter metric.Int64Counter
	authReqDuration        metric.Float64Histogram
	rateLimitCounter       metric.Int64Counter
	dbStartupDuration      metric.Float64Histogram
	healthCheckCounter     metric.Int64Counter
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "auth.request.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter("auth-service")
	m := &AppMetrics{}
	if m.registerCounter, err = meter.Int64Counter("auth.register.attempts"); err != nil {
		return nil, err
	}
	if m.loginCounter, err = meter.Int64Counter("auth.login.attempts"); err != nil {
		return nil, err
	}
	if m.tokenValidationCounter, err = meter.Int64Counter("auth.token.validation.events"); err != nil {
		return nil, err
	}
	if m.authReqDuration, err = meter.Float64Histogram("auth.request.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.rateLimitCounter, err = meter.Int64Counter("http.rate_limit.decisions"); err != nil {
		return nil, err
	}
	if m.dbStartupDuration, err = meter.Float64Histogram("db.startup.duration", metric.WithUnit("s")); err != nil {
		return nil, err
	}
	if m.healthCheckCounter, err = meter.Int64Counter("health.check.results"); err != nil {
		return nil, err
	}

	metricsMu.Lock()
	appMetrics = m
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

func currentMetrics() *AppMetrics {
	metricsMu.RLock()
	defer metricsMu.RUnlock()
	return appMetrics
}

func RecordAuthRegister(ctx context.Context, status string) {
	if m := currentMetrics(); m != nil {
		m.registerCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordAuthLogin(ctx context.Context, status string) {
	if m := currentMetrics(); m != nil {
		m.loginCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
	}
}

func RecordTokenValidation(ctx context.Context, result string) {
	if m := currentMetrics(); m != nil {
		m.tokenValidationCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
	}
}

func RecordAuthRequestDuration(ctx context.Context, operation, status string, d time.Duration) {
	if m := currentMetrics(); m != nil {
		m.authReqDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		))
	}
}

func RecordRateLimitDecision(ctx context.Context, scope, decision string) {
	if m := currentMetrics(); m != nil {
		m.rateLimitCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("scope", scope),
			attribute.String("decision", decision),
		))
	}
}

func RecordDatabaseStartupDuration(ctx context.Context, step string, d time.Duration) {
	if m := currentMetrics(); m != nil {
		m.dbStartupDuration.Record(ctx, d.Seconds(), metric.WithAttributes(attribute.String("step", step)))
	}
}

func RecordHealthCheck(ctx context.Context, name string, healthy bool) {
	if m := currentMetrics(); m != nil {
		m.healthCheckCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("check", name),
			attribute.Bool("healthy", healthy),
		))
	}
}
