// Package metrics wires OpenTelemetry metrics with an OTLP/HTTP exporter.
package metrics

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"go-marketplace/config"
)

// AppMetrics holds the application's instruments. A nil *AppMetrics is a
// valid no-op recorder, so code paths under test need no metrics setup.
type AppMetrics struct {
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram

	OrdersCreated      metric.Int64Counter
	RevenueTotal       metric.Float64Counter
	CouponsRedeemed    metric.Int64Counter
	PaymentsReconciled metric.Int64Counter
}

// Init sets up the OTLP exporter, registers the global meter provider and
// creates the application instruments. The returned provider must be shut
// down on exit to flush pending exports.
func Init(ctx context.Context, cfg *config.Config) (*AppMetrics, *sdkmetric.MeterProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(cfg.ServiceName),
			attribute.String("deployment.environment", cfg.AppEnv),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("creating resource: %w", err)
	}

	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.OTLPEndpoint),
	}
	if cfg.OTLPInsecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("creating OTLP exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter,
			sdkmetric.WithInterval(10*time.Second),
		)),
	)
	otel.SetMeterProvider(provider)
	meter := provider.Meter(cfg.ServiceName)

	m := &AppMetrics{}
	if m.HTTPRequestsTotal, err = meter.Int64Counter("http_requests_total",
		metric.WithDescription("Total HTTP requests")); err != nil {
		return nil, nil, err
	}
	if m.HTTPRequestDuration, err = meter.Float64Histogram("http_request_duration_seconds",
		metric.WithDescription("HTTP request latency"), metric.WithUnit("s")); err != nil {
		return nil, nil, err
	}
	if m.OrdersCreated, err = meter.Int64Counter("orders_created_total",
		metric.WithDescription("Orders created at checkout")); err != nil {
		return nil, nil, err
	}
	if m.RevenueTotal, err = meter.Float64Counter("revenue_total",
		metric.WithDescription("Payable amounts of created checkout sessions")); err != nil {
		return nil, nil, err
	}
	if m.CouponsRedeemed, err = meter.Int64Counter("coupons_redeemed_total",
		metric.WithDescription("Coupons consumed by completed payments")); err != nil {
		return nil, nil, err
	}
	if m.PaymentsReconciled, err = meter.Int64Counter("payments_reconciled_total",
		metric.WithDescription("Payment status updates applied")); err != nil {
		return nil, nil, err
	}
	return m, provider, nil
}

// RecordRequest records one handled HTTP request.
func (m *AppMetrics) RecordRequest(ctx context.Context, route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("route", route),
		attribute.String("method", method),
		attribute.Int("status", status),
	)
	m.HTTPRequestsTotal.Add(ctx, 1, attrs)
	m.HTTPRequestDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// OrderCreated records a created checkout order and its payable amount.
func (m *AppMetrics) OrderCreated(ctx context.Context, payable float64) {
	if m == nil {
		return
	}
	m.OrdersCreated.Add(ctx, 1)
	m.RevenueTotal.Add(ctx, payable)
}

// CouponRedeemed records an exactly-once coupon consumption.
func (m *AppMetrics) CouponRedeemed(ctx context.Context) {
	if m == nil {
		return
	}
	m.CouponsRedeemed.Add(ctx, 1)
}

// PaymentReconciled records an applied payment status update.
func (m *AppMetrics) PaymentReconciled(ctx context.Context, paymentStatus string) {
	if m == nil {
		return
	}
	m.PaymentsReconciled.Add(ctx, 1,
		metric.WithAttributes(attribute.String("payment_status", paymentStatus)))
}
