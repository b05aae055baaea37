package metrics

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	promclient "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// sessionStatuses are reported as a 0/1 gauge each so dashboards can plot the current one
var sessionStatuses = []string{"disconnected", "connecting", "connected"}

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *promclient.Registry
	collector     Collector

	meter            metric.Meter
	messagesGauge    metric.Int64ObservableGauge
	mediaGauge       metric.Int64ObservableGauge
	attemptsGauge    metric.Int64ObservableGauge
	sessionGauge     metric.Int64ObservableGauge
	deliveries       metric.Int64Counter
	deliveryDuration metric.Float64Histogram
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector) (*OTelExporter, error) {
	registry := promclient.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(meterProvider)

	meter := meterProvider.Meter(
		"whatsapp-relay",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.messagesGauge, err = oe.meter.Int64ObservableGauge(
		"relay.messages",
		metric.WithDescription("Number of logged messages per direction"),
		metric.WithUnit("{messages}"),
	)
	if err != nil {
		return fmt.Errorf("creating messages gauge: %w", err)
	}

	oe.mediaGauge, err = oe.meter.Int64ObservableGauge(
		"relay.media.files",
		metric.WithDescription("Number of logged messages carrying media"),
		metric.WithUnit("{files}"),
	)
	if err != nil {
		return fmt.Errorf("creating media gauge: %w", err)
	}

	oe.attemptsGauge, err = oe.meter.Int64ObservableGauge(
		"relay.webhook.attempts",
		metric.WithDescription("Number of recorded webhook delivery attempts"),
		metric.WithUnit("{attempts}"),
	)
	if err != nil {
		return fmt.Errorf("creating attempts gauge: %w", err)
	}

	oe.sessionGauge, err = oe.meter.Int64ObservableGauge(
		"relay.session.status",
		metric.WithDescription("1 for the current connection status of the messaging client"),
	)
	if err != nil {
		return fmt.Errorf("creating session gauge: %w", err)
	}

	// one Collect per scrape feeds every gauge
	_, err = oe.meter.RegisterCallback(oe.observe,
		oe.messagesGauge, oe.mediaGauge, oe.attemptsGauge, oe.sessionGauge)
	if err != nil {
		return fmt.Errorf("registering gauge callback: %w", err)
	}

	oe.deliveries, err = oe.meter.Int64Counter(
		"relay.webhook.deliveries",
		metric.WithDescription("Webhook deliveries by response status class"),
		metric.WithUnit("{deliveries}"),
	)
	if err != nil {
		return fmt.Errorf("creating deliveries counter: %w", err)
	}

	oe.deliveryDuration, err = oe.meter.Float64Histogram(
		"relay.webhook.delivery.duration",
		metric.WithDescription("Time spent on a webhook POST"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("creating delivery duration histogram: %w", err)
	}

	return nil
}

func (oe *OTelExporter) observe(ctx context.Context, observer metric.Observer) error {
	m, err := oe.collector.Collect(ctx)
	if err != nil {
		return err
	}

	observer.ObserveInt64(oe.messagesGauge, m.MessagesSent, metric.WithAttributes(
		attribute.String("direction", "sent"),
	))
	observer.ObserveInt64(oe.messagesGauge, m.MessagesReceived, metric.WithAttributes(
		attribute.String("direction", "received"),
	))
	observer.ObserveInt64(oe.mediaGauge, m.MediaFiles)
	observer.ObserveInt64(oe.attemptsGauge, m.WebhookEvents)

	for _, status := range sessionStatuses {
		var v int64
		if status == m.Session {
			v = 1
		}
		observer.ObserveInt64(oe.sessionGauge, v, metric.WithAttributes(
			attribute.String("session.status", status),
		))
	}

	return nil
}

// RecordDelivery counts one webhook POST and its latency
func (oe *OTelExporter) RecordDelivery(ctx context.Context, status int, elapsed time.Duration) {
	attrs := metric.WithAttributes(attribute.String("http.status_class", StatusClass(status)))
	oe.deliveries.Add(ctx, 1, attrs)
	oe.deliveryDuration.Record(ctx, elapsed.Seconds(), attrs)
}

// StatusClass maps 204 to "2xx"
func StatusClass(status int) string {
	if status < 100 || status > 599 {
		return "unknown"
	}
	return strconv.Itoa(status/100) + "xx"
}

// ServeHTTP serves Prometheus-formatted metrics
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
