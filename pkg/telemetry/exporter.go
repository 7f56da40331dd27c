// ABOUTME: OpenTelemetry exporter factory for creating metric and trace exporters (Prometheus, stdout)
// ABOUTME: Handles configuration and creation of the export destinations this module actually wires up

package telemetry

import (
	"fmt"

	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/trace"
)

// createMetricReaders builds one metric.Reader per configured exporter.
// Prometheus is pull-based and implements Reader directly; push exporters
// like stdout are wrapped in a PeriodicReader.
func createMetricReaders(cfg Config) ([]metric.Reader, error) {
	var readers []metric.Reader

	for _, exporterName := range cfg.Exporters {
		switch exporterName {
		case "prometheus":
			reader, err := createPrometheusExporter()
			if err != nil {
				return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
			}
			readers = append(readers, reader)

		case "stdout":
			exporter, err := createStdoutMetricExporter()
			if err != nil {
				return nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
			}
			readers = append(readers, metric.NewPeriodicReader(exporter))

		default:
			// otlp/jaeger carry no metric exporter in this build; a trace-only
			// exporter name simply contributes nothing here.
			continue
		}
	}

	if len(readers) == 0 {
		exporter, err := createStdoutMetricExporter()
		if err != nil {
			return nil, fmt.Errorf("failed to create default stdout metric exporter: %w", err)
		}
		readers = append(readers, metric.NewPeriodicReader(exporter))
	}

	return readers, nil
}

// createTraceExporters creates trace exporters based on configuration.
//
// otlp and jaeger remain accepted exporter names by Config.Validate (a
// caller configuring a future collector shouldn't have its config rejected
// today), but this build carries no gRPC/Jaeger transport, so they fall
// through to the stdout default below rather than producing a trace
// exporter of their own.
func createTraceExporters(cfg Config) ([]trace.SpanExporter, error) {
	var exporters []trace.SpanExporter

	for _, exporterName := range cfg.Exporters {
		switch exporterName {
		case "stdout":
			exporter, err := createStdoutTraceExporter()
			if err != nil {
				return nil, fmt.Errorf("failed to create stdout trace exporter: %w", err)
			}
			exporters = append(exporters, exporter)

		default:
			continue
		}
	}

	if len(exporters) == 0 {
		exporter, err := createStdoutTraceExporter()
		if err != nil {
			return nil, fmt.Errorf("failed to create default stdout trace exporter: %w", err)
		}
		exporters = append(exporters, exporter)
	}

	return exporters, nil
}

// createPrometheusExporter creates a Prometheus metrics exporter. Unlike the
// periodic exporter below, Prometheus's pull model means the returned value
// is itself a metric.Reader, scraped over HTTP rather than pushed on a timer.
func createPrometheusExporter() (metric.Reader, error) {
	return otelprometheus.New()
}

// createStdoutMetricExporter creates a stdout metrics exporter.
func createStdoutMetricExporter() (metric.Exporter, error) {
	return stdoutmetric.New(
		stdoutmetric.WithPrettyPrint(),
	)
}

// createStdoutTraceExporter creates a stdout trace exporter.
func createStdoutTraceExporter() (trace.SpanExporter, error) {
	return stdouttrace.New(
		stdouttrace.WithPrettyPrint(),
	)
}
