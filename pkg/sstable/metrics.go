package sstable

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dreamvrutik/vrootkv/pkg/telemetry"
)

// Metrics defines the telemetry hooks for SSTable read-path operations:
// the Bloom filter check that gates a lookup, and the data block fetch
// that follows when the filter doesn't rule the key out.
type Metrics interface {
	RecordFilterCheck(mayContain bool)
	RecordBlockFetch(duration time.Duration, bytes int64)
}

type telemetryMetrics struct {
	tel telemetry.Telemetry
	ctx context.Context
}

// NewMetrics wraps a telemetry.Telemetry sink for SSTable instrumentation.
func NewMetrics(tel telemetry.Telemetry) Metrics {
	if tel == nil {
		return NewNoopMetrics()
	}
	return &telemetryMetrics{tel: tel, ctx: context.Background()}
}

func (m *telemetryMetrics) RecordFilterCheck(mayContain bool) {
	result := "rejected"
	if mayContain {
		result = "passed"
	}
	m.tel.RecordCounter(m.ctx, "vrootkv.sstable.filter.checks", 1,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentSSTable),
		attribute.String(telemetry.AttrStatus, result),
	)
}

func (m *telemetryMetrics) RecordBlockFetch(duration time.Duration, bytes int64) {
	m.tel.RecordHistogram(m.ctx, "vrootkv.sstable.block.fetch.duration", duration.Seconds(),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentSSTable),
	)
	m.tel.RecordCounter(m.ctx, "vrootkv.sstable.block.fetch.bytes", bytes,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentSSTable),
	)
}

type noopMetrics struct{}

// NewNoopMetrics returns a Metrics implementation that discards everything.
func NewNoopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordFilterCheck(bool)                {}
func (noopMetrics) RecordBlockFetch(time.Duration, int64) {}
