package wal

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dreamvrutik/vrootkv/pkg/telemetry"
)

// Metrics defines the telemetry hooks for WAL operations. Implementations
// must be safe to call with a nil background context.
type Metrics interface {
	RecordAppend(duration time.Duration, bytes int64, recordType string)
	RecordSync(duration time.Duration, forced bool)
	RecordBatch(duration time.Duration, opCount int, totalBytes int64)
	RecordRecoveryHalt(reason string)
}

type telemetryMetrics struct {
	tel telemetry.Telemetry
	ctx context.Context
}

// NewMetrics wraps a telemetry.Telemetry sink for WAL instrumentation.
func NewMetrics(tel telemetry.Telemetry) Metrics {
	if tel == nil {
		return NewNoopMetrics()
	}
	return &telemetryMetrics{tel: tel, ctx: context.Background()}
}

func (m *telemetryMetrics) RecordAppend(duration time.Duration, bytes int64, recordType string) {
	m.tel.RecordHistogram(m.ctx, "vrootkv.wal.append.duration", duration.Seconds(),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentWAL),
		attribute.String(telemetry.AttrOperationType, recordType),
	)
	m.tel.RecordCounter(m.ctx, "vrootkv.wal.append.bytes", bytes,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentWAL),
	)
}

func (m *telemetryMetrics) RecordSync(duration time.Duration, forced bool) {
	m.tel.RecordHistogram(m.ctx, "vrootkv.wal.sync.duration", duration.Seconds(),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentWAL),
		attribute.Bool("forced", forced),
	)
}

func (m *telemetryMetrics) RecordBatch(duration time.Duration, opCount int, totalBytes int64) {
	m.tel.RecordHistogram(m.ctx, "vrootkv.wal.batch.duration", duration.Seconds(),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentWAL),
	)
	m.tel.RecordCounter(m.ctx, "vrootkv.wal.batch.operations", int64(opCount),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentWAL),
	)
	m.tel.RecordCounter(m.ctx, "vrootkv.wal.batch.bytes", totalBytes,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentWAL),
	)
}

func (m *telemetryMetrics) RecordRecoveryHalt(reason string) {
	m.tel.RecordCounter(m.ctx, "vrootkv.wal.recovery.halt", 1,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentWAL),
		attribute.String(telemetry.AttrReason, reason),
	)
}

type noopMetrics struct{}

// NewNoopMetrics returns a Metrics implementation that discards everything.
func NewNoopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordAppend(time.Duration, int64, string) {}
func (noopMetrics) RecordSync(time.Duration, bool)            {}
func (noopMetrics) RecordBatch(time.Duration, int, int64)     {}
func (noopMetrics) RecordRecoveryHalt(string)                 {}
