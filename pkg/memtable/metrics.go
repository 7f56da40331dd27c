package memtable

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/dreamvrutik/vrootkv/pkg/telemetry"
)

// Metrics defines the telemetry hooks for MemTable operations.
type Metrics interface {
	RecordInsert(duration time.Duration, bytes int64, isDelete bool)
	RecordLookup(duration time.Duration, present bool)
}

type telemetryMetrics struct {
	tel telemetry.Telemetry
	ctx context.Context
}

// NewMetrics wraps a telemetry.Telemetry sink for MemTable instrumentation.
func NewMetrics(tel telemetry.Telemetry) Metrics {
	if tel == nil {
		return NewNoopMetrics()
	}
	return &telemetryMetrics{tel: tel, ctx: context.Background()}
}

func (m *telemetryMetrics) RecordInsert(duration time.Duration, bytes int64, isDelete bool) {
	op := telemetry.OpTypePut
	if isDelete {
		op = telemetry.OpTypeDelete
	}
	m.tel.RecordHistogram(m.ctx, "vrootkv.memtable.insert.duration", duration.Seconds(),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentMemTable),
		attribute.String(telemetry.AttrOperationType, op),
	)
	m.tel.RecordCounter(m.ctx, "vrootkv.memtable.insert.bytes", bytes,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentMemTable),
	)
}

func (m *telemetryMetrics) RecordLookup(duration time.Duration, present bool) {
	status := telemetry.StatusSuccess
	if !present {
		status = "miss"
	}
	m.tel.RecordHistogram(m.ctx, "vrootkv.memtable.lookup.duration", duration.Seconds(),
		attribute.String(telemetry.AttrComponent, telemetry.ComponentMemTable),
		attribute.String(telemetry.AttrStatus, status),
	)
}

type noopMetrics struct{}

// NewNoopMetrics returns a Metrics implementation that discards everything.
func NewNoopMetrics() Metrics { return noopMetrics{} }

func (noopMetrics) RecordInsert(time.Duration, int64, bool) {}
func (noopMetrics) RecordLookup(time.Duration, bool)        {}
