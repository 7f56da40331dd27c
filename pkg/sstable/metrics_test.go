package sstable

import (
	"testing"

	"github.com/dreamvrutik/vrootkv/pkg/fileio"
	"github.com/dreamvrutik/vrootkv/pkg/telemetry"
)

func TestReaderRecordsMetricsThroughTelemetryProvider(t *testing.T) {
	files := fileio.NewMemFileManager()
	path := "/data/table-metrics.sstable"
	buildTable(t, files, path, [][2]string{{"a", "1"}, {"b", "2"}}, WithBlockSize(1))

	r, err := Open(files, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	r.SetMetrics(NewMetrics(telemetry.NewForTesting()))

	if _, err := r.Get([]byte("a")); err != nil {
		t.Fatalf("get a: %v", err)
	}
	if _, err := r.Get([]byte("missing")); err != ErrNotFound {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestReaderSetMetricsFallsBackToNoopOnNil(t *testing.T) {
	files := fileio.NewMemFileManager()
	path := "/data/table-metrics-nil.sstable"
	buildTable(t, files, path, [][2]string{{"a", "1"}}, WithBlockSize(1))

	r, err := Open(files, path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	r.SetMetrics(nil)
	if _, err := r.Get([]byte("a")); err != nil {
		t.Fatalf("get a: %v", err)
	}
}
