package metrics_test

import (
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Paintersrp/rip/internal/metrics"
)

func TestRegistryExposesMetrics(t *testing.T) {
	metrics.EmitBuildInfo()
	metrics.ObserveSnapshot(15*time.Millisecond, 42)
	metrics.IncSnapshotError()
	metrics.ObserveSignal("TERM", true)
	metrics.ObserveSignal("TERM", false)
	metrics.ObserveSignal("TERM", false)

	req := httptest.NewRequest("GET", "/metrics", nil)
	rec := httptest.NewRecorder()
	promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{}).ServeHTTP(rec, req)

	if rec.Code != 200 {
		t.Fatalf("unexpected status code from metrics handler: %d", rec.Code)
	}

	body := rec.Body.String()
	for _, line := range []string{
		"rip_snapshot_processes 42",
		`rip_signals_total{result="failed",signal="TERM"} 2`,
		`rip_signals_total{result="ok",signal="TERM"} 1`,
		"rip_snapshot_duration_seconds_count 1",
	} {
		if !strings.Contains(body, line) {
			t.Fatalf("expected metric line %q in body:\n%s", line, body)
		}
	}
	if !strings.Contains(body, "rip_build_info{") {
		t.Fatalf("expected build info metric in body:\n%s", body)
	}
}

func TestWriteTextfile(t *testing.T) {
	if err := metrics.WriteTextfile(""); err != nil {
		t.Fatalf("empty path should be a no-op: %v", err)
	}

	path := filepath.Join(t.TempDir(), "rip.prom")
	metrics.IncSnapshotError()
	if err := metrics.WriteTextfile(path); err != nil {
		t.Fatalf("write textfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read textfile: %v", err)
	}
	if !strings.Contains(string(data), "rip_snapshot_errors_total") {
		t.Fatalf("expected snapshot error counter in textfile:\n%s", data)
	}
}
