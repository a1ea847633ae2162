package prometheus

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	goGuard "github.com/MrEthical07/goGuard"
)

type fakeSource struct {
	snapshot goGuard.MetricsSnapshot
	dropped  uint64
}

func (f fakeSource) MetricsSnapshot() goGuard.MetricsSnapshot { return f.snapshot }
func (f fakeSource) AuditDropped() uint64                     { return f.dropped }

func TestRenderEmptyWhenMetricsDisabled(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goGuard.MetricsSnapshot{
			Counters:   map[goGuard.MetricID]uint64{},
			Histograms: map[goGuard.MetricID][]uint64{},
		},
		dropped: 0,
	})

	if got := exp.Render(); got != "" {
		t.Fatalf("expected empty output for disabled metrics, got:\n%s", got)
	}
}

func TestRenderIncludesCounterAndHistogram(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goGuard.MetricsSnapshot{
			Counters: map[goGuard.MetricID]uint64{
				goGuard.MetricCanCallAllowed: 7,
			},
			Histograms: map[goGuard.MetricID][]uint64{
				goGuard.MetricCanCallLatency: {1, 2, 3, 4, 5, 6, 7, 8},
			},
		},
		dropped: 2,
	})

	out := exp.Render()
	if !strings.Contains(out, "goguard_cancall_allowed_total 7") {
		t.Fatalf("expected allowed counter in output, got:\n%s", out)
	}
	if !strings.Contains(out, "goguard_cancall_latency_microseconds_bucket{le=\"1\"} 1") {
		t.Fatalf("expected first histogram bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "goguard_cancall_latency_microseconds_bucket{le=\"+Inf\"} 36") {
		t.Fatalf("expected +Inf cumulative bucket in output, got:\n%s", out)
	}
	if !strings.Contains(out, "goguard_audit_dropped_total 2") {
		t.Fatalf("expected audit dropped counter in output, got:\n%s", out)
	}
}

func TestHandlerServesTextFormat(t *testing.T) {
	exp := NewPrometheusExporterFromSource(fakeSource{
		snapshot: goGuard.MetricsSnapshot{
			Counters: map[goGuard.MetricID]uint64{
				goGuard.MetricCanCallDenied: 3,
			},
			Histograms: map[goGuard.MetricID][]uint64{},
		},
	})

	srv := httptest.NewServer(exp.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if got := resp.Header.Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Fatalf("unexpected content type %q", got)
	}
}
