package observability

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAPI("GET", "/x", "200", time.Millisecond)
	m.ObserveAggregateOperation("schema.mutate", "success", time.Millisecond)
	m.IncAggregateConflict("schema.mutate")
	m.IncAnswerValidationFailure("required")
	m.IncEventPublishFailure("section_updated")
	m.ObserveMigration("success", 3)
	if err := m.WritePrometheus(&bytes.Buffer{}); err != nil {
		t.Fatalf("nil write: %v", err)
	}
	rec := httptest.NewRecorder()
	m.WriteHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	if rec.Code != 503 {
		t.Fatalf("nil WriteHTTP: want=503 got=%d", rec.Code)
	}
}

func TestAggregateMetrics(t *testing.T) {
	m := NewMetrics()
	m.ObserveAggregateOperation("schema.mutate", "success", 20*time.Millisecond)
	m.ObserveAggregateOperation("schema.mutate", "success", 30*time.Millisecond)
	m.ObserveAggregateOperation("schema.mutate", "conflict", time.Millisecond)
	m.IncAggregateConflict("schema.mutate")
	m.IncAggregateRetry("")

	if got := m.aggregateOps.Value("schema.mutate", "success"); got != 2 {
		t.Fatalf("success ops: want=2 got=%v", got)
	}
	if got := m.aggregateLatency.Count("schema.mutate", "conflict"); got != 1 {
		t.Fatalf("conflict latency count: want=1 got=%d", got)
	}
	if got := m.aggregateConflicts.Value("schema.mutate"); got != 1 {
		t.Fatalf("conflicts: want=1 got=%v", got)
	}
	if got := m.aggregateRetries.Value("unknown"); got != 1 {
		t.Fatalf("blank op retries: want=1 got=%v", got)
	}
}

func TestWritePrometheusFormat(t *testing.T) {
	m := NewMetrics()
	m.ObserveAPI("POST", "/api/profile-types", "500", 40*time.Millisecond)
	m.IncAnswerValidationFailure("too_short")
	m.ObserveMigration("success", 4)

	var buf bytes.Buffer
	if err := m.WritePrometheus(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		"# TYPE pf_api_requests_total counter",
		`pf_api_requests_total{method="POST",route="/api/profile-types",status="500"} 1.000000`,
		`pf_api_request_duration_seconds_bucket{method="POST",route="/api/profile-types",status="500",le="0.05"} 1`,
		`pf_api_request_duration_seconds_bucket{method="POST",route="/api/profile-types",status="500",le="0.025"} 0`,
		"pf_api_requests_error_total 1.000000",
		`pf_answer_validation_failures_total{reason="too_short"} 1.000000`,
		"pf_users_recanonicalized_total 4.000000",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing line %q in output:\n%s", want, out)
		}
	}
}

func TestLabelEscaping(t *testing.T) {
	got := labelString([]string{"a", "b"}, []string{`x"y`})
	want := `{a="x\"y",b="unknown"}`
	if got != want {
		t.Fatalf("labelString: want=%s got=%s", want, got)
	}
	if got := withLe("", "+Inf"); got != `{le="+Inf"}` {
		t.Fatalf("withLe empty: got=%s", got)
	}
}
