package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCounter(t *testing.T) {
	r := New()
	c := r.Counter("extractions_total", "Total extractions.")
	c.Inc()
	c.Add(4)
	if c.Value() != 5 {
		t.Fatalf("Value = %d, want 5", c.Value())
	}
	if again := r.Counter("extractions_total", ""); again != c {
		t.Error("Counter should return the existing instance")
	}
}

func TestGauge(t *testing.T) {
	r := New()
	g := r.Gauge("catalog_makes", "Loaded makes.")
	g.Set(40)
	g.Inc()
	g.Dec()
	if g.Value() != 40 {
		t.Fatalf("Value = %d, want 40", g.Value())
	}
}

func TestHistogramBuckets(t *testing.T) {
	r := New()
	h := r.Histogram("extract_seconds", "Extraction latency.", []float64{0.1, 1, 10})
	h.Observe(0.05)
	h.Observe(0.5)
	h.Observe(100)

	out := r.Render()
	for _, want := range []string{
		`extract_seconds_bucket{le="0.1"} 1`,
		`extract_seconds_bucket{le="1"} 2`,
		`extract_seconds_bucket{le="10"} 2`,
		`extract_seconds_bucket{le="+Inf"} 3`,
		`extract_seconds_count 3`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTypesAndHelp(t *testing.T) {
	r := New()
	r.Counter("requests_total", "Total requests.").Inc()
	r.Gauge("up", "").Set(1)

	out := r.Render()
	for _, want := range []string{
		"# HELP requests_total Total requests.",
		"# TYPE requests_total counter",
		"requests_total 1",
		"# TYPE up gauge",
		"up 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Render missing %q:\n%s", want, out)
		}
	}
}

func TestWithLabels(t *testing.T) {
	if got := WithLabels("hits", "make", "bmw"); got != `hits{make="bmw"}` {
		t.Errorf("WithLabels = %q", got)
	}
	if got := WithLabels("hits", "odd"); got != "hits" {
		t.Errorf("odd label pairs should be ignored, got %q", got)
	}
}

func TestLabeledCounterLines(t *testing.T) {
	r := New()
	r.Counter(WithLabels("hits", "make", "bmw"), "Hits by make.").Add(2)
	r.Counter(WithLabels("hits", "make", "toyota"), "").Inc()

	out := r.Render()
	if !strings.Contains(out, `hits{make="bmw"} 2`) || !strings.Contains(out, `hits{make="toyota"} 1`) {
		t.Fatalf("Render:\n%s", out)
	}
	if strings.Count(out, "# TYPE hits counter") != 1 {
		t.Error("labeled series must share one TYPE line")
	}
}

func TestHandler(t *testing.T) {
	r := New()
	r.Counter("ping", "").Inc()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q", ct)
	}
	if !strings.Contains(rec.Body.String(), "ping 1") {
		t.Errorf("body = %q", rec.Body.String())
	}
}
