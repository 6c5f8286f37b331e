package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mplads/internal/analytics"
	"mplads/internal/core"
	"mplads/internal/funds"
	"mplads/internal/sources"
)

const roadsLabel = "Construction of roads, link roads, pathways or any other road with or without drainage system"

func newTestServer(t *testing.T, opts Options) *Server {
	t.Helper()
	lok := funds.Normalize([]core.RawFundRecord{
		{"Hon'ble Member Of Parliament": "Shashi Tharoor", "Constituency": "Thiruvananthapuram", "Total Allocated Fund (Cr)": "17 Cr", "Fund Utilised (Cr)": "12 Cr", "% Utilised": "70.59%", "Rank": "2", "party": "INC"},
		{"Hon'ble Member Of Parliament": "K. Sudhakaran", "Constituency": "Kannur", "Total Allocated Fund (Cr)": "17 Cr", "Fund Utilised (Cr)": "15 Cr", "% Utilised": "88.24%", "Rank": "1", "party": "INC"},
	}, core.LokSabha)
	rajya := funds.Normalize([]core.RawFundRecord{
		{"name": "Dr. John Brittas (2021-27)", "constituency": "Kerala", "allocatedFund": "25 Cr", "utilisedFund": "5 Cr", "percentUtilised": "20%", "rank": 1, "party": "CPI(M)"},
	}, core.RajyaSabha)

	svc := analytics.NewService(sources.Static{Spending: map[string]core.RawSpendingProfile{
		"Dr. John Brittas (2021-27)": {
			House:            "Rajya Sabha",
			TotalExpenditure: 40000000,
			Breakdown: []core.RawBreakdownItem{
				{Label: "Street lights", Value: 10000000},
				{Label: roadsLabel, Value: 30000000},
			},
		},
		"Shashi Tharoor (2024-29)": {
			House:            "Lok Sabha",
			TotalExpenditure: 90000000,
			Breakdown: []core.RawBreakdownItem{
				{Label: roadsLabel, Value: 60000000},
			},
		},
	}}, nil)

	srv := NewServer(opts, funds.NewDataset(lok, rajya), svc)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return srv
}

func do(t *testing.T, srv *Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, target, nil))
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %s: %v", rr.Body.String(), err)
	}
	return v
}

type listResponse struct {
	Records []struct {
		Name             string  `json:"name"`
		House            string  `json:"house"`
		PercentValue     float64 `json:"percentValue"`
		PerformanceLevel string  `json:"performanceLevel"`
	} `json:"records"`
	Stats core.AggregateStats `json:"stats"`
}

func TestHealthAndReady(t *testing.T) {
	srv := newTestServer(t, Options{})
	for _, path := range []string{"/healthz", "/readyz"} {
		rr := do(t, srv, path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d body=%s", path, rr.Code, rr.Body.String())
		}
	}
}

func TestReadyReportsStoreFailure(t *testing.T) {
	srv := newTestServer(t, Options{Ping: func(context.Context) error { return errors.New("database is locked") }})
	rr := do(t, srv, "/readyz")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", rr.Code)
	}
	body := decode[ErrorBody](t, rr)
	if body.Status != http.StatusServiceUnavailable || !strings.Contains(body.Error, "store: database is locked") {
		t.Fatalf("body = %+v", body)
	}
	if cc := rr.Header().Get("Cache-Control"); cc != "no-store" {
		t.Fatalf("Cache-Control = %q", cc)
	}
}

func TestReadyWithoutRecords(t *testing.T) {
	svc := analytics.NewService(sources.Static{}, nil)
	srv := NewServer(Options{}, funds.NewDataset(nil, nil), svc)
	defer srv.Shutdown(context.Background())
	rr := do(t, srv, "/readyz")
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", rr.Code)
	}
	if body := decode[ErrorBody](t, rr); !strings.Contains(body.Error, "no fund records loaded") {
		t.Fatalf("body = %+v", body)
	}
}

func TestListMPs(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := do(t, srv, "/api/mps")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Fatalf("Content-Type = %q", ct)
	}
	got := decode[listResponse](t, rr)
	if len(got.Records) != 3 || got.Stats.TotalMPs != 3 {
		t.Fatalf("records=%d stats=%+v", len(got.Records), got.Stats)
	}
	if got.Records[0].House != "Lok Sabha" {
		t.Fatalf("lok sabha records come first, got %+v", got.Records[0])
	}

	rr = do(t, srv, "/api/mps?house=lok&sort=percent")
	got = decode[listResponse](t, rr)
	var names []string
	for _, r := range got.Records {
		names = append(names, r.Name)
	}
	if diff := cmp.Diff([]string{"K. Sudhakaran", "Shashi Tharoor"}, names); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	if got.Stats.TotalAllocated != 34 || got.Stats.TotalUtilised != 27 {
		t.Fatalf("stats = %+v", got.Stats)
	}

	rr = do(t, srv, "/api/mps?q="+url.QueryEscape("cpi(m)"))
	got = decode[listResponse](t, rr)
	if len(got.Records) != 1 || got.Records[0].Name != "Dr. John Brittas" {
		t.Fatalf("search result = %+v", got.Records)
	}
	if got.Records[0].PerformanceLevel != "low" {
		t.Fatalf("performance = %q", got.Records[0].PerformanceLevel)
	}
}

func TestListMPsIsCached(t *testing.T) {
	srv := newTestServer(t, Options{CacheTTL: time.Minute})

	first := do(t, srv, "/api/mps?house=rajya&sort=name")
	if first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first X-Cache = %q", first.Header().Get("X-Cache"))
	}
	second := do(t, srv, "/api/mps?sort=NAME&house=Rajya&utm=1")
	if second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("equivalent query should hit, X-Cache = %q", second.Header().Get("X-Cache"))
	}
	if first.Body.String() != second.Body.String() {
		t.Fatal("cached body differs")
	}
	if cc := second.Header().Get("Cache-Control"); cc != "public, max-age=60" {
		t.Fatalf("Cache-Control = %q", cc)
	}
}

func TestStats(t *testing.T) {
	srv := newTestServer(t, Options{})
	got := decode[funds.Overview](t, do(t, srv, "/api/mps/stats"))
	if got.Stats.TotalMPs != 3 || got.Houses.Lok.TotalMPs != 2 || got.Houses.Rajya.TotalMPs != 1 {
		t.Fatalf("overview = %+v", got)
	}
	if got.Utilization.Levels[core.PerformanceHigh] != 2 || got.Utilization.Levels[core.PerformanceLow] != 1 {
		t.Fatalf("levels = %+v", got.Utilization.Levels)
	}
}

func TestAnalyticsList(t *testing.T) {
	srv := newTestServer(t, Options{})

	all := decode[[]core.PersonListEntry](t, do(t, srv, "/api/analytics/mps"))
	if len(all) != 2 || all[0].DisplayName != "Shashi Tharoor" {
		t.Fatalf("list = %+v", all)
	}
	rajya := decode[[]core.PersonListEntry](t, do(t, srv, "/api/analytics/mps?house=rajya"))
	if len(rajya) != 1 || rajya[0].Name != "Dr. John Brittas (2021-27)" {
		t.Fatalf("rajya list = %+v", rajya)
	}
}

func TestAnalyticsProfile(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := do(t, srv, "/api/analytics/mps/"+url.PathEscape("Dr. John Brittas (2021-27)"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	got := decode[profileView](t, rr)
	if got.DisplayName != "Dr. John Brittas" || got.TotalCrores != "₹4.00 Cr" {
		t.Fatalf("profile = %+v", got)
	}
	want := []struct{ short, pct, color, icon string }{
		{"Roads & Connectivity", "75.0", "#3B82F6", analytics.IconTransport},
		{"Street Lights", "25.0", "#13ECB2", analytics.IconLighting},
	}
	if len(got.Breakdown) != len(want) {
		t.Fatalf("breakdown = %+v", got.Breakdown)
	}
	for i, w := range want {
		e := got.Breakdown[i]
		if e.ShortLabel != w.short || e.Percentage != w.pct || e.Color != w.color || e.Icon != w.icon {
			t.Errorf("entry %d = %+v, want %+v", i, e, w)
		}
	}
	if !strings.Contains(rr.Body.String(), "₹4.00 Cr") {
		t.Fatal("rupee sign should not be escaped")
	}
}

func TestAnalyticsProfileNotFound(t *testing.T) {
	srv := newTestServer(t, Options{})
	rr := do(t, srv, "/api/analytics/mps/Nobody")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
	body := decode[ErrorBody](t, rr)
	if body.Status != http.StatusNotFound || !strings.Contains(body.Error, "Nobody") {
		t.Fatalf("error body = %+v", body)
	}
}

func TestCompare(t *testing.T) {
	srv := newTestServer(t, Options{})

	rr := do(t, srv, "/api/analytics/compare?a="+url.QueryEscape("Dr. John Brittas (2021-27)")+"&b="+url.QueryEscape("Shashi Tharoor (2024-29)"))
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	got := decode[comparisonView](t, rr)
	if got.A == nil || got.B == nil || len(got.Categories) != 2 {
		t.Fatalf("comparison = %+v", got)
	}
	if got.Categories[0].Label != roadsLabel || got.Categories[0].Delta != -50 {
		t.Fatalf("first category = %+v", got.Categories[0])
	}

	rr = do(t, srv, "/api/analytics/compare?a="+url.QueryEscape("Dr. John Brittas (2021-27)")+"&b=Nobody")
	got = decode[comparisonView](t, rr)
	if got.A == nil || got.B != nil || len(got.Categories) != 0 {
		t.Fatalf("one-sided comparison = %+v", got)
	}

	if rr := do(t, srv, "/api/analytics/compare?a=x"); rr.Code != http.StatusBadRequest {
		t.Fatalf("missing b status=%d", rr.Code)
	}
}

func TestUnknownRouteAndMethod(t *testing.T) {
	srv := newTestServer(t, Options{})
	if rr := do(t, srv, "/nope"); rr.Code != http.StatusNotFound {
		t.Fatalf("status=%d", rr.Code)
	}
	rr := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/mps", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST status=%d", rr.Code)
	}
}

func TestMiddlewareChain(t *testing.T) {
	srv := newTestServer(t, Options{RateLimitPerMinute: 2})

	rr := do(t, srv, "/api/mps/stats")
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("missing X-Request-ID")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatal("missing security headers")
	}

	do(t, srv, "/api/mps/stats")
	rr = do(t, srv, "/api/mps/stats")
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("third request status=%d", rr.Code)
	}
	if body := decode[ErrorBody](t, rr); body.Status != http.StatusTooManyRequests {
		t.Fatalf("error body = %+v", body)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, Options{})
	do(t, srv, "/api/mps")
	do(t, srv, "/api/mps")

	rr := do(t, srv, "/metrics")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, want := range []string{
		`mplads_http_requests_total{code="200",method="GET",route="GET /api/mps"} 2`,
		"mplads_fund_records 3",
		"mplads_cache_hits_total 1",
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics missing %q", want)
		}
	}
}
