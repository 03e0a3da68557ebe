package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"tenders/internal/metrics"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestInstrumentUsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	r := chi.NewRouter()
	r.Use(metrics.Instrument)
	r.Get("/api/tenders/{tenderId}/bids", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/tenders/abc/bids", nil)
	r.ServeHTTP(httptest.NewRecorder(), req)

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, mf := range families {
		if mf.GetName() != "http_requests_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["route"] == "/api/tenders/{tenderId}/bids" && labels["status"] == "418" {
				found = true
			}
		}
	}
	require.True(t, found)
}

func TestDomainCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	require.NoError(t, metrics.Register(reg))

	metrics.BidDecision("approved")
	metrics.TenderClosed(metrics.CauseApproval)

	count, err := testutil.GatherAndCount(reg, "tenders_bid_decisions_total", "tenders_tender_closures_total")
	require.NoError(t, err)
	require.Equal(t, 2, count)
}
