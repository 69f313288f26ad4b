package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"TargetCast/internal/domain/models"
	domsvc "TargetCast/internal/domain/service"
	"TargetCast/internal/services/lstm"
	"TargetCast/internal/usecase"

	"github.com/labstack/echo/v4"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

type seriesProvider struct {
	prices []float64
	coins  []string
}

func (p *seriesProvider) FetchHistory(_ context.Context, coinID string, _ int) ([]models.PriceSample, error) {
	p.coins = append(p.coins, coinID)
	out := make([]models.PriceSample, len(p.prices))
	for i, v := range p.prices {
		out[i] = models.PriceSample{Time: fixedNow.AddDate(0, 0, i-len(p.prices)), Price: v}
	}
	return out, nil
}

func newTestServer(prices []float64, built *int) *echo.Echo {
	e, _ := newTestServerWithProvider(prices, built)
	return e
}

func newTestServerWithProvider(prices []float64, built *int) (*echo.Echo, *seriesProvider) {
	prov := &seriesProvider{prices: prices}
	inner := lstm.Factory(lstm.Config{HiddenUnits: 4, Layers: 3, Epochs: 2, BatchSize: 8, Seed: 3})
	factory := func(w int) domsvc.SequencePredictor {
		*built++
		return inner(w)
	}
	orch := usecase.NewForecastOrchestrator(prov, factory,
		usecase.WithClock(func() time.Time { return fixedNow }))

	e := echo.New()
	NewPredictEchoHandler(nil, orch).RegisterRoutes(e)
	return e, prov
}

func get(e *echo.Echo, q url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/predict?"+q.Encode(), nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func linear(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

func errorOf(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (%s)", err, rec.Body.String())
	}
	return body.Error
}

func TestPredictSuccess(t *testing.T) {
	built := 0
	e, prov := newTestServerWithProvider(linear(60, 100), &built)
	rec := get(e, url.Values{"target_price": {"200"}, "target_date": {"2026-10-24"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, k := range []string{"current_price", "target_price", "target_date", "days_until_target", "predicted_prices",
		"max_predicted", "min_predicted", "avg_predicted", "probability_score", "price_change_needed_percent",
		"trend_direction", "daily_volatility", "trend_analysis", "analysis"} {
		if _, ok := body[k]; !ok {
			t.Fatalf("response missing %q: %s", k, rec.Body.String())
		}
	}

	var report models.ForecastReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if report.TargetPrice != 200 || report.DaysUntilTarget != 10 || report.TrendDirection != "upward" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if len(report.PredictedPrices) != 10 {
		t.Fatalf("expected 10 points, got %d", len(report.PredictedPrices))
	}
	for i := 1; i < len(report.PredictedPrices); i++ {
		if !report.PredictedPrices[i].Date.After(report.PredictedPrices[i-1].Date) {
			t.Fatalf("dates not increasing at %d", i)
		}
	}
	if !strings.Contains(string(body["predicted_prices"]), `["2026-10-15",`) {
		t.Fatalf("points not encoded as [date, price]: %s", body["predicted_prices"])
	}
	if built != 1 {
		t.Fatalf("expected one predictor, got %d", built)
	}
	if len(prov.coins) != 1 || prov.coins[0] != "bitcoin" {
		t.Fatalf("omitted coin_id should default to bitcoin, provider saw %v", prov.coins)
	}
}

func TestPredictResolvesCoinAlias(t *testing.T) {
	built := 0
	e, prov := newTestServerWithProvider(linear(60, 100), &built)
	rec := get(e, url.Values{"coin_id": {"ETH"}, "target_price": {"200"}, "target_date": {"2026-10-24"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if len(prov.coins) != 1 || prov.coins[0] != "ethereum" {
		t.Fatalf("expected ethereum, provider saw %v", prov.coins)
	}
}

func TestPredictClientErrors(t *testing.T) {
	built := 0
	e := newTestServer(linear(60, 100), &built)

	rec := get(e, url.Values{"target_date": {"2026-10-24"}})
	if rec.Code != http.StatusBadRequest || errorOf(t, rec) != missingParamsMessage {
		t.Fatalf("missing target_price: %d %s", rec.Code, rec.Body.String())
	}

	rec = get(e, url.Values{"target_price": {"200"}, "target_date": {"not-a-date"}})
	if rec.Code != http.StatusBadRequest || !strings.Contains(errorOf(t, rec), "YYYY-MM-DD") {
		t.Fatalf("bad date: %d %s", rec.Code, rec.Body.String())
	}

	rec = get(e, url.Values{"target_price": {"200"}})
	if rec.Code != http.StatusBadRequest || errorOf(t, rec) != missingParamsMessage {
		t.Fatalf("missing target_date: %d %s", rec.Code, rec.Body.String())
	}

	for _, price := range []string{"abc", "-5", "0"} {
		rec = get(e, url.Values{"target_price": {price}, "target_date": {"2026-10-24"}})
		if rec.Code != http.StatusBadRequest || errorOf(t, rec) != invalidPriceMessage {
			t.Fatalf("target_price=%s: %d %s", price, rec.Code, rec.Body.String())
		}
	}
	if built != 0 {
		t.Fatalf("predictor built for a rejected request")
	}
}

func TestPredictServerErrors(t *testing.T) {
	built := 0
	rec := get(newTestServer(linear(59, 100), &built), url.Values{"target_price": {"200"}, "target_date": {"2026-10-24"}})
	if rec.Code != http.StatusInternalServerError || !strings.Contains(errorOf(t, rec), "Insufficient historical data") {
		t.Fatalf("short history: %d %s", rec.Code, rec.Body.String())
	}
	if built != 0 {
		t.Fatalf("trained on insufficient history")
	}

	flat := make([]float64, 60)
	for i := range flat {
		flat[i] = 10
	}
	rec = get(newTestServer(flat, &built), url.Values{"target_price": {"20"}, "target_date": {"2026-10-24"}})
	if rec.Code != http.StatusInternalServerError || !strings.Contains(errorOf(t, rec), "flat") {
		t.Fatalf("flat series: %d %s", rec.Code, rec.Body.String())
	}

	built = 0
	zeroed := linear(60, 100)
	zeroed[59] = 0
	rec = get(newTestServer(zeroed, &built), url.Values{"target_price": {"200"}, "target_date": {"2026-10-24"}})
	if rec.Code != http.StatusInternalServerError || !strings.Contains(errorOf(t, rec), "Error processing API response") {
		t.Fatalf("zero close: %d %s", rec.Code, rec.Body.String())
	}
	if built != 0 {
		t.Fatalf("trained on a history with a zero close")
	}
}
