package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"TargetCast/internal/domain/models"
	domsvc "TargetCast/internal/domain/service"
	"TargetCast/internal/services/lstm"
)

var fixedNow = time.Date(2026, 10, 14, 9, 30, 0, 0, time.UTC)

type fakeProvider struct {
	prices []float64
	err    error
	coin   string
	days   int
}

func (p *fakeProvider) FetchHistory(_ context.Context, coinID string, days int) ([]models.PriceSample, error) {
	p.coin, p.days = coinID, days
	if p.err != nil {
		return nil, p.err
	}
	out := make([]models.PriceSample, len(p.prices))
	for i, v := range p.prices {
		out[i] = models.PriceSample{Time: fixedNow.AddDate(0, 0, i-len(p.prices)), Price: v}
	}
	return out, nil
}

type recordingSink struct {
	reports []*models.ForecastReport
	err     error
}

func (s *recordingSink) Record(_ context.Context, r *models.ForecastReport) error {
	s.reports = append(s.reports, r)
	return s.err
}

func (s *recordingSink) Close() error { return nil }

type recordingMetrics struct {
	forecasts []models.Kind
	errs      []string
}

func (m *recordingMetrics) RecordForecast(_ string, kind models.Kind) { m.forecasts = append(m.forecasts, kind) }
func (m *recordingMetrics) RecordError(kind string) { m.errs = append(m.errs, kind) }
func (m *recordingMetrics) RecordProbability(string, float64) {}
func (m *recordingMetrics) RecordLatency(string, float64) {}

func linear(n int, start float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)
	}
	return out
}

// countingFactory wraps a tiny LSTM and counts constructions.
func countingFactory(calls *int) domsvc.PredictorFactory {
	inner := lstm.Factory(lstm.Config{HiddenUnits: 4, Layers: 3, Dropout: 0.2, Epochs: 2, BatchSize: 8, Seed: 1})
	return func(w int) domsvc.SequencePredictor {
		*calls++
		return inner(w)
	}
}

func TestForecastLinearSeries(t *testing.T) {
	calls := 0
	prov := &fakeProvider{prices: linear(60, 100)}
	sink := &recordingSink{}
	m := &recordingMetrics{}
	o := NewForecastOrchestrator(prov, countingFactory(&calls),
		WithClock(func() time.Time { return fixedNow }),
		WithSink(sink),
		WithMetrics(m),
	)

	target := fixedNow.AddDate(0, 0, 10).Format(models.DateLayout)
	r, err := o.Forecast(context.Background(), ForecastRequest{CoinID: "BTC", TargetPrice: 200, TargetDate: target})
	if err != nil {
		t.Fatalf("forecast: %v", err)
	}
	if prov.coin != "bitcoin" || prov.days != 60 {
		t.Fatalf("provider called with %q %d", prov.coin, prov.days)
	}
	if calls != 1 {
		t.Fatalf("expected one fresh predictor, got %d", calls)
	}
	if r.DaysUntilTarget != 10 || len(r.PredictedPrices) != 10 {
		t.Fatalf("expected 10 days/points, got %d/%d", r.DaysUntilTarget, len(r.PredictedPrices))
	}
	if r.TrendDirection != models.DirectionUp || r.CurrentPrice != 159 || r.TargetPrice != 200 || r.TargetDate != target {
		t.Fatalf("unexpected report header: %+v", r)
	}
	for i, p := range r.PredictedPrices {
		want := time.Date(2026, 10, 15+i, 0, 0, 0, 0, time.UTC)
		if !p.Date.Equal(want) {
			t.Fatalf("point %d dated %v, want %v", i, p.Date, want)
		}
	}
	if r.ProbabilityScore < 0 || r.ProbabilityScore > 1 {
		t.Fatalf("probability out of range: %v", r.ProbabilityScore)
	}
	if r.MinPredicted > r.AvgPredicted || r.AvgPredicted > r.MaxPredicted {
		t.Fatalf("inconsistent summary: min %v avg %v max %v", r.MinPredicted, r.AvgPredicted, r.MaxPredicted)
	}
	if r.TrendAnalysis.LongTermTrend != "59.00%" || r.TrendAnalysis.ShortTermTrend != "3.92%" {
		t.Fatalf("unexpected trend strings: %+v", r.TrendAnalysis)
	}
	if r.Analysis.TimeFeasibility != "favorable" || r.Analysis.VolatilityLevel != "low" {
		t.Fatalf("unexpected analysis: %+v", r.Analysis)
	}
	if len(sink.reports) != 1 || sink.reports[0].CoinID != "bitcoin" {
		t.Fatalf("sink did not receive the report")
	}
	if len(m.forecasts) != 1 || m.forecasts[0] != "" {
		t.Fatalf("unexpected metrics: %+v", m.forecasts)
	}
}

func TestForecastInsufficientHistorySkipsTraining(t *testing.T) {
	calls := 0
	o := NewForecastOrchestrator(&fakeProvider{prices: linear(59, 100)}, countingFactory(&calls),
		WithClock(func() time.Time { return fixedNow }))

	_, err := o.Forecast(context.Background(), ForecastRequest{TargetPrice: 200, TargetDate: "2026-10-24"})
	if !errors.Is(err, models.ErrInsufficientData) {
		t.Fatalf("expected insufficient data, got %v", err)
	}
	if err.Error() != "Insufficient historical data. Got 59 days, need 60 days." {
		t.Fatalf("unexpected message %q", err)
	}
	if calls != 0 {
		t.Fatalf("predictor built despite short history")
	}
}

func TestForecastFailureKinds(t *testing.T) {
	flat := make([]float64, 60)
	for i := range flat {
		flat[i] = 42
	}
	type failureCase struct {
		name string
		prov *fakeProvider
		req  ForecastRequest
		want *models.Error
		msg  string
	}
	cases := []failureCase{
		{"bad date", &fakeProvider{prices: linear(60, 1)}, ForecastRequest{TargetPrice: 1, TargetDate: "not-a-date"}, models.ErrInvalidInput, "YYYY-MM-DD"},
		{"bad price", &fakeProvider{prices: linear(60, 1)}, ForecastRequest{TargetPrice: -5, TargetDate: "2026-10-20"}, models.ErrInvalidInput, "positive"},
		{"flat", &fakeProvider{prices: flat}, ForecastRequest{TargetPrice: 50, TargetDate: "2026-10-20"}, models.ErrDegenerateSeries, "flat"},
		{"provider", &fakeProvider{err: models.DataProviderFailure(nil, "API request failed with status code: 500")}, ForecastRequest{TargetPrice: 50, TargetDate: "2026-10-20"}, models.ErrDataProviderFailure, "status code: 500"},
	}
	for _, bad := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		prices := linear(60, 100)
		prices[59] = bad
		cases = append(cases, failureCase{fmt.Sprintf("bad close %g", bad), &fakeProvider{prices: prices}, ForecastRequest{TargetPrice: 200, TargetDate: "2026-10-20"}, models.ErrDataProviderFailure, "price 59 is"})
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			m := &recordingMetrics{}
			o := NewForecastOrchestrator(tc.prov, countingFactory(&calls),
				WithClock(func() time.Time { return fixedNow }), WithMetrics(m))
			_, err := o.Forecast(context.Background(), tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %s, got %v", tc.want.Kind, err)
			}
			if !strings.Contains(err.Error(), tc.msg) {
				t.Fatalf("error %q does not mention %q", err, tc.msg)
			}
			if calls != 0 {
				t.Fatalf("predictor built on a failing request")
			}
			if len(m.errs) != 1 || m.errs[0] != string(tc.want.Kind) {
				t.Fatalf("unexpected error metrics %v", m.errs)
			}
		})
	}
}

func TestForecastSinkFailureDoesNotFailRequest(t *testing.T) {
	calls := 0
	sink := &recordingSink{err: errors.New("broker down")}
	m := &recordingMetrics{}
	o := NewForecastOrchestrator(&fakeProvider{prices: linear(60, 100)}, countingFactory(&calls),
		WithClock(func() time.Time { return fixedNow }), WithSink(sink), WithMetrics(m))

	if _, err := o.Forecast(context.Background(), ForecastRequest{CoinID: "eth", TargetPrice: 120, TargetDate: "2026-10-01"}); err != nil {
		t.Fatalf("sink failure leaked into response: %v", err)
	}
	if len(m.errs) != 1 || m.errs[0] != "sink" {
		t.Fatalf("sink failure not counted: %v", m.errs)
	}
}
