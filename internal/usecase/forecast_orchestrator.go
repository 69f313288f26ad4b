package usecase

import (
	"context"
	"fmt"
	"math"
	"time"

	"TargetCast/internal/domain/models"
	domrepo "TargetCast/internal/domain/repository"
	domsvc "TargetCast/internal/domain/service"
	"TargetCast/internal/repository"
	"TargetCast/internal/services/forecast"
	applogger "TargetCast/pkg/logger"
	"TargetCast/pkg/metrics"
	xutil "TargetCast/pkg/util"
)

const (
	DefaultMinHistory = 60
	DefaultCoinID     = "bitcoin"
)

// ForecastRequest is a validated-at-the-edge forecast query. The orchestrator
// re-checks every field.
type ForecastRequest struct {
	CoinID      string
	TargetPrice float64
	TargetDate  string // YYYY-MM-DD
}

// OrchestratorOption configures ForecastOrchestrator.
type OrchestratorOption func(*ForecastOrchestrator)

// ForecastOrchestrator runs one forecast end to end: fetch, normalize, window,
// train a fresh predictor, project to the target date and score the target.
type ForecastOrchestrator struct {
	provider   domrepo.PriceProvider
	newModel   domsvc.PredictorFactory
	sink       domrepo.ForecastSink
	metrics    domrepo.Metrics
	log        *applogger.Logger
	now        func() time.Time
	window     int
	minHistory int
	lookback   int
}

func NewForecastOrchestrator(provider domrepo.PriceProvider, factory domsvc.PredictorFactory, opts ...OrchestratorOption) *ForecastOrchestrator {
	o := &ForecastOrchestrator{
		provider:   provider,
		newModel:   factory,
		sink:       repository.NoopSink{},
		metrics:    metrics.Nop{},
		log:        applogger.NewNop(),
		now:        time.Now,
		window:     forecast.DefaultSequenceLength,
		minHistory: DefaultMinHistory,
		lookback:   DefaultMinHistory,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.lookback < o.minHistory {
		o.lookback = o.minHistory
	}
	return o
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) OrchestratorOption {
	return func(o *ForecastOrchestrator) { o.now = now }
}

// WithMinHistory sets the minimum number of daily prices required before training.
func WithMinHistory(n int) OrchestratorOption {
	return func(o *ForecastOrchestrator) {
		if n > 0 {
			o.minHistory = n
		}
	}
}

// WithLookback sets how many days of history are requested from the provider.
func WithLookback(days int) OrchestratorOption {
	return func(o *ForecastOrchestrator) {
		if days > 0 {
			o.lookback = days
		}
	}
}

// WithSequenceLength sets the input window length handed to the predictor factory.
func WithSequenceLength(w int) OrchestratorOption {
	return func(o *ForecastOrchestrator) {
		if w > 0 {
			o.window = w
		}
	}
}

func WithSink(s domrepo.ForecastSink) OrchestratorOption {
	return func(o *ForecastOrchestrator) {
		if s != nil {
			o.sink = s
		}
	}
}

func WithMetrics(m domrepo.Metrics) OrchestratorOption {
	return func(o *ForecastOrchestrator) {
		if m != nil {
			o.metrics = m
		}
	}
}

func WithLogger(l *applogger.Logger) OrchestratorOption {
	return func(o *ForecastOrchestrator) {
		if l != nil {
			o.log = l
		}
	}
}

// Forecast produces the report for req. Errors are *models.Error values whose
// Kind tells the caller whose fault it was.
func (o *ForecastOrchestrator) Forecast(ctx context.Context, req ForecastRequest) (*models.ForecastReport, error) {
	start := o.now()
	coinID := xutil.CanonicalCoinID(req.CoinID)
	if coinID == "" {
		coinID = DefaultCoinID
	}
	log := o.log.With(applogger.String("coin_id", coinID))

	report, err := o.run(ctx, log, coinID, req)
	o.metrics.RecordLatency("forecast", o.now().Sub(start).Seconds())
	if err != nil {
		kind := models.KindOf(err)
		o.metrics.RecordForecast(coinID, kind)
		o.metrics.RecordError(string(kind))
		log.Warn("forecast failed", applogger.String("kind", string(kind)), applogger.Error(err))
		return nil, err
	}
	o.metrics.RecordForecast(coinID, "")
	o.metrics.RecordProbability(coinID, report.ProbabilityScore)

	if err := o.sink.Record(ctx, report); err != nil {
		o.metrics.RecordError("sink")
		log.Error("forecast sink failed", applogger.Error(err))
	}
	return report, nil
}

func (o *ForecastOrchestrator) run(ctx context.Context, log *applogger.Logger, coinID string, req ForecastRequest) (*models.ForecastReport, error) {
	if math.IsNaN(req.TargetPrice) || math.IsInf(req.TargetPrice, 0) || req.TargetPrice <= 0 {
		return nil, models.InvalidInput("Target price must be a positive number")
	}
	target, ok := xutil.ParseDate(req.TargetDate)
	if !ok {
		return nil, models.InvalidInput("Invalid date format. Please use YYYY-MM-DD")
	}

	stage := o.now()
	samples, err := o.provider.FetchHistory(ctx, coinID, o.lookback)
	o.metrics.RecordLatency("fetch", o.now().Sub(stage).Seconds())
	if err != nil {
		return nil, err
	}
	prices := models.Closes(samples)
	if err := checkPrices(prices); err != nil {
		return nil, err
	}
	if len(prices) < o.minHistory {
		return nil, models.InsufficientData("Insufficient historical data. Got %d days, need %d days.", len(prices), o.minHistory)
	}

	today := o.now()
	horizon := forecast.DaysUntilTarget(target, today)

	params, err := forecast.Fit(prices)
	if err != nil {
		return nil, err
	}
	normalized := forecast.Normalize(prices, params)
	ds, err := forecast.BuildWindows(normalized, o.window)
	if err != nil {
		return nil, err
	}

	stage = o.now()
	model := o.newModel(o.window)
	if err := model.Train(ds); err != nil {
		return nil, err
	}
	o.metrics.RecordLatency("train", o.now().Sub(stage).Seconds())
	log.Debug("model trained",
		applogger.Int("samples", ds.Size()),
		applogger.Duration("duration_ms", o.now().Sub(stage)),
	)

	stage = o.now()
	fc, err := forecast.Project(model, normalized, params, o.window, horizon, today)
	if err != nil {
		return nil, models.TrainingFailure(err, "Error generating forecast")
	}
	o.metrics.RecordLatency("project", o.now().Sub(stage).Seconds())

	risk, err := forecast.Analyze(prices, req.TargetPrice, horizon)
	if err != nil {
		return nil, err
	}

	log.Info("forecast complete",
		applogger.Int("days_until_target", horizon),
		applogger.Float64("probability_score", risk.ProbabilityScore),
		applogger.String("trend_direction", risk.TrendDirection),
	)
	return buildReport(coinID, req.TargetPrice, target, horizon, fc, risk), nil
}

// checkPrices rejects histories with non-positive or non-finite closes.
func checkPrices(prices []float64) error {
	for i, p := range prices {
		if !(p > 0) || math.IsInf(p, 0) {
			return models.DataProviderFailure(nil, "Error processing API response: price %d is %g", i, p)
		}
	}
	return nil
}

func buildReport(coinID string, targetPrice float64, target time.Time, horizon int, fc models.Forecast, m models.RiskMetrics) *models.ForecastReport {
	return &models.ForecastReport{
		CoinID:                   coinID,
		CurrentPrice:             m.CurrentPrice,
		TargetPrice:              targetPrice,
		TargetDate:               target.Format(models.DateLayout),
		DaysUntilTarget:          horizon,
		PredictedPrices:          fc.Points,
		MaxPredicted:             fc.Max,
		MinPredicted:             fc.Min,
		AvgPredicted:             fc.Mean,
		ProbabilityScore:         m.ProbabilityScore,
		PriceChangeNeededPercent: m.PriceChangeNeededPercent,
		TrendDirection:           m.TrendDirection,
		DailyVolatility:          m.DailyVolatility,
		TrendAnalysis: models.TrendAnalysis{
			LongTermTrend:   formatPercent(m.LongTermTrend),
			MediumTermTrend: formatPercent(m.MediumTermTrend),
			ShortTermTrend:  formatPercent(m.ShortTermTrend),
		},
		Analysis: models.QualitativeAnalysis{
			TrendStrength:   m.TrendStrength,
			VolatilityLevel: m.VolatilityLevel,
			TimeFeasibility: m.TimeFeasibility,
		},
	}
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}
