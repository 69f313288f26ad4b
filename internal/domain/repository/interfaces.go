package repository

import (
	"context"

	"TargetCast/internal/domain/models"
)

// PriceProvider returns a chronologically ordered daily price history covering
// at least the last `days` days for coinID.
type PriceProvider interface {
	FetchHistory(ctx context.Context, coinID string, days int) ([]models.PriceSample, error)
}

// ForecastSink receives every completed forecast report.
type ForecastSink interface {
	Record(ctx context.Context, r *models.ForecastReport) error
	Close() error
}

type Metrics interface {
	RecordForecast(coinID string, kind models.Kind)
	RecordError(kind string)
	RecordProbability(coinID string, score float64)
	RecordLatency(op string, seconds float64)
}
