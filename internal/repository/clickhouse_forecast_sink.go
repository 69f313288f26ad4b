package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"TargetCast/internal/domain/models"
	domrepo "TargetCast/internal/domain/repository"
	applogger "TargetCast/pkg/logger"
)

// ForecastTable is the audit table written by ClickHouseForecastSink.
const ForecastTable = "forecasts"

// ForecastSchema creates the audit table if it does not exist.
var ForecastSchema = []string{
	`CREATE TABLE IF NOT EXISTS ` + ForecastTable + ` (
        generated_at       DateTime64(3, 'UTC'),
        coin_id            LowCardinality(String),
        current_price      Float64,
        target_price       Float64,
        target_date        Date,
        days_until_target  UInt32,
        probability_score  Float64,
        trend_direction    LowCardinality(String),
        daily_volatility   Float64,
        max_predicted      Float64,
        min_predicted      Float64,
        avg_predicted      Float64,
        predicted_prices   String
    ) ENGINE = MergeTree
    ORDER BY (coin_id, generated_at)`,
}

// Execer is satisfied by *sql.DB.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ClickHouseForecastSink appends one row per report to ForecastTable.
type ClickHouseForecastSink struct {
	db    Execer
	close func() error
	l     *applogger.Logger
	now   func() time.Time
}

// NewClickHouseForecastSink writes through db. closeFn, if set, runs on Close.
func NewClickHouseForecastSink(db Execer, closeFn func() error, l *applogger.Logger) *ClickHouseForecastSink {
	if l == nil {
		l = applogger.NewNop()
	}
	return &ClickHouseForecastSink{db: db, close: closeFn, l: l, now: time.Now}
}

func (s *ClickHouseForecastSink) Record(ctx context.Context, r *models.ForecastReport) error {
	path, err := json.Marshal(r.PredictedPrices)
	if err != nil {
		return fmt.Errorf("marshal predicted prices: %w", err)
	}
	targetDate, err := time.Parse(models.DateLayout, r.TargetDate)
	if err != nil {
		return fmt.Errorf("target date: %w", err)
	}

	const q = `INSERT INTO ` + ForecastTable + ` (generated_at, coin_id, current_price, target_price, target_date,
        days_until_target, probability_score, trend_direction, daily_volatility,
        max_predicted, min_predicted, avg_predicted, predicted_prices)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = s.db.ExecContext(ctx, q,
		s.now().UTC(),
		r.CoinID,
		r.CurrentPrice,
		r.TargetPrice,
		targetDate,
		uint32(r.DaysUntilTarget),
		r.ProbabilityScore,
		r.TrendDirection,
		r.DailyVolatility,
		r.MaxPredicted,
		r.MinPredicted,
		r.AvgPredicted,
		string(path),
	)
	if err != nil {
		s.l.Error("clickhouse insert forecast failed",
			applogger.String("table", ForecastTable),
			applogger.String("coin_id", r.CoinID),
			applogger.Error(err),
		)
		return fmt.Errorf("insert forecast: %w", err)
	}
	return nil
}

func (s *ClickHouseForecastSink) Close() error {
	if s.close != nil {
		return s.close()
	}
	return nil
}

var _ domrepo.ForecastSink = (*ClickHouseForecastSink)(nil)
