package repository

import (
	"time"

	"TargetCast/internal/domain/models"
)

// ForecastEvent is the record emitted for every completed forecast.
type ForecastEvent struct {
	CoinID      string    `json:"coin_id"`
	GeneratedAt time.Time `json:"generated_at"`
	*models.ForecastReport
}

func newForecastEvent(r *models.ForecastReport, now time.Time) ForecastEvent {
	return ForecastEvent{CoinID: r.CoinID, GeneratedAt: now.UTC(), ForecastReport: r}
}
