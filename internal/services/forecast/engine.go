package forecast

import (
	"fmt"
	"time"

	"TargetCast/internal/domain/models"
	domsvc "TargetCast/internal/domain/service"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Day truncates t to its calendar date in t's location, expressed as UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysUntilTarget returns the number of calendar days from today to target,
// clamped to at least 1 so past and same-day targets get a one-day horizon.
func DaysUntilTarget(target, today time.Time) int {
	days := (Day(target).Unix() - Day(today).Unix()) / 86400
	return int(max(1, days))
}

// Project runs horizon single-step predictions, feeding each estimate back into
// the input window, and dates step k as start + k days. Estimates are mapped
// back to prices with p.
func Project(pred domsvc.SequencePredictor, normalized []float64, p NormalizationParams, w, horizon int, start time.Time) (models.Forecast, error) {
	if horizon < 1 {
		return models.Forecast{}, models.InvalidInput("forecast horizon must be at least 1 day, got %d", horizon)
	}
	if len(normalized) < w {
		return models.Forecast{}, models.InsufficientData("need %d normalized values to seed the forecast window, got %d", w, len(normalized))
	}

	window := make([]float64, w)
	copy(window, normalized[len(normalized)-w:])

	estimates := make([]float64, 0, horizon)
	for step := 1; step <= horizon; step++ {
		next, err := pred.Predict(window)
		if err != nil {
			return models.Forecast{}, fmt.Errorf("predict step %d: %w", step, err)
		}
		estimates = append(estimates, next)
		copy(window, window[1:])
		window[w-1] = next
	}

	prices := Denormalize(estimates, p)
	day := Day(start)
	points := make([]models.ForecastPoint, horizon)
	for i, price := range prices {
		points[i] = models.ForecastPoint{Date: day.AddDate(0, 0, i+1), Price: price}
	}

	return models.Forecast{
		Points: points,
		Max:    floats.Max(prices),
		Min:    floats.Min(prices),
		Mean:   stat.Mean(prices, nil),
	}, nil
}
