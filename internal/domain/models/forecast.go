package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar date format used on the wire.
const DateLayout = "2006-01-02"

// PriceSample is one daily observation returned by a price provider.
type PriceSample struct {
	Time  time.Time
	Price float64
}

// Closes extracts the price column in provider order.
func Closes(samples []PriceSample) []float64 {
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = s.Price
	}
	return out
}

// WindowDataset holds supervised pairs built by sliding a fixed-length window
// over a normalized series. Inputs[i] is followed in time by Targets[i].
type WindowDataset struct {
	Length  int
	Inputs  [][]float64
	Targets []float64
}

// Size returns the number of (window, target) pairs.
func (d WindowDataset) Size() int { return len(d.Targets) }

// ForecastPoint is a projected price for one calendar day.
type ForecastPoint struct {
	Date  time.Time
	Price float64
}

// MarshalJSON encodes the point as a [date, price] pair.
func (p ForecastPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{p.Date.Format(DateLayout), p.Price})
}

// UnmarshalJSON decodes a [date, price] pair.
func (p *ForecastPoint) UnmarshalJSON(b []byte) error {
	var raw [2]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("forecast point: %w", err)
	}
	var date string
	if err := json.Unmarshal(raw[0], &date); err != nil {
		return fmt.Errorf("forecast point date: %w", err)
	}
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return fmt.Errorf("forecast point date: %w", err)
	}
	if err := json.Unmarshal(raw[1], &p.Price); err != nil {
		return fmt.Errorf("forecast point price: %w", err)
	}
	p.Date = t
	return nil
}

// Forecast is the ordered projection from tomorrow through the target date.
type Forecast struct {
	Points []ForecastPoint
	Max    float64
	Min    float64
	Mean   float64
}

// Direction of the move needed to reach the target.
const (
	DirectionUp   = "upward"
	DirectionDown = "downward"
)

// RiskMetrics are derived once from the raw series and the request target.
type RiskMetrics struct {
	CurrentPrice             float64
	PriceMovementNeeded      float64
	DailyVolatility          float64
	MaxReasonableDailyMove   float64
	TotalPossibleMovement    float64
	ProbabilityScore         float64
	TrendDirection           string
	PriceChangeNeededPercent float64
	LongTermTrend            float64
	MediumTermTrend          float64
	ShortTermTrend           float64
	TrendStrength            string
	VolatilityLevel          string
	TimeFeasibility          string
}
