package forecast

import (
	"math"

	"TargetCast/internal/domain/models"

	"gonum.org/v1/gonum/stat"
)

const (
	mediumTermLookback = 30
	shortTermLookback  = 7

	alignmentBonus       = 1.2
	volatilityMultiplier = 2.0
)

// Analyze computes volatility, trend and feasibility metrics on the raw price
// series for a move to targetPrice within horizon days.
func Analyze(series []float64, targetPrice float64, horizon int) (models.RiskMetrics, error) {
	if len(series) < mediumTermLookback {
		return models.RiskMetrics{}, models.InsufficientData("need at least %d prices for the medium-term trend, got %d", mediumTermLookback, len(series))
	}
	if horizon < 1 {
		return models.RiskMetrics{}, models.InvalidInput("forecast horizon must be at least 1 day, got %d", horizon)
	}

	n := len(series)
	current := series[n-1]
	m := models.RiskMetrics{
		CurrentPrice:        current,
		PriceMovementNeeded: math.Abs(targetPrice - current),
		DailyVolatility:     DailyVolatility(series),
	}
	m.MaxReasonableDailyMove = volatilityMultiplier * m.DailyVolatility
	m.TotalPossibleMovement = m.MaxReasonableDailyMove * float64(horizon)

	m.TrendDirection = models.DirectionDown
	if targetPrice > current {
		m.TrendDirection = models.DirectionUp
	}
	m.PriceChangeNeededPercent = math.Abs(targetPrice-current) / current * 100

	m.LongTermTrend = percentChange(series[0], current)
	m.MediumTermTrend = percentChange(series[n-mediumTermLookback], current)
	m.ShortTermTrend = percentChange(series[n-shortTermLookback], current)

	score := feasibility(m.PriceMovementNeeded, m.TotalPossibleMovement)
	if trendAligned(m.TrendDirection, m.LongTermTrend, m.MediumTermTrend) {
		score *= alignmentBonus
	}
	m.TrendStrength = trendStrength(score)
	m.ProbabilityScore = math.Min(score, 1)

	m.VolatilityLevel = volatilityLevel(m.DailyVolatility, stat.Mean(series, nil))
	m.TimeFeasibility = timeFeasibility(horizon)
	return m, nil
}

// DailyVolatility is the population standard deviation of day-over-day
// price differences.
func DailyVolatility(series []float64) float64 {
	if len(series) < 2 {
		return 0
	}
	diffs := make([]float64, len(series)-1)
	for i := 1; i < len(series); i++ {
		diffs[i-1] = series[i] - series[i-1]
	}
	return math.Sqrt(stat.PopVariance(diffs, nil))
}

// feasibility is max(0, 1 - needed/possible). With no possible movement the
// ratio's limit is used: reachable only when no movement is needed.
func feasibility(needed, possible float64) float64 {
	if possible <= 0 {
		if needed == 0 {
			return 1
		}
		return 0
	}
	return math.Max(0, 1-needed/possible)
}

func trendAligned(direction string, long, medium float64) bool {
	if direction == models.DirectionUp {
		return long > 0 || medium > 0
	}
	return long < 0 || medium < 0
}

func percentChange(from, to float64) float64 {
	return (to - from) / from * 100
}

func trendStrength(score float64) string {
	switch {
	case score > 0.7:
		return "strong"
	case score > 0.4:
		return "moderate"
	default:
		return "weak"
	}
}

func volatilityLevel(vol, meanPrice float64) string {
	switch {
	case vol > meanPrice*0.02:
		return "high"
	case vol > meanPrice*0.01:
		return "moderate"
	default:
		return "low"
	}
}

func timeFeasibility(horizon int) string {
	switch {
	case horizon >= 7:
		return "favorable"
	case horizon >= 3:
		return "challenging"
	default:
		return "very challenging"
	}
}
