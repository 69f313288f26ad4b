package models

// Request and response shapes of the /predict endpoint. Defined in domain so the
// orchestrator can assemble the payload directly.

type PredictRequest struct {
	CoinID      string  `query:"coin_id" json:"coin_id" default:"bitcoin" validate:"required"`
	TargetPrice float64 `query:"target_price" json:"target_price" validate:"required,gt=0"`
	TargetDate  string  `query:"target_date" json:"target_date" validate:"required"`
}

type TrendAnalysis struct {
	LongTermTrend   string `json:"long_term_trend"`
	MediumTermTrend string `json:"medium_term_trend"`
	ShortTermTrend  string `json:"short_term_trend"`
}

type QualitativeAnalysis struct {
	TrendStrength   string `json:"trend_strength"`
	VolatilityLevel string `json:"volatility_level"`
	TimeFeasibility string `json:"time_feasibility"`
}

type ForecastReport struct {
	CoinID                   string              `json:"-"`
	CurrentPrice             float64             `json:"current_price"`
	TargetPrice              float64             `json:"target_price"`
	TargetDate               string              `json:"target_date"`
	DaysUntilTarget          int                 `json:"days_until_target"`
	PredictedPrices          []ForecastPoint     `json:"predicted_prices"`
	MaxPredicted             float64             `json:"max_predicted"`
	MinPredicted             float64             `json:"min_predicted"`
	AvgPredicted             float64             `json:"avg_predicted"`
	ProbabilityScore         float64             `json:"probability_score"`
	PriceChangeNeededPercent float64             `json:"price_change_needed_percent"`
	TrendDirection           string              `json:"trend_direction"`
	DailyVolatility          float64             `json:"daily_volatility"`
	TrendAnalysis            TrendAnalysis       `json:"trend_analysis"`
	Analysis                 QualitativeAnalysis `json:"analysis"`
}
