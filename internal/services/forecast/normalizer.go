package forecast

import (
	"TargetCast/internal/domain/models"

	"gonum.org/v1/gonum/floats"
)

// NormalizationParams is the min/max pair used to map prices into [0,1].
type NormalizationParams struct {
	Min float64
	Max float64
}

// Range returns Max - Min.
func (p NormalizationParams) Range() float64 { return p.Max - p.Min }

// Fit derives normalization params from series. A zero-range series is
// rejected as degenerate.
func Fit(series []float64) (NormalizationParams, error) {
	if len(series) == 0 {
		return NormalizationParams{}, models.InsufficientData("cannot normalize an empty price series")
	}
	p := NormalizationParams{Min: floats.Min(series), Max: floats.Max(series)}
	if !(p.Max > p.Min) {
		return NormalizationParams{}, models.DegenerateSeries("price series is flat (min == max == %g); cannot normalize", p.Min)
	}
	return p, nil
}

// Normalize maps each x to (x - min) / (max - min).
func Normalize(series []float64, p NormalizationParams) []float64 {
	out := make([]float64, len(series))
	r := p.Range()
	for i, x := range series {
		out[i] = (x - p.Min) / r
	}
	return out
}

// Denormalize is the inverse of Normalize.
func Denormalize(values []float64, p NormalizationParams) []float64 {
	out := make([]float64, len(values))
	r := p.Range()
	for i, v := range values {
		out[i] = v*r + p.Min
	}
	return out
}
