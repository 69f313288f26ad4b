package service

import "TargetCast/internal/domain/models"

// SequencePredictor maps a fixed-length window of normalized values to an
// estimate of the next value. Implementations are single-owner: one
// instance per request, never shared.
type SequencePredictor interface {
	Train(ds models.WindowDataset) error
	Predict(window []float64) (float64, error)
}

// PredictorFactory builds a fresh, untrained predictor for windows of the
// given length.
type PredictorFactory func(windowLength int) SequencePredictor
