package forecast

import "TargetCast/internal/domain/models"

// DefaultSequenceLength is the input window length fed to the predictor.
const DefaultSequenceLength = 45

// BuildWindows slides a window of length w over series one day at a time.
// Pair i has window series[i:i+w] and target series[i+w]; order follows time.
func BuildWindows(series []float64, w int) (models.WindowDataset, error) {
	if w <= 0 {
		return models.WindowDataset{}, models.InvalidInput("window length must be positive, got %d", w)
	}
	if len(series) < w+1 {
		return models.WindowDataset{}, models.InsufficientData("need at least %d values to build windows of length %d, got %d", w+1, w, len(series))
	}

	n := len(series) - w
	ds := models.WindowDataset{
		Length:  w,
		Inputs:  make([][]float64, 0, n),
		Targets: make([]float64, 0, n),
	}
	for i := w; i < len(series); i++ {
		win := make([]float64, w)
		copy(win, series[i-w:i])
		ds.Inputs = append(ds.Inputs, win)
		ds.Targets = append(ds.Targets, series[i])
	}
	return ds, nil
}
