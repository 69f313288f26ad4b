package lstm

import (
	"errors"
	"math"
	"testing"

	"TargetCast/internal/domain/models"
)

func tinyConfig() Config {
	return Config{
		SequenceLength: 6,
		HiddenUnits:    5,
		Layers:         3,
		Dropout:        0.2,
		Epochs:         60,
		BatchSize:      4,
		LearningRate:   0.01,
		Seed:           7,
	}
}

func sineDataset(n, w int) models.WindowDataset {
	series := make([]float64, n)
	for i := range series {
		series[i] = 0.5 + 0.4*math.Sin(float64(i)/3)
	}
	ds := models.WindowDataset{Length: w}
	for i := w; i < n; i++ {
		win := make([]float64, w)
		copy(win, series[i-w:i])
		ds.Inputs = append(ds.Inputs, win)
		ds.Targets = append(ds.Targets, series[i])
	}
	return ds
}

func TestTrainReducesLoss(t *testing.T) {
	m := New(tinyConfig())
	if err := m.Train(sineDataset(40, 6)); err != nil {
		t.Fatalf("train: %v", err)
	}
	losses := m.Losses()
	if len(losses) != 60 {
		t.Fatalf("expected 60 epoch losses, got %d", len(losses))
	}
	if !(losses[len(losses)-1] < losses[0]) {
		t.Fatalf("loss did not improve: first %v last %v", losses[0], losses[len(losses)-1])
	}
}

func TestSeededTrainingIsReproducible(t *testing.T) {
	ds := sineDataset(30, 6)
	a, b := New(tinyConfig()), New(tinyConfig())
	if err := a.Train(ds); err != nil {
		t.Fatalf("train a: %v", err)
	}
	if err := b.Train(ds); err != nil {
		t.Fatalf("train b: %v", err)
	}
	pa, err := a.Predict(ds.Inputs[0])
	if err != nil {
		t.Fatalf("predict a: %v", err)
	}
	pb, _ := b.Predict(ds.Inputs[0])
	if pa != pb {
		t.Fatalf("same seed gave different predictions: %v vs %v", pa, pb)
	}
}

func TestPredictIsSideEffectFree(t *testing.T) {
	m := New(tinyConfig())
	ds := sineDataset(20, 6)
	if err := m.Train(ds); err != nil {
		t.Fatalf("train: %v", err)
	}
	first, _ := m.Predict(ds.Inputs[3])
	for i := 0; i < 3; i++ {
		again, err := m.Predict(ds.Inputs[3])
		if err != nil || again != first {
			t.Fatalf("predict changed between calls: %v vs %v (%v)", first, again, err)
		}
	}
}

func TestTrainingFailures(t *testing.T) {
	m := New(tinyConfig())
	if _, err := m.Predict(make([]float64, 6)); !errors.Is(err, models.ErrTrainingFailure) {
		t.Fatalf("predict before train: expected training failure, got %v", err)
	}
	if err := m.Train(models.WindowDataset{}); !errors.Is(err, models.ErrTrainingFailure) {
		t.Fatalf("empty dataset: expected training failure, got %v", err)
	}
	bad := models.WindowDataset{Inputs: [][]float64{{1, 2, 3}}, Targets: []float64{4}}
	if err := m.Train(bad); !errors.Is(err, models.ErrTrainingFailure) {
		t.Fatalf("short window: expected training failure, got %v", err)
	}
	if err := m.Train(sineDataset(12, 6)); err != nil {
		t.Fatalf("train: %v", err)
	}
	if _, err := m.Predict([]float64{1}); !errors.Is(err, models.ErrTrainingFailure) {
		t.Fatalf("wrong window length: expected training failure, got %v", err)
	}
}

func TestFactoryBuildsIndependentModels(t *testing.T) {
	f := Factory(tinyConfig())
	a := f(4).(*Model)
	b := f(4).(*Model)
	if a == b || a.cfg.SequenceLength != 4 {
		t.Fatalf("factory should build distinct models with the requested window")
	}
	a.layers[0].w.w[0] += 1
	if a.layers[0].w.w[0] == b.layers[0].w.w[0] {
		t.Fatalf("models share weights")
	}
}

func TestGradientsMatchFiniteDifferences(t *testing.T) {
	cfg := Config{SequenceLength: 4, HiddenUnits: 3, Layers: 3, Epochs: 1, BatchSize: 1, LearningRate: 0.01, Seed: 11}
	m := New(cfg)
	x := []float64{0.1, 0.7, 0.3, 0.9}
	y := 0.4

	loss := func() float64 {
		yhat, _ := m.forwardTrain(x, false)
		return (yhat - y) * (yhat - y)
	}

	params := m.params()
	for _, p := range params {
		p.zeroGrad()
	}
	yhat, tr := m.forwardTrain(x, false)
	m.backward(tr, 2*(yhat-y))

	const eps = 1e-6
	for pi, p := range params {
		for _, i := range []int{0, len(p.w) / 2, len(p.w) - 1} {
			orig := p.w[i]
			p.w[i] = orig + eps
			up := loss()
			p.w[i] = orig - eps
			down := loss()
			p.w[i] = orig

			numeric := (up - down) / (2 * eps)
			analytic := p.g[i]
			denom := math.Max(1e-7, math.Abs(numeric)+math.Abs(analytic))
			if math.Abs(numeric-analytic)/denom > 1e-4 {
				t.Fatalf("param %d[%d]: analytic %v numeric %v", pi, i, analytic, numeric)
			}
		}
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	c := DefaultConfig()
	c.Dropout = 1
	if err := c.Validate(); err == nil {
		t.Fatalf("dropout 1 should be rejected")
	}
	if got := (Config{}).WithDefaults(); got.HiddenUnits != 100 || got.Layers != 3 || got.SequenceLength != 45 {
		t.Fatalf("WithDefaults: %+v", got)
	}
}
