package lstm

import (
	"errors"
	"math"
	"math/rand"
	"time"

	"TargetCast/internal/domain/models"
	domsvc "TargetCast/internal/domain/service"
)

// Model is a stacked LSTM regressor: Layers recurrent layers with dropout
// between them during training, and a linear head on the last hidden state of
// the top layer. A Model is owned by a single caller and is not safe for
// concurrent use.
type Model struct {
	cfg     Config
	rng     *rand.Rand
	layers  []*recurrent
	head    *linear
	opt     *adam
	trained bool
	losses  []float64
}

// New builds an untrained model with freshly initialized weights.
func New(cfg Config) *Model {
	cfg = cfg.WithDefaults()
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	m := &Model{
		cfg: cfg,
		rng: rng,
		opt: &adam{lr: cfg.LearningRate, beta1: cfg.Beta1, beta2: cfg.Beta2, eps: cfg.Epsilon},
	}
	in := 1
	for i := 0; i < cfg.Layers; i++ {
		m.layers = append(m.layers, newRecurrent(in, cfg.HiddenUnits, rng))
		in = cfg.HiddenUnits
	}
	m.head = newLinear(cfg.HiddenUnits, rng)
	return m
}

// Factory returns a PredictorFactory producing models with cfg and the given
// window length.
func Factory(cfg Config) domsvc.PredictorFactory {
	return func(windowLength int) domsvc.SequencePredictor {
		c := cfg
		c.SequenceLength = windowLength
		return New(c)
	}
}

// Losses returns the mean squared error of every completed epoch.
func (m *Model) Losses() []float64 { return m.losses }

// Train fits the model to ds with mini-batch Adam on mean squared error for a
// fixed number of epochs. Batches follow dataset order.
func (m *Model) Train(ds models.WindowDataset) error {
	n := ds.Size()
	if n == 0 {
		return models.TrainingFailure(nil, "Error training model: empty training set")
	}
	if len(ds.Inputs) != n {
		return models.TrainingFailure(nil, "Error training model: %d inputs for %d targets", len(ds.Inputs), n)
	}
	for i, x := range ds.Inputs {
		if len(x) != m.cfg.SequenceLength {
			return models.TrainingFailure(nil, "Error training model: window %d has length %d, expected %d", i, len(x), m.cfg.SequenceLength)
		}
	}

	params := m.params()
	bs := m.cfg.BatchSize
	for epoch := 0; epoch < m.cfg.Epochs; epoch++ {
		total := 0.0
		for start := 0; start < n; start += bs {
			end := min(start+bs, n)
			size := float64(end - start)
			for _, p := range params {
				p.zeroGrad()
			}
			for i := start; i < end; i++ {
				yhat, tr := m.forwardTrain(ds.Inputs[i], true)
				diff := yhat - ds.Targets[i]
				total += diff * diff
				m.backward(tr, 2*diff/size)
			}
			m.opt.step(params)
		}
		loss := total / float64(n)
		if math.IsNaN(loss) || math.IsInf(loss, 0) {
			return models.TrainingFailure(errors.New("non-finite loss"), "Error training model: diverged at epoch %d", epoch+1)
		}
		m.losses = append(m.losses, loss)
	}
	m.trained = true
	return nil
}

// Predict returns the next-value estimate for one window. It does not change
// the model.
func (m *Model) Predict(window []float64) (float64, error) {
	if !m.trained {
		return 0, models.TrainingFailure(nil, "model has not been trained")
	}
	if len(window) != m.cfg.SequenceLength {
		return 0, models.TrainingFailure(nil, "window has length %d, expected %d", len(window), m.cfg.SequenceLength)
	}
	seq := sequence(window)
	for _, l := range m.layers {
		seq, _ = l.forward(seq, false)
	}
	return m.head.forward(seq[len(seq)-1]), nil
}

// trace keeps one sample's forward activations for backprop.
type trace struct {
	steps [][]step
	masks [][][]float64
	last  []float64
}

func (m *Model) forwardTrain(window []float64, dropout bool) (float64, *trace) {
	tr := &trace{
		steps: make([][]step, len(m.layers)),
		masks: make([][][]float64, len(m.layers)),
	}
	seq := sequence(window)
	for li, l := range m.layers {
		hs, steps := l.forward(seq, true)
		tr.steps[li] = steps
		if dropout && li < len(m.layers)-1 && m.cfg.Dropout > 0 {
			tr.masks[li] = m.dropoutMask(hs)
		}
		seq = hs
	}
	tr.last = seq[len(seq)-1]
	return m.head.forward(tr.last), tr
}

// dropoutMask applies inverted dropout to hs in place and returns the mask.
func (m *Model) dropoutMask(hs [][]float64) [][]float64 {
	keep := 1 - m.cfg.Dropout
	mask := make([][]float64, len(hs))
	for t, h := range hs {
		mask[t] = make([]float64, len(h))
		for k := range h {
			if m.rng.Float64() >= m.cfg.Dropout {
				mask[t][k] = 1 / keep
			}
			h[k] *= mask[t][k]
		}
	}
	return mask
}

func (m *Model) backward(tr *trace, dy float64) {
	T := len(tr.steps[0])
	dhs := make([][]float64, T)
	dhs[T-1] = m.head.backward(tr.last, dy)
	for li := len(m.layers) - 1; li >= 0; li-- {
		dxs := m.layers[li].backward(tr.steps[li], dhs)
		if li == 0 {
			return
		}
		if mask := tr.masks[li-1]; mask != nil {
			for t := range dxs {
				for k := range dxs[t] {
					dxs[t][k] *= mask[t][k]
				}
			}
		}
		dhs = dxs
	}
}

func (m *Model) params() []*param {
	var ps []*param
	for _, l := range m.layers {
		ps = append(ps, l.params()...)
	}
	return append(ps, m.head.params()...)
}

func sequence(window []float64) [][]float64 {
	seq := make([][]float64, len(window))
	for t, v := range window {
		seq[t] = []float64{v}
	}
	return seq
}

var _ domsvc.SequencePredictor = (*Model)(nil)
