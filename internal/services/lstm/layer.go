package lstm

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
)

// recurrent is one LSTM layer. Gate rows are laid out as input, forget, cell,
// output blocks of `hidden` rows each; every row has in+hidden columns acting
// on the concatenation [x_t, h_{t-1}].
type recurrent struct {
	in, hidden int
	w          *param
	b          *param
}

func newRecurrent(in, hidden int, rng *rand.Rand) *recurrent {
	cols := in + hidden
	l := &recurrent{
		in:     in,
		hidden: hidden,
		w:      newParam(4 * hidden * cols),
		b:      newParam(4 * hidden),
	}
	kernel := glorotLimit(in, 4*hidden)
	rec := glorotLimit(hidden, 4*hidden)
	for r := 0; r < 4*hidden; r++ {
		l.w.uniform(rng, r*cols, r*cols+in, kernel)
		l.w.uniform(rng, r*cols+in, (r+1)*cols, rec)
	}
	for k := hidden; k < 2*hidden; k++ {
		l.b.w[k] = 1
	}
	return l
}

func (l *recurrent) row(r int) []float64 {
	cols := l.in + l.hidden
	return l.w.w[r*cols : (r+1)*cols]
}

func (l *recurrent) gradRow(r int) []float64 {
	cols := l.in + l.hidden
	return l.w.g[r*cols : (r+1)*cols]
}

// step holds what backprop needs from one time step.
type step struct {
	z     []float64 // [x_t, h_{t-1}]
	gates []float64 // activated i, f, g, o
	cPrev []float64
	tanhC []float64
}

// forward runs the layer over xs and returns the hidden state at every step.
// With record set, per-step activations are kept for backward.
func (l *recurrent) forward(xs [][]float64, record bool) ([][]float64, []step) {
	H := l.hidden
	h := make([]float64, H)
	c := make([]float64, H)
	hs := make([][]float64, len(xs))
	var steps []step
	if record {
		steps = make([]step, len(xs))
	}

	for t, x := range xs {
		z := make([]float64, l.in+H)
		copy(z, x)
		copy(z[l.in:], h)

		a := make([]float64, 4*H)
		for r := range a {
			a[r] = floats.Dot(l.row(r), z) + l.b.w[r]
		}
		for k := 0; k < H; k++ {
			a[k] = sigmoid(a[k])
			a[H+k] = sigmoid(a[H+k])
			a[2*H+k] = math.Tanh(a[2*H+k])
			a[3*H+k] = sigmoid(a[3*H+k])
		}

		cNext := make([]float64, H)
		tc := make([]float64, H)
		hNext := make([]float64, H)
		for k := 0; k < H; k++ {
			cNext[k] = a[H+k]*c[k] + a[k]*a[2*H+k]
			tc[k] = math.Tanh(cNext[k])
			hNext[k] = a[3*H+k] * tc[k]
		}

		if record {
			steps[t] = step{z: z, gates: a, cPrev: c, tanhC: tc}
		}
		h, c = hNext, cNext
		hs[t] = hNext
	}
	return hs, steps
}

// backward accumulates parameter gradients through time given the loss
// gradient w.r.t. each step's output (nil entries are zero) and returns the
// gradient w.r.t. each step's input.
func (l *recurrent) backward(steps []step, dhs [][]float64) [][]float64 {
	H := l.hidden
	dxs := make([][]float64, len(steps))
	dhNext := make([]float64, H)
	dcNext := make([]float64, H)
	da := make([]float64, 4*H)

	for t := len(steps) - 1; t >= 0; t-- {
		s := steps[t]
		g := s.gates
		for k := 0; k < H; k++ {
			dh := dhNext[k]
			if dhs[t] != nil {
				dh += dhs[t][k]
			}
			i, f, cc, o := g[k], g[H+k], g[2*H+k], g[3*H+k]
			tc := s.tanhC[k]

			dc := dh*o*(1-tc*tc) + dcNext[k]
			dcNext[k] = dc * f

			da[k] = dc * cc * i * (1 - i)
			da[H+k] = dc * s.cPrev[k] * f * (1 - f)
			da[2*H+k] = dc * i * (1 - cc*cc)
			da[3*H+k] = dh * tc * o * (1 - o)
		}

		dz := make([]float64, l.in+H)
		for r, d := range da {
			if d == 0 {
				continue
			}
			floats.AddScaled(l.gradRow(r), d, s.z)
			l.b.g[r] += d
			floats.AddScaled(dz, d, l.row(r))
		}
		dxs[t] = dz[:l.in]
		dhNext = dz[l.in:]
	}
	return dxs
}

func (l *recurrent) params() []*param { return []*param{l.w, l.b} }

// linear maps the last hidden state to a scalar.
type linear struct {
	w *param
	b *param
}

func newLinear(in int, rng *rand.Rand) *linear {
	d := &linear{w: newParam(in), b: newParam(1)}
	d.w.uniform(rng, 0, in, glorotLimit(in, 1))
	return d
}

func (d *linear) forward(h []float64) float64 {
	return floats.Dot(d.w.w, h) + d.b.w[0]
}

func (d *linear) backward(h []float64, dy float64) []float64 {
	floats.AddScaled(d.w.g, dy, h)
	d.b.g[0] += dy
	dh := make([]float64, len(h))
	floats.AddScaled(dh, dy, d.w.w)
	return dh
}

func (d *linear) params() []*param { return []*param{d.w, d.b} }

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}
