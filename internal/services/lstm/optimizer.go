package lstm

import (
	"math"
	"math/rand"
)

// param is a flat weight tensor plus its gradient and Adam moments.
type param struct {
	w []float64
	g []float64
	m []float64
	v []float64
}

func newParam(n int) *param {
	return &param{
		w: make([]float64, n),
		g: make([]float64, n),
		m: make([]float64, n),
		v: make([]float64, n),
	}
}

func (p *param) zeroGrad() {
	for i := range p.g {
		p.g[i] = 0
	}
}

// uniform fills w[lo:hi] from U(-limit, limit).
func (p *param) uniform(rng *rand.Rand, lo, hi int, limit float64) {
	for i := lo; i < hi; i++ {
		p.w[i] = (rng.Float64()*2 - 1) * limit
	}
}

func glorotLimit(fanIn, fanOut int) float64 {
	return math.Sqrt(6 / float64(fanIn+fanOut))
}

type adam struct {
	lr, beta1, beta2, eps float64
	t                     int
}

// step applies one bias-corrected Adam update using the accumulated gradients.
func (a *adam) step(params []*param) {
	a.t++
	c1 := 1 - math.Pow(a.beta1, float64(a.t))
	c2 := 1 - math.Pow(a.beta2, float64(a.t))
	for _, p := range params {
		for i, g := range p.g {
			p.m[i] = a.beta1*p.m[i] + (1-a.beta1)*g
			p.v[i] = a.beta2*p.v[i] + (1-a.beta2)*g*g
			mHat := p.m[i] / c1
			vHat := p.v[i] / c2
			p.w[i] -= a.lr * mHat / (math.Sqrt(vHat) + a.eps)
		}
	}
}
