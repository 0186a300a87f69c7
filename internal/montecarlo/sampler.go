package montecarlo

import (
	"math"
	"math/rand"
)

// sampler wraps a seeded source with the draw shapes the risk models need.
// Every stochastic path in the package goes through an explicit seed so
// tests can assert exact distributional outputs.
type sampler struct {
	r *rand.Rand
}

func newSampler(seed int64) *sampler {
	return &sampler{r: rand.New(rand.NewSource(seed))}
}

func (s *sampler) uniform(lo, hi float64) float64 {
	return lo + s.r.Float64()*(hi-lo)
}

func (s *sampler) normal(mean, stddev float64) float64 {
	return mean + s.r.NormFloat64()*stddev
}

// poisson draws a Poisson variate via Knuth's method. Fine for the small
// lambdas the models use.
func (s *sampler) poisson(lambda float64) int {
	l := math.Exp(-lambda)
	k := 0
	p := 1.0
	for {
		p *= s.r.Float64()
		if p <= l {
			return k
		}
		k++
	}
}

// beta draws Beta(a,b) as Ga/(Ga+Gb).
func (s *sampler) beta(a, b float64) float64 {
	ga := s.gamma(a)
	gb := s.gamma(b)
	if ga+gb == 0 {
		return 0
	}
	return ga / (ga + gb)
}

// gamma draws Gamma(shape,1) using Marsaglia-Tsang, with the standard boost
// for shape < 1.
func (s *sampler) gamma(shape float64) float64 {
	if shape < 1 {
		u := s.r.Float64()
		return s.gamma(shape+1) * math.Pow(u, 1/shape)
	}
	d := shape - 1.0/3.0
	c := 1.0 / math.Sqrt(9*d)
	for {
		x := s.r.NormFloat64()
		v := 1 + c*x
		if v <= 0 {
			continue
		}
		v = v * v * v
		u := s.r.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}
