package mcmc

import (
	"math"
)

// UniformPrior returns the log density of a uniform distribution on
// the interval between min and max. incmin and incmax control
// whether the boundaries belong to the support. Outside of the
// support the density is -Inf.
func UniformPrior(min, max float64, incmin, incmax bool) func(float64) float64 {
	if max <= min {
		panic("max <= min")
	}
	return func(x float64) float64 {
		if (incmin && x < min) ||
			(!incmin && x <= min) ||
			(incmax && x > max) ||
			(!incmax && x >= max) ||
			math.IsNaN(x) {
			return math.Inf(-1)
		} else {
			return -math.Log(max - min)
		}
	}
}

// LogPosterior returns the unnormalized log posterior density of the
// model at the current parameter values. If any of the priors is
// zero, the likelihood is not computed.
func LogPosterior(m Model) float64 {
	lp := 0.0
	for _, par := range m.GetFloatParameters() {
		p := par.Prior()
		if math.IsInf(p, -1) {
			return p
		}
		lp += p
	}
	return lp + m.Likelihood()
}
