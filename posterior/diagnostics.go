package posterior

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"bitbucket.org/Davydov/abmcmc/mcmc"
)

// Diagnostics holds per-chain acceptance rates and the potential
// scale reduction factor (R-hat) of every pooled quantity.
type Diagnostics struct {
	AcceptanceRates []float64
	RHat            map[string]float64
}

// Converged returns true if all R-hat values are below thr. NaN
// values (not enough chains or draws) are ignored.
func (d Diagnostics) Converged(thr float64) bool {
	for _, r := range d.RHat {
		if r >= thr {
			return false
		}
	}
	return true
}

// Diagnose computes diagnostics for the chains after discarding
// burnIn draws.
func Diagnose(chains []*mcmc.Chain, burnIn int) (Diagnostics, error) {
	d := Diagnostics{
		AcceptanceRates: make([]float64, len(chains)),
		RHat:            make(map[string]float64),
	}
	if err := checkChains(chains, burnIn); err != nil {
		return d, err
	}
	for i, c := range chains {
		d.AcceptanceRates[i] = c.AcceptanceRate()
	}
	names, cols, err := chainColumns(chains, burnIn)
	if err != nil {
		return d, err
	}
	for _, name := range names {
		d.RHat[name] = RHat(cols[name])
		if d.RHat[name] > 1.1 {
			log.Infof("%s: R-hat=%.3f, chains may not have converged", name, d.RHat[name])
		}
	}
	return d, nil
}

// RHat returns the Gelman-Rubin potential scale reduction factor for
// draws of the same quantity from several chains of equal length.
// NaN is returned for fewer than two chains or draws. If all the
// draws are identical, R-hat is 1.
func RHat(chains [][]float64) float64 {
	m := len(chains)
	if m < 2 {
		return math.NaN()
	}
	n := len(chains[0])
	if n < 2 {
		return math.NaN()
	}
	means := make([]float64, m)
	w := 0.0
	for i, c := range chains {
		mean, v := stat.MeanVariance(c, nil)
		means[i] = mean
		w += v
	}
	w /= float64(m)
	b := float64(n) * stat.Variance(means, nil)
	if w == 0 {
		if b == 0 {
			return 1
		}
		return math.Inf(1)
	}
	v := float64(n-1)/float64(n)*w + b/float64(n)
	return math.Sqrt(v / w)
}
