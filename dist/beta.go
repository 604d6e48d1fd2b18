// Package dist implements closed-form results for Beta posteriors of
// conversion rates.
package dist

import (
	"math"

	"gonum.org/v1/gonum/mathext"
	"gonum.org/v1/gonum/stat/distuv"
)

// maxExactAlpha limits the number of terms in ProbGreater.
const maxExactAlpha = 1e7

// BetaPosterior returns the posterior of a success probability
// after observing successes out of trials with a uniform prior,
// i.e. Beta(1+successes, 1+failures).
func BetaPosterior(successes, trials int) distuv.Beta {
	return distuv.Beta{
		Alpha: float64(1 + successes),
		Beta:  float64(1 + trials - successes),
	}
}

/*

ProbGreater returns P(Y > X), where X ~ Beta(ax, bx) and
Y ~ Beta(ay, by) are independent. ay should be a positive
integer, otherwise NaN is returned.

The sum is

	sum_{i=0}^{ay-1} B(ax+i, bx+by) / ((by+i) B(1+i, by) B(ax, bx))

(Evan Miller, "Formulas for Bayesian A/B Testing"), computed in
log space.

*/
func ProbGreater(ax, bx, ay, by float64) float64 {
	if ay < 1 || ay != math.Trunc(ay) || ay > maxExactAlpha ||
		ax <= 0 || bx <= 0 || by <= 0 {
		return math.NaN()
	}
	lbx := mathext.Lbeta(ax, bx)
	total := 0.0
	for i := 0.0; i < ay; i++ {
		total += math.Exp(mathext.Lbeta(ax+i, bx+by) - math.Log(by+i) - mathext.Lbeta(1+i, by) - lbx)
	}
	return math.Min(1, math.Max(0, total))
}

// Comparison is the closed-form counterpart of the sampled
// posterior.
type Comparison struct {
	MeanA float64
	MeanB float64
	// Better is P(p_A > p_B).
	Better float64
	// Worse is P(p_A < p_B).
	Worse float64
}

// Compare returns exact posterior means and probabilities for two
// groups with uniform priors. The probabilities are NaN if the
// number of successes in B is too large.
func Compare(successesA, trialsA, successesB, trialsB int) Comparison {
	a := BetaPosterior(successesA, trialsA)
	b := BetaPosterior(successesB, trialsB)
	worse := ProbGreater(a.Alpha, a.Beta, b.Alpha, b.Beta)
	return Comparison{
		MeanA:  a.Mean(),
		MeanB:  b.Mean(),
		Better: 1 - worse,
		Worse:  worse,
	}
}
