// Package model provides the two-proportion Bernoulli model: two
// independent success probabilities with uniform priors.
package model

import (
	"math"

	"bitbucket.org/Davydov/abmcmc/mcmc"
)

// Parameter and derived quantity names.
const (
	PA    = "p_A"
	PB    = "p_B"
	Delta = "delta"
)

// TwoProportion is the posterior of p_A and p_B given the
// observations of both groups.
type TwoProportion struct {
	a, b       *Observed
	pA, pB     float64
	parameters mcmc.FloatParameters
}

// NewTwoProportion creates a model bound to the observations of
// groups A and B. Both probabilities are set to 0.5.
func NewTwoProportion(a, b *Observed) (m *TwoProportion) {
	m = &TwoProportion{
		a: a,
		b: b,
	}
	m.setupParameters()
	m.SetDefaults()
	return
}

func (m *TwoProportion) setupParameters() {
	m.parameters = mcmc.FloatParameters{
		mcmc.NewBasicFloatParameter(&m.pA, PA, 0, 1),
		mcmc.NewBasicFloatParameter(&m.pB, PB, 0, 1),
	}
}

func (m *TwoProportion) Copy() mcmc.Model {
	newM := &TwoProportion{
		a:  m.a,
		b:  m.b,
		pA: m.pA,
		pB: m.pB,
	}
	newM.setupParameters()
	return newM
}

func (m *TwoProportion) GetFloatParameters() mcmc.FloatParameters {
	return m.parameters
}

func (m *TwoProportion) GetParameters() (pA, pB float64) {
	return m.pA, m.pB
}

func (m *TwoProportion) SetParameters(pA, pB float64) {
	m.pA = pA
	m.pB = pB
}

func (m *TwoProportion) SetDefaults() {
	m.SetParameters(0.5, 0.5)
}

// Observations returns the observations of both groups.
func (m *TwoProportion) Observations() (a, b *Observed) {
	return m.a, m.b
}

// Likelihood returns the log-likelihood of both groups.
func (m *TwoProportion) Likelihood() float64 {
	return bernoulliLogLikelihood(m.a, m.pA) + bernoulliLogLikelihood(m.b, m.pB)
}

// LogPosterior returns the unnormalized log posterior, -Inf if any
// of the probabilities is outside of [0, 1].
func (m *TwoProportion) LogPosterior() float64 {
	return mcmc.LogPosterior(m)
}

// bernoulliLogLikelihood is s*log(p) + f*log(1-p); terms with zero
// counts are skipped, so p=0 and p=1 stay finite when possible.
func bernoulliLogLikelihood(o *Observed, p float64) (l float64) {
	if s := o.Successes(); s > 0 {
		l += float64(s) * math.Log(p)
	}
	if f := o.Failures(); f > 0 {
		l += float64(f) * math.Log1p(-p)
	}
	return
}
