// Package abtest compares the conversion rates of two groups by
// sampling the posterior of the two-proportion model with
// Metropolis-Hastings.
//
// A comparison is a pure computation: it takes the observations and
// the settings and returns the pooled posterior samples and the
// decision probabilities. Nothing is printed or plotted.
package abtest

import (
	"context"
	"fmt"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/abmcmc/decision"
	"bitbucket.org/Davydov/abmcmc/dist"
	"bitbucket.org/Davydov/abmcmc/mcmc"
	"bitbucket.org/Davydov/abmcmc/model"
	"bitbucket.org/Davydov/abmcmc/posterior"
)

var log = logging.MustGetLogger("abtest")

// Errors returned by Compare, to be tested with errors.Is.
var (
	ErrInvalidInput         = model.ErrInvalidInput
	ErrInvalidConfiguration = mcmc.ErrInvalidConfiguration
)

// Result is the outcome of a single comparison.
type Result struct {
	PA    *posterior.Sample
	PB    *posterior.Sample
	Delta *posterior.Sample

	Decision    decision.Result
	Diagnostics posterior.Diagnostics
	// Exact is the closed-form reference computed from the same
	// observations.
	Exact dist.Comparison

	Chains   []*mcmc.Chain
	A, B     *model.Observed
	Settings Settings
}

// Compare runs the chains, pools the draws after burn-in and
// computes P(A better than B) and P(A worse than B). Invalid input
// or settings are reported before any sampling starts.
func Compare(ctx context.Context, a, b *model.Observed, s *Settings) (*Result, error) {
	if a == nil || b == nil {
		return nil, fmt.Errorf("%w: missing observations", ErrInvalidInput)
	}
	if s == nil {
		s = NewSettings()
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	burnIn := s.EffectiveBurnIn()
	log.Infof("A: %v, B: %v", a, b)
	log.Infof("iterations=%d, chains=%d, burn-in=%d, scale=%v, seed=%d",
		s.Iterations, s.Chains, burnIn, s.ProposalScale, s.Seed)

	m := model.NewTwoProportion(a, b)
	chains, err := s.runner().Run(ctx, m, s.Iterations)
	if err != nil {
		return nil, err
	}

	post, err := posterior.Aggregate(chains, burnIn)
	if err != nil {
		return nil, err
	}
	diag, err := posterior.Diagnose(chains, burnIn)
	if err != nil {
		return nil, err
	}

	res := &Result{
		PA:          post.Get(model.PA),
		PB:          post.Get(model.PB),
		Delta:       post.Get(model.Delta),
		Diagnostics: diag,
		Exact:       dist.Compare(a.Successes(), a.Trials(), b.Successes(), b.Trials()),
		Chains:      chains,
		A:           a,
		B:           b,
		Settings:    *s,
	}
	res.Settings.BurnIn = burnIn
	res.Decision = decision.Summarize(res.Delta.Values)
	log.Infof("%v", res.Decision)
	return res, nil
}
