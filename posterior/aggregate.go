package posterior

import (
	"fmt"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/abmcmc/mcmc"
	"bitbucket.org/Davydov/abmcmc/model"
)

var log = logging.MustGetLogger("posterior")

// Posterior is the result of pooling: one sample per model parameter
// plus the derived delta = p_A - p_B.
type Posterior struct {
	Samples []*Sample
	// BurnIn is the number of draws discarded from every chain.
	BurnIn int
	// NChains is the number of pooled chains.
	NChains int
}

// Get returns the sample with the given name or nil.
func (p *Posterior) Get(name string) *Sample {
	for _, s := range p.Samples {
		if s.Name == name {
			return s
		}
	}
	return nil
}

// DefaultBurnIn returns the default burn-in: the first half of the
// chain.
func DefaultBurnIn(iterations int) int {
	return iterations / 2
}

// checkChains checks that all the chains have the same length and
// parameters, and that burnIn leaves at least one draw.
func checkChains(chains []*mcmc.Chain, burnIn int) error {
	if len(chains) == 0 {
		return fmt.Errorf("%w: no chains", mcmc.ErrInvalidConfiguration)
	}
	n := chains[0].Len()
	for _, c := range chains[1:] {
		if c.Len() != n {
			return fmt.Errorf("chain %d has %d draws, chain %d has %d", c.ID, c.Len(), chains[0].ID, n)
		}
		if len(c.Names) != len(chains[0].Names) {
			return fmt.Errorf("chain %d has %d parameters, chain %d has %d",
				c.ID, len(c.Names), chains[0].ID, len(chains[0].Names))
		}
	}
	if burnIn < 0 || burnIn >= n {
		return fmt.Errorf("%w: burn-in must be in [0, %d), got %d", mcmc.ErrInvalidConfiguration, n, burnIn)
	}
	return nil
}

// chainColumns returns per-chain post-burn-in draws of every
// parameter and of delta.
func chainColumns(chains []*mcmc.Chain, burnIn int) (names []string, cols map[string][][]float64, err error) {
	names = append(append(names, chains[0].Names...), model.Delta)
	cols = make(map[string][][]float64, len(names))
	for _, c := range chains {
		for _, name := range c.Names {
			col, err := c.Column(name, burnIn)
			if err != nil {
				return nil, nil, err
			}
			cols[name] = append(cols[name], col)
		}
		a, b := c.Index(model.PA), c.Index(model.PB)
		if a < 0 || b < 0 {
			return nil, nil, fmt.Errorf("chain %d has no %s and %s parameters", c.ID, model.PA, model.PB)
		}
		delta := make([]float64, 0, c.Len()-burnIn)
		for _, d := range c.Draws[burnIn:] {
			delta = append(delta, d[a]-d[b])
		}
		cols[model.Delta] = append(cols[model.Delta], delta)
	}
	return names, cols, nil
}

// Aggregate discards burnIn draws from every chain and concatenates
// the rest. Each resulting sample has len(chains)*(T-burnIn)
// values.
func Aggregate(chains []*mcmc.Chain, burnIn int) (*Posterior, error) {
	if err := checkChains(chains, burnIn); err != nil {
		return nil, err
	}
	names, cols, err := chainColumns(chains, burnIn)
	if err != nil {
		return nil, err
	}

	per := chains[0].Len() - burnIn
	p := &Posterior{
		BurnIn:  burnIn,
		NChains: len(chains),
	}
	for _, name := range names {
		pooled := make([]float64, 0, per*len(chains))
		for _, col := range cols[name] {
			pooled = append(pooled, col...)
		}
		p.Samples = append(p.Samples, NewSample(name, pooled))
	}
	log.Debugf("Pooled %d chains, %d draws each after burn-in of %d", len(chains), per, burnIn)
	return p, nil
}
