package mcmc

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
)

// MH is a random-walk Metropolis-Hastings sampler. All the
// parameters are proposed together and accepted or rejected as a
// block.
type MH struct {
	Model
	parameters FloatParameters
	rng        *rand.Rand
	seed       uint64
	id         int
	l          float64
	// Scale is the proposal step size.
	Scale float64
	// AccPeriod is the period (in iterations) of acceptance rate
	// reporting.
	AccPeriod int
	// Tune is the number of tuning iterations before sampling.
	// Tuning iterations are not recorded.
	Tune int
	// TuneInterval is how often the scale is adjusted while
	// tuning.
	TuneInterval int
}

// NewMH creates a new MH sampler with a random source seeded by
// seed.
func NewMH(m Model, seed uint64) *MH {
	return &MH{
		Model:        m,
		parameters:   m.GetFloatParameters(),
		rng:          rand.New(rand.NewPCG(seed, seed^pcgStream)),
		seed:         seed,
		Scale:        1e-1,
		AccPeriod:    100,
		TuneInterval: 100,
	}
}

// pcgStream is xor'ed with the seed to get the second PCG word.
const pcgStream = 0xda3e39cb94b95bdb

// Rand returns the random source used by the sampler.
func (m *MH) Rand() *rand.Rand {
	return m.rng
}

func (m *MH) check(iterations int) error {
	if iterations <= 0 {
		return fmt.Errorf("%w: iterations must be > 0, got %d", ErrInvalidConfiguration, iterations)
	}
	if !(m.Scale > 0) || math.IsInf(m.Scale, 1) {
		return fmt.Errorf("%w: proposal scale must be > 0, got %v", ErrInvalidConfiguration, m.Scale)
	}
	if m.Tune < 0 {
		return fmt.Errorf("%w: tune must be >= 0, got %d", ErrInvalidConfiguration, m.Tune)
	}
	if m.Tune > 0 && m.TuneInterval <= 0 {
		return fmt.Errorf("%w: tune interval must be > 0, got %d", ErrInvalidConfiguration, m.TuneInterval)
	}
	return nil
}

// step performs a single Metropolis-Hastings step and returns true
// if the proposal was accepted.
func (m *MH) step() bool {
	m.parameters.Propose(m.rng, m.Scale)
	newL := LogPosterior(m.Model)
	// outside of the prior support or zero likelihood
	if math.IsInf(newL, -1) {
		m.parameters.Reject()
		return false
	}
	a := math.Exp(newL - m.l)
	if a >= 1 || m.rng.Float64() < a {
		m.parameters.Accept()
		m.l = newL
		return true
	}
	m.parameters.Reject()
	return false
}

// Run samples iterations draws. The returned chain does not include
// the starting point.
func (m *MH) Run(ctx context.Context, iterations int) (*Chain, error) {
	if err := m.check(iterations); err != nil {
		return nil, err
	}
	m.l = LogPosterior(m.Model)
	log.Debugf("chain %d: start %s, logpost=%f", m.id, m.parameters, m.l)

	if m.Tune > 0 {
		if err := m.tune(ctx); err != nil {
			return nil, err
		}
	}

	c := newChain(m.id, m.seed, m.parameters.Names(), m.parameters.Values(), iterations)
	c.Scale = m.Scale

	accepted := 0
	for i := 0; i < iterations; i++ {
		select {
		case <-ctx.Done():
			log.Warningf("chain %d: interrupted at iteration %d", m.id, i)
			return nil, ctx.Err()
		default:
		}

		if m.AccPeriod > 0 && i > 0 && i%m.AccPeriod == 0 {
			log.Debugf("chain %d: acceptance rate %.2f%%", m.id, 100*float64(accepted)/float64(m.AccPeriod))
			accepted = 0
		}

		if m.step() {
			accepted++
			c.Accepted++
		}
		c.Draws = append(c.Draws, m.parameters.Values())
		c.LogPost = append(c.LogPost, m.l)
	}
	log.Debugf("chain %d: finished, acceptance rate %.2f%%", m.id, 100*c.AcceptanceRate())
	return c, nil
}
