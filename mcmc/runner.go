package mcmc

import (
	"context"
	"fmt"
	"math/rand/v2"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Runner runs several independent chains of the MH sampler. Every
// chain works on its own copy of the model and has its own random
// source. Chain seeds are derived from Seed, so the whole run is
// reproducible.
type Runner struct {
	Chains int
	Seed   uint64
	// Randomize sets a uniform random starting point for every
	// chain; otherwise chains start from the model values.
	Randomize bool
	// Threads limits the number of chains running at the same
	// time; <= 0 means GOMAXPROCS.
	Threads int

	Scale        float64
	Proposal     ProposalFunc
	Tune         int
	TuneInterval int
	AccPeriod    int
}

// NewRunner creates a runner with the default settings: two chains
// and a normal proposal.
func NewRunner(seed uint64) *Runner {
	return &Runner{
		Chains:       2,
		Seed:         seed,
		Scale:        1e-1,
		Proposal:     NormalProposal,
		TuneInterval: 100,
		AccPeriod:    100,
	}
}

// ChainSeeds returns per chain seeds derived from the master seed.
func ChainSeeds(seed uint64, n int) []uint64 {
	master := rand.New(rand.NewPCG(seed, seed^pcgStream))
	seeds := make([]uint64, n)
	for i := range seeds {
		seeds[i] = master.Uint64()
	}
	return seeds
}

func (r *Runner) newSampler(m Model, id int, seed uint64) (*MH, error) {
	mh := NewMH(m.Copy(), seed)
	mh.id = id
	mh.Scale = r.Scale
	mh.Tune = r.Tune
	mh.TuneInterval = r.TuneInterval
	mh.AccPeriod = r.AccPeriod
	if r.Proposal != nil {
		mh.parameters.SetProposalFunc(r.Proposal)
	}
	if r.Randomize {
		mh.parameters.Randomize(mh.Rand())
	}
	if !mh.parameters.InRange() {
		return nil, fmt.Errorf("chain %d: starting point is out of range: %s", id, mh.parameters)
	}
	return mh, mh.check(1)
}

// Run runs all the chains for the given number of iterations. The
// model m itself is not modified. Chains are returned in order of
// their ids.
func (r *Runner) Run(ctx context.Context, m Model, iterations int) ([]*Chain, error) {
	if r.Chains <= 0 {
		return nil, fmt.Errorf("%w: chains must be > 0, got %d", ErrInvalidConfiguration, r.Chains)
	}
	if iterations <= 0 {
		return nil, fmt.Errorf("%w: iterations must be > 0, got %d", ErrInvalidConfiguration, iterations)
	}

	seeds := ChainSeeds(r.Seed, r.Chains)
	samplers := make([]*MH, r.Chains)
	for i := range samplers {
		mh, err := r.newSampler(m, i, seeds[i])
		if err != nil {
			return nil, err
		}
		samplers[i] = mh
	}

	threads := r.Threads
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	log.Infof("Running %d chains of %d iterations (%d threads)", r.Chains, iterations, threads)

	chains := make([]*Chain, r.Chains)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(threads)
	for i, mh := range samplers {
		g.Go(func() error {
			c, err := mh.Run(gctx, iterations)
			if err != nil {
				return fmt.Errorf("chain %d: %w", i, err)
			}
			chains[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return chains, nil
}
