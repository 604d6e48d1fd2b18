package abtest

import (
	"fmt"

	"bitbucket.org/Davydov/abmcmc/mcmc"
	"bitbucket.org/Davydov/abmcmc/posterior"
)

// Settings are the sampler settings of one comparison.
type Settings struct {
	// Iterations is the number of recorded draws per chain.
	Iterations int `json:"iterations"`
	// Chains is the number of independent chains.
	Chains int `json:"chains"`
	// BurnIn is the number of draws discarded from every chain;
	// negative means half of the iterations.
	BurnIn int `json:"burnIn"`
	// ProposalScale is the random-walk step size.
	ProposalScale float64 `json:"proposalScale"`
	// Proposal is the proposal kind, "normal" or "uniform".
	Proposal string `json:"proposal"`
	// Seed controls all the random streams.
	Seed uint64 `json:"seed"`
	// Tune is the number of unrecorded scale tuning iterations.
	Tune int `json:"tune"`
	// TuneInterval is how often the scale is adjusted while tuning.
	TuneInterval int `json:"tuneInterval"`
	// Randomize starts every chain from a random point instead
	// of (0.5, 0.5).
	Randomize bool `json:"randomize"`
	// Threads is the maximum number of chains running at once.
	Threads int `json:"-"`
	// AccPeriod is the acceptance rate reporting period.
	AccPeriod int `json:"-"`
}

// NewSettings returns the default settings.
func NewSettings() *Settings {
	return &Settings{
		Iterations:    100,
		Chains:        2,
		BurnIn:        -1,
		ProposalScale: 0.1,
		Proposal:      "normal",
		Seed:          1,
		TuneInterval:  100,
		AccPeriod:     100,
	}
}

// EffectiveBurnIn returns the burn-in, resolving the default.
func (s *Settings) EffectiveBurnIn() int {
	if s.BurnIn < 0 {
		return posterior.DefaultBurnIn(s.Iterations)
	}
	return s.BurnIn
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	if s.Iterations <= 0 {
		return fmt.Errorf("%w: iterations must be > 0, got %d", ErrInvalidConfiguration, s.Iterations)
	}
	if s.Chains <= 0 {
		return fmt.Errorf("%w: chains must be > 0, got %d", ErrInvalidConfiguration, s.Chains)
	}
	if b := s.EffectiveBurnIn(); b >= s.Iterations {
		return fmt.Errorf("%w: burn-in (%d) must be less than iterations (%d)", ErrInvalidConfiguration, b, s.Iterations)
	}
	if !(s.ProposalScale > 0) {
		return fmt.Errorf("%w: proposal scale must be > 0, got %v", ErrInvalidConfiguration, s.ProposalScale)
	}
	if _, err := mcmc.GetProposal(s.Proposal); err != nil {
		return err
	}
	if s.Tune < 0 {
		return fmt.Errorf("%w: tune must be >= 0, got %d", ErrInvalidConfiguration, s.Tune)
	}
	if s.Tune > 0 && s.TuneInterval <= 0 {
		return fmt.Errorf("%w: tune interval must be > 0, got %d", ErrInvalidConfiguration, s.TuneInterval)
	}
	return nil
}

// runner creates a chain runner from the settings.
func (s *Settings) runner() *mcmc.Runner {
	r := mcmc.NewRunner(s.Seed)
	r.Chains = s.Chains
	r.Randomize = s.Randomize
	r.Threads = s.Threads
	r.Scale = s.ProposalScale
	r.Proposal, _ = mcmc.GetProposal(s.Proposal)
	r.Tune = s.Tune
	r.TuneInterval = s.TuneInterval
	r.AccPeriod = s.AccPeriod
	return r
}
