package mcmc

import (
	"fmt"
	"math/rand/v2"
)

// ProposalFunc returns a proposed value given the current value x
// and the step scale. All the proposals here are symmetric, so the
// proposal ratio is always 1.
type ProposalFunc func(x, scale float64, r *rand.Rand) float64

// Returns a random value in the range [0, 1], including 1.
func Rand(r *rand.Rand) float64 {
	// 1.0 is not included and we would like to be symmetric
	f := float64(1)
	for f > 0.999 {
		f = r.Float64()
	}
	return f / 0.999
}

// NormalProposal adds normal noise with sd=scale.
func NormalProposal(x, scale float64, r *rand.Rand) float64 {
	return x + r.NormFloat64()*scale
}

// UniformProposal moves x uniformly inside [x-scale, x+scale].
func UniformProposal(x, scale float64, r *rand.Rand) float64 {
	return x + (2*Rand(r)-1)*scale
}

// GetProposal returns a proposal function by name.
func GetProposal(name string) (ProposalFunc, error) {
	switch name {
	case "normal":
		return NormalProposal, nil
	case "uniform":
		return UniformProposal, nil
	}
	return nil, fmt.Errorf("%w: unknown proposal: %s", ErrInvalidConfiguration, name)
}
