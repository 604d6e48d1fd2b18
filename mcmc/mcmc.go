// Package mcmc implements a random-walk Metropolis-Hastings sampler
// and a runner for multiple independent chains.
package mcmc

import (
	"errors"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("mcmc")

// ErrInvalidConfiguration is returned when sampler settings are
// invalid (e.g. non-positive number of iterations).
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Model is a density which can be sampled. Likelihood returns the
// log-likelihood at the current parameter values, priors are
// provided by the parameters.
type Model interface {
	GetFloatParameters() FloatParameters
	Likelihood() float64
	// Copy returns an independent model with the same data and
	// parameter values.
	Copy() Model
}
