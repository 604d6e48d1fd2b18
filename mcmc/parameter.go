package mcmc

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// FloatParameter is a bounded real model parameter. Proposals may
// leave the bounds; the prior is -Inf there, so such proposals are
// rejected.
type FloatParameter interface {
	Name() string
	Get() float64
	Set(float64)
	Bounds() (min, max float64)
	// Prior returns the log prior density at the current value.
	Prior() float64
	Propose(r *rand.Rand, scale float64)
	Accept()
	Reject()
	SetProposalFunc(ProposalFunc)
}

// FloatParameters is the parameter vector of a model. The sampler
// moves all the parameters together.
type FloatParameters []FloatParameter

func (p *FloatParameters) Append(par FloatParameter) {
	*p = append(*p, par)
}

// Names returns parameter names in order.
func (p FloatParameters) Names() []string {
	s := make([]string, len(p))
	for i, par := range p {
		s[i] = par.Name()
	}
	return s
}

// Values returns a copy of the current values.
func (p FloatParameters) Values() []float64 {
	v := make([]float64, len(p))
	for i, par := range p {
		v[i] = par.Get()
	}
	return v
}

// SetProposalFunc sets the same proposal function for every
// parameter.
func (p FloatParameters) SetProposalFunc(f ProposalFunc) {
	for _, par := range p {
		par.SetProposalFunc(f)
	}
}

// Randomize draws every parameter uniformly between its bounds.
func (p FloatParameters) Randomize(r *rand.Rand) {
	for _, par := range p {
		min, max := par.Bounds()
		par.Set(min + r.Float64()*(max-min))
	}
}

func (p FloatParameters) InRange() bool {
	for _, par := range p {
		min, max := par.Bounds()
		if v := par.Get(); !(v >= min && v <= max) {
			return false
		}
	}
	return true
}

func (p FloatParameters) Propose(r *rand.Rand, scale float64) {
	for _, par := range p {
		par.Propose(r, scale)
	}
}

func (p FloatParameters) Accept() {
	for _, par := range p {
		par.Accept()
	}
}

func (p FloatParameters) Reject() {
	for _, par := range p {
		par.Reject()
	}
}

func (p FloatParameters) String() string {
	s := make([]string, len(p))
	for i, par := range p {
		s[i] = par.Name() + "=" + strconv.FormatFloat(par.Get(), 'f', 6, 64)
	}
	return strings.Join(s, " ")
}

// BasicFloatParameter points to a model field and remembers the
// value before the last proposal.
type BasicFloatParameter struct {
	v        *float64
	old      float64
	name     string
	min, max float64
	prior    func(float64) float64
	proposal ProposalFunc
}

// NewBasicFloatParameter creates a parameter bound to v with a
// uniform prior on [min, max] and a normal proposal.
func NewBasicFloatParameter(v *float64, name string, min, max float64) *BasicFloatParameter {
	return &BasicFloatParameter{
		v:        v,
		name:     name,
		min:      min,
		max:      max,
		prior:    UniformPrior(min, max, true, true),
		proposal: NormalProposal,
	}
}

func (p *BasicFloatParameter) Name() string {
	return p.name
}

func (p *BasicFloatParameter) Get() float64 {
	return *p.v
}

func (p *BasicFloatParameter) Set(v float64) {
	*p.v = v
}

func (p *BasicFloatParameter) Bounds() (min, max float64) {
	return p.min, p.max
}

// SetPriorFunc replaces the uniform prior. f should be -Inf outside
// of the bounds.
func (p *BasicFloatParameter) SetPriorFunc(f func(float64) float64) {
	p.prior = f
}

func (p *BasicFloatParameter) SetProposalFunc(f ProposalFunc) {
	p.proposal = f
}

func (p *BasicFloatParameter) Prior() float64 {
	return p.prior(*p.v)
}

func (p *BasicFloatParameter) Propose(r *rand.Rand, scale float64) {
	p.old = *p.v
	*p.v = p.proposal(p.old, scale, r)
}

func (p *BasicFloatParameter) Accept() {
	p.old = *p.v
}

func (p *BasicFloatParameter) Reject() {
	*p.v = p.old
}
