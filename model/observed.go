package model

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for observations which cannot be used
// (no observations, outcomes other than 0 and 1).
var ErrInvalidInput = errors.New("invalid input")

// Observed stores binary outcomes of one group. Bernoulli trials are
// exchangeable, so only the number of successes and the number of
// trials are kept.
type Observed struct {
	successes int
	trials    int
}

// NewObserved creates Observed from a sequence of 0/1 outcomes.
func NewObserved(values []int) (*Observed, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("%w: empty observation sequence", ErrInvalidInput)
	}
	s := 0
	for i, v := range values {
		switch v {
		case 0:
		case 1:
			s++
		default:
			return nil, fmt.Errorf("%w: outcome #%d is %d, expected 0 or 1", ErrInvalidInput, i, v)
		}
	}
	return &Observed{successes: s, trials: len(values)}, nil
}

// NewObservedFromCounts creates Observed from the number of
// successes and the total number of trials.
func NewObservedFromCounts(successes, trials int) (*Observed, error) {
	if trials <= 0 {
		return nil, fmt.Errorf("%w: number of trials must be > 0, got %d", ErrInvalidInput, trials)
	}
	if successes < 0 || successes > trials {
		return nil, fmt.Errorf("%w: %d successes out of %d trials", ErrInvalidInput, successes, trials)
	}
	return &Observed{successes: successes, trials: trials}, nil
}

func (o *Observed) Successes() int {
	return o.successes
}

func (o *Observed) Trials() int {
	return o.trials
}

func (o *Observed) Failures() int {
	return o.trials - o.successes
}

// Rate returns the observed success rate.
func (o *Observed) Rate() float64 {
	return float64(o.successes) / float64(o.trials)
}

func (o *Observed) String() string {
	return fmt.Sprintf("%d/%d", o.successes, o.trials)
}
