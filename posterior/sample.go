// Package posterior turns raw chains into pooled posterior samples.
package posterior

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// Sample is a pooled collection of draws of a single quantity. The
// order of values carries no meaning.
type Sample struct {
	Name   string
	Values []float64

	sorted []float64
}

// NewSample creates a sample. values are not copied and should not be
// modified afterwards.
func NewSample(name string, values []float64) *Sample {
	return &Sample{Name: name, Values: values}
}

func (s *Sample) Len() int {
	return len(s.Values)
}

func (s *Sample) Mean() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return stat.Mean(s.Values, nil)
}

func (s *Sample) StdDev() float64 {
	if len(s.Values) < 2 {
		return math.NaN()
	}
	return stat.StdDev(s.Values, nil)
}

func (s *Sample) sortedValues() []float64 {
	if s.sorted == nil {
		s.sorted = make([]float64, len(s.Values))
		copy(s.sorted, s.Values)
		sort.Float64s(s.sorted)
	}
	return s.sorted
}

// Quantile returns the empirical p-quantile.
func (s *Sample) Quantile(p float64) float64 {
	if len(s.Values) == 0 || p < 0 || p > 1 {
		return math.NaN()
	}
	return stat.Quantile(p, stat.Empirical, s.sortedValues(), nil)
}

// CredibleInterval returns the equal-tailed interval containing the
// given probability mass.
func (s *Sample) CredibleInterval(mass float64) (lo, hi float64) {
	tail := (1 - mass) / 2
	return s.Quantile(tail), s.Quantile(1 - tail)
}

// Min returns the smallest value.
func (s *Sample) Min() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	return s.sortedValues()[0]
}

// Max returns the largest value.
func (s *Sample) Max() float64 {
	if len(s.Values) == 0 {
		return math.NaN()
	}
	v := s.sortedValues()
	return v[len(v)-1]
}
