package model

import (
	"errors"
	"math"
	"testing"
)

func TestNewObserved(tst *testing.T) {
	o, err := NewObserved([]int{1, 0, 1, 1, 0})
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if o.Successes() != 3 || o.Trials() != 5 || o.Failures() != 2 {
		tst.Errorf("Expected 3/5, got %v", o)
	}
	if o.Rate() != 0.6 {
		tst.Errorf("Expected rate 0.6, got %v", o.Rate())
	}
	if o.String() != "3/5" {
		tst.Errorf("Expected \"3/5\", got %q", o.String())
	}
}

func TestNewObservedInvalid(tst *testing.T) {
	for _, values := range [][]int{nil, {}, {0, 1, 2}, {-1}} {
		if _, err := NewObserved(values); !errors.Is(err, ErrInvalidInput) {
			tst.Errorf("%v: expected ErrInvalidInput, got %v", values, err)
		}
	}
	for _, c := range [][2]int{{1, 0}, {-1, 5}, {6, 5}} {
		if _, err := NewObservedFromCounts(c[0], c[1]); !errors.Is(err, ErrInvalidInput) {
			tst.Errorf("%v: expected ErrInvalidInput, got %v", c, err)
		}
	}
}

func counts(tst *testing.T, s, n int) *Observed {
	o, err := NewObservedFromCounts(s, n)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	return o
}

func TestLikelihood(tst *testing.T) {
	m := NewTwoProportion(counts(tst, 3, 10), counts(tst, 0, 4))
	m.SetParameters(0.3, 0.2)
	exp := 3*math.Log(0.3) + 7*math.Log(0.7) + 4*math.Log(0.8)
	if l := m.Likelihood(); math.Abs(l-exp) > 1e-12 {
		tst.Errorf("Expected %v, got %v", exp, l)
	}
	if l := m.LogPosterior(); math.Abs(l-exp) > 1e-12 {
		tst.Errorf("Expected log posterior %v, got %v", exp, l)
	}
}

func TestLikelihoodBoundaries(tst *testing.T) {
	// all failures in A, all successes in B
	m := NewTwoProportion(counts(tst, 0, 5), counts(tst, 5, 5))
	m.SetParameters(0, 1)
	if l := m.LogPosterior(); l != 0 {
		tst.Errorf("Expected log posterior 0, got %v", l)
	}
	m.SetParameters(1, 0)
	if l := m.LogPosterior(); !math.IsInf(l, -1) {
		tst.Errorf("Expected -Inf, got %v", l)
	}
}

func TestLogPosteriorOutside(tst *testing.T) {
	m := NewTwoProportion(counts(tst, 3, 10), counts(tst, 5, 10))
	for _, p := range [][2]float64{{-0.1, 0.5}, {0.5, 1.1}, {math.NaN(), 0.5}} {
		m.SetParameters(p[0], p[1])
		if l := m.LogPosterior(); !math.IsInf(l, -1) {
			tst.Errorf("%v: expected -Inf, got %v", p, l)
		}
	}
}

func TestCopy(tst *testing.T) {
	m := NewTwoProportion(counts(tst, 3, 10), counts(tst, 5, 10))
	m.SetParameters(0.2, 0.7)
	c := m.Copy().(*TwoProportion)
	c.GetFloatParameters()[0].Set(0.9)
	if pA, _ := m.GetParameters(); pA != 0.2 {
		tst.Errorf("Copy shares parameters with the original, pA=%v", pA)
	}
	if pA, pB := c.GetParameters(); pA != 0.9 || pB != 0.7 {
		tst.Errorf("Expected copy (0.9, 0.7), got (%v, %v)", pA, pB)
	}
	names := c.GetFloatParameters().Names()
	if len(names) != 2 || names[0] != PA || names[1] != PB {
		tst.Errorf("Unexpected parameter names: %v", names)
	}
}
