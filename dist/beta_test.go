package dist

import (
	"math"
	"testing"
)

const smallDiff = 1e-6

/*** Tests if a and b are approximately equal ***/
func appreq(a, b float64) bool {
	return math.Abs(a-b) <= smallDiff
}

func TestProbGreater(tst *testing.T) {
	tests := []struct {
		ax, bx, ay, by float64
		p              float64
	}{
		{1, 1, 1, 1, 0.5},
		{1, 1, 2, 1, 2. / 3},
		{2, 1, 1, 1, 1. / 3},
		// 10/20 vs 15/20
		{11, 11, 16, 6, 0.944550929},
		{16, 6, 11, 11, 0.055449071},
	}
	for _, t := range tests {
		p := ProbGreater(t.ax, t.bx, t.ay, t.by)
		if !appreq(p, t.p) {
			tst.Errorf("P(Beta(%v,%v) > Beta(%v,%v)): expected %v, got %v",
				t.ay, t.by, t.ax, t.bx, t.p, p)
		}
	}
}

func TestProbGreaterNaN(tst *testing.T) {
	for _, p := range []float64{
		ProbGreater(1, 1, 1.5, 1),
		ProbGreater(1, 1, 0, 1),
		ProbGreater(0, 1, 1, 1),
		ProbGreater(1, 1, 2e7, 1),
	} {
		if !math.IsNaN(p) {
			tst.Errorf("Expected NaN, got %v", p)
		}
	}
}

func TestBetaPosterior(tst *testing.T) {
	b := BetaPosterior(10, 20)
	if b.Alpha != 11 || b.Beta != 11 {
		tst.Errorf("Expected Beta(11, 11), got Beta(%v, %v)", b.Alpha, b.Beta)
	}
	if !appreq(b.Mean(), 0.5) {
		tst.Errorf("Expected mean 0.5, got %v", b.Mean())
	}
}

func TestCompare(tst *testing.T) {
	c := Compare(10, 20, 15, 20)
	if !appreq(c.MeanA, 11./22) || !appreq(c.MeanB, 16./22) {
		tst.Errorf("Unexpected means: %v, %v", c.MeanA, c.MeanB)
	}
	if !appreq(c.Worse, 0.944550929) {
		tst.Errorf("Expected P(worse)=0.9446, got %v", c.Worse)
	}
	if !appreq(c.Better+c.Worse, 1) {
		tst.Errorf("Probabilities do not sum to 1: %v + %v", c.Better, c.Worse)
	}

	// symmetry
	r := Compare(15, 20, 10, 20)
	if !appreq(r.Better, c.Worse) || !appreq(r.Worse, c.Better) {
		tst.Errorf("Swapping groups should swap probabilities: %v vs %v", r, c)
	}
}
