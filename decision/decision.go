// Package decision reduces the posterior of delta = p_A - p_B to
// the probabilities of A being better or worse than B.
package decision

import "fmt"

// Result stores probabilities estimated from delta samples. Draws
// with delta exactly zero count toward neither Better nor Worse, so
// Better+Worse <= 1 and the rest is Ties.
type Result struct {
	// Better is P(A better than B), i.e. fraction of delta > 0.
	Better float64 `json:"better"`
	// Worse is P(A worse than B), i.e. fraction of delta < 0.
	Worse float64 `json:"worse"`
	// Ties is the fraction of delta == 0.
	Ties float64 `json:"ties"`
}

// Summarize computes Result from delta samples. An empty sample
// gives a zero Result.
func Summarize(delta []float64) (r Result) {
	if len(delta) == 0 {
		return
	}
	var better, worse, ties int
	for _, d := range delta {
		switch {
		case d > 0:
			better++
		case d < 0:
			worse++
		case d == 0:
			ties++
		}
	}
	n := float64(len(delta))
	r.Better = float64(better) / n
	r.Worse = float64(worse) / n
	r.Ties = float64(ties) / n
	return
}

func (r Result) String() string {
	return fmt.Sprintf("P(better)=%.3f, P(worse)=%.3f", r.Better, r.Worse)
}
