// Package report prints and plots results of comparisons.
package report

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/aybabtme/uniplot/histogram"
	"github.com/op/go-logging"

	"bitbucket.org/Davydov/abmcmc/abtest"
	"bitbucket.org/Davydov/abmcmc/model"
	"bitbucket.org/Davydov/abmcmc/posterior"
)

var log = logging.MustGetLogger("report")

// DefaultBins is the default number of histogram bins.
const DefaultBins = 30

// histWidth is the width of the longest text histogram bar.
const histWidth = 40

// Labels names the groups and the metric of a comparison.
type Labels struct {
	A, B   string
	Metric string
}

// NewLabels returns labels, using "A" and "B" for empty group names.
func NewLabels(a, b, metric string) Labels {
	if a == "" {
		a = "A"
	}
	if b == "" {
		b = "B"
	}
	return Labels{A: a, B: b, Metric: metric}
}

// title returns the histogram title of a posterior quantity.
func (l Labels) title(name string) string {
	var s string
	switch name {
	case model.PA:
		s = "Posterior of " + l.A
	case model.PB:
		s = "Posterior of " + l.B
	default:
		return "Posterior of Delta"
	}
	if l.Metric != "" {
		s += " - " + l.Metric
	}
	return s
}

// finite returns finite values only.
func finite(values []float64) []float64 {
	res := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			res = append(res, v)
		}
	}
	return res
}

// Histogram prints a text histogram of the sample.
func Histogram(w io.Writer, title string, s *posterior.Sample, bins int) error {
	if bins <= 0 {
		bins = DefaultBins
	}
	if _, err := fmt.Fprintf(w, "%s (%d draws)\n", title, s.Len()); err != nil {
		return err
	}
	h := histogram.Hist(bins, finite(s.Values))
	return histogram.Fprint(w, h, histogram.Linear(histWidth))
}

// Decision prints probabilities of A being worse and better than B.
func Decision(w io.Writer, l Labels, res *abtest.Result) error {
	_, err := fmt.Fprintf(w, "Probability %s is WORSE than %s: %.3f\n", l.A, l.B, res.Decision.Worse)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "Probability %s is BETTER than %s: %.3f\n", l.A, l.B, res.Decision.Better)
	return err
}

func fmtFloat(v float64) string {
	if math.IsNaN(v) {
		return "NA"
	}
	return fmt.Sprintf("%.4f", v)
}

// Table prints the posterior summary table with credible intervals
// and R-hat values.
func Table(w io.Writer, l Labels, res *abtest.Result) error {
	tw := tabwriter.NewWriter(w, 2, 2, 2, ' ', 0)
	lo := fmt.Sprintf("%.0f%%lo", (1-abtest.IntervalMass)/2*100)
	hi := fmt.Sprintf("%.0f%%hi", (1+abtest.IntervalMass)/2*100)
	fmt.Fprintf(tw, "quantity\tmean\tsd\t%s\t%s\tR-hat\n", lo, hi)
	sum := res.Summary()
	for _, s := range []*posterior.Sample{res.PA, res.PB, res.Delta} {
		q := sum.Quantities[s.Name]
		name := s.Name
		switch s.Name {
		case model.PA:
			name += " (" + l.A + ")"
		case model.PB:
			name += " (" + l.B + ")"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", name,
			fmtFloat(float64(q.Mean)), fmtFloat(float64(q.SD)),
			fmtFloat(float64(q.Lower)), fmtFloat(float64(q.Upper)),
			fmtFloat(float64(q.RHat)))
	}
	return tw.Flush()
}

// Text writes the full text report: observed rates, histograms of
// the three posteriors, the summary table, the acceptance rates, the
// closed-form reference and the decision.
func Text(w io.Writer, l Labels, res *abtest.Result, bins int) error {
	fmt.Fprintf(w, "%s: %v (%.4f)\n", l.A, res.A, res.A.Rate())
	fmt.Fprintf(w, "%s: %v (%.4f)\n", l.B, res.B, res.B.Rate())
	fmt.Fprintf(w, "%d chains x %d iterations, burn-in %d, seed %d\n\n",
		res.Settings.Chains, res.Settings.Iterations, res.Settings.BurnIn, res.Settings.Seed)

	for _, s := range []*posterior.Sample{res.PA, res.PB, res.Delta} {
		if err := Histogram(w, l.title(s.Name), s, bins); err != nil {
			return err
		}
		fmt.Fprintln(w)
	}

	if err := Table(w, l, res); err != nil {
		return err
	}

	rates := make([]string, len(res.Diagnostics.AcceptanceRates))
	for i, r := range res.Diagnostics.AcceptanceRates {
		rates[i] = fmt.Sprintf("%.3f", r)
	}
	fmt.Fprintf(w, "Acceptance rates: %s\n", strings.Join(rates, " "))
	if !res.Diagnostics.Converged(1.1) {
		fmt.Fprintln(w, "Warning: R-hat > 1.1, chains may not have converged")
	}
	fmt.Fprintf(w, "Exact: P(%s better)=%s, P(%s worse)=%s\n",
		l.A, fmtFloat(res.Exact.Better), l.A, fmtFloat(res.Exact.Worse))

	log.Debugf("Text report for %s written", l.Metric)
	return Decision(w, l, res)
}
