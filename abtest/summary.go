package abtest

import (
	"encoding/json"
	"math"

	"bitbucket.org/Davydov/abmcmc/decision"
	"bitbucket.org/Davydov/abmcmc/posterior"
)

// IntervalMass is the probability mass of reported credible
// intervals.
const IntervalMass = 0.94

// Float is a float64 which is stored in JSON as null when it is not
// finite.
type Float float64

func (f Float) MarshalJSON() ([]byte, error) {
	if math.IsNaN(float64(f)) || math.IsInf(float64(f), 0) {
		return []byte("null"), nil
	}
	return json.Marshal(float64(f))
}

func (f *Float) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = Float(math.NaN())
		return nil
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Float(v)
	return nil
}

// QuantitySummary summarizes the posterior of one quantity.
type QuantitySummary struct {
	Mean   Float `json:"mean"`
	SD     Float `json:"sd"`
	Lower  Float `json:"lower"`
	Upper  Float `json:"upper"`
	RHat   Float `json:"rHat"`
	NDraws int   `json:"nDraws"`
}

// GroupSummary stores observed counts of one group.
type GroupSummary struct {
	Successes int `json:"successes"`
	Trials    int `json:"trials"`
}

// ExactSummary is the closed-form reference.
type ExactSummary struct {
	MeanA  Float `json:"meanA"`
	MeanB  Float `json:"meanB"`
	Better Float `json:"better"`
	Worse  Float `json:"worse"`
}

// Summary is a serializable summary of a Result.
type Summary struct {
	Settings        Settings                   `json:"settings"`
	A               GroupSummary               `json:"a"`
	B               GroupSummary               `json:"b"`
	Quantities      map[string]QuantitySummary `json:"quantities"`
	Decision        decision.Result            `json:"decision"`
	Exact           ExactSummary               `json:"exact"`
	AcceptanceRates []float64                  `json:"acceptanceRates"`
}

func summarize(s *posterior.Sample, rhat float64) QuantitySummary {
	lo, hi := s.CredibleInterval(IntervalMass)
	return QuantitySummary{
		Mean:   Float(s.Mean()),
		SD:     Float(s.StdDev()),
		Lower:  Float(lo),
		Upper:  Float(hi),
		RHat:   Float(rhat),
		NDraws: s.Len(),
	}
}

// Summary returns the summary of the result.
func (r *Result) Summary() Summary {
	s := Summary{
		Settings:   r.Settings,
		A:          GroupSummary{Successes: r.A.Successes(), Trials: r.A.Trials()},
		B:          GroupSummary{Successes: r.B.Successes(), Trials: r.B.Trials()},
		Quantities: make(map[string]QuantitySummary, 3),
		Decision:   r.Decision,
		Exact: ExactSummary{
			MeanA:  Float(r.Exact.MeanA),
			MeanB:  Float(r.Exact.MeanB),
			Better: Float(r.Exact.Better),
			Worse:  Float(r.Exact.Worse),
		},
		AcceptanceRates: r.Diagnostics.AcceptanceRates,
	}
	for _, q := range []*posterior.Sample{r.PA, r.PB, r.Delta} {
		rhat, ok := r.Diagnostics.RHat[q.Name]
		if !ok {
			rhat = math.NaN()
		}
		s.Quantities[q.Name] = summarize(q, rhat)
	}
	return s
}
