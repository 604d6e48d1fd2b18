package abtest

import (
	"context"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket.org/Davydov/abmcmc/model"
)

func outcomes(t *testing.T, successes, trials int) *model.Observed {
	o, err := model.NewObservedFromCounts(successes, trials)
	require.NoError(t, err)
	return o
}

func settings(iter, burnIn, chains int, seed uint64) *Settings {
	s := NewSettings()
	s.Iterations = iter
	s.BurnIn = burnIn
	s.Chains = chains
	s.Seed = seed
	return s
}

func TestCompareScenario(t *testing.T) {
	res, err := Compare(context.Background(), outcomes(t, 10, 20), outcomes(t, 15, 20), settings(2000, 1000, 2, 42))
	require.NoError(t, err)

	assert.Equal(t, 2000, res.PA.Len())
	assert.Equal(t, 2000, res.PB.Len())
	assert.Equal(t, 2000, res.Delta.Len())
	assert.InDelta(t, 0.5, res.PA.Mean(), 0.1)
	assert.InDelta(t, 0.75, res.PB.Mean(), 0.1)
	assert.Greater(t, res.Decision.Worse, res.Decision.Better)
	assert.InDelta(t, res.Exact.Worse, res.Decision.Worse, 0.1)

	for _, s := range [][]float64{res.PA.Values, res.PB.Values} {
		for _, v := range s {
			require.True(t, v >= 0 && v <= 1, "draw %v outside of [0, 1]", v)
		}
	}
	assert.LessOrEqual(t, res.Decision.Better+res.Decision.Worse, 1.0)
	assert.Len(t, res.Chains, 2)
	assert.Len(t, res.Diagnostics.AcceptanceRates, 2)
	assert.Equal(t, 1000, res.Settings.BurnIn)
}

func TestCompareDegenerate(t *testing.T) {
	ones := make([]int, 20)
	for i := range ones {
		ones[i] = 1
	}
	a, err := model.NewObserved(ones)
	require.NoError(t, err)
	b, err := model.NewObserved(make([]int, 20))
	require.NoError(t, err)

	res, err := Compare(context.Background(), a, b, settings(5000, 2500, 4, 1))
	require.NoError(t, err)
	assert.Equal(t, 10000, res.Delta.Len())
	assert.Greater(t, res.Decision.Better, 0.95)
}

func TestCompareSymmetry(t *testing.T) {
	s := settings(4000, 2000, 4, 7)
	a, b := outcomes(t, 10, 20), outcomes(t, 15, 20)
	ab, err := Compare(context.Background(), a, b, s)
	require.NoError(t, err)
	ba, err := Compare(context.Background(), b, a, s)
	require.NoError(t, err)
	assert.InDelta(t, ab.Decision.Better, ba.Decision.Worse, 0.05)
	assert.InDelta(t, ab.Decision.Worse, ba.Decision.Better, 0.05)
}

func TestCompareReproducible(t *testing.T) {
	a, b := outcomes(t, 3, 10), outcomes(t, 6, 10)
	r1, err := Compare(context.Background(), a, b, settings(300, 100, 3, 5))
	require.NoError(t, err)
	r2, err := Compare(context.Background(), a, b, settings(300, 100, 3, 5))
	require.NoError(t, err)
	assert.Equal(t, r1.Delta.Values, r2.Delta.Values)
	assert.Equal(t, r1.Decision, r2.Decision)
}

func TestCompareDefaults(t *testing.T) {
	res, err := Compare(context.Background(), outcomes(t, 1, 4), outcomes(t, 2, 4), nil)
	require.NoError(t, err)
	assert.Equal(t, 50, res.Settings.BurnIn)
	assert.Equal(t, 100, res.Delta.Len())
}

func TestCompareErrors(t *testing.T) {
	a, b := outcomes(t, 1, 4), outcomes(t, 2, 4)

	_, err := Compare(context.Background(), nil, b, nil)
	assert.ErrorIs(t, err, ErrInvalidInput)

	bad := []func(s *Settings){
		func(s *Settings) { s.Iterations = 0 },
		func(s *Settings) { s.Chains = 0 },
		func(s *Settings) { s.BurnIn = s.Iterations },
		func(s *Settings) { s.ProposalScale = 0 },
		func(s *Settings) { s.ProposalScale = math.NaN() },
		func(s *Settings) { s.Proposal = "cauchy" },
		func(s *Settings) { s.Tune = -1 },
		func(s *Settings) { s.Tune = 10; s.TuneInterval = 0 },
	}
	for i, f := range bad {
		s := NewSettings()
		f(s)
		_, err := Compare(context.Background(), a, b, s)
		assert.ErrorIs(t, err, ErrInvalidConfiguration, "case %d", i)
	}
}

func TestCompareCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Compare(ctx, outcomes(t, 1, 4), outcomes(t, 2, 4), settings(1000, 10, 2, 1))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCompareTune(t *testing.T) {
	s := settings(1000, 500, 2, 3)
	s.Tune = 500
	s.Proposal = "uniform"
	res, err := Compare(context.Background(), outcomes(t, 300, 1000), outcomes(t, 320, 1000), s)
	require.NoError(t, err)
	assert.Equal(t, 1000, res.Delta.Len())
	for _, c := range res.Chains {
		assert.NotEqual(t, s.ProposalScale, c.Scale)
	}
}

func TestSummaryJSON(t *testing.T) {
	// a single chain has no R-hat
	res, err := Compare(context.Background(), outcomes(t, 3, 10), outcomes(t, 6, 10), settings(200, 100, 1, 2))
	require.NoError(t, err)

	sum := res.Summary()
	require.Contains(t, sum.Quantities, model.Delta)
	assert.Equal(t, 100, sum.Quantities[model.Delta].NDraws)
	assert.True(t, math.IsNaN(float64(sum.Quantities[model.PA].RHat)))

	j, err := json.Marshal(sum)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(j), `"rHat":null`))

	var back Summary
	require.NoError(t, json.Unmarshal(j, &back))
	assert.True(t, math.IsNaN(float64(back.Quantities[model.PA].RHat)))
	assert.InDelta(t, float64(sum.Quantities[model.PA].Mean), float64(back.Quantities[model.PA].Mean), 1e-12)
	assert.Equal(t, sum.Decision, back.Decision)
	assert.Equal(t, 3, back.A.Successes)
	assert.Equal(t, 10, back.B.Trials)
}

func TestFloat(t *testing.T) {
	for _, f := range []Float{Float(math.NaN()), Float(math.Inf(1)), Float(math.Inf(-1))} {
		j, err := json.Marshal(f)
		require.NoError(t, err)
		assert.Equal(t, "null", string(j))
	}
	j, err := json.Marshal(Float(0.25))
	require.NoError(t, err)
	assert.Equal(t, "0.25", string(j))
}
