package store

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bitbucket.org/Davydov/abmcmc/abtest"
	"bitbucket.org/Davydov/abmcmc/decision"
)

func testSummary(better float64) abtest.Summary {
	return abtest.Summary{
		Settings: *abtest.NewSettings(),
		A:        abtest.GroupSummary{Successes: 10, Trials: 20},
		B:        abtest.GroupSummary{Successes: 15, Trials: 20},
		Quantities: map[string]abtest.QuantitySummary{
			"delta": {Mean: -0.2, SD: 0.1, Lower: -0.4, Upper: 0.01, RHat: abtest.Float(math.NaN()), NDraws: 100},
		},
		Decision: decision.Result{Better: better, Worse: 1 - better},
		Exact:    abtest.ExactSummary{MeanA: 0.5, MeanB: 0.73, Better: 0.06, Worse: 0.94},
	}
}

func openStore(t *testing.T) *Store {
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad(t *testing.T) {
	s := openStore(t)
	r := NewRecord("gate_30", "gate_40", "retention_1", testSummary(0.06))
	require.NoError(t, s.Save(r))
	assert.NotEmpty(t, r.ID)

	back, err := s.Load(r.ID)
	require.NoError(t, err)
	assert.Equal(t, r.ID, back.ID)
	assert.Equal(t, "gate_30", back.LabelA)
	assert.Equal(t, "retention_1", back.Metric)
	assert.True(t, r.Time.Equal(back.Time))
	assert.Equal(t, r.Summary.Decision, back.Summary.Decision)
	assert.True(t, math.IsNaN(float64(back.Summary.Quantities["delta"].RHat)))
	assert.InDelta(t, -0.2, float64(back.Summary.Quantities["delta"].Mean), 1e-12)
}

func TestLoadMissing(t *testing.T) {
	s := openStore(t)
	_, err := s.Load("4b1a4c3e-0000-4000-8000-000000000000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSaveID(t *testing.T) {
	s := openStore(t)
	r := &Record{Summary: testSummary(0.5)}
	require.NoError(t, s.Save(r))
	assert.NotEmpty(t, r.ID)

	assert.Error(t, s.Save(&Record{ID: "not a uuid"}))
}

func TestList(t *testing.T) {
	s := openStore(t)
	records, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, records)

	now := time.Now().UTC()
	for i, better := range []float64{0.1, 0.2, 0.3} {
		r := NewRecord("A", "B", "m", testSummary(better))
		// reverse order of time
		r.Time = now.Add(-time.Duration(i) * time.Minute)
		require.NoError(t, s.Save(r))
	}
	records, err = s.List()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, 0.3, records[0].Summary.Decision.Better)
	assert.Equal(t, 0.1, records[2].Summary.Decision.Better)
}

func TestNilDB(t *testing.T) {
	assert.NoError(t, SaveData(nil, []byte("k"), []byte("v")))
	data, err := LoadData(nil, []byte("k"))
	assert.NoError(t, err)
	assert.Nil(t, data)
}
