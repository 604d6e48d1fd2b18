package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bitbucket.org/Davydov/abmcmc/config"
	"bitbucket.org/Davydov/abmcmc/store"
)

const data1 = `userid,version,retention_1,retention_7
1,gate_30,1,0
2,gate_30,0,0
3,gate_30,1,1
4,gate_30,0,0
5,gate_40,1,1
6,gate_40,1,0
7,gate_40,1,1
8,gate_40,0,0
`

func TestMetricFileName(tst *testing.T) {
	tests := []struct {
		fn, metric, ext, exp string
	}{
		{"posterior.png", "retention_1", ".png", "posterior_retention_1.png"},
		{"out/posterior", "retention_7", ".png", "out/posterior_retention_7.png"},
		{"trace.txt", "a b/c", ".txt", "trace_a_b_c.txt"},
	}
	for _, t := range tests {
		if r := metricFileName(t.fn, t.metric, t.ext); r != t.exp {
			tst.Errorf("Expected %s, got %s", t.exp, r)
		}
	}
}

func TestFlagOverrides(tst *testing.T) {
	args := []string{"--iter", "500", "--metric", "retention_1", "--metric", "retention_7", "--a", "gate_30"}
	if _, err := app.Parse(args); err != nil {
		tst.Fatal("Error: ", err)
	}
	set, err := setFlags(args)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	overrides := flagOverrides(set)
	if len(overrides) != 3 {
		tst.Errorf("Expected 3 overrides, got %v", overrides)
	}
	if overrides["sampler.iterations"] != 500 {
		tst.Errorf("Expected 500 iterations, got %v", overrides["sampler.iterations"])
	}
	if m, ok := overrides["input.metrics"].([]string); !ok || len(m) != 2 {
		tst.Errorf("Expected two metrics, got %v", overrides["input.metrics"])
	}
	if _, ok := overrides["sampler.chains"]; ok {
		tst.Error("Flags not given should not override configuration")
	}
}

func TestRun(tst *testing.T) {
	dir := tst.TempDir()
	fn := filepath.Join(dir, "data.csv")
	if err := os.WriteFile(fn, []byte(data1), 0644); err != nil {
		tst.Fatal("Error: ", err)
	}
	cfg, err := config.Load("", map[string]interface{}{
		"input.a":            "gate_30",
		"input.b":            "gate_40",
		"input.metrics":      []string{"retention_1", "retention_7"},
		"sampler.seed":       1,
		"sampler.iterations": 200,
		"output.plot":        filepath.Join(dir, "posterior.png"),
		"output.trace":       filepath.Join(dir, "trace.txt"),
		"output.db":          filepath.Join(dir, "runs.db"),
	})
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if err := cfg.Validate(); err != nil {
		tst.Fatal("Error: ", err)
	}

	var buf bytes.Buffer
	summary := &CallSummary{}
	if err := run(context.Background(), fn, cfg, &buf, summary); err != nil {
		tst.Fatal("Error: ", err)
	}

	out := buf.String()
	for _, s := range []string{"------ retention_1 ------", "------ retention_7 ------",
		"Probability gate_30 is WORSE than gate_40"} {
		if !strings.Contains(out, s) {
			tst.Errorf("Output does not contain %q", s)
		}
	}
	if len(summary.Metrics) != 2 {
		tst.Fatalf("Expected 2 metric summaries, got %d", len(summary.Metrics))
	}
	for _, name := range []string{"posterior_retention_1.png", "trace_retention_7.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			tst.Error("Error: ", err)
		}
	}

	db, err := store.Open(filepath.Join(dir, "runs.db"))
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	defer db.Close()
	r, err := db.Load(summary.Metrics[0].ID)
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	if r.Metric != "retention_1" || r.Input != fn {
		tst.Errorf("Unexpected record: %s, %s", r.Metric, r.Input)
	}
}

func TestRunUnknownMetric(tst *testing.T) {
	fn := filepath.Join(tst.TempDir(), "data.csv")
	if err := os.WriteFile(fn, []byte(data1), 0644); err != nil {
		tst.Fatal("Error: ", err)
	}
	cfg, err := config.Load("", map[string]interface{}{
		"input.a":       "gate_30",
		"input.b":       "gate_40",
		"input.metrics": []string{"retention_1", "retention_30"},
		"sampler.seed":  1,
	})
	if err != nil {
		tst.Fatal("Error: ", err)
	}
	summary := &CallSummary{}
	if err := run(context.Background(), fn, cfg, &bytes.Buffer{}, summary); err == nil {
		tst.Error("Expected error for unknown metric")
	}
	if len(summary.Metrics) != 1 {
		tst.Errorf("Expected the first metric to be finished, got %d", len(summary.Metrics))
	}
}
