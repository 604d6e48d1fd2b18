package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"bitbucket.org/Davydov/abmcmc/abtest"
	"bitbucket.org/Davydov/abmcmc/config"
	"bitbucket.org/Davydov/abmcmc/input"
	"bitbucket.org/Davydov/abmcmc/mcmc"
	"bitbucket.org/Davydov/abmcmc/report"
	"bitbucket.org/Davydov/abmcmc/store"
)

// metricFileName inserts the metric name before the file extension.
// If there is no extension, defExt is added.
func metricFileName(fn, metric, defExt string) string {
	ext := filepath.Ext(fn)
	base := strings.TrimSuffix(fn, ext)
	if ext == "" {
		ext = defExt
	}
	clean := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '_'
		}
		return r
	}, metric)
	return base + "_" + clean + ext
}

// writeTrace writes trajectories of all the chains to a file.
func writeTrace(fn string, chains []*mcmc.Chain) error {
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("error creating trajectory file: %w", err)
	}
	if len(chains) > 0 {
		if err := mcmc.WriteTraceHeader(f, chains[0].Names); err != nil {
			f.Close()
			return err
		}
	}
	for _, c := range chains {
		if err := c.WriteTrace(f); err != nil {
			f.Close()
			return err
		}
	}
	return f.Close()
}

// compareMetric runs one comparison and writes all the requested
// outputs.
func compareMetric(ctx context.Context, t *input.Table, metric string, cfg *config.Config,
	db *store.Store, w io.Writer) (*MetricSummary, error) {
	startTime := time.Now()
	a, err := t.Outcomes(cfg.Input.A, metric)
	if err != nil {
		return nil, err
	}
	b, err := t.Outcomes(cfg.Input.B, metric)
	if err != nil {
		return nil, err
	}

	res, err := abtest.Compare(ctx, a, b, cfg.Settings())
	if err != nil {
		return nil, err
	}

	ms := &MetricSummary{
		Metric: metric,
		LabelA: cfg.Input.A,
		LabelB: cfg.Input.B,
		Time:   time.Since(startTime).Seconds(),
		Result: res.Summary(),
	}

	labels := report.NewLabels(cfg.Input.A, cfg.Input.B, metric)
	if cfg.Output.Quiet {
		err = report.Decision(w, labels, res)
	} else {
		err = report.Text(w, labels, res, cfg.Output.Bins)
	}
	if err != nil {
		return ms, err
	}

	if cfg.Output.Plot != "" {
		fn := metricFileName(cfg.Output.Plot, metric, ".png")
		if err := report.Plot(fn, labels, res, cfg.Output.Bins); err != nil {
			log.Error("Error writing plot:", err)
		}
	}

	if cfg.Output.Trace != "" {
		fn := metricFileName(cfg.Output.Trace, metric, ".txt")
		if err := writeTrace(fn, res.Chains); err != nil {
			log.Error("Error writing trajectory:", err)
		} else {
			log.Infof("Wrote trajectory to %s", fn)
		}
	}

	if db != nil {
		r := store.NewRecord(cfg.Input.A, cfg.Input.B, metric, ms.Result)
		r.Input = t.Name()
		if err := db.Save(r); err != nil {
			log.Error("Error storing result:", err)
		} else {
			ms.ID = r.ID
			log.Noticef("Stored result as %s", r.ID)
		}
	}

	return ms, nil
}

// run compares every metric in the configuration. Results of
// finished metrics are added to summary.
func run(ctx context.Context, fn string, cfg *config.Config, w io.Writer, summary *CallSummary) error {
	t, err := input.LoadFile(fn, cfg.Input.Group)
	if err != nil {
		return err
	}
	log.Infof("Groups: %v", t.Groups())

	var db *store.Store
	if cfg.Output.DB != "" {
		db, err = store.Open(cfg.Output.DB)
		if err != nil {
			return err
		}
		defer db.Close()
	}

	for i, metric := range cfg.Input.Metrics {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "------ %s ------\n", metric)
		ms, err := compareMetric(ctx, t, metric, cfg, db, w)
		if ms != nil {
			summary.Metrics = append(summary.Metrics, *ms)
		}
		if err != nil {
			return fmt.Errorf("%s: %w", metric, err)
		}
	}
	return nil
}
