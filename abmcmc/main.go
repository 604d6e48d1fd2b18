/*

Abmcmc compares conversion rates of two groups using Bayesian
inference. The posterior of the two success probabilities is
sampled with Metropolis-Hastings, and the probabilities of A being
better or worse than B are estimated from the pooled draws.

The basic usage looks like this:

	abmcmc --a gate_30 --b gate_40 --metric retention_1 cookie_cats.csv

, this will read the table, compare the groups gate_30 and gate_40
of the version column and print posterior histograms and
probabilities.

Several metrics can be compared in one run:

	abmcmc --a gate_30 --b gate_40 --metric retention_1 --metric retention_7 \
		--iter 10000 --chains 4 --plot posterior.png cookie_cats.csv

Settings can be also read from a configuration file (--config) or
from ABMCMC_* environment variables. Command-line flags take
precedence.

To see all the options run:

	abmcmc --help

*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"syscall"
	"text/tabwriter"
	"time"

	"gopkg.in/alecthomas/kingpin.v2"

	"github.com/op/go-logging"

	"bitbucket.org/Davydov/abmcmc/config"
	"bitbucket.org/Davydov/abmcmc/store"
)

// These three variables are set during the compilation.
var githash = ""
var gitbranch = ""
var buildstamp = ""
var version = fmt.Sprintf("branch: %s, revision: %s, build time: %s", gitbranch, githash, buildstamp)

// Logger settings.
var log = logging.MustGetLogger("abmcmc")
var formatter = logging.MustStringFormatter(`%{message}`)

// modules are the loggers which get the level from --loglevel.
var modules = []string{"abmcmc", "abtest", "mcmc", "posterior", "input", "report", "store", "config"}

// command-line options
var (
	// application
	app = kingpin.New("abmcmc", "Bayesian A/B test of conversion rates with MCMC").Version(version)

	// input
	inputFileName = app.Arg("input", "input table (csv with a header row)").ExistingFile()
	configF       = app.Flag("config", "read configuration from a file (yaml, toml or json)").ExistingFile()
	groupCol      = app.Flag("group", "name of the group column").Default("version").String()
	labelA        = app.Flag("a", "group A label").String()
	labelB        = app.Flag("b", "group B label").String()
	metrics       = app.Flag("metric", "metric column (0/1 or true/false), can be repeated").Strings()

	// sampler parameters
	iterations   = app.Flag("iter", "number of iterations per chain").Default("100").Int()
	chains       = app.Flag("chains", "number of chains").Default("2").Int()
	burnIn       = app.Flag("burnin", "number of iterations to discard (half by default)").Default("-1").Int()
	scale        = app.Flag("scale", "proposal scale").Default("0.1").Float64()
	proposal     = app.Flag("proposal", "proposal distribution").Default("normal").Enum("normal", "uniform")
	tune         = app.Flag("tune", "number of proposal scale tuning iterations (not recorded)").Default("0").Int()
	tuneInterval = app.Flag("tuneint", "adjust proposal scale every N tuning iterations").Default("100").Int()
	randomize    = app.Flag("randomize", "use uniformly distributed random starting point; "+
		"by default chains start from p=0.5").Bool()
	accept = app.Flag("accept", "report acceptance rate every N iterations").Default("100").Int()

	// technical
	nThreads   = app.Flag("nt", "number of threads to use").Int()
	seed       = app.Flag("seed", "random generator seed, default time based").Default("-1").Int64()
	cpuProfile = app.Flag("cpuprofile", "write cpu profile to file").String()

	// output
	bins     = app.Flag("bins", "number of histogram bins").Default("30").Int()
	plotF    = app.Flag("plot", "write posterior histograms to a png file (one per metric)").String()
	traceF   = app.Flag("trace", "write chain trajectories to a file (one per metric)").String()
	jsonF    = app.Flag("json", "write json output to a file").String()
	dbF      = app.Flag("db", "store results in a database file").String()
	history  = app.Flag("history", "list results stored in the database and exit").Bool()
	quiet    = app.Flag("quiet", "don't print the text report").Bool()
	outLogF  = app.Flag("log", "write log to a file").String()
	logLevel = app.Flag("loglevel", "set loglevel "+
		"('critical', 'error', 'warning', 'notice', 'info', 'debug')").
		Default("notice").
		Enum(config.LogLevels...)
)

// flagKeys maps command-line flags to configuration keys.
var flagKeys = map[string]struct {
	key   string
	value func() interface{}
}{
	"group":     {"input.group", func() interface{} { return *groupCol }},
	"a":         {"input.a", func() interface{} { return *labelA }},
	"b":         {"input.b", func() interface{} { return *labelB }},
	"metric":    {"input.metrics", func() interface{} { return *metrics }},
	"iter":      {"sampler.iterations", func() interface{} { return *iterations }},
	"chains":    {"sampler.chains", func() interface{} { return *chains }},
	"burnin":    {"sampler.burn_in", func() interface{} { return *burnIn }},
	"scale":     {"sampler.scale", func() interface{} { return *scale }},
	"proposal":  {"sampler.proposal", func() interface{} { return *proposal }},
	"tune":      {"sampler.tune", func() interface{} { return *tune }},
	"tuneint":   {"sampler.tune_interval", func() interface{} { return *tuneInterval }},
	"randomize": {"sampler.randomize", func() interface{} { return *randomize }},
	"accept":    {"sampler.acc_period", func() interface{} { return *accept }},
	"nt":        {"sampler.threads", func() interface{} { return *nThreads }},
	"seed":      {"sampler.seed", func() interface{} { return *seed }},
	"bins":      {"output.bins", func() interface{} { return *bins }},
	"plot":      {"output.plot", func() interface{} { return *plotF }},
	"trace":     {"output.trace", func() interface{} { return *traceF }},
	"json":      {"output.json", func() interface{} { return *jsonF }},
	"db":        {"output.db", func() interface{} { return *dbF }},
	"quiet":     {"output.quiet", func() interface{} { return *quiet }},
	"log":       {"logging.file", func() interface{} { return *outLogF }},
	"loglevel":  {"logging.level", func() interface{} { return *logLevel }},
}

// setFlags returns names of the flags present on the command line.
func setFlags(args []string) (map[string]bool, error) {
	ctx, err := app.ParseContext(args)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	for _, el := range ctx.Elements {
		if f, ok := el.Clause.(*kingpin.FlagClause); ok {
			set[f.Model().Name] = true
		}
	}
	return set, nil
}

// flagOverrides returns configuration values of the flags present on
// the command line. Kingpin defaults of the other flags are not used,
// they are set in config.
func flagOverrides(set map[string]bool) map[string]interface{} {
	overrides := make(map[string]interface{})
	for name, fk := range flagKeys {
		if set[name] {
			overrides[fk.key] = fk.value()
		}
	}
	return overrides
}

// setupLogging configures the backend and levels of all the loggers.
func setupLogging(fn, levelName string) (*os.File, error) {
	logging.SetFormatter(formatter)

	var f *os.File
	var backend *logging.LogBackend
	if fn != "" {
		var err error
		f, err = os.OpenFile(fn, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("error creating log file: %w", err)
		}
		backend = logging.NewLogBackend(f, "", 0)
	} else {
		backend = logging.NewLogBackend(os.Stderr, "", 0)
	}
	logging.SetBackend(backend)

	level, err := logging.LogLevel(levelName)
	if err != nil {
		return f, err
	}
	for _, m := range modules {
		logging.SetLevel(level, m)
	}
	return f, nil
}

// printHistory prints all the records from the database.
func printHistory(fn string) error {
	db, err := store.Open(fn)
	if err != nil {
		return err
	}
	defer db.Close()
	records, err := db.List()
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(os.Stdout, 2, 2, 2, ' ', 0)
	fmt.Fprintln(tw, "time\tid\tmetric\tA\tB\tP(better)\tP(worse)")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%.3f\t%.3f\n",
			r.Time.Format(time.RFC3339), r.ID, r.Metric, r.LabelA, r.LabelB,
			r.Summary.Decision.Better, r.Summary.Decision.Worse)
	}
	return tw.Flush()
}

// writeJSON writes the summary to a file.
func writeJSON(fn string, summary *CallSummary) error {
	j, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	log.Debug(string(j))
	f, err := os.Create(fn)
	if err != nil {
		return fmt.Errorf("error creating json output file: %w", err)
	}
	if _, err := f.Write(j); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func main() {
	startTime := time.Now()
	kingpin.MustParse(app.Parse(os.Args[1:]))

	set, err := setFlags(os.Args[1:])
	if err != nil {
		kingpin.Fatalf("%v", err)
	}
	cfgFile := ""
	if configF != nil {
		cfgFile = *configF
	}
	cfg, err := config.Load(cfgFile, flagOverrides(set))
	if err != nil {
		kingpin.Fatalf("%v", err)
	}

	logFile, err := setupLogging(cfg.Logging.File, cfg.Logging.Level)
	if logFile != nil {
		defer logFile.Close()
	}
	if err != nil {
		log.Fatal(err)
	}

	// print revision
	log.Info(version)

	// print commandline
	log.Info("Command line:", os.Args)

	if *history {
		if cfg.Output.DB == "" {
			log.Fatal("--history requires --db")
		}
		if err := printHistory(cfg.Output.DB); err != nil {
			log.Fatal(err)
		}
		return
	}

	if *inputFileName == "" {
		kingpin.Fatalf("required argument 'input' not provided")
	}
	if cfg.Input.A == "" || cfg.Input.B == "" {
		kingpin.Fatalf("both --a and --b group labels are required")
	}

	if cfg.Sampler.Seed == -1 {
		cfg.Sampler.Seed = time.Now().UnixNano()
		log.Debug("Random seed from time")
	}
	log.Infof("Random seed=%v", cfg.Sampler.Seed)

	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	runtime.GOMAXPROCS(cfg.Sampler.Threads)
	effectiveNThreads := runtime.GOMAXPROCS(0)
	log.Infof("Using threads: %d.", effectiveNThreads)

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary := &CallSummary{
		Version:     version,
		CommandLine: os.Args,
		Input:       *inputFileName,
		Seed:        cfg.Sampler.Seed,
		NThreads:    effectiveNThreads,
	}

	err = run(ctx, *inputFileName, cfg, os.Stdout, summary)

	deltaT := time.Since(startTime)
	log.Noticef("Running time: %v", deltaT)
	summary.TotalTime = deltaT.Seconds()

	// output summary in json format, even if some metrics failed
	if cfg.Output.JSON != "" {
		if err := writeJSON(cfg.Output.JSON, summary); err != nil {
			log.Error(err)
		}
	}
	if err != nil {
		pprof.StopCPUProfile()
		log.Fatal(err)
	}
}
