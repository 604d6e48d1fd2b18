// Package config reads the run configuration from a file and the
// environment. Values set on the command line override both.
package config

import (
	"fmt"
	"strings"

	"github.com/op/go-logging"
	"github.com/spf13/viper"

	"bitbucket.org/Davydov/abmcmc/abtest"
)

var log = logging.MustGetLogger("config")

// EnvPrefix is the prefix of environment variables, e.g.
// ABMCMC_SAMPLER_ITERATIONS.
const EnvPrefix = "ABMCMC"

// Config is the complete run configuration.
type Config struct {
	Sampler SamplerConfig `mapstructure:"sampler"`
	Input   InputConfig   `mapstructure:"input"`
	Output  OutputConfig  `mapstructure:"output"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SamplerConfig holds MCMC settings.
type SamplerConfig struct {
	Iterations   int     `mapstructure:"iterations"`
	Chains       int     `mapstructure:"chains"`
	BurnIn       int     `mapstructure:"burn_in"`
	Scale        float64 `mapstructure:"scale"`
	Proposal     string  `mapstructure:"proposal"`
	Seed         int64   `mapstructure:"seed"`
	Tune         int     `mapstructure:"tune"`
	TuneInterval int     `mapstructure:"tune_interval"`
	Randomize    bool    `mapstructure:"randomize"`
	Threads      int     `mapstructure:"threads"`
	AccPeriod    int     `mapstructure:"acc_period"`
}

// InputConfig describes the table columns.
type InputConfig struct {
	Group   string   `mapstructure:"group"`
	A       string   `mapstructure:"a"`
	B       string   `mapstructure:"b"`
	Metrics []string `mapstructure:"metrics"`
}

// OutputConfig holds output settings. Empty file names disable the
// corresponding output.
type OutputConfig struct {
	Bins  int    `mapstructure:"bins"`
	Plot  string `mapstructure:"plot"`
	Trace string `mapstructure:"trace"`
	JSON  string `mapstructure:"json"`
	DB    string `mapstructure:"db"`
	Quiet bool   `mapstructure:"quiet"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// Load reads the configuration. An empty path means defaults and
// environment only. Overrides are applied last.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		log.Infof("Read configuration from %s", v.ConfigFileUsed())
	}

	for k, val := range overrides {
		v.Set(k, val)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := abtest.NewSettings()
	v.SetDefault("sampler.iterations", d.Iterations)
	v.SetDefault("sampler.chains", d.Chains)
	v.SetDefault("sampler.burn_in", d.BurnIn)
	v.SetDefault("sampler.scale", d.ProposalScale)
	v.SetDefault("sampler.proposal", d.Proposal)
	v.SetDefault("sampler.seed", -1)
	v.SetDefault("sampler.tune", d.Tune)
	v.SetDefault("sampler.tune_interval", d.TuneInterval)
	v.SetDefault("sampler.randomize", d.Randomize)
	v.SetDefault("sampler.threads", 0)
	v.SetDefault("sampler.acc_period", d.AccPeriod)

	v.SetDefault("input.group", "version")
	v.SetDefault("input.a", "")
	v.SetDefault("input.b", "")
	v.SetDefault("input.metrics", []string{})

	v.SetDefault("output.bins", 30)
	v.SetDefault("output.plot", "")
	v.SetDefault("output.trace", "")
	v.SetDefault("output.json", "")
	v.SetDefault("output.db", "")
	v.SetDefault("output.quiet", false)

	v.SetDefault("logging.level", "notice")
	v.SetDefault("logging.file", "")
}

// LogLevels lists accepted logging levels.
var LogLevels = []string{"critical", "error", "warning", "notice", "info", "debug"}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Input.Group == "" {
		return fmt.Errorf("input.group is required")
	}
	if len(c.Input.Metrics) == 0 {
		return fmt.Errorf("input.metrics must contain at least one metric")
	}
	if c.Output.Bins < 1 {
		return fmt.Errorf("output.bins must be at least 1")
	}
	if c.Sampler.Seed < -1 {
		return fmt.Errorf("sampler.seed must be -1 (time based) or non-negative")
	}
	valid := false
	for _, l := range LogLevels {
		if c.Logging.Level == l {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("logging.level must be one of: %s", strings.Join(LogLevels, ", "))
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("sampler: %w", err)
	}
	return nil
}

// Settings returns comparison settings. A negative seed should be
// resolved by the caller before.
func (c *Config) Settings() *abtest.Settings {
	s := abtest.NewSettings()
	s.Iterations = c.Sampler.Iterations
	s.Chains = c.Sampler.Chains
	s.BurnIn = c.Sampler.BurnIn
	s.ProposalScale = c.Sampler.Scale
	s.Proposal = c.Sampler.Proposal
	if c.Sampler.Seed >= 0 {
		s.Seed = uint64(c.Sampler.Seed)
	}
	s.Tune = c.Sampler.Tune
	s.TuneInterval = c.Sampler.TuneInterval
	s.Randomize = c.Sampler.Randomize
	s.Threads = c.Sampler.Threads
	s.AccPeriod = c.Sampler.AccPeriod
	return s
}
