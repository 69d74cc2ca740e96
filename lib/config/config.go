/*package config loads beamdpr's configuration. Values are layered, with later
layers overriding earlier ones:

  1. built-in defaults
  2. an optional YAML file
  3. BEAMDPR_* environment variables (e.g. BEAMDPR_SAMPLE_RATE)
  4. command line flags that were explicitly set

An example file:

  log_level: debug
  seed: 12
  sample:
    rate: 100
  reweight:
    bins: 50
    function: inverse
  pack:
    level: 9
*/
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/phil-mansfield/beamdpr/lib/compress"
	"github.com/phil-mansfield/beamdpr/lib/ops"
)

// EnvPrefix is the prefix of all environment variables read by Load.
const EnvPrefix = "BEAMDPR"

// LogLevels are the accepted values of log_level.
var LogLevels = []string{"debug", "info", "warn", "error"}

// Config is the processed configuration.
type Config struct {
	LogLevel string         `mapstructure:"log_level"`
	Verbose  bool           `mapstructure:"verbose"`
	Seed     uint64         `mapstructure:"seed"`
	Sample   SampleConfig   `mapstructure:"sample"`
	Reweight ReweightConfig `mapstructure:"reweight"`
	Pack     PackConfig     `mapstructure:"pack"`

	// LoadedFrom is the config file that was read, if any.
	LoadedFrom string `mapstructure:"-"`
}

type SampleConfig struct {
	// Rate is the inverse keep probability: 10 keeps roughly one record in
	// ten.
	Rate float64 `mapstructure:"rate"`
}

type ReweightConfig struct {
	Bins     int    `mapstructure:"bins"`
	Function string `mapstructure:"function"`
}

type PackConfig struct {
	Level int `mapstructure:"level"`
}

// SetDefaults registers the built-in defaults with v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("verbose", false)
	v.SetDefault("seed", 0)
	v.SetDefault("sample.rate", 10.0)
	v.SetDefault("reweight.bins", 100)
	v.SetDefault("reweight.function", "linear")
	v.SetDefault("pack.level", compress.DefaultLevel)
}

// Load builds a Config. path may be empty, in which case no file is read.
// flags maps configuration keys (e.g. "sample.rate") to the command line
// flags that override them; unset flags don't override anything.
func Load(path string, flags map[string]*pflag.Flag) (*Config, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read the config file '%s': %w",
				path, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for key, flag := range flags {
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return nil, fmt.Errorf("could not bind the --%s flag: %w",
				flag.Name, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("could not parse the configuration: %w", err)
	}
	cfg.LoadedFrom = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg, err := Load("", nil)
	if err != nil {
		panic(fmt.Sprintf("Internal error: the default configuration is "+
			"invalid: %s", err))
	}
	return cfg
}

// Validate checks that every value is in range. Nothing here touches the
// file system.
func (cfg *Config) Validate() error {
	if !contains(LogLevels, cfg.LogLevel) {
		return fmt.Errorf("log_level is set to '%s', but must be one of %v",
			cfg.LogLevel, LogLevels)
	}
	if r := cfg.Sample.Rate; math.IsNaN(r) || math.IsInf(r, 0) || r < 1 {
		return fmt.Errorf("sample.rate is set to %g, but it's the inverse "+
			"of a probability and must be a finite number >= 1", r)
	}
	if cfg.Reweight.Bins < 1 {
		return fmt.Errorf("reweight.bins is set to %d, but at least one "+
			"bin is needed", cfg.Reweight.Bins)
	}
	if !contains(ops.WeightFunctions, cfg.Reweight.Function) {
		return fmt.Errorf("reweight.function is set to '%s', but must be "+
			"one of %v", cfg.Reweight.Function, ops.WeightFunctions)
	}
	if err := compress.CheckLevel(cfg.Pack.Level); err != nil {
		return fmt.Errorf("pack.level: %w", err)
	}
	return nil
}

// KeepProbability converts Sample.Rate to the probability of keeping a
// record.
func (cfg *Config) KeepProbability() float64 {
	return 1 / cfg.Sample.Rate
}

func contains(xs []string, x string) bool {
	for i := range xs {
		if xs[i] == x {
			return true
		}
	}
	return false
}
