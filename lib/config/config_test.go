package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "beamdpr.yaml")
	require.NoError(t, os.WriteFile(path, []byte(text), 0644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, &Config{
		LogLevel: "info",
		Sample:   SampleConfig{Rate: 10},
		Reweight: ReweightConfig{Bins: 100, Function: "linear"},
		Pack:     PackConfig{Level: 3},
	}, cfg)
	assert.Equal(t, 0.1, cfg.KeepProbability())
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
log_level: debug
seed: 12
sample:
  rate: 100
reweight:
  bins: 50
  function: inverse
pack:
  level: 9
`)

	cfg, err := Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, &Config{
		LogLevel:   "debug",
		Seed:       12,
		Sample:     SampleConfig{Rate: 100},
		Reweight:   ReweightConfig{Bins: 50, Function: "inverse"},
		Pack:       PackConfig{Level: 9},
		LoadedFrom: path,
	}, cfg)

	// Keys missing from the file keep their defaults.
	path = writeConfig(t, "seed: 3\n")
	cfg, err = Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), cfg.Seed)
	assert.Equal(t, 10.0, cfg.Sample.Rate)
}

func TestLoadLayers(t *testing.T) {
	path := writeConfig(t, "sample:\n  rate: 100\nreweight:\n  bins: 50\n")
	t.Setenv("BEAMDPR_SAMPLE_RATE", "40")
	t.Setenv("BEAMDPR_REWEIGHT_BINS", "20")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Float64("rate", 10, "")
	flags.Int("bins", 100, "")
	flags.Int("level", 3, "")
	require.NoError(t, flags.Parse([]string{"--bins", "7"}))

	cfg, err := Load(path, map[string]*pflag.Flag{
		"sample.rate":   flags.Lookup("rate"),
		"reweight.bins": flags.Lookup("bins"),
		"pack.level":    flags.Lookup("level"),
		"seed":          nil,
	})
	require.NoError(t, err)
	assert.Equal(t, 40.0, cfg.Sample.Rate, "environment beats the file")
	assert.Equal(t, 7, cfg.Reweight.Bins, "set flags beat the environment")
	assert.Equal(t, 3, cfg.Pack.Level, "unset flags don't override")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name, text string
	}{
		{"log level", "log_level: loud\n"},
		{"rate below one", "sample:\n  rate: 0.5\n"},
		{"bins", "reweight:\n  bins: 0\n"},
		{"function", "reweight:\n  function: quadratic\n"},
		{"level", "pack:\n  level: 23\n"},
		{"bad yaml", "sample: [\n"},
		{"bad type", "reweight:\n  bins: many\n"},
	}

	for _, test := range tests {
		_, err := Load(writeConfig(t, test.text), nil)
		assert.Error(t, err, test.name)
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), nil)
	assert.Error(t, err)

	t.Setenv("BEAMDPR_SAMPLE_RATE", "NaN")
	_, err = Load("", nil)
	assert.Error(t, err)
}
