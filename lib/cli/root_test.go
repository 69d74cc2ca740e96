package cli

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/beamdpr/lib/config"
	"github.com/phil-mansfield/beamdpr/lib/egsphsp"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "beamdpr", cmd.Use)
	assert.Equal(t, Version, cmd.Version)
	assert.Contains(t, cmd.Long, "temporary file")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{
		"print", "stats", "combine", "sample-combine", "reweight",
		"randomize", "compare", "translate", "rotate", "reflect",
		"pack", "unpack",
	}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	levelFlag := cmd.PersistentFlags().Lookup("log-level")
	require.NotNil(t, levelFlag)
	assert.Equal(t, "info", levelFlag.DefValue)

	configFlag := cmd.PersistentFlags().Lookup("config")
	require.NotNil(t, configFlag)
	assert.Equal(t, "", configFlag.DefValue)
}

func TestCommandFlags(t *testing.T) {
	tests := []struct {
		command, flag, shorthand, def string
	}{
		{"print", "field", "f", "[]"},
		{"print", "number", "n", "10"},
		{"stats", "format", "", "human"},
		{"stats", "scan", "", "false"},
		{"combine", "output", "o", ""},
		{"combine", "delete", "d", "false"},
		{"sample-combine", "rate", "", "10"},
		{"sample-combine", "seed", "", "0"},
		{"reweight", "r", "r", ""},
		{"reweight", "c", "c", ""},
		{"reweight", "bins", "", "100"},
		{"reweight", "function", "", "linear"},
		{"randomize", "seed", "", "0"},
		{"translate", "x", "x", "0"},
		{"translate", "in-place", "i", "false"},
		{"rotate", "angle", "a", ""},
		{"reflect", "y", "y", "0"},
		{"pack", "level", "", "3"},
	}

	cmd := NewRootCommand()
	for _, test := range tests {
		subCmd, _, err := cmd.Find([]string{test.command})
		require.NoError(t, err)

		flag := subCmd.Flags().Lookup(test.flag)
		require.NotNil(t, flag, "%s --%s", test.command, test.flag)
		assert.Equal(t, test.shorthand, flag.Shorthand,
			"%s --%s", test.command, test.flag)
		assert.Equal(t, test.def, flag.DefValue,
			"%s --%s", test.command, test.flag)
	}
}

func TestGetExitCode(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{nil, ExitSuccess},
		{NewExitError(ExitFailure, "files differ"), ExitFailure},
		{WrapExitError(ExitUsage, "bad", errors.New("x")), ExitUsage},
		{egsphsp.IOError("open", "a", errors.New("x")), ExitFailure},
		{fmt.Errorf("combine: %w",
			egsphsp.ValidationErrorf("bad")), ExitFailure},
		{errors.New(`unknown command "frobnicate"`), ExitUsage},
		{outputError(errors.New("broken pipe")), ExitFailure},
		{outputError(NewExitError(ExitUsage, "bad format")), ExitUsage},
		{outputError(nil), ExitSuccess},
	}

	for i := range tests {
		assert.Equal(t, tests[i].code, GetExitCode(tests[i].err), "%d)", i)
	}

	err := WrapExitError(ExitUsage, "invalid flags", errors.New("no --x"))
	assert.Equal(t, "invalid flags: no --x", err.Error())
	assert.Equal(t, "files differ", NewExitError(1, "files differ").Error())
}

func TestNewLogger(t *testing.T) {
	cfg := config.Default()
	assert.Equal(t, "info", NewLogger(cfg, io.Discard).GetLevel().String())

	cfg.LogLevel = "warn"
	assert.Equal(t, "warning", NewLogger(cfg, io.Discard).GetLevel().String())

	cfg.Verbose = true
	assert.Equal(t, "debug", NewLogger(cfg, io.Discard).GetLevel().String())
}
