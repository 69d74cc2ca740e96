/*package cli is beamdpr's command line interface. Each subcommand parses its
arguments, loads the configuration, and runs exactly one ops.Engine
operation. Results go to stdout and logs go to stderr.
*/
package cli

import (
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/phil-mansfield/beamdpr/lib/config"
	"github.com/phil-mansfield/beamdpr/lib/ops"
)

// Version is the version reported by --version.
const Version = "1.1.0"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Verbose    bool
	LogLevel   string
}

// NewRootCommand creates the root command for the beamdpr CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "beamdpr",
		Short: "Combine and transform egsphsp (EGS phase space) files",
		Long: `Combine and transform egsphsp (EGS phase space) files.

Every command that writes a file writes it to a temporary file first and
only replaces the destination once the new file is complete, so a file can
safely be used as both the input and the output of a command.

Negative numbers may be wrapped in parentheses, e.g. -x "(-1.5)".`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return WrapExitError(ExitUsage, "invalid flags", err)
	})

	// Global flags
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "",
		"YAML configuration file")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false,
		"log everything (same as --log-level debug)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "info",
		"log level (debug|info|warn|error)")

	cmd.AddCommand(NewPrintCommand(opts))
	cmd.AddCommand(NewStatsCommand(opts))
	cmd.AddCommand(NewCombineCommand(opts))
	cmd.AddCommand(NewSampleCombineCommand(opts))
	cmd.AddCommand(NewReweightCommand(opts))
	cmd.AddCommand(NewRandomizeCommand(opts))
	cmd.AddCommand(NewCompareCommand(opts))
	cmd.AddCommand(NewTranslateCommand(opts))
	cmd.AddCommand(NewRotateCommand(opts))
	cmd.AddCommand(NewReflectCommand(opts))
	cmd.AddCommand(NewPackCommand(opts))
	cmd.AddCommand(NewUnpackCommand(opts))

	return cmd
}

// Execute runs the command line args and returns the process exit code
// along with the error that caused it, if any. The error is not printed.
func Execute(args []string, stdout, stderr io.Writer) (int, error) {
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	return GetExitCode(err), err
}

// Run is Execute, but reports errors on stderr and only returns the exit
// code.
func Run(args []string, stdout, stderr io.Writer) int {
	code, err := Execute(args, stdout, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %s\n", err.Error())
	}
	return code
}

// session is everything a subcommand needs to run one operation.
type session struct {
	cfg    *config.Config
	log    *logrus.Logger
	engine *ops.Engine
	out    io.Writer
}

// start loads the configuration for cmd and builds its logger and engine.
// keys maps configuration keys to the names of the cmd flags that override
// them.
func (opts *RootOptions) start(
	cmd *cobra.Command, keys map[string]string,
) (*session, error) {
	flags := map[string]*pflag.Flag{
		"verbose":   cmd.Flag("verbose"),
		"log_level": cmd.Flag("log-level"),
	}
	for key, name := range keys {
		flags[key] = cmd.Flag(name)
	}

	cfg, err := config.Load(opts.ConfigPath, flags)
	if err != nil {
		return nil, WrapExitError(ExitUsage, "invalid configuration", err)
	}

	log := NewLogger(cfg, cmd.ErrOrStderr())
	if cfg.LoadedFrom != "" {
		log.WithField("config", cfg.LoadedFrom).Debug("Loaded configuration.")
	}
	return &session{
		cfg: cfg, log: log, engine: ops.New(log), out: cmd.OutOrStdout(),
	}, nil
}

// NewLogger creates the logger used by every command.
func NewLogger(cfg *config.Config, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	if cfg.Verbose {
		level = logrus.DebugLevel
	}
	log.SetLevel(level)
	return log
}
