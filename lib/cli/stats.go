package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// StatsOptions holds the flags of the stats command.
type StatsOptions struct {
	Format string
	Scan   bool
}

// NewStatsCommand creates the stats command.
func NewStatsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &StatsOptions{}

	cmd := &cobra.Command{
		Use:   "stats [--format human|json|yaml] [--scan] FILE",
		Short: "Print statistics about a phase space file",
		Long: `Print the statistics stored in a phase space file's header.

With --scan, every record is also read once to compute statistics that the
header doesn't store: x/y extents, the total weight, and the number of new
histories. This doesn't load the file into memory.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if !contains(StatsFormats, opts.Format) {
				return NewExitError(ExitUsage, fmt.Sprintf("invalid format "+
					"%q: must be one of %v", opts.Format, StatsFormats))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.start(cmd, nil)
			if err != nil {
				return err
			}
			return runStats(s, opts, args[0])
		},
	}

	cmd.Flags().StringVar(&opts.Format, "format", "human",
		"output format (human|json|yaml)")
	cmd.Flags().BoolVar(&opts.Scan, "scan", false,
		"also scan every record")

	return cmd
}

func runStats(s *session, opts *StatsOptions, path string) error {
	stats, err := s.engine.Stats(path)
	if err != nil {
		return err
	}
	rep := &statsReport{Stats: stats}

	if opts.Scan {
		scan, err := s.engine.Scan(path)
		if err != nil {
			return err
		}
		rep.Scan = &scan
		if scan.Records != int64(stats.TotalParticles) ||
			scan.Photons != int64(stats.TotalPhotons) {
			s.log.WithField("input", path).Warn("The header's counts " +
				"don't match the records.")
		}
	}

	return outputError(writeStats(s.out, opts.Format, rep))
}

func contains(xs []string, x string) bool {
	for i := range xs {
		if xs[i] == x {
			return true
		}
	}
	return false
}
