package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRandomizeCommand creates the randomize command.
func NewRandomizeCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "randomize INPUT [--seed SEED]",
		Short: "Randomize the order of the particles",
		Long: `Shuffle the records of a phase space file in place. The header is
unchanged. The whole file is held in memory while it's shuffled.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.start(cmd, map[string]string{"seed": "seed"})
			if err != nil {
				return err
			}
			return s.engine.Randomize(args[0], s.cfg.Seed)
		},
	}

	cmd.Flags().Uint64("seed", 0, "random seed")

	return cmd
}

// NewCompareCommand creates the compare command.
func NewCompareCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare FIRST SECOND",
		Short: "Compare two phase space files",
		Long: `Compare two phase space files field by field. Floating point fields
must match bit for bit. The first difference is printed and the command
exits with code 1; identical files exit with code 0.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.start(cmd, nil)
			if err != nil {
				return err
			}

			d, err := s.engine.Compare(args[0], args[1])
			if err != nil {
				return err
			}
			if d.Equal() {
				_, err = fmt.Fprintln(s.out, "Files are identical.")
				return outputError(err)
			}
			if _, err = fmt.Fprintf(s.out, "Files differ: %s\n", d); err != nil {
				return outputError(err)
			}
			return NewExitError(ExitFailure, "files differ")
		},
	}

	return cmd
}
