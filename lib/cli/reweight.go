package cli

import (
	"github.com/spf13/cobra"

	"github.com/phil-mansfield/beamdpr/lib/ops"
)

// NewReweightCommand creates the reweight command.
func NewReweightCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "reweight INPUT [-o OUTPUT] -r RADIUS -c C [--bins N] [--function F]",
		Short: "Reweight a phase space file as a function of distance from z",
		Long: `Reweight a phase space file as a function of distance from the z axis.

Records are binned radially into --bins equal-width bins over [0, RADIUS)
cm; records beyond RADIUS fall in the last bin. Each bin's count is divided
by the mean count, and the weight of every record in the bin is multiplied
by --function applied to that ratio:

  linear   - C * x
  inverse  - C / x
  constant - C

Without -o, INPUT is replaced.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := floatFlag(cmd, "r")
			if err != nil {
				return err
			}
			c, err := floatFlag(cmd, "c")
			if err != nil {
				return err
			}

			s, err := rootOpts.start(cmd, map[string]string{
				"reweight.bins": "bins", "reweight.function": "function",
			})
			if err != nil {
				return err
			}
			fn, err := ops.WeightFunction(s.cfg.Reweight.Function, c)
			if err != nil {
				return WrapExitError(ExitUsage, "invalid --function", err)
			}

			out := output
			if out == "" {
				out = args[0]
			}
			return s.engine.Reweight(args[0], out, fn, s.cfg.Reweight.Bins, r)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "",
		"output file (defaults to replacing INPUT)")
	cmd.Flags().StringP("r", "r", "", "maximum radius of the histogram in cm")
	cmd.Flags().StringP("c", "c", "", "coefficient of the weight function")
	cmd.Flags().Int("bins", 100, "number of radial bins")
	cmd.Flags().String("function", "linear",
		"weight function (linear|inverse|constant)")
	cmd.MarkFlagRequired("r")
	cmd.MarkFlagRequired("c")

	return cmd
}
