package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewCombineCommand creates the combine command.
func NewCombineCommand(rootOpts *RootOptions) *cobra.Command {
	var output string
	var del bool

	cmd := &cobra.Command{
		Use:   "combine INPUT... -o OUTPUT [-d]",
		Short: "Concatenate phase space files (does not adjust weights)",
		Long: `Combine phase space from one or more input files into an output file.
Weights are not adjusted.

Inputs may be file list patterns, e.g. 'beam_{%02d,0..15 - 7}.egsphsp1'
expands to beam_00.egsphsp1 through beam_15.egsphsp1 without
beam_07.egsphsp1.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := expandInputs(args)
			if err != nil {
				return err
			}
			s, err := rootOpts.start(cmd, nil)
			if err != nil {
				return err
			}
			s.log.WithFields(logrus.Fields{
				"inputs": len(inputs), "output": output,
			}).Debug("Running combine.")
			return s.engine.Combine(inputs, output, del)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().BoolVarP(&del, "delete", "d", false,
		"delete input files once the output is written (no going back!)")
	cmd.MarkFlagRequired("output")

	return cmd
}

// NewSampleCombineCommand creates the sample-combine command.
func NewSampleCombineCommand(rootOpts *RootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "sample-combine INPUT... -o OUTPUT [--rate RATE] [--seed SEED]",
		Short: "Combine random samples of phase space files",
		Long: `Combine samples of phase space input files into an output file. Each
record is kept with probability 1/RATE, so --rate 10 keeps roughly one
record in ten. Weights are not adjusted; the number of source particles in
the output header is scaled by 1/RATE.

The same inputs, rate, and seed always give the same output.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := expandInputs(args)
			if err != nil {
				return err
			}
			s, err := rootOpts.start(cmd, map[string]string{
				"sample.rate": "rate", "seed": "seed",
			})
			if err != nil {
				return err
			}
			s.log.WithFields(logrus.Fields{
				"inputs": len(inputs), "output": output,
				"rate": s.cfg.Sample.Rate, "seed": s.cfg.Seed,
			}).Debug("Running sample-combine.")
			return s.engine.Sample(inputs, output, s.cfg.KeepProbability(),
				s.cfg.Seed)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file")
	cmd.Flags().Float64("rate", 10, "inverse sample rate: 10 means take "+
		"roughly 1 out of every 10 particles")
	cmd.Flags().Uint64("seed", 0, "random seed")
	cmd.MarkFlagRequired("output")

	return cmd
}
