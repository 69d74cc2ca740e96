package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewTranslateCommand creates the translate command.
func NewTranslateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate [-x X] [-y Y] [-i] INPUT [OUTPUT]",
		Short: "Translate using X and Y in centimeters",
		Long: `Translate every record by (X, Y) centimeters. Directions are
unchanged. Use parentheses around negatives, e.g. -x "(-2.5)".`,
		Args: inPlaceArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := floatFlag(cmd, "x")
			if err != nil {
				return err
			}
			y, err := floatFlag(cmd, "y")
			if err != nil {
				return err
			}
			s, err := rootOpts.start(cmd, nil)
			if err != nil {
				return err
			}

			input, output := inOut(args)
			s.log.WithFields(logrus.Fields{
				"input": input, "output": output, "x": x, "y": y,
			}).Debug("Running translate.")
			return s.engine.Translate(input, output, x, y)
		},
	}

	addInPlaceFlag(cmd)
	cmd.Flags().StringP("x", "x", "0", "x offset in cm")
	cmd.Flags().StringP("y", "y", "0", "y offset in cm")

	return cmd
}

// NewRotateCommand creates the rotate command.
func NewRotateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotate -a ANGLE [-i] INPUT [OUTPUT]",
		Short: "Rotate counter clockwise around the z axis",
		Long: `Rotate every record by ANGLE radians counter clockwise around the z
axis. Positions and directions are both rotated. Use parentheses around
negatives, e.g. -a "(-1.57)".`,
		Args: inPlaceArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			angle, err := floatFlag(cmd, "angle")
			if err != nil {
				return err
			}
			s, err := rootOpts.start(cmd, nil)
			if err != nil {
				return err
			}

			input, output := inOut(args)
			s.log.WithFields(logrus.Fields{
				"input": input, "output": output, "angle": angle,
			}).Debug("Running rotate.")
			return s.engine.Rotate(input, output, angle)
		},
	}

	addInPlaceFlag(cmd)
	cmd.Flags().StringP("angle", "a", "", "counter clockwise angle in "+
		"radians to rotate around the z axis")
	cmd.MarkFlagRequired("angle")

	return cmd
}

// NewReflectCommand creates the reflect command.
func NewReflectCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reflect -x X -y Y [-i] INPUT [OUTPUT]",
		Short: "Reflect in the vector (X, Y)",
		Long: `Reflect every record across the line through the origin with
direction (X, Y). Positions and directions are both reflected. Use
parentheses around negatives, e.g. -y "(-1)".`,
		Args: inPlaceArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			x, err := floatFlag(cmd, "x")
			if err != nil {
				return err
			}
			y, err := floatFlag(cmd, "y")
			if err != nil {
				return err
			}
			s, err := rootOpts.start(cmd, nil)
			if err != nil {
				return err
			}

			input, output := inOut(args)
			s.log.WithFields(logrus.Fields{
				"input": input, "output": output, "x": x, "y": y,
			}).Debug("Running reflect.")
			err = s.engine.Reflect(input, output, x, y)
			if err != nil && x == 0 && y == 0 {
				return WrapExitError(ExitUsage, "-x or -y must be non-zero",
					err)
			}
			return err
		},
	}

	addInPlaceFlag(cmd)
	cmd.Flags().StringP("x", "x", "0", "x component of the reflection vector")
	cmd.Flags().StringP("y", "y", "0", "y component of the reflection vector")

	return cmd
}

func addInPlaceFlag(cmd *cobra.Command) {
	cmd.Flags().BoolP("in-place", "i", false, "transform INPUT in place")
}
