package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/phil-mansfield/beamdpr/lib/format"
)

// parseFloat parses a floating point argument. Negative numbers may be
// wrapped in parentheses, e.g. "(-1.5)", so shells and flag parsers don't
// mistake them for flags.
func parseFloat(name, s string) (float64, error) {
	clean := strings.TrimSpace(s)
	clean = strings.TrimPrefix(clean, "(")
	clean = strings.TrimSuffix(clean, ")")
	clean = strings.TrimSpace(clean)

	x, err := strconv.ParseFloat(clean, 64)
	if err != nil || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, NewExitError(ExitUsage, fmt.Sprintf("%s must be a "+
			"finite number, but was given '%s'", name, s))
	}
	return x, nil
}

// floatFlag reads and parses a string flag holding a number.
func floatFlag(cmd *cobra.Command, name string) (float64, error) {
	s, err := cmd.Flags().GetString(name)
	if err != nil {
		return 0, WrapExitError(ExitUsage, "invalid flags", err)
	}
	return parseFloat("--"+name, s)
}

// expandInputs expands file list patterns given on the command line.
func expandInputs(args []string) ([]string, error) {
	files, err := format.ExpandFileLists(args)
	if err != nil {
		return nil, WrapExitError(ExitUsage, "invalid input list", err)
	}
	if len(files) == 0 {
		return nil, NewExitError(ExitUsage, "the input list is empty")
	}
	return files, nil
}

// usageArgs wraps a cobra argument validator so its errors are reported as
// usage errors.
func usageArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return WrapExitError(ExitUsage, "invalid arguments", err)
		}
		return nil
	}
}

// inPlaceArgs accepts INPUT OUTPUT, or just INPUT when --in-place is set.
func inPlaceArgs(cmd *cobra.Command, args []string) error {
	inPlace, _ := cmd.Flags().GetBool("in-place")
	switch {
	case inPlace && len(args) != 1:
		return NewExitError(ExitUsage, fmt.Sprintf("--in-place takes "+
			"exactly one file, but %d were given", len(args)))
	case !inPlace && len(args) != 2:
		return NewExitError(ExitUsage, fmt.Sprintf("expected INPUT and "+
			"OUTPUT (or --in-place INPUT), but %d arguments were given",
			len(args)))
	}
	return nil
}

// inOut returns the input and output paths accepted by inPlaceArgs.
func inOut(args []string) (input, output string) {
	if len(args) == 1 {
		return args[0], args[0]
	}
	return args[0], args[1]
}
