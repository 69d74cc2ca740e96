package cli

import (
	"github.com/spf13/cobra"
)

// NewPackCommand creates the pack command.
func NewPackCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pack INPUT OUTPUT [--level N]",
		Short: "Compress a phase space file",
		Long: `Write a compressed copy of a phase space file. Records are stored in
column order and compressed with zstd at the given level (1-22). unpack
restores the original file byte for byte.`,
		Args: usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.start(cmd, map[string]string{
				"pack.level": "level",
			})
			if err != nil {
				return err
			}
			return s.engine.Pack(args[0], args[1], s.cfg.Pack.Level)
		},
	}

	cmd.Flags().Int("level", 3, "zstd compression level")

	return cmd
}

// NewUnpackCommand creates the unpack command.
func NewUnpackCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unpack INPUT OUTPUT",
		Short: "Restore a phase space file written by pack",
		Args:  usageArgs(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := rootOpts.start(cmd, nil)
			if err != nil {
				return err
			}
			return s.engine.Unpack(args[0], args[1])
		},
	}

	return cmd
}
