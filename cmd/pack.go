package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/trap-engine/trap-docs/internal/version"
)

var packCmd = &cobra.Command{
	Use:   "pack <major.minor.patch>",
	Short: "Encode a version as the engine's packed u32",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := version.ParseTriple(args[0])
		if err != nil {
			return err
		}
		v, err := version.Pack(t)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d (0x%08X)\n", v, v)
		return nil
	},
}

var unpackCmd = &cobra.Command{
	Use:   "unpack <u32>",
	Short: "Decode the engine's packed u32 into major.minor.patch",
	Long:  "Decode a packed version word. Decimal and 0x-prefixed hexadecimal are accepted.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		n, err := strconv.ParseUint(args[0], 0, 32)
		if err != nil {
			return fmt.Errorf("invalid packed version %q: %w", args[0], err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), version.Unpack(uint32(n)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(packCmd)
	rootCmd.AddCommand(unpackCmd)
}
