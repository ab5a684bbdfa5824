package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trap-engine/trap-docs/internal/version"
)

var (
	releaseShort  bool
	releaseStrict bool
)

var releaseCmd = &cobra.Command{
	Use:   "release",
	Short: "Print the engine release version",
	Long: `Print the release version read from the engine version header.

Header candidates from version.headers are tried in order. When no header
declares a version, "Unknown" is printed unless --strict is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		res, err := resolveRelease(cmd.Context(), cfg, releaseStrict)
		if err != nil {
			return err
		}

		out := res.Version
		if releaseShort {
			out = version.Short(out)
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

func init() {
	releaseCmd.Flags().BoolVar(&releaseShort, "short", false, "print only major.minor")
	releaseCmd.Flags().BoolVar(&releaseStrict, "strict", false, "fail instead of printing Unknown")
	rootCmd.AddCommand(releaseCmd)
}
