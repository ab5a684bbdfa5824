package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trap-engine/trap-docs/internal/stamp"
)

var (
	stampDryRun       bool
	stampAllowUnknown bool
)

var stampCmd = &cobra.Command{
	Use:   "stamp",
	Short: "Write the release into configured files",
	Long: `Write the release version into every file listed under stamp in the config.

Supported targets are JSON, YAML and TOML fields (dotted paths) and managed
sections in Markdown or reStructuredText files:

  <!-- BEGIN TRAP MANAGED VERSION SECTION -->
  <!-- END TRAP MANAGED VERSION SECTION -->

Stamping "Unknown" is refused unless --allow-unknown is set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Stamp) == 0 {
			return fmt.Errorf("no stamp targets configured")
		}

		res, err := resolveRelease(cmd.Context(), cfg, !stampAllowUnknown)
		if err != nil {
			return err
		}

		stamper := stamp.New(stampDryRun)
		updated := 0
		for _, t := range cfg.Stamp {
			target := stamp.Target{
				Path:   cfg.Resolve(t.Path),
				Format: stamp.Format(t.Format),
				Field:  t.Field,
				Marker: t.Marker,
			}

			changed, err := stamper.Apply(cmd.Context(), target, res.Version)
			if err != nil {
				return err
			}
			if changed {
				updated++
			}
			if IsVerbose() {
				state := "unchanged"
				if changed {
					state = "updated"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", target.Path, state)
			}
		}

		verb := "Updated"
		if stampDryRun {
			verb = "Would update"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %d of %d file(s) to %s\n", verb, updated, len(cfg.Stamp), res.Version)
		return nil
	},
}

func init() {
	stampCmd.Flags().BoolVar(&stampDryRun, "dry-run", false, "report changes without writing files")
	stampCmd.Flags().BoolVar(&stampAllowUnknown, "allow-unknown", false, "allow stamping the Unknown sentinel")
	rootCmd.AddCommand(stampCmd)
}
