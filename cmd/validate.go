package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trap-engine/trap-docs/internal/config"
	"github.com/trap-engine/trap-docs/internal/docs"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and managed sections",
	Long:  "Validate the configuration file and the managed sections of stamp targets.",
}

var validateConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Validate trap-docs.yml",
	Long:  "Validate the configuration file for required fields and correct format.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if _, err := newExtractor(cfg); err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), "✅ Config is valid")
		return nil
	},
}

var validateSectionsCmd = &cobra.Command{
	Use:   "sections",
	Short: "Validate managed sections in stamp targets",
	Long:  "Check that every section stamp target has balanced BEGIN/END markers.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		return validateSections(cmd, cfg)
	},
}

func init() {
	validateCmd.AddCommand(validateConfigCmd)
	validateCmd.AddCommand(validateSectionsCmd)
	rootCmd.AddCommand(validateCmd)
}

// validateSections validates the managed sections of every section target.
func validateSections(cmd *cobra.Command, cfg *config.Config) error {
	out := cmd.OutOrStdout()
	valid := 0
	invalid := 0

	for _, t := range cfg.Stamp {
		if t.Format != "section" {
			continue
		}
		path := cfg.Resolve(t.Path)
		m := docs.NewManager(t.Marker)

		doc, err := m.LoadDocument(path)
		if err != nil {
			fmt.Fprintf(out, "❌ %s: %v\n", path, err)
			invalid++
			continue
		}

		problems := docs.ValidateManagedSections(doc.Content)
		if !m.HasSection(doc) {
			problems = append(problems, fmt.Sprintf("missing managed section %q", t.Marker))
		}
		if len(problems) > 0 {
			for _, p := range problems {
				fmt.Fprintf(out, "❌ %s: %s\n", path, p)
			}
			invalid++
			continue
		}

		valid++
		if IsVerbose() {
			fmt.Fprintf(out, "✅ %s\n", path)
		}
	}

	fmt.Fprintf(out, "\nValidation complete: %d valid, %d invalid\n", valid, invalid)

	if invalid > 0 {
		return fmt.Errorf("found %d invalid files", invalid)
	}
	return nil
}
