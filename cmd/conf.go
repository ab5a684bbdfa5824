package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/trap-engine/trap-docs/internal/docs"
	"github.com/trap-engine/trap-docs/internal/logger"
	"github.com/trap-engine/trap-docs/internal/render"
	"github.com/trap-engine/trap-docs/internal/settings"
)

var (
	confFormat   string
	confOutput   string
	confTemplate string
	confStrict   bool
)

var confCmd = &cobra.Command{
	Use:   "conf",
	Short: "Generate the Sphinx configuration",
	Long: `Generate the documentation generator configuration.

The release is read from the engine headers, then merged with the sphinx
section of the config file. Output is a Sphinx conf.py by default; use
--format to emit yaml, toml or json instead.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		format, err := render.ParseFormat(firstNonEmpty(confFormat, cfg.Output.Format))
		if err != nil {
			return err
		}

		res, err := resolveRelease(cmd.Context(), cfg, confStrict)
		if err != nil {
			return err
		}

		s, err := settings.Build(cfg, res.Version, time.Now())
		if err != nil {
			return fmt.Errorf("building settings: %w", err)
		}

		templatePath := cfg.TemplatePath()
		if confTemplate != "" {
			templatePath = confTemplate
		}
		renderer, err := render.New(templatePath)
		if err != nil {
			return err
		}

		out, err := renderer.Render(format, s, releaseMeta(cfg, res))
		if err != nil {
			return err
		}

		outputPath := cfg.OutputPath()
		if confOutput != "" {
			outputPath = confOutput
		}
		if outputPath == "" || outputPath == "-" {
			_, err := cmd.OutOrStdout().Write(out)
			return err
		}

		if err := docs.WriteFile(outputPath, out, 0o644); err != nil {
			return err
		}
		logger.InfoKV(cmd.Context(), "wrote configuration", "path", outputPath, "format", string(format), "release", res.Version)
		return nil
	},
}

func init() {
	confCmd.Flags().StringVarP(&confFormat, "format", "f", "", "output format: python, yaml, toml or json (default: from config)")
	confCmd.Flags().StringVarP(&confOutput, "output", "o", "", "output file, - for stdout (default: from config)")
	confCmd.Flags().StringVar(&confTemplate, "template", "", "conf.py template (default: from config or built-in)")
	confCmd.Flags().BoolVar(&confStrict, "strict", false, "fail when no release version is found")
	rootCmd.AddCommand(confCmd)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
