package cmd

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/trap-engine/trap-docs/internal/config"
	"github.com/trap-engine/trap-docs/internal/github"
	"github.com/trap-engine/trap-docs/internal/logger"
	"github.com/trap-engine/trap-docs/internal/version"
)

var checkAllowUnknown bool

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the engine version headers",
	Long: `Check every configured version header and report what each one declares.

The check fails when a header cannot be read, when a declaration does not
match its grammar (format drift), or when no header declares a version
(unless --allow-unknown is set).

When running in GitHub Actions, the version, status and known outputs are
written to GITHUB_OUTPUT and a summary table to GITHUB_STEP_SUMMARY.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		return runCheck(cmd, cfg)
	},
}

func init() {
	checkCmd.Flags().BoolVar(&checkAllowUnknown, "allow-unknown", false, "pass when no header declares a version")
	rootCmd.AddCommand(checkCmd)
}

// runCheck extracts from each header candidate independently.
func runCheck(cmd *cobra.Command, cfg *config.Config) error {
	ctx := cmd.Context()

	extractor, err := newExtractor(cfg)
	if err != nil {
		return err
	}

	summary := &github.VersionSummary{Release: version.Sentinel, Status: version.MissingFile.String()}
	for _, path := range cfg.HeaderPaths() {
		display := path
		if rel, err := filepath.Rel(cfg.Dir(), path); err == nil {
			display = filepath.ToSlash(rel)
		}
		hs := github.HeaderStatus{Path: display}

		res, err := extractor.Extract(ctx, path)
		if err != nil {
			hs.Status = "error"
			hs.Error = err.Error()
			logger.Errorf(ctx, "%v", err)
			summary.Headers = append(summary.Headers, hs)
			continue
		}

		hs.Status = res.Status.String()
		hs.Version = res.Version
		hs.Grammar = res.Grammar
		hs.Line = res.Line
		if !res.Known() {
			hs.Version = ""
		}
		summary.Headers = append(summary.Headers, hs)

		switch {
		case res.Known() && summary.Release == version.Sentinel:
			summary.Release = res.Version
			summary.Status = res.Status.String()
		case res.Status == version.MissingMatch && summary.Status == version.MissingFile.String():
			summary.Status = res.Status.String()
		}
	}

	printCheckResults(cmd.OutOrStdout(), summary)

	if err := summary.WriteOutputs(); err != nil {
		logger.Warnf(ctx, "could not write GitHub outputs: %v", err)
	}
	if err := summary.WriteStepSummary(); err != nil {
		logger.Warnf(ctx, "could not write GitHub step summary: %v", err)
	}

	if summary.Failed() {
		return fmt.Errorf("version header check failed")
	}
	if summary.Release == version.Sentinel && !checkAllowUnknown {
		return fmt.Errorf("%w (%s)", errNoVersion, summary.Status)
	}
	return nil
}

// printCheckResults prints the check results in a formatted way.
func printCheckResults(w io.Writer, summary *github.VersionSummary) {
	fmt.Fprintln(w, "## 📝 Version Headers")
	fmt.Fprintln(w)

	for _, h := range summary.Headers {
		switch {
		case h.Error != "":
			fmt.Fprintf(w, "- ❌ `%s`: %s\n", h.Path, h.Error)
		case h.Line > 0:
			fmt.Fprintf(w, "- ✅ `%s`: %s (%s, line %d)\n", h.Path, h.Version, h.Grammar, h.Line)
		default:
			fmt.Fprintf(w, "- ⚠️  `%s`: %s\n", h.Path, h.Status)
		}
	}
	fmt.Fprintln(w)

	if summary.Release != version.Sentinel {
		fmt.Fprintf(w, "✅ Release %s\n", summary.Release)
	} else {
		fmt.Fprintf(w, "❌ No release version found (%s)\n", summary.Status)
	}
}
