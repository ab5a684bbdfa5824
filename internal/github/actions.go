package github

import (
	"fmt"
	"os"
	"strings"
)

// HeaderStatus is the extraction outcome of one header candidate.
type HeaderStatus struct {
	Path    string
	Status  string
	Version string
	Grammar string
	Line    int
	Error   string
}

// VersionSummary holds the results of a version check run.
type VersionSummary struct {
	Release string
	Status  string
	Headers []HeaderStatus
}

// Failed reports whether any candidate failed hard.
func (s *VersionSummary) Failed() bool {
	for _, h := range s.Headers {
		if h.Error != "" {
			return true
		}
	}
	return false
}

// InActions reports whether we are running in GitHub Actions.
func InActions() bool {
	return os.Getenv("GITHUB_ACTIONS") == "true"
}

// Markdown renders the summary as a step summary table.
func (s *VersionSummary) Markdown() string {
	var sb strings.Builder

	sb.WriteString("## 📚 TRAP Documentation Version\n\n")
	sb.WriteString(fmt.Sprintf("**Release:** `%s` (%s)\n\n", s.Release, s.Status))

	sb.WriteString("| Header | Status | Version | Declaration |\n")
	sb.WriteString("|--------|--------|---------|-------------|\n")
	for _, h := range s.Headers {
		status := h.Status
		if h.Error != "" {
			status = "❌ " + strings.ReplaceAll(h.Error, "|", "\\|")
		}
		decl := "-"
		if h.Line > 0 {
			decl = fmt.Sprintf("%s, line %d", h.Grammar, h.Line)
		}
		version := h.Version
		if version == "" {
			version = "-"
		}
		sb.WriteString(fmt.Sprintf("| `%s` | %s | %s | %s |\n", h.Path, status, version, decl))
	}
	sb.WriteString("\n")

	if url := GetWorkflowURL(); url != "" {
		sb.WriteString(fmt.Sprintf("[Workflow run](%s)\n", url))
	}

	return sb.String()
}

// WriteStepSummary appends the summary to GITHUB_STEP_SUMMARY when running in GitHub Actions.
func (s *VersionSummary) WriteStepSummary() error {
	if !InActions() {
		return nil
	}
	return appendEnvFile("GITHUB_STEP_SUMMARY", s.Markdown())
}

// WriteOutputs sets release and status step outputs via GITHUB_OUTPUT.
func (s *VersionSummary) WriteOutputs() error {
	if !InActions() {
		return nil
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "version=%s\n", s.Release)
	fmt.Fprintf(&sb, "status=%s\n", s.Status)
	fmt.Fprintf(&sb, "known=%t\n", s.Status == "found")
	return appendEnvFile("GITHUB_OUTPUT", sb.String())
}

func appendEnvFile(env, content string) error {
	path := os.Getenv(env)
	if path == "" {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", env, err)
	}
	defer f.Close()

	if _, err := f.WriteString(content); err != nil {
		return fmt.Errorf("writing %s: %w", env, err)
	}
	return nil
}

// GetWorkflowURL attempts to construct the workflow URL from environment variables.
func GetWorkflowURL() string {
	serverURL := os.Getenv("GITHUB_SERVER_URL")
	repo := os.Getenv("GITHUB_REPOSITORY")
	runID := os.Getenv("GITHUB_RUN_ID")

	if serverURL == "" || repo == "" || runID == "" {
		return ""
	}

	return fmt.Sprintf("%s/%s/actions/runs/%s", serverURL, repo, runID)
}
