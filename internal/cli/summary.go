package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/AbdelazizMoustafa10m/scenarist/internal/orchestrate"
	"github.com/AbdelazizMoustafa10m/scenarist/internal/runner"
)

var (
	stylePassed  = lipgloss.NewStyle().Foreground(lipgloss.Color("10")) // green
	styleFailed  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))  // red
	styleSkipped = lipgloss.NewStyle().Foreground(lipgloss.Color("11")) // yellow
	styleDim     = lipgloss.NewStyle().Faint(true)
)

// renderSummary returns the human-readable run summary: a header, a static
// pass-rate bar, the counts, then the failed and skipped tests with their
// reasons.
//
//	Run run-1712 (fingerprint 3f0c2a9d1b7e4c55)
//	████████████████░░░░ 82% (9/11 passed)
//	9 passed, 1 failed, 1 skipped in 1.2s
func renderSummary(report *runner.Report) string {
	const progressBarWidth = 40

	sum := report.Summary()

	pct := 0.0
	if sum.Total > 0 {
		pct = float64(sum.Passed) / float64(sum.Total)
	}

	bar := progress.New(
		progress.WithDefaultGradient(),
		progress.WithWidth(progressBarWidth),
		progress.WithoutPercentage(),
	)

	var sb strings.Builder

	header := "Run " + report.RunID
	if report.Fingerprint != "" {
		header += fmt.Sprintf(" (fingerprint %s)", report.Fingerprint)
	}
	if report.DryRun {
		header += " [dry-run]"
	}
	sb.WriteString(styleHeader.Render(header))
	sb.WriteString("\n")

	sb.WriteString(bar.ViewAs(pct))
	fmt.Fprintf(&sb, " %.0f%% (%d/%d passed)\n", pct*100, sum.Passed, sum.Total)

	counts := []string{
		stylePassed.Render(fmt.Sprintf("%d passed", sum.Passed)),
		styleFailed.Render(fmt.Sprintf("%d failed", sum.Failed)),
		styleSkipped.Render(fmt.Sprintf("%d skipped", sum.Skipped)),
	}
	fmt.Fprintf(&sb, "%s in %s\n", strings.Join(counts, ", "), report.Duration.Round(time.Millisecond))

	var failed, skipped []runner.Result
	for _, res := range report.Results {
		switch res.Status {
		case runner.StatusFailed:
			failed = append(failed, res)
		case runner.StatusSkipped:
			skipped = append(skipped, res)
		}
	}

	if len(failed) > 0 {
		sb.WriteString("\n")
		sb.WriteString(styleErrorLbl.Render("Failed:"))
		sb.WriteString("\n")
		for _, res := range failed {
			fmt.Fprintf(&sb, "  %s: %s\n", res.ID, firstLine(res.Error))
		}
	}

	// Dry runs skip everything; listing every test again adds nothing.
	if len(skipped) > 0 && !report.DryRun {
		sb.WriteString("\n")
		sb.WriteString(styleWarnLbl.Render("Skipped:"))
		sb.WriteString("\n")
		for _, res := range skipped {
			fmt.Fprintf(&sb, "  %s: %s\n", res.ID, res.Reason)
		}
	}

	return sb.String()
}

// formatEvent renders a runner event as one progress line, or "" for
// events that are not shown.
func formatEvent(ev runner.Event) string {
	switch ev.Type {
	case runner.EventTestPassed:
		return stylePassed.Render("PASS") + " " + ev.TestID
	case runner.EventTestFailed:
		return styleFailed.Render("FAIL") + " " + ev.TestID + styleDim.Render(" "+firstLine(ev.Error))
	case runner.EventTestSkipped:
		return styleSkipped.Render("SKIP") + " " + ev.TestID + styleDim.Render(" "+ev.Message)
	default:
		return ""
	}
}

// renderPlan writes the planned execution order grouped by suite.
//
//	Suite base (3 tests)
//	  setup[base]
//	  A[base-1]
//	  teardown[base]
func renderPlan(plan *orchestrate.Plan) string {
	var sb strings.Builder
	for _, s := range plan.Suites {
		tests := s.Tests(plan.NoSetup)
		fmt.Fprintf(&sb, "%s (%d tests)\n", styleSection.Render("Suite "+s.Scenario), len(tests))
		for _, tc := range tests {
			fmt.Fprintf(&sb, "  %s\n", tc.ID)
		}
	}
	fmt.Fprintf(&sb, "\n%d test(s), fingerprint %s\n", len(plan.Order), orchestrate.FormatFingerprint(plan.Fingerprint))
	return sb.String()
}

// firstLine returns s up to its first newline.
func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
