// Package report renders a completed analysis into a markdown document
// and persists it through a pluggable storage backend.
package report

import (
	"fmt"
	"strings"

	"github.com/finsightai/finsight/internal/core"
)

// Render produces the full markdown report for a completed run. Section
// order mirrors the pipeline: analyst, researcher, trading, risk.
func Render(state core.AnalysisContext) []byte {
	var b strings.Builder

	b.WriteString("# Analysis Report\n\n")
	fmt.Fprintf(&b, "Symbol: %s\n", state.Symbol)
	fmt.Fprintf(&b, "Period: %s\n", state.Period)
	fmt.Fprintf(&b, "Generated: %s\n\n", state.CreatedAt.Format("2006-01-02 15:04:05 MST"))

	b.WriteString("## Analyst Team\n\n")
	for _, angle := range []string{core.AngleFundamentals, core.AngleSentiment, core.AngleTechnical, core.AngleSpecial} {
		fmt.Fprintf(&b, "### %s\n\n%s\n\n", title(angle), state.Insights[angle])
	}

	b.WriteString("## Researcher Team\n\n")
	fmt.Fprintf(&b, "### Bull\n\n%s\n\n", state.Debate.Bull)
	fmt.Fprintf(&b, "### Bear\n\n%s\n\n", state.Debate.Bear)
	fmt.Fprintf(&b, "### Debate\n\n%s\n\n", state.Debate.Summary)

	b.WriteString("## Trading Team\n\n")
	b.WriteString(state.Decision)
	b.WriteString("\n\n")

	b.WriteString("## Risk Management Team\n\n")
	b.WriteString(state.RiskVerdict)
	b.WriteString("\n")

	return []byte(b.String())
}

// Filename derives the storage path for a run: one file per symbol and
// creation timestamp.
func Filename(state core.AnalysisContext) string {
	return fmt.Sprintf("%s/result_%s.md", state.Symbol, state.CreatedAt.Format("20060102_1504"))
}

func title(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
