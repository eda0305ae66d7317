package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openkraft/domainlint/internal/domain"
)

var (
	accent  = lipgloss.Color("#D97706") // amber
	fg      = lipgloss.Color("#E8E6E3")
	dim     = lipgloss.Color("#6B7280")
	faint   = lipgloss.Color("#3F3F46")
	success = lipgloss.Color("#22C55E")
	danger  = lipgloss.Color("#EF4444")
	warning = lipgloss.Color("#F59E0B")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(accent).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 4).
			Align(lipgloss.Center).
			Width(68)

	dimStyle     = lipgloss.NewStyle().Foreground(dim)
	faintStyle   = lipgloss.NewStyle().Foreground(faint)
	passStyle    = lipgloss.NewStyle().Foreground(success)
	failStyle    = lipgloss.NewStyle().Foreground(danger)
	warnStyle    = lipgloss.NewStyle().Foreground(warning)
	fileStyle    = lipgloss.NewStyle().Foreground(dim)
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(fg)
	messageStyle = lipgloss.NewStyle().Bold(true)
)

// RenderLintReport prints each group's message followed by the location of
// every offending import and a blank line, then a one-line summary. Locations
// are resolved here, so graph errors surface to the caller.
func RenderLintReport(report *domain.LintReport) (string, error) {
	var b strings.Builder

	for _, g := range report.Groups {
		b.WriteString(messageStyle.Render(g.Message))
		b.WriteString("\n")
		for _, v := range g.Violations {
			loc, err := v.Location()
			if err != nil {
				return "", err
			}
			fmt.Fprintf(&b, "%s:%d %s\n",
				fileStyle.Render(loc.File), loc.LineNumber, strings.TrimSpace(loc.LineContents))
		}
		b.WriteString("\n")
	}

	if len(report.Groups) > 0 {
		b.WriteString(failStyle.Render(fmt.Sprintf("Found %d dependency violations.", len(report.Groups))))
	} else {
		b.WriteString(passStyle.Render("All good!"))
	}
	b.WriteString("\n")
	return b.String(), nil
}

// RenderHistory formats recorded runs, oldest first, with the change in group
// count between consecutive runs.
func RenderHistory(entries []domain.RunEntry) string {
	if len(entries) == 0 {
		return "  " + dimStyle.Render("No recorded runs found.") + "\n"
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("  " + titleStyle.Render("Run History") + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 50)) + "\n\n")

	for i, e := range entries {
		hash := e.CommitHash
		if len(hash) > 7 {
			hash = hash[:7]
		}
		if hash == "" {
			hash = "·······"
		}

		count := passStyle.Render("clean")
		if e.Groups > 0 {
			count = failStyle.Render(fmt.Sprintf("%d groups", e.Groups))
		}

		line := fmt.Sprintf("  %s  %s  %s  %s",
			dimStyle.Render(e.Timestamp.Format("2006-01-02")),
			faintStyle.Render(hash),
			count,
			dimStyle.Render(fmt.Sprintf("(%d non-public, %d undeclared)", e.NonPublic, e.Undeclared)),
		)

		if i > 0 {
			diff := e.Groups - entries[i-1].Groups
			if diff > 0 {
				line += "  " + failStyle.Render(fmt.Sprintf("↑%d", diff))
			} else if diff < 0 {
				line += "  " + passStyle.Render(fmt.Sprintf("↓%d", -diff))
			}
		}

		b.WriteString(line)
		b.WriteString("\n")
	}

	return b.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
