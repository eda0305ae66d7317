package tui

import (
	"fmt"
	"strings"

	"github.com/openkraft/domainlint/internal/domain"
	"github.com/openkraft/domainlint/internal/domain/graph"
	"github.com/openkraft/domainlint/internal/domain/lint"
)

const graphMaxRows = 30

// RenderPackageGraph produces a terminal view of the package dependency
// matrix with a summary header, an edge table, unused declarations and
// cycles.
func RenderPackageGraph(deps *graph.DependencyReport) string {
	if deps == nil || len(deps.Packages) == 0 {
		return "\n  " + dimStyle.Render("No domain packages found.") + "\n\n"
	}

	var b strings.Builder
	renderGraphHeader(&b, deps)
	renderEdgeTable(&b, deps.Edges)
	renderUnusedSection(&b, deps.Unused)
	renderCyclesSection(&b, deps.Cycles)
	b.WriteString("\n")
	return b.String()
}

func renderGraphHeader(b *strings.Builder, deps *graph.DependencyReport) {
	undeclared := 0
	for _, e := range deps.Edges {
		if !e.Declared {
			undeclared++
		}
	}

	title := headerStyle.Render("Package Dependencies")
	rootLine := titleStyle.Render(deps.Root)

	label := passStyle.Render("0 undeclared")
	if undeclared > 0 {
		label = failStyle.Render(fmt.Sprintf("%d undeclared", undeclared))
	}
	stats := dimStyle.Render(fmt.Sprintf(
		"%d packages  ·  %d edges  ·  %d cycles  ·  ", len(deps.Packages), len(deps.Edges), len(deps.Cycles))) + label

	b.WriteString(boxStyle.Render(title + "\n\n" + rootLine + "\n" + stats))
	b.WriteString("\n\n")
}

func renderEdgeTable(b *strings.Builder, edges []graph.PackageEdge) {
	hdr := fmt.Sprintf("  %-20s %-20s %7s  %s", "From", "To", "Imports", "Status")
	b.WriteString(titleStyle.Render(hdr) + "\n")
	b.WriteString("  " + faintStyle.Render(strings.Repeat("─", 60)) + "\n")

	if len(edges) == 0 {
		b.WriteString("    " + dimStyle.Render("(no cross-package imports)") + "\n\n")
		return
	}

	shown := min(len(edges), graphMaxRows)
	for _, e := range edges[:shown] {
		status := passStyle.Render("declared")
		if !e.Declared {
			status = failStyle.Render("✘ undeclared")
		}
		fmt.Fprintf(b, "  %s %s %7d  %s\n",
			dimStyle.Render(padRight(e.From, 20)), dimStyle.Render(padRight(e.To, 20)), e.Imports, status)
	}
	if remaining := len(edges) - shown; remaining > 0 {
		b.WriteString(faintStyle.Render(fmt.Sprintf("  (%d more edges)\n", remaining)))
	}
	b.WriteString("\n")
}

func renderUnusedSection(b *strings.Builder, unused []string) {
	b.WriteString("  " + titleStyle.Render("Unused Declarations") + "\n")
	if len(unused) == 0 {
		b.WriteString("    " + passStyle.Render("(none)") + "\n\n")
		return
	}
	for _, u := range unused {
		b.WriteString("    " + warnStyle.Render(u) + "\n")
	}
	b.WriteString("\n")
}

func renderCyclesSection(b *strings.Builder, cycles [][]string) {
	b.WriteString("  " + titleStyle.Render("Cycles") + "\n")
	if len(cycles) == 0 {
		b.WriteString("    " + passStyle.Render("(none)") + "\n")
		return
	}
	for _, cycle := range cycles {
		parts := append(append([]string(nil), cycle...), cycle[0])
		b.WriteString("    " + failStyle.Render(strings.Join(parts, " → ")) + "\n")
	}
}

// ImportVerdict renders the classification of one import edge.
func ImportVerdict(check lint.ImportCheck) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s → %s\n", check.Importer, check.Imported)
	switch {
	case check.Exempt != "":
		b.WriteString("  " + passStyle.Render("allowed") + " " + dimStyle.Render("(not checked: "+check.Exempt+")") + "\n")
	case check.Allowed():
		b.WriteString("  " + passStyle.Render("allowed") + "\n")
	default:
		for _, k := range check.Kinds {
			v := domain.NewViolation(k, check.Importer, check.Imported, nil)
			b.WriteString("  " + failStyle.Render("✘ "+v.Message()) + "\n")
		}
	}
	return b.String()
}
