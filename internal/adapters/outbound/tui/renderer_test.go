package tui_test

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/openkraft/domainlint/internal/adapters/outbound/tui"
	"github.com/openkraft/domainlint/internal/domain"
	"github.com/openkraft/domainlint/internal/domain/graph"
	"github.com/openkraft/domainlint/internal/domain/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleReport() *domain.LintReport {
	g := graph.New()
	g.AddImport("app.orders.service", "app.users.models", domain.ImportDetail{
		File: "app/orders/service/service.go", LineNumber: 7, LineContents: `"example.com/shop/app/users/models"`,
	})
	vs := []domain.Violation{
		domain.NewViolation(domain.KindNonPublic, "app.orders.service", "app.users.models", g),
		domain.NewViolation(domain.KindNotDependent, "app.orders.service", "app.users.models", g),
	}
	return &domain.LintReport{Root: "app", Groups: lint.GroupViolations(vs)}
}

func TestRenderLintReport_GroupsAndSummary(t *testing.T) {
	out, err := tui.RenderLintReport(sampleReport())
	require.NoError(t, err)

	assert.Contains(t, out, "A module imported outside of the package is not public.")
	assert.Contains(t, out, "Package orders implicitly depends on users.")
	assert.Contains(t, out, `app/orders/service/service.go:7 "example.com/shop/app/users/models"`)
	assert.Contains(t, out, "Found 2 dependency violations.")
	assert.NotContains(t, out, "All good!")
}

func TestRenderLintReport_BlankLineAfterEachGroup(t *testing.T) {
	out, err := tui.RenderLintReport(sampleReport())
	require.NoError(t, err)

	location := `app/orders/service/service.go:7 "example.com/shop/app/users/models"`
	assert.Equal(t, 2, strings.Count(out, location+"\n\n"), "each group ends with a blank line")
	assert.NotContains(t, out, "  "+location, "locations are not indented")
}

func TestRenderLintReport_Clean(t *testing.T) {
	out, err := tui.RenderLintReport(&domain.LintReport{Root: "app"})
	require.NoError(t, err)
	assert.Contains(t, out, "All good!")
	assert.NotContains(t, out, "Found")
}

func TestRenderLintReport_LocationErrorSurfaces(t *testing.T) {
	v := domain.NewViolation(domain.KindNonPublic, "app.a.x", "app.b.y", graph.New())
	report := &domain.LintReport{Groups: lint.GroupViolations([]domain.Violation{v})}

	_, err := tui.RenderLintReport(report)
	var queryErr *domain.GraphQueryError
	assert.True(t, errors.As(err, &queryErr))
}

func TestRenderHistory(t *testing.T) {
	day := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	out := tui.RenderHistory([]domain.RunEntry{
		{Timestamp: day, CommitHash: "abcdef1234", Groups: 4, NonPublic: 1, Undeclared: 3},
		{Timestamp: day.Add(24 * time.Hour), Groups: 1, NonPublic: 0, Undeclared: 1},
		{Timestamp: day.Add(48 * time.Hour)},
	})

	assert.Contains(t, out, "Run History")
	assert.Contains(t, out, "2026-03-01")
	assert.Contains(t, out, "abcdef1")
	assert.NotContains(t, out, "abcdef12")
	assert.Contains(t, out, "4 groups")
	assert.Contains(t, out, "↓3")
	assert.Contains(t, out, "clean")
}

func TestRenderHistory_Empty(t *testing.T) {
	assert.Contains(t, tui.RenderHistory(nil), "No recorded runs found.")
}
