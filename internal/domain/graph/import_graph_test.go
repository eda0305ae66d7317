package graph

import (
	"testing"

	"github.com/openkraft/domainlint/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImportGraph_AddModuleCreatesAncestors(t *testing.T) {
	g := New()
	g.AddModule("app.users.models.user")

	assert.Len(t, g.Modules, 4)

	children, err := g.FindChildren("app")
	require.NoError(t, err)
	assert.Equal(t, []domain.QualifiedPath{"app.users"}, children)

	children, err = g.FindChildren("app.users.models.user")
	require.NoError(t, err)
	assert.Empty(t, children)
}

func TestImportGraph_ChildrenSortedAndUnique(t *testing.T) {
	g := New()
	g.AddModule("app.orders")
	g.AddModule("app.billing.ledger")
	g.AddModule("app.users")
	g.AddModule("app.billing")

	children, err := g.FindChildren("app")
	require.NoError(t, err)
	assert.Equal(t, []domain.QualifiedPath{"app.billing", "app.orders", "app.users"}, children)
}

func TestImportGraph_FindDescendants(t *testing.T) {
	g := New()
	g.AddModule("app.users.models")
	g.AddModule("app.users.internal.helper")
	g.AddModule("app.orders.api")

	desc, err := g.FindDescendants("app.users")
	require.NoError(t, err)
	assert.Equal(t, []domain.QualifiedPath{
		"app.users.internal",
		"app.users.internal.helper",
		"app.users.models",
	}, desc)

	desc, err = g.FindDescendants("app.unknown")
	require.NoError(t, err)
	assert.Empty(t, desc)
}

func TestImportGraph_ImportsAndDetails(t *testing.T) {
	g := New()
	g.AddImport("app.orders.api", "app.users.models", domain.ImportDetail{LineNumber: 3, LineContents: "a"})
	g.AddImport("app.orders.api", "app.users.models", domain.ImportDetail{LineNumber: 8, LineContents: "b"})
	g.AddImport("app.orders.api", "app.billing.ledger", domain.ImportDetail{LineNumber: 4, LineContents: "c"})

	imports, err := g.FindDirectImports("app.orders.api")
	require.NoError(t, err)
	assert.Equal(t, []domain.QualifiedPath{"app.billing.ledger", "app.users.models"}, imports)

	details, err := g.ImportDetails("app.orders.api", "app.users.models")
	require.NoError(t, err)
	require.Len(t, details, 2)
	assert.Equal(t, 3, details[0].LineNumber)

	details, err = g.ImportDetails("app.users.models", "app.orders.api")
	require.NoError(t, err)
	assert.Empty(t, details)

	assert.Equal(t, 2, g.EdgeCount())
}

func TestPackageGraph_DetectCycles_None(t *testing.T) {
	pg := NewPackageGraph()
	pg.AddEdge("orders", "users")
	pg.AddEdge("users", "utils")
	assert.Empty(t, pg.DetectCycles())
}

func TestPackageGraph_DetectCycles_Dedup(t *testing.T) {
	pg := NewPackageGraph()
	pg.AddEdge("a", "b")
	pg.AddEdge("b", "a")
	pg.AddEdge("c", "a")
	pg.AddEdge("b", "c")

	cycles := pg.DetectCycles()
	assert.Contains(t, cycles, []string{"a", "b"})
	assert.Contains(t, cycles, []string{"a", "b", "c"})
	assert.Len(t, cycles, 2)
}

func TestNormalizeCycle(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, normalizeCycle([]string{"b", "c", "a"}))
	assert.Empty(t, normalizeCycle(nil))
}
