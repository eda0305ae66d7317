package lint_test

import (
	"errors"
	"testing"

	"github.com/openkraft/domainlint/internal/domain"
	"github.com/openkraft/domainlint/internal/domain/graph"
	"github.com/openkraft/domainlint/internal/domain/lint"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicy(t *testing.T, cfg domain.PolicyConfig) *domain.Policy {
	t.Helper()
	if cfg.Root == "" {
		cfg.Root = "app"
	}
	p, err := domain.NewPolicy(cfg)
	require.NoError(t, err)
	return p
}

func line(n int) domain.ImportDetail {
	return domain.ImportDetail{LineNumber: n, LineContents: "import stmt"}
}

// ordersUsersGraph: app.orders.{service,api} both import app.users.models;
// app.users has its own internal import; app.config is a bare module.
func ordersUsersGraph() *graph.ImportGraph {
	g := graph.New()
	g.AddModule("app.users.models")
	g.AddModule("app.users.internal.helper")
	g.AddModule("app.orders.service")
	g.AddModule("app.orders.api")
	g.AddModule("app.config")
	g.AddImport("app.orders.service", "app.users.models", line(1))
	return g
}

func edges(vs []domain.Violation) map[string]int {
	out := make(map[string]int)
	for _, v := range vs {
		out[string(v.Kind)+" "+string(v.Importer)+" -> "+string(v.Imported)]++
	}
	return out
}

func TestDetect_ScenarioA_BothViolations(t *testing.T) {
	g := ordersUsersGraph()
	p := newPolicy(t, domain.PolicyConfig{})

	vs, err := lint.DetectViolations(p, g)
	require.NoError(t, err)
	require.Len(t, vs, 2)

	assert.Equal(t, map[string]int{
		"non_public app.orders.service -> app.users.models":    1,
		"not_dependent app.orders.service -> app.users.models": 1,
	}, edges(vs))

	groups := lint.GroupViolations(vs)
	require.Len(t, groups, 2)
	assert.Equal(t, "app.users.models", groups[0].Key)
	assert.Equal(t, domain.KindNonPublic, groups[0].Kind)
	assert.Equal(t, "orders:users", groups[1].Key)
	assert.Equal(t, "Package orders implicitly depends on users.", groups[1].Message)
}

func TestDetect_ScenarioB_DeclaredAndPublic(t *testing.T) {
	g := ordersUsersGraph()
	p := newPolicy(t, domain.PolicyConfig{
		PublicModules: []string{"models"},
		Dependencies:  map[string][]string{"orders": {"users"}},
	})

	vs, err := lint.DetectViolations(p, g)
	require.NoError(t, err)
	assert.Empty(t, vs)
}

func TestDetect_ScenarioC_SamePackageAlwaysAllowed(t *testing.T) {
	g := graph.New()
	g.AddImport("app.users.internal.helper", "app.users.models", line(1))
	g.AddImport("app.users", "app.users.internal.helper", line(2))

	for _, cfg := range []domain.PolicyConfig{
		{},
		{PublicPackages: []string{"users"}},
		{Dependencies: map[string][]string{"users": {"orders"}}},
	} {
		vs, err := lint.DetectViolations(newPolicy(t, cfg), g)
		require.NoError(t, err)
		assert.Empty(t, vs)
	}
}

func TestDetect_ScenarioD_GroupsCollapseImporters(t *testing.T) {
	g := ordersUsersGraph()
	g.AddImport("app.orders.api", "app.users.models", line(4))
	p := newPolicy(t, domain.PolicyConfig{})

	vs, err := lint.DetectViolations(p, g)
	require.NoError(t, err)
	require.Len(t, vs, 4)

	groups := lint.GroupViolations(vs)
	require.Len(t, groups, 2)

	assert.Equal(t, "app.users.models", groups[0].Key)
	assert.Len(t, groups[0].Violations, 2)
	assert.Equal(t, "orders:users", groups[1].Key)
	assert.Len(t, groups[1].Violations, 2)

	importers := []domain.QualifiedPath{groups[0].Violations[0].Importer, groups[0].Violations[1].Importer}
	assert.ElementsMatch(t, []domain.QualifiedPath{"app.orders.api", "app.orders.service"}, importers)
}

func TestDetect_PublicModuleOverride(t *testing.T) {
	g := ordersUsersGraph()
	g.AddImport("app.billing.invoices", "app.users.models.user", line(2))
	p := newPolicy(t, domain.PolicyConfig{PublicModules: []string{"models"}})

	vs, err := lint.DetectViolations(p, g)
	require.NoError(t, err)
	for _, v := range vs {
		assert.NotEqual(t, domain.KindNonPublic, v.Kind, "%s -> %s", v.Importer, v.Imported)
	}
	assert.Len(t, vs, 2, "only the undeclared dependencies remain")
}

func TestDetect_PublicPackageStillNeedsDeclaration(t *testing.T) {
	g := ordersUsersGraph()
	p := newPolicy(t, domain.PolicyConfig{PublicPackages: []string{"users"}})

	vs, err := lint.DetectViolations(p, g)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, domain.KindNotDependent, vs[0].Kind)
}

func TestDetect_DeclarationDoesNotFixNonPublic(t *testing.T) {
	g := ordersUsersGraph()
	p := newPolicy(t, domain.PolicyConfig{Dependencies: map[string][]string{"orders": {"users"}}})

	vs, err := lint.DetectViolations(p, g)
	require.NoError(t, err)
	require.Len(t, vs, 1)
	assert.Equal(t, domain.KindNonPublic, vs[0].Kind)
}

func TestDetect_SkipsBareModulesAndNonDomainTargets(t *testing.T) {
	g := ordersUsersGraph()
	// A bare module under the root is not traversed as a package...
	g.AddImport("app.config", "app.users.models", line(1))
	// ...and importing it from a package is not a policy subject.
	g.AddImport("app.orders.api", "app.config", line(3))

	vs, err := lint.DetectViolations(newPolicy(t, domain.PolicyConfig{}), g)
	require.NoError(t, err)
	for _, v := range vs {
		assert.NotEqual(t, domain.QualifiedPath("app.config"), v.Importer)
		assert.NotEqual(t, domain.QualifiedPath("app.config"), v.Imported)
	}
	assert.Len(t, vs, 2)
}

func TestDetect_PackageNodeIsAnImporter(t *testing.T) {
	g := ordersUsersGraph()
	g.AddImport("app.orders", "app.users.models", line(7))

	vs, err := lint.DetectViolations(newPolicy(t, domain.PolicyConfig{}), g)
	require.NoError(t, err)
	assert.Equal(t, 1, edges(vs)["non_public app.orders -> app.users.models"])
}

func TestDetect_ImportingWholePackage(t *testing.T) {
	g := ordersUsersGraph()
	g.AddImport("app.orders.api", "app.users", line(2))
	p := newPolicy(t, domain.PolicyConfig{
		PublicModules: []string{"models", "users"},
		Dependencies:  map[string][]string{"orders": {"users"}},
	})

	vs, err := lint.DetectViolations(p, g)
	require.NoError(t, err)
	require.Len(t, vs, 1, "a package path is public only through public_packages")
	assert.Equal(t, domain.KindNonPublic, vs[0].Kind)
	assert.Equal(t, domain.QualifiedPath("app.users"), vs[0].Imported)
}

func TestDetect_OutsideRootIsFatal(t *testing.T) {
	g := ordersUsersGraph()
	g.AddImport("app.orders.api", "vendor.lib.client", line(1))

	_, err := lint.DetectViolations(newPolicy(t, domain.PolicyConfig{}), g)
	var pathErr *domain.InvalidPathError
	require.True(t, errors.As(err, &pathErr), "got %v", err)
	assert.Equal(t, domain.QualifiedPath("vendor.lib.client"), pathErr.Path)
}

// failingGraph fails FindDirectImports for one path.
type failingGraph struct {
	*graph.ImportGraph
	failOn domain.QualifiedPath
	err    error
}

func (g failingGraph) FindDirectImports(p domain.QualifiedPath) ([]domain.QualifiedPath, error) {
	if p == g.failOn {
		return nil, g.err
	}
	return g.ImportGraph.FindDirectImports(p)
}

func TestDetect_GraphErrorPropagatesUnmodified(t *testing.T) {
	boom := &domain.GraphQueryError{Op: "imports", Path: "app.orders.api", Err: errors.New("parse failure")}
	g := failingGraph{ImportGraph: ordersUsersGraph(), failOn: "app.orders.api", err: boom}

	for _, workers := range []int{0, 4} {
		_, err := lint.Detector{Workers: workers}.Detect(newPolicy(t, domain.PolicyConfig{}), g)
		assert.Same(t, boom, err)
	}
}

func TestDetect_Idempotent(t *testing.T) {
	g := ordersUsersGraph()
	g.AddImport("app.orders.api", "app.users.models", line(4))
	g.AddImport("app.users.models", "app.orders.api", line(1))
	p := newPolicy(t, domain.PolicyConfig{})

	first, err := lint.DetectViolations(p, g)
	require.NoError(t, err)
	second, err := lint.DetectViolations(p, g)
	require.NoError(t, err)
	assert.Equal(t, edges(first), edges(second))
}

func TestDetect_ParallelMatchesSequential(t *testing.T) {
	g := graph.New()
	pkgs := []string{"a", "b", "c", "d", "e", "f"}
	for i, from := range pkgs {
		for j, to := range pkgs {
			if i != j {
				g.AddImport(domain.QualifiedPath("app."+from+".svc"), domain.QualifiedPath("app."+to+".models"), line(i*10+j))
			}
		}
	}
	p := newPolicy(t, domain.PolicyConfig{PublicModules: []string{"models"}})

	sequential, err := lint.Detector{}.Detect(p, g)
	require.NoError(t, err)
	parallel, err := lint.Detector{Workers: 3}.Detect(p, g)
	require.NoError(t, err)

	require.Len(t, sequential, 30)
	assert.Equal(t, sequential, parallel)
}

func TestClassifyImport_Orthogonality(t *testing.T) {
	cases := []struct {
		name string
		cfg  domain.PolicyConfig
		want []domain.ViolationKind
	}{
		{"none declared", domain.PolicyConfig{}, []domain.ViolationKind{domain.KindNonPublic, domain.KindNotDependent}},
		{"public only", domain.PolicyConfig{PublicModules: []string{"models"}}, []domain.ViolationKind{domain.KindNotDependent}},
		{"declared only", domain.PolicyConfig{Dependencies: map[string][]string{"orders": {"users"}}}, []domain.ViolationKind{domain.KindNonPublic}},
		{"both", domain.PolicyConfig{PublicPackages: []string{"users"}, Dependencies: map[string][]string{"orders": {"users"}}}, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := lint.ClassifyImport(newPolicy(t, tc.cfg), "app.orders.service", "app.users.models")
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestIsDomainPackageMember(t *testing.T) {
	g := ordersUsersGraph()

	cases := map[domain.QualifiedPath]bool{
		"app":                    false,
		"app.config":             false,
		"app.users":              true,
		"app.users.models":       true,
		"app.nowhere.deep":       true,
		"app.missing":            false,
		"app.users.models.inner": true,
	}
	for path, want := range cases {
		got, err := lint.IsDomainPackageMember(g, path)
		require.NoError(t, err)
		assert.Equal(t, want, got, path)
	}
}
