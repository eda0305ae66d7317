package lint

import (
	"sort"

	"github.com/openkraft/domainlint/internal/domain"
	"github.com/openkraft/domainlint/internal/domain/graph"
)

// crossPackageImport is an import edge between two different domain packages.
type crossPackageImport struct {
	importer, imported domain.QualifiedPath
}

// walkCrossPackageImports visits every domain package, then every edge leaving
// it toward another domain package.
func walkCrossPackageImports(policy *domain.Policy, g domain.ImportGraph, visitPackage func(domain.QualifiedPath), visit func(crossPackageImport)) error {
	packages, err := DomainPackages(policy, g)
	if err != nil {
		return err
	}
	for _, pkg := range packages {
		visitPackage(pkg)
		importers, err := Importers(g, pkg)
		if err != nil {
			return err
		}
		for _, importer := range importers {
			imports, err := g.FindDirectImports(importer)
			if err != nil {
				return err
			}
			for _, imported := range imports {
				member, err := IsDomainPackageMember(g, imported)
				if err != nil {
					return err
				}
				if !member || domain.SamePackage(importer, imported) {
					continue
				}
				if imported.Root() != policy.Root() {
					return &domain.InvalidPathError{Path: imported, Root: policy.Root()}
				}
				visit(crossPackageImport{importer: importer, imported: imported})
			}
		}
	}
	return nil
}

// BuildPackageGraph aggregates cross-package imports into a package graph.
func BuildPackageGraph(policy *domain.Policy, g domain.ImportGraph) (*graph.PackageGraph, error) {
	pg := graph.NewPackageGraph()
	err := walkCrossPackageImports(policy, g,
		func(pkg domain.QualifiedPath) { pg.AddPackage(pkg.Package()) },
		func(e crossPackageImport) { pg.AddEdge(e.importer.Package(), e.imported.Package()) },
	)
	if err != nil {
		return nil, err
	}
	return pg, nil
}

// Baseline returns the smallest policy under which the current graph has no
// violations: every observed package edge is declared, every imported
// top-level module is public, and packages imported as a whole are public.
func Baseline(root string, g domain.ImportGraph) (domain.PolicyConfig, error) {
	policy, err := domain.NewPolicy(domain.PolicyConfig{Root: root})
	if err != nil {
		return domain.PolicyConfig{}, err
	}

	publicPackages := make(map[string]bool)
	publicModules := make(map[string]bool)
	deps := make(map[string]map[string]bool)

	err = walkCrossPackageImports(policy, g,
		func(domain.QualifiedPath) {},
		func(e crossPackageImport) {
			from, to := e.importer.Package(), e.imported.Package()
			if deps[from] == nil {
				deps[from] = make(map[string]bool)
			}
			deps[from][to] = true
			if m := e.imported.TopLevelModule(); m != "" {
				publicModules[m] = true
			} else {
				publicPackages[to] = true
			}
		},
	)
	if err != nil {
		return domain.PolicyConfig{}, err
	}

	cfg := domain.PolicyConfig{
		Root:           root,
		PublicPackages: sortedKeys(publicPackages),
		PublicModules:  sortedKeys(publicModules),
		Dependencies:   make(map[string][]string, len(deps)),
	}
	for from, tos := range deps {
		cfg.Dependencies[from] = sortedKeys(tos)
	}
	return cfg, nil
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
