// Package lint walks an import graph and reports edges that break a domain
// package policy.
package lint

import (
	"github.com/openkraft/domainlint/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Detector finds violations. The zero value runs sequentially.
type Detector struct {
	// Workers bounds how many domain packages are traversed concurrently.
	// Values below 2 disable concurrency.
	Workers int
}

// DetectViolations walks every domain package under the policy root and
// returns one violation per broken rule per import edge, in discovery order.
func DetectViolations(policy *domain.Policy, g domain.ImportGraph) ([]domain.Violation, error) {
	return Detector{}.Detect(policy, g)
}

// Detect runs the traversal. Per-package results are concatenated in package
// order, so the output does not depend on Workers.
func (d Detector) Detect(policy *domain.Policy, g domain.ImportGraph) ([]domain.Violation, error) {
	packages, err := DomainPackages(policy, g)
	if err != nil {
		return nil, err
	}

	results := make([][]domain.Violation, len(packages))

	if d.Workers < 2 {
		for i, pkg := range packages {
			if results[i], err = analyzePackage(pkg, policy, g); err != nil {
				return nil, err
			}
		}
	} else {
		var eg errgroup.Group
		eg.SetLimit(d.Workers)
		for i, pkg := range packages {
			eg.Go(func() error {
				found, err := analyzePackage(pkg, policy, g)
				results[i] = found
				return err
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}
	}

	var violations []domain.Violation
	for _, r := range results {
		violations = append(violations, r...)
	}
	return violations, nil
}

// DomainPackages returns the children of the root that are domain packages.
// Bare modules directly under the root are skipped.
func DomainPackages(policy *domain.Policy, g domain.ImportGraph) ([]domain.QualifiedPath, error) {
	root := policy.RootPath()
	children, err := g.FindChildren(root)
	if err != nil {
		return nil, err
	}
	var packages []domain.QualifiedPath
	for _, child := range children {
		ok, err := IsDomainPackageMember(g, child)
		if err != nil {
			return nil, err
		}
		if ok {
			packages = append(packages, child)
		}
	}
	return packages, nil
}

// Importers returns the modules of a domain package whose imports are
// checked: the package itself followed by all of its descendants.
func Importers(g domain.ImportGraph, pkg domain.QualifiedPath) ([]domain.QualifiedPath, error) {
	descendants, err := g.FindDescendants(pkg)
	if err != nil {
		return nil, err
	}
	return append([]domain.QualifiedPath{pkg}, descendants...), nil
}

func analyzePackage(pkg domain.QualifiedPath, policy *domain.Policy, g domain.ImportGraph) ([]domain.Violation, error) {
	importers, err := Importers(g, pkg)
	if err != nil {
		return nil, err
	}
	var violations []domain.Violation
	for _, importer := range importers {
		found, err := analyzeImporter(importer, policy, g)
		if err != nil {
			return nil, err
		}
		violations = append(violations, found...)
	}
	return violations, nil
}

func analyzeImporter(importer domain.QualifiedPath, policy *domain.Policy, g domain.ImportGraph) ([]domain.Violation, error) {
	imports, err := g.FindDirectImports(importer)
	if err != nil {
		return nil, err
	}
	var violations []domain.Violation
	for _, imported := range imports {
		member, err := IsDomainPackageMember(g, imported)
		if err != nil {
			return nil, err
		}
		if !member {
			continue
		}
		kinds, err := ClassifyImport(policy, importer, imported)
		if err != nil {
			return nil, err
		}
		for _, kind := range kinds {
			violations = append(violations, domain.NewViolation(kind, importer, imported, g))
		}
	}
	return violations, nil
}

// ClassifyImport returns the rules the importer -> imported edge breaks: none,
// one, or both, each at most once. Imports within one domain package are
// always allowed. Both paths must lie under the policy root.
func ClassifyImport(policy *domain.Policy, importer, imported domain.QualifiedPath) ([]domain.ViolationKind, error) {
	if err := policy.ValidatePath(importer); err != nil {
		return nil, err
	}
	if err := policy.ValidatePath(imported); err != nil {
		return nil, err
	}
	if domain.SamePackage(importer, imported) {
		return nil, nil
	}

	var kinds []domain.ViolationKind

	public, err := policy.IsPublic(imported)
	if err != nil {
		return nil, err
	}
	if !public {
		kinds = append(kinds, domain.KindNonPublic)
	}

	declared, err := policy.IsDeclaredDependency(importer, imported)
	if err != nil {
		return nil, err
	}
	if !declared {
		kinds = append(kinds, domain.KindNotDependent)
	}

	return kinds, nil
}

// IsDomainPackageMember reports whether path lives inside a domain package.
// Paths nested deeper than a package always do; a two-segment path does only
// if it has children (a package, not a bare module); the root never does.
func IsDomainPackageMember(g domain.ImportGraph, path domain.QualifiedPath) (bool, error) {
	switch depth := path.Depth(); {
	case depth > 2:
		// e.g. "app.users.services": "app.users" is the domain package.
		return true, nil
	case depth == 2:
		// "app.users" or "app.config": only a package has children.
		children, err := g.FindChildren(path)
		if err != nil {
			return false, err
		}
		return len(children) > 0, nil
	default:
		return false, nil
	}
}
