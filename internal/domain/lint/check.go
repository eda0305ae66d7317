package lint

import (
	"fmt"

	"github.com/openkraft/domainlint/internal/domain"
)

// ImportCheck is the verdict on a single importer -> imported edge, which
// may or may not exist in the graph yet.
type ImportCheck struct {
	Importer domain.QualifiedPath
	Imported domain.QualifiedPath
	// Exempt explains why the edge is outside the policy. Kinds is empty
	// whenever Exempt is set.
	Exempt string
	Kinds  []domain.ViolationKind
}

// Allowed reports whether the edge breaks no rule.
func (c ImportCheck) Allowed() bool { return len(c.Kinds) == 0 }

// CheckImport classifies one edge the way Detect would if it were present in
// g. Paths outside the root fail with *domain.InvalidPathError. An edge whose
// importer or target is not inside a domain package is exempt, as Detect
// never reports it.
func CheckImport(policy *domain.Policy, g domain.ImportGraph, importer, imported domain.QualifiedPath) (ImportCheck, error) {
	check := ImportCheck{Importer: importer, Imported: imported}

	for _, p := range []domain.QualifiedPath{importer, imported} {
		if err := policy.ValidatePath(p); err != nil {
			return check, err
		}
	}

	for _, p := range []domain.QualifiedPath{importer, imported} {
		member, err := IsDomainPackageMember(g, p)
		if err != nil {
			return check, err
		}
		if !member {
			check.Exempt = fmt.Sprintf("%s is not inside a domain package", p)
			return check, nil
		}
	}

	kinds, err := ClassifyImport(policy, importer, imported)
	if err != nil {
		return check, err
	}
	check.Kinds = kinds
	return check, nil
}
