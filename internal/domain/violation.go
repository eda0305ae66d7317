package domain

import (
	"fmt"
	"strings"
)

// ViolationKind tells which rule an import edge breaks.
type ViolationKind string

const (
	// KindNonPublic: the imported module is neither in a public package nor a
	// public top-level module, and lives in another domain package.
	KindNonPublic ViolationKind = "non_public"
	// KindNotDependent: the importer's package has not declared the imported's
	// package as a dependency.
	KindNotDependent ViolationKind = "not_dependent"
)

// Violation is one offending import edge. It keeps a reference to the graph it
// was found in so the import statement can be located on demand.
type Violation struct {
	Kind     ViolationKind
	Importer QualifiedPath
	Imported QualifiedPath

	graph ImportGraph
}

// NewViolation creates a violation of the given kind for importer -> imported.
func NewViolation(kind ViolationKind, importer, imported QualifiedPath, graph ImportGraph) Violation {
	return Violation{Kind: kind, Importer: importer, Imported: imported, graph: graph}
}

// GroupKey returns the key under which equivalent violations are reported once.
func (v Violation) GroupKey() string {
	_, key := v.describe()
	return key
}

// Message returns the human-readable message shared by the violation's group.
func (v Violation) Message() string {
	msg, _ := v.describe()
	return msg
}

// describe maps the kind to its message and group key. Every kind must have a
// case here.
func (v Violation) describe() (message, key string) {
	switch v.Kind {
	case KindNonPublic:
		return "A module imported outside of the package is not public.", string(v.Imported)
	case KindNotDependent:
		from, to := v.Importer.Package(), v.Imported.Package()
		return fmt.Sprintf("Package %s implicitly depends on %s.", from, to), from + ":" + to
	}
	panic(fmt.Sprintf("unknown violation kind %q", v.Kind))
}

// ImporterFilename is the importer path mapped to a source file.
func (v Violation) ImporterFilename() string {
	return v.Importer.Filename(DefaultFileSuffix)
}

// Location finds the first import statement realizing the edge.
func (v Violation) Location() (Location, error) {
	if v.graph == nil {
		return Location{}, &GraphQueryError{Op: "import details", Path: v.Importer, Err: fmt.Errorf("violation has no graph")}
	}
	details, err := v.graph.ImportDetails(v.Importer, v.Imported)
	if err != nil {
		return Location{}, err
	}
	if len(details) == 0 {
		return Location{}, &GraphQueryError{
			Op:   "import details",
			Path: v.Importer,
			Err:  fmt.Errorf("no import of %s found", v.Imported),
		}
	}
	d := details[0]
	file := d.File
	if file == "" {
		file = v.ImporterFilename()
	}
	return Location{File: file, LineNumber: d.LineNumber, LineContents: d.LineContents}, nil
}

// Location is a resolved import statement.
type Location struct {
	File         string `json:"file"`
	LineNumber   int    `json:"line_number"`
	LineContents string `json:"line_contents"`
}

func (l Location) String() string {
	return fmt.Sprintf("%s:%d %s", l.File, l.LineNumber, strings.TrimSpace(l.LineContents))
}

// ViolationGroup collapses violations sharing a kind and group key into one
// finding.
type ViolationGroup struct {
	Key        string
	Kind       ViolationKind
	Message    string
	Violations []Violation
}
