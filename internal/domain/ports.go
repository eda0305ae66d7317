package domain

// ImportGraph answers structural queries about an already built import graph.
// Results are sorted. Implementations must be safe for concurrent reads once
// built, and must only report modules under the analysed root.
type ImportGraph interface {
	// FindChildren returns the modules and packages one level below path.
	FindChildren(path QualifiedPath) ([]QualifiedPath, error)
	// FindDescendants returns everything nested under path, at any depth.
	FindDescendants(path QualifiedPath) ([]QualifiedPath, error)
	// FindDirectImports returns the modules directly imported by path.
	FindDirectImports(path QualifiedPath) ([]QualifiedPath, error)
	// ImportDetails returns one entry per import statement realizing the
	// importer -> imported edge.
	ImportDetails(importer, imported QualifiedPath) ([]ImportDetail, error)
}

// ImportDetail locates a single import statement.
type ImportDetail struct {
	// File is the importing source file relative to the project. Empty when
	// the graph does not track files; the file is then derived from the
	// importer path.
	File         string `json:"file,omitempty"`
	LineNumber   int    `json:"line_number"`
	LineContents string `json:"line_contents"`
}

// GraphSource builds the import graph of a project for a given root package.
type GraphSource interface {
	Build(projectPath, root string) (ImportGraph, error)
}

// PolicyLoader reads the policy configuration of a project.
type PolicyLoader interface {
	Load(projectPath string) (PolicyConfig, error)
}

// GitInfo provides read-only information about the project repository.
type GitInfo interface {
	IsGitRepo(projectPath string) bool
	CommitHash(projectPath string) (string, error)
}

// RunHistory persists one entry per recorded analysis.
type RunHistory interface {
	Save(projectPath string, entry RunEntry) error
	Load(projectPath string) ([]RunEntry, error)
}
