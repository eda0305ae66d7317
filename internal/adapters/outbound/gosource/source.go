// Package gosource builds a domain import graph from Go source code. Each
// package directory under the root becomes a module: <root>/users/models is
// the qualified path "<root>.users.models".
package gosource

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/openkraft/domainlint/internal/adapters/outbound/parser"
	"github.com/openkraft/domainlint/internal/adapters/outbound/scanner"
	"github.com/openkraft/domainlint/internal/domain"
	"github.com/openkraft/domainlint/internal/domain/graph"
)

// Source implements domain.GraphSource for Go modules.
type Source struct {
	scanner      *scanner.FileScanner
	parser       *parser.GoParser
	excludePaths []string
}

// New creates a Source. Directories named in excludePaths are not scanned.
func New(excludePaths ...string) *Source {
	return &Source{
		scanner:      scanner.New(),
		parser:       parser.New(),
		excludePaths: excludePaths,
	}
}

// Build scans <projectPath>/<root> and records every import that stays
// inside the root. Failures are reported as *domain.GraphQueryError.
func (s *Source) Build(projectPath, root string) (domain.ImportGraph, error) {
	scan, err := s.scanner.Scan(projectPath, root, s.excludePaths...)
	if err != nil {
		return nil, &domain.GraphQueryError{Op: "scan", Path: domain.QualifiedPath(root), Err: err}
	}

	rootImport := scan.ModulePath + "/" + root
	g := graph.New()
	g.AddModule(domain.QualifiedPath(root))

	for _, dir := range scan.PackageDirs {
		g.AddModule(dirToPath(dir))
	}

	for _, rel := range scan.GoFiles {
		parsed, err := s.parser.ParseImports(filepath.Join(scan.ProjectPath, filepath.FromSlash(rel)))
		if err != nil {
			return nil, &domain.GraphQueryError{Op: "parse", Path: dirToPath(path.Dir(rel)), Err: err}
		}
		importer := dirToPath(path.Dir(rel))
		for _, imp := range parsed.Imports {
			imported, ok := importToPath(imp.Path, rootImport, root)
			if !ok || imported == importer {
				continue
			}
			g.AddImport(importer, imported, domain.ImportDetail{
				File:         rel,
				LineNumber:   imp.Line,
				LineContents: imp.LineText,
			})
		}
	}

	return g, nil
}

// dirToPath turns a slash separated directory relative to the project into a
// qualified path.
func dirToPath(dir string) domain.QualifiedPath {
	return domain.QualifiedPath(strings.ReplaceAll(dir, "/", "."))
}

// importToPath maps a Go import path under rootImport onto a qualified path.
func importToPath(importPath, rootImport, root string) (domain.QualifiedPath, bool) {
	if importPath == rootImport {
		return domain.QualifiedPath(root), true
	}
	rest, ok := strings.CutPrefix(importPath, rootImport+"/")
	if !ok || rest == "" {
		return "", false
	}
	return domain.QualifiedPath(root + "." + strings.ReplaceAll(rest, "/", ".")), true
}
