// Package graph holds an in-memory import graph and the package-level view
// derived from it.
package graph

import (
	"sort"

	"github.com/openkraft/domainlint/internal/domain"
)

// ImportGraph is an in-memory domain.ImportGraph. Build it with AddModule and
// AddImport, then share it read-only.
type ImportGraph struct {
	Modules map[domain.QualifiedPath]*ModuleNode
}

// ModuleNode is a module or package in the graph.
type ModuleNode struct {
	Path     domain.QualifiedPath
	Children []domain.QualifiedPath
	Imports  map[domain.QualifiedPath][]domain.ImportDetail // outgoing edges
}

// New returns an empty graph.
func New() *ImportGraph {
	return &ImportGraph{Modules: make(map[domain.QualifiedPath]*ModuleNode)}
}

// AddModule registers path and every missing ancestor, linking each one to
// its parent.
func (g *ImportGraph) AddModule(path domain.QualifiedPath) *ModuleNode {
	if node, ok := g.Modules[path]; ok {
		return node
	}
	node := &ModuleNode{Path: path, Imports: make(map[domain.QualifiedPath][]domain.ImportDetail)}
	g.Modules[path] = node
	if parent := path.Parent(); parent != "" {
		p := g.AddModule(parent)
		p.Children = insertSorted(p.Children, path)
	}
	return node
}

// AddImport records one import statement of imported inside importer. Both
// ends are registered as modules.
func (g *ImportGraph) AddImport(importer, imported domain.QualifiedPath, detail domain.ImportDetail) {
	from := g.AddModule(importer)
	g.AddModule(imported)
	from.Imports[imported] = append(from.Imports[imported], detail)
}

// FindChildren implements domain.ImportGraph.
func (g *ImportGraph) FindChildren(path domain.QualifiedPath) ([]domain.QualifiedPath, error) {
	node, ok := g.Modules[path]
	if !ok {
		return nil, nil
	}
	out := make([]domain.QualifiedPath, len(node.Children))
	copy(out, node.Children)
	return out, nil
}

// FindDescendants implements domain.ImportGraph.
func (g *ImportGraph) FindDescendants(path domain.QualifiedPath) ([]domain.QualifiedPath, error) {
	node, ok := g.Modules[path]
	if !ok {
		return nil, nil
	}
	var out []domain.QualifiedPath
	var walk func(n *ModuleNode)
	walk = func(n *ModuleNode) {
		for _, c := range n.Children {
			out = append(out, c)
			walk(g.Modules[c])
		}
	}
	walk(node)
	sortPaths(out)
	return out, nil
}

// FindDirectImports implements domain.ImportGraph.
func (g *ImportGraph) FindDirectImports(path domain.QualifiedPath) ([]domain.QualifiedPath, error) {
	node, ok := g.Modules[path]
	if !ok {
		return nil, nil
	}
	out := make([]domain.QualifiedPath, 0, len(node.Imports))
	for imp := range node.Imports {
		out = append(out, imp)
	}
	sortPaths(out)
	return out, nil
}

// ImportDetails implements domain.ImportGraph.
func (g *ImportGraph) ImportDetails(importer, imported domain.QualifiedPath) ([]domain.ImportDetail, error) {
	node, ok := g.Modules[importer]
	if !ok {
		return nil, nil
	}
	details := node.Imports[imported]
	out := make([]domain.ImportDetail, len(details))
	copy(out, details)
	return out, nil
}

// EdgeCount returns the number of distinct importer -> imported edges.
func (g *ImportGraph) EdgeCount() int {
	if g == nil {
		return 0
	}
	total := 0
	for _, node := range g.Modules {
		total += len(node.Imports)
	}
	return total
}

func insertSorted(paths []domain.QualifiedPath, p domain.QualifiedPath) []domain.QualifiedPath {
	i := sort.Search(len(paths), func(i int) bool { return paths[i] >= p })
	if i < len(paths) && paths[i] == p {
		return paths
	}
	paths = append(paths, "")
	copy(paths[i+1:], paths[i:])
	paths[i] = p
	return paths
}

func sortPaths(paths []domain.QualifiedPath) {
	sort.Slice(paths, func(i, j int) bool { return paths[i] < paths[j] })
}
