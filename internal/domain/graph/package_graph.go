package graph

import (
	"sort"
	"strings"

	"github.com/openkraft/domainlint/internal/domain"
)

// PackageGraph is the package-to-package view of an import graph: one node per
// domain package, one edge per imported package, weighted by the number of
// module-level edges realizing it.
type PackageGraph struct {
	Packages []string
	Edges    map[string]map[string]int
}

// PackageEdge is one package-level dependency.
type PackageEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Imports  int    `json:"imports"`
	Declared bool   `json:"declared"`
}

// NewPackageGraph returns an empty package graph.
func NewPackageGraph() *PackageGraph {
	return &PackageGraph{Edges: make(map[string]map[string]int)}
}

// AddPackage registers a domain package.
func (pg *PackageGraph) AddPackage(name string) {
	i := sort.SearchStrings(pg.Packages, name)
	if i < len(pg.Packages) && pg.Packages[i] == name {
		return
	}
	pg.Packages = append(pg.Packages, "")
	copy(pg.Packages[i+1:], pg.Packages[i:])
	pg.Packages[i] = name
}

// AddEdge counts one module-level import from package from to package to.
func (pg *PackageGraph) AddEdge(from, to string) {
	pg.AddPackage(from)
	pg.AddPackage(to)
	if pg.Edges[from] == nil {
		pg.Edges[from] = make(map[string]int)
	}
	pg.Edges[from][to]++
}

// EdgeList returns all edges sorted by (from, to), flagged against the policy.
func (pg *PackageGraph) EdgeList(policy *domain.Policy) []PackageEdge {
	var out []PackageEdge
	for _, from := range pg.Packages {
		for _, to := range pg.targets(from) {
			out = append(out, PackageEdge{
				From:     from,
				To:       to,
				Imports:  pg.Edges[from][to],
				Declared: declares(policy, from, to),
			})
		}
	}
	return out
}

// Undeclared returns the edges the policy does not declare.
func (pg *PackageGraph) Undeclared(policy *domain.Policy) []PackageEdge {
	var out []PackageEdge
	for _, e := range pg.EdgeList(policy) {
		if !e.Declared {
			out = append(out, e)
		}
	}
	return out
}

// Unused returns declared dependencies with no import realizing them, as
// "from:to" pairs.
func (pg *PackageGraph) Unused(policy *domain.Policy) []string {
	var out []string
	cfg := policy.Config()
	pkgs := make([]string, 0, len(cfg.Dependencies))
	for pkg := range cfg.Dependencies {
		pkgs = append(pkgs, pkg)
	}
	sort.Strings(pkgs)
	for _, from := range pkgs {
		for _, to := range cfg.Dependencies[from] {
			if pg.Edges[from][to] == 0 {
				out = append(out, from+":"+to)
			}
		}
	}
	return out
}

// DetectCycles finds package import cycles using DFS with grey/black colouring.
// Each cycle is rotated to start at its smallest element and deduplicated.
func (pg *PackageGraph) DetectCycles() [][]string {
	if pg == nil || len(pg.Packages) == 0 {
		return nil
	}

	const (
		white = 0
		grey  = 1
		black = 2
	)

	color := make(map[string]int)
	parent := make(map[string]string)
	seen := make(map[string]bool)
	var cycles [][]string

	var dfs func(u string)
	dfs = func(u string) {
		color[u] = grey
		for _, v := range pg.targets(u) {
			switch color[v] {
			case grey:
				// Back edge: walk parents from u back to v.
				cycle := []string{v}
				for cur := u; cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				for i, j := 1, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				normalized := normalizeCycle(cycle)
				key := strings.Join(normalized, "→")
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, normalized)
				}
			case white:
				parent[v] = u
				dfs(v)
			}
		}
		color[u] = black
	}

	for _, p := range pg.Packages {
		if color[p] == white {
			dfs(p)
		}
	}
	return cycles
}

func (pg *PackageGraph) targets(from string) []string {
	out := make([]string, 0, len(pg.Edges[from]))
	for to := range pg.Edges[from] {
		out = append(out, to)
	}
	sort.Strings(out)
	return out
}

// normalizeCycle rotates a cycle so the lexicographically smallest element is first.
func normalizeCycle(cycle []string) []string {
	if len(cycle) == 0 {
		return cycle
	}
	minIdx := 0
	for i, s := range cycle {
		if s < cycle[minIdx] {
			minIdx = i
		}
	}
	result := make([]string, len(cycle))
	for i := range cycle {
		result[i] = cycle[(minIdx+i)%len(cycle)]
	}
	return result
}

func declares(policy *domain.Policy, from, to string) bool {
	for _, d := range policy.DeclaredDependencies(from) {
		if d == to {
			return true
		}
	}
	return false
}

// DependencyReport is the package-level view of a project: observed edges,
// declarations nothing realizes, and cycles.
type DependencyReport struct {
	Root     string        `json:"root"`
	Packages []string      `json:"packages"`
	Edges    []PackageEdge `json:"edges"`
	Unused   []string      `json:"unused"`
	Cycles   [][]string    `json:"cycles"`
}

// Report summarises the graph against policy.
func (pg *PackageGraph) Report(policy *domain.Policy) *DependencyReport {
	return &DependencyReport{
		Root:     policy.Root(),
		Packages: pg.Packages,
		Edges:    pg.EdgeList(policy),
		Unused:   pg.Unused(policy),
		Cycles:   pg.DetectCycles(),
	}
}
