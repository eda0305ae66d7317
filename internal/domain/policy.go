package domain

import (
	"sort"
	"strings"
)

// PolicyConfig is the raw policy as read from .domainlint.yaml or
// domain_packages.toml.
type PolicyConfig struct {
	// Root is the top-level package under analysis.
	Root string `yaml:"root" toml:"root" json:"root"`

	// PublicPackages are domain packages whose whole content is importable from
	// anywhere, usually assorted helpers. Being public does not add the package
	// to anyone's dependencies.
	PublicPackages []string `yaml:"public_packages" toml:"public_packages" json:"public_packages"`

	// PublicModules are top-level module names that are public in every domain
	// package, e.g. "services" or "interfaces". The enclosing package still has
	// to be declared as a dependency by the importer.
	PublicModules []string `yaml:"public_modules" toml:"public_modules" json:"public_modules"`

	// Dependencies maps a domain package to the packages it may import.
	// {"payments": ["users", "projects"]} lets payments import users and projects.
	Dependencies map[string][]string `yaml:"dependencies" toml:"dependencies" json:"dependencies"`
}

// Validate checks the config for missing or malformed values.
func (c PolicyConfig) Validate() error {
	// 1. root is required and is a single segment
	if strings.TrimSpace(c.Root) == "" {
		return &ConfigurationError{Field: "root", Reason: "is required"}
	}
	if !validName(c.Root) {
		return &ConfigurationError{Field: "root", Reason: "must be a single package name, got " + quote(c.Root)}
	}

	// 2. public packages and modules are plain names
	for _, p := range c.PublicPackages {
		if !validName(p) {
			return &ConfigurationError{Field: "public_packages", Reason: "invalid package name " + quote(p)}
		}
	}
	for _, m := range c.PublicModules {
		if !validName(m) {
			return &ConfigurationError{Field: "public_modules", Reason: "invalid module name " + quote(m)}
		}
	}

	// 3. dependency keys and values are plain names
	for pkg, deps := range c.Dependencies {
		if !validName(pkg) {
			return &ConfigurationError{Field: "dependencies", Reason: "invalid package name " + quote(pkg)}
		}
		for _, d := range deps {
			if !validName(d) {
				return &ConfigurationError{Field: "dependencies." + pkg, Reason: "invalid package name " + quote(d)}
			}
		}
	}

	return nil
}

func validName(s string) bool {
	return s != "" && strings.TrimSpace(s) == s && !strings.Contains(s, ".")
}

func quote(s string) string { return `"` + s + `"` }

type stringSet map[string]struct{}

func newStringSet(items []string) stringSet {
	s := make(stringSet, len(items))
	for _, it := range items {
		s[it] = struct{}{}
	}
	return s
}

func (s stringSet) has(item string) bool {
	_, ok := s[item]
	return ok
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for it := range s {
		out = append(out, it)
	}
	sort.Strings(out)
	return out
}

// Policy is the validated, read-only form of a PolicyConfig. It is built once
// per run and shared by the detector and the grouper.
type Policy struct {
	root           string
	publicPackages stringSet
	publicModules  stringSet
	dependencies   map[string]stringSet
}

// NewPolicy validates cfg and copies it into a Policy.
func NewPolicy(cfg PolicyConfig) (*Policy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Policy{
		root:           cfg.Root,
		publicPackages: newStringSet(cfg.PublicPackages),
		publicModules:  newStringSet(cfg.PublicModules),
		dependencies:   make(map[string]stringSet, len(cfg.Dependencies)),
	}
	for pkg, deps := range cfg.Dependencies {
		p.dependencies[pkg] = newStringSet(deps)
	}
	return p, nil
}

// Root returns the analysed top-level package.
func (p *Policy) Root() string { return p.root }

// RootPath returns the root as a QualifiedPath.
func (p *Policy) RootPath() QualifiedPath { return QualifiedPath(p.root) }

// ValidatePath returns an *InvalidPathError unless path lies under the root.
func (p *Policy) ValidatePath(path QualifiedPath) error {
	_, err := p.segments(path)
	return err
}

// IsPublic reports whether a module may be imported from outside its domain
// package: either its package is public, or its top-level module name is.
func (p *Policy) IsPublic(path QualifiedPath) (bool, error) {
	segs, err := p.segments(path)
	if err != nil {
		return false, err
	}
	if len(segs) > 1 && p.publicPackages.has(segs[1]) {
		return true, nil
	}
	if len(segs) > 2 && p.publicModules.has(segs[2]) {
		return true, nil
	}
	return false, nil
}

// IsDeclaredDependency reports whether the importer's package lists the
// imported's package among its dependencies. A package without an entry
// declares nothing.
func (p *Policy) IsDeclaredDependency(importer, imported QualifiedPath) (bool, error) {
	from, err := p.packageOf(importer)
	if err != nil {
		return false, err
	}
	to, err := p.packageOf(imported)
	if err != nil {
		return false, err
	}
	deps, ok := p.dependencies[from]
	if !ok {
		return false, nil
	}
	return deps.has(to), nil
}

// DeclaredDependencies returns the sorted dependency list of pkg.
func (p *Policy) DeclaredDependencies(pkg string) []string {
	return p.dependencies[pkg].sorted()
}

// Config returns a copy of the policy in its raw form, with sorted lists.
func (p *Policy) Config() PolicyConfig {
	cfg := PolicyConfig{
		Root:           p.root,
		PublicPackages: p.publicPackages.sorted(),
		PublicModules:  p.publicModules.sorted(),
		Dependencies:   make(map[string][]string, len(p.dependencies)),
	}
	for pkg, deps := range p.dependencies {
		cfg.Dependencies[pkg] = deps.sorted()
	}
	return cfg
}

func (p *Policy) segments(path QualifiedPath) ([]string, error) {
	segs := path.Segments()
	if len(segs) == 0 || segs[0] != p.root {
		return nil, &InvalidPathError{Path: path, Root: p.root}
	}
	return segs, nil
}

func (p *Policy) packageOf(path QualifiedPath) (string, error) {
	segs, err := p.segments(path)
	if err != nil {
		return "", err
	}
	if len(segs) < 2 {
		return "", nil
	}
	return segs[1], nil
}
