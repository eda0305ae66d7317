package domain

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DefaultFileSuffix is appended to a module path when the import graph does not
// report the importing file itself.
const DefaultFileSuffix = ".go"

// QualifiedPath is a dotted module path relative to the analysis root, e.g.
// "app.users.models". Segment 0 is the root, segment 1 the domain package,
// anything after that is nesting inside the package.
type QualifiedPath string

// ParseQualifiedPath validates s and returns it as a QualifiedPath.
func ParseQualifiedPath(s string) (QualifiedPath, error) {
	if s == "" {
		return "", fmt.Errorf("empty qualified path")
	}
	for i, seg := range strings.Split(s, ".") {
		if seg == "" {
			return "", fmt.Errorf("qualified path %q has an empty segment at position %d", s, i)
		}
	}
	return QualifiedPath(s), nil
}

// Segments splits the path on dots.
func (p QualifiedPath) Segments() []string {
	if p == "" {
		return nil
	}
	return strings.Split(string(p), ".")
}

// Depth is the number of segments.
func (p QualifiedPath) Depth() int {
	return len(p.Segments())
}

// Root returns segment 0.
func (p QualifiedPath) Root() string {
	return p.segment(0)
}

// Package returns the domain package name (segment 1), or "" for the root.
func (p QualifiedPath) Package() string {
	return p.segment(1)
}

// TopLevelModule returns the module directly inside the domain package
// (segment 2), or "" when the path is not nested that deep.
func (p QualifiedPath) TopLevelModule() string {
	return p.segment(2)
}

// Parent drops the last segment. The root has no parent.
func (p QualifiedPath) Parent() QualifiedPath {
	i := strings.LastIndexByte(string(p), '.')
	if i < 0 {
		return ""
	}
	return p[:i]
}

// Child appends a segment.
func (p QualifiedPath) Child(name string) QualifiedPath {
	if p == "" {
		return QualifiedPath(name)
	}
	return p + "." + QualifiedPath(name)
}

// IsDescendantOf reports whether p is nested (at any depth) under other.
func (p QualifiedPath) IsDescendantOf(other QualifiedPath) bool {
	return strings.HasPrefix(string(p), string(other)+".")
}

// Filename maps the path onto a source file: dots become the platform path
// separator and suffix is appended.
func (p QualifiedPath) Filename(suffix string) string {
	return filepath.FromSlash(strings.ReplaceAll(string(p), ".", "/")) + suffix
}

func (p QualifiedPath) String() string { return string(p) }

func (p QualifiedPath) segment(i int) string {
	segs := p.Segments()
	if i >= len(segs) {
		return ""
	}
	return segs[i]
}

// SamePackage reports whether a and b share both the root and the domain
// package segment.
func SamePackage(a, b QualifiedPath) bool {
	as, bs := head(a.Segments(), 2), head(b.Segments(), 2)
	if len(as) != len(bs) {
		return false
	}
	for i := range as {
		if as[i] != bs[i] {
			return false
		}
	}
	return true
}

func head(segs []string, n int) []string {
	if len(segs) > n {
		return segs[:n]
	}
	return segs
}
