package domain

import "time"

// LintReport is the outcome of one analysis run. A report with groups is a
// normal result, not an error.
type LintReport struct {
	ProjectPath string
	Root        string
	Commit      string
	Groups      []ViolationGroup
}

// HasViolations reports whether any group was found.
func (r *LintReport) HasViolations() bool {
	return len(r.Groups) > 0
}

// ViolationCount is the total number of offending edges over all groups.
func (r *LintReport) ViolationCount() int {
	n := 0
	for _, g := range r.Groups {
		n += len(g.Violations)
	}
	return n
}

// CountByKind returns the number of groups per violation kind.
func (r *LintReport) CountByKind() map[ViolationKind]int {
	counts := make(map[ViolationKind]int)
	for _, g := range r.Groups {
		counts[g.Kind]++
	}
	return counts
}

// RunEntry is a persisted summary of a recorded analysis.
type RunEntry struct {
	Timestamp  time.Time `json:"timestamp"`
	CommitHash string    `json:"commit_hash,omitempty"`
	Root       string    `json:"root"`
	Groups     int       `json:"groups"`
	Violations int       `json:"violations"`
	NonPublic  int       `json:"non_public"`
	Undeclared int       `json:"not_dependent"`
}

// NewRunEntry summarises a report at the given time.
func NewRunEntry(r *LintReport, at time.Time) RunEntry {
	counts := r.CountByKind()
	return RunEntry{
		Timestamp:  at.UTC(),
		CommitHash: r.Commit,
		Root:       r.Root,
		Groups:     len(r.Groups),
		Violations: r.ViolationCount(),
		NonPublic:  counts[KindNonPublic],
		Undeclared: counts[KindNotDependent],
	}
}
