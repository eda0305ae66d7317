package domain

import "fmt"

// ConfigurationError reports a missing or malformed policy configuration.
// It aborts a run before any traversal starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return "invalid configuration: " + e.Reason
	}
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}

// InvalidPathError reports a qualified path that does not belong to the
// configured root. It means the import graph and the policy disagree.
type InvalidPathError struct {
	Path QualifiedPath
	Root string
}

func (e *InvalidPathError) Error() string {
	return fmt.Sprintf("%s doesn't belong to %s", e.Path, e.Root)
}

// GraphQueryError wraps a failure of the import graph itself.
type GraphQueryError struct {
	Op   string
	Path QualifiedPath
	Err  error
}

func (e *GraphQueryError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("import graph %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("import graph %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *GraphQueryError) Unwrap() error { return e.Err }
