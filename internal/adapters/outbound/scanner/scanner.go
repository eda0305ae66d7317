package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/mod/modfile"
)

var skipDirs = map[string]bool{
	"vendor":       true,
	"node_modules": true,
	".git":         true,
	"dist":         true,
	"bin":          true,
	"testdata":     true,
}

// ScanResult lists the Go sources of a tree inside a module.
type ScanResult struct {
	ProjectPath string
	ModulePath  string
	// GoFiles are non-test Go files, relative to ProjectPath, slash separated.
	GoFiles []string
	// PackageDirs are directories holding at least one of GoFiles.
	PackageDirs []string
}

// FileScanner walks a directory tree for Go sources.
type FileScanner struct{}

func New() *FileScanner {
	return &FileScanner{}
}

// Scan reads the module path from projectPath/go.mod and collects the Go
// files under projectPath/subdir. Directories the go tool ignores, and
// directories whose name cannot be a path segment, are skipped.
func (s *FileScanner) Scan(projectPath, subdir string, excludePaths ...string) (*ScanResult, error) {
	absPath, err := filepath.Abs(projectPath)
	if err != nil {
		return nil, err
	}

	modulePath, err := ReadModulePath(absPath)
	if err != nil {
		return nil, err
	}

	start := filepath.Join(absPath, filepath.FromSlash(subdir))
	info, err := os.Stat(start)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", start)
	}

	// Merge extra excludes with built-in skip dirs.
	extraSkip := make(map[string]bool, len(excludePaths))
	for _, p := range excludePaths {
		extraSkip[strings.TrimSuffix(p, "/")] = true
	}

	result := &ScanResult{ProjectPath: absPath, ModulePath: modulePath}
	seenDirs := make(map[string]bool)

	err = filepath.WalkDir(start, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path == start {
				return nil
			}
			if skipDirs[name] || extraSkip[name] || strings.HasPrefix(name, ".") ||
				strings.HasPrefix(name, "_") || strings.Contains(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			return nil
		}

		relPath, err := filepath.Rel(absPath, path)
		if err != nil {
			return err
		}
		relPath = filepath.ToSlash(relPath)
		result.GoFiles = append(result.GoFiles, relPath)

		dir := filepath.ToSlash(filepath.Dir(relPath))
		if !seenDirs[dir] {
			seenDirs[dir] = true
			result.PackageDirs = append(result.PackageDirs, dir)
		}
		return nil
	})

	return result, err
}

// ReadModulePath returns the module path declared in dir/go.mod.
func ReadModulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		return "", fmt.Errorf("reading go.mod: %w", err)
	}
	modulePath := modfile.ModulePath(data)
	if modulePath == "" {
		return "", fmt.Errorf("go.mod in %s declares no module path", dir)
	}
	return modulePath, nil
}
