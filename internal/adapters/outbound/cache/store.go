// Package cache keeps built import graphs under .domainlint/cache so an
// unchanged tree is not parsed again.
package cache

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/cespare/xxhash/v2"

	"github.com/openkraft/domainlint/internal/adapters/outbound/scanner"
	"github.com/openkraft/domainlint/internal/adapters/outbound/snapshot"
	"github.com/openkraft/domainlint/internal/domain"
)

// Dir is the cache location relative to the project directory.
const Dir = ".domainlint/cache"

// Source implements domain.GraphSource in front of another source. Entries
// are keyed by the path, size and modification time of every Go file under
// the root, plus go.mod.
type Source struct {
	inner   domain.GraphSource
	scanner *scanner.FileScanner
	logger  *slog.Logger
}

// New wraps inner. A nil logger discards.
func New(inner domain.GraphSource, logger *slog.Logger) *Source {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Source{inner: inner, scanner: scanner.New(), logger: logger}
}

// Build returns the cached graph when the tree is unchanged and builds and
// stores it otherwise. Cache failures never fail the build.
func (s *Source) Build(projectPath, root string) (domain.ImportGraph, error) {
	key, err := s.fingerprint(projectPath, root)
	if err != nil {
		// Let the inner source report the problem with its own error type.
		return s.inner.Build(projectPath, root)
	}

	path := entryPath(projectPath, root, key)
	if f, err := snapshot.Read(path); err == nil {
		if g, err := f.Graph(root); err == nil {
			s.logger.Debug("import graph cache hit", "root", root, "key", key)
			return g, nil
		}
	}

	g, err := s.inner.Build(projectPath, root)
	if err != nil {
		return nil, err
	}
	if err := s.store(projectPath, root, path, g); err != nil {
		s.logger.Warn("writing import graph cache", "error", err)
	}
	return g, nil
}

func (s *Source) store(projectPath, root, path string, g domain.ImportGraph) error {
	f, err := snapshot.FromGraph(root, g)
	if err != nil {
		return err
	}
	if err := Invalidate(projectPath, root); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return snapshot.Write(path, f)
}

func (s *Source) fingerprint(projectPath, root string) (string, error) {
	scan, err := s.scanner.Scan(projectPath, root)
	if err != nil {
		return "", err
	}

	h := xxhash.New()
	files := append([]string{"go.mod"}, scan.GoFiles...)
	for _, rel := range files {
		info, err := os.Stat(filepath.Join(scan.ProjectPath, filepath.FromSlash(rel)))
		if err != nil {
			return "", err
		}
		fmt.Fprintf(h, "%s\x00%d\x00%d\n", rel, info.Size(), info.ModTime().UnixNano())
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

// Invalidate removes every cached graph for root.
func Invalidate(projectPath, root string) error {
	stale, err := filepath.Glob(filepath.Join(projectPath, filepath.FromSlash(Dir), root+"-*.json.zst"))
	if err != nil {
		return err
	}
	for _, p := range stale {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	return nil
}

func entryPath(projectPath, root, key string) string {
	return filepath.Join(projectPath, filepath.FromSlash(Dir), root+"-"+key+".json.zst")
}
