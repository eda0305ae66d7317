// Package history persists summaries of recorded analysis runs.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openkraft/domainlint/internal/domain"
)

// RunsFile is the history location relative to the project directory.
const RunsFile = ".domainlint/history/runs.json"

// DefaultLimit caps the number of entries kept on disk.
const DefaultLimit = 200

// FileHistory implements domain.RunHistory on a JSON file.
type FileHistory struct {
	limit int
}

func New() *FileHistory {
	return &FileHistory{limit: DefaultLimit}
}

// WithLimit keeps at most n entries, dropping the oldest first.
func (h *FileHistory) WithLimit(n int) *FileHistory {
	h.limit = n
	return h
}

// Save appends entry. The file is replaced through a rename so a crash never
// leaves a truncated history behind.
func (h *FileHistory) Save(projectPath string, entry domain.RunEntry) error {
	entries, err := h.Load(projectPath)
	if err != nil {
		return err
	}
	entries = append(entries, entry)
	if h.limit > 0 && len(entries) > h.limit {
		entries = entries[len(entries)-h.limit:]
	}

	fp := filepath.Join(projectPath, RunsFile)
	if err := os.MkdirAll(filepath.Dir(fp), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return err
	}

	tmp := fp + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, fp)
}

// Load returns the recorded entries, oldest first. A missing file is an empty
// history.
func (h *FileHistory) Load(projectPath string) ([]domain.RunEntry, error) {
	fp := filepath.Join(projectPath, RunsFile)

	data, err := os.ReadFile(fp)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []domain.RunEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("reading %s: %w", RunsFile, err)
	}
	return entries, nil
}
