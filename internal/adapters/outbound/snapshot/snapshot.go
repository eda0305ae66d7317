// Package snapshot loads an import graph exported by another tool, so that
// codebases domainlint cannot parse itself can still be checked.
//
// A snapshot lists modules and import statements:
//
//	root: myproject
//	file_suffix: .py
//	modules: [myproject.users, myproject.users.models]
//	imports:
//	  - importer: myproject.payments.services
//	    imported: myproject.users.models
//	    line_number: 3
//	    line_contents: from myproject.users.models import User
//
// Files may be JSON or YAML, optionally zstd compressed (".json.zst").
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/openkraft/domainlint/internal/domain"
	"github.com/openkraft/domainlint/internal/domain/graph"
	"gopkg.in/yaml.v3"
)

// File is the on-disk snapshot layout.
type File struct {
	Root       string   `json:"root" yaml:"root"`
	FileSuffix string   `json:"file_suffix,omitempty" yaml:"file_suffix,omitempty"`
	Modules    []string `json:"modules" yaml:"modules"`
	Imports    []Import `json:"imports" yaml:"imports"`
}

// Import is one import statement.
type Import struct {
	Importer     string `json:"importer" yaml:"importer"`
	Imported     string `json:"imported" yaml:"imported"`
	File         string `json:"file,omitempty" yaml:"file,omitempty"`
	LineNumber   int    `json:"line_number" yaml:"line_number"`
	LineContents string `json:"line_contents" yaml:"line_contents"`
}

// Source implements domain.GraphSource from a snapshot file. A relative path
// is resolved against the project directory.
type Source struct {
	path string
}

// New creates a Source reading the snapshot at path.
func New(path string) *Source {
	return &Source{path: path}
}

// Build loads the snapshot and checks it was taken for root. Modules and
// imports outside the root are dropped.
func (s *Source) Build(projectPath, root string) (domain.ImportGraph, error) {
	p := s.path
	if !filepath.IsAbs(p) {
		p = filepath.Join(projectPath, p)
	}

	f, err := Read(p)
	if err != nil {
		return nil, &domain.GraphQueryError{Op: "load snapshot", Err: err}
	}
	if f.Root != "" && f.Root != root {
		return nil, &domain.GraphQueryError{
			Op:   "load snapshot",
			Path: domain.QualifiedPath(f.Root),
			Err:  fmt.Errorf("snapshot was taken for root %q, policy root is %q", f.Root, root),
		}
	}
	return f.Graph(root)
}

// Graph converts the snapshot into an in-memory import graph for root.
func (f *File) Graph(root string) (*graph.ImportGraph, error) {
	g := graph.New()
	g.AddModule(domain.QualifiedPath(root))

	inRoot := func(s string) (domain.QualifiedPath, bool, error) {
		p, err := domain.ParseQualifiedPath(s)
		if err != nil {
			return "", false, &domain.GraphQueryError{Op: "load snapshot", Err: err}
		}
		return p, p.Root() == root, nil
	}

	for _, m := range f.Modules {
		p, ok, err := inRoot(m)
		if err != nil {
			return nil, err
		}
		if ok {
			g.AddModule(p)
		}
	}

	for _, imp := range f.Imports {
		importer, ok, err := inRoot(imp.Importer)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		imported, ok, err := inRoot(imp.Imported)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		file := imp.File
		if file == "" && f.FileSuffix != "" {
			file = importer.Filename(f.FileSuffix)
		}
		g.AddImport(importer, imported, domain.ImportDetail{
			File:         file,
			LineNumber:   imp.LineNumber,
			LineContents: imp.LineContents,
		})
	}

	return g, nil
}

// Read decodes a snapshot file, picking the codec from its extension.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	name := path
	if strings.HasSuffix(name, ".zst") {
		name = strings.TrimSuffix(name, ".zst")
		if data, err = decompress(data); err != nil {
			return nil, fmt.Errorf("decompressing %s: %w", path, err)
		}
	}

	var f File
	switch ext := filepath.Ext(name); ext {
	case ".json":
		err = json.Unmarshal(data, &f)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &f)
	default:
		return nil, fmt.Errorf("unsupported snapshot format %q (valid: .json, .yaml, .yml, optionally .zst)", ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &f, nil
}

// Write encodes f to path, compressing when the name ends in ".zst".
func Write(path string, f *File) error {
	name := strings.TrimSuffix(path, ".zst")

	var (
		data []byte
		err  error
	)
	switch ext := filepath.Ext(name); ext {
	case ".json":
		data, err = json.MarshalIndent(f, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(f)
	default:
		return fmt.Errorf("unsupported snapshot format %q", ext)
	}
	if err != nil {
		return err
	}

	if name != path {
		var buf bytes.Buffer
		enc, err := zstd.NewWriter(&buf)
		if err != nil {
			return err
		}
		if _, err := enc.Write(data); err != nil {
			enc.Close()
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	return os.WriteFile(path, data, 0644)
}

func decompress(data []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	return io.ReadAll(dec)
}

// FromGraph captures every module under root and every import between them.
func FromGraph(root string, g domain.ImportGraph) (*File, error) {
	rootPath := domain.QualifiedPath(root)
	modules, err := g.FindDescendants(rootPath)
	if err != nil {
		return nil, err
	}
	modules = append([]domain.QualifiedPath{rootPath}, modules...)

	f := &File{Root: root}
	for _, m := range modules {
		f.Modules = append(f.Modules, string(m))
		imports, err := g.FindDirectImports(m)
		if err != nil {
			return nil, err
		}
		for _, imported := range imports {
			details, err := g.ImportDetails(m, imported)
			if err != nil {
				return nil, err
			}
			for _, d := range details {
				f.Imports = append(f.Imports, Import{
					Importer:     string(m),
					Imported:     string(imported),
					File:         d.File,
					LineNumber:   d.LineNumber,
					LineContents: d.LineContents,
				})
			}
		}
	}
	return f, nil
}
