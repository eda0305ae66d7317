package parser

import (
	"bytes"
	"fmt"
	goparser "go/parser"
	"go/token"
	"os"
	"strconv"
	"strings"
)

// ParsedFile holds the import block of a Go source file.
type ParsedFile struct {
	Path    string
	Package string
	Imports []ImportSpec
}

// ImportSpec is one imported package together with where it is imported.
type ImportSpec struct {
	Path     string
	Line     int
	LineText string
}

// GoParser reads import declarations using go/parser.
type GoParser struct{}

func New() *GoParser {
	return &GoParser{}
}

// ParseImports parses only the package clause and imports of filePath.
func (p *GoParser) ParseImports(filePath string) (*ParsedFile, error) {
	src, err := os.ReadFile(filePath)
	if err != nil {
		return nil, err
	}

	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, filePath, src, goparser.ImportsOnly)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filePath, err)
	}

	result := &ParsedFile{
		Path:    filePath,
		Package: file.Name.Name,
	}

	lines := bytes.Split(src, []byte("\n"))
	for _, imp := range file.Imports {
		path, err := strconv.Unquote(imp.Path.Value)
		if err != nil {
			path = strings.Trim(imp.Path.Value, "`\"")
		}
		line := fset.Position(imp.Pos()).Line
		result.Imports = append(result.Imports, ImportSpec{
			Path:     path,
			Line:     line,
			LineText: sourceLine(lines, line),
		})
	}

	return result, nil
}

func sourceLine(lines [][]byte, n int) string {
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimSpace(string(bytes.TrimRight(lines[n-1], "\r")))
}
