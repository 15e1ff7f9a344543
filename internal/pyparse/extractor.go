package pyparse

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"

	"github.com/snipdex/snipdex/internal/decl"
)

// ErrParse reports that a file's content could not be parsed as valid
// Python source. It is caught at file granularity by the pipeline: the file
// keeps empty declaration buckets and the run continues.
var ErrParse = errors.New("parse error")

// Extractor parses one file's source into a syntax tree and buckets its
// top-level declarations by kind. Import declarations pointing at the
// standard library or at well-known third-party packages are dropped: they
// are noise for dependency tracing, not code under analysis.
type Extractor struct {
	language *sitter.Language
	filters  *ImportFilters
	log      *slog.Logger
}

// NewExtractor creates a Python declaration extractor using the given
// import filters.
func NewExtractor(filters *ImportFilters, log *slog.Logger) *Extractor {
	return &Extractor{
		language: sitter.NewLanguage(python.Language()),
		filters:  filters,
		log:      log,
	}
}

// ExtractFile reads and extracts a single source file.
func (e *Extractor) ExtractFile(path string) (*decl.Buckets, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	buckets, err := e.Extract(source)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	e.log.Debug("extracted declarations", "file", path, "count", buckets.Len())
	return buckets, nil
}

// Extract parses source and partitions its top-level statements into the
// four declaration buckets, in source order.
func (e *Extractor) Extract(source []byte) (*decl.Buckets, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(e.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, ErrParse
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, fmt.Errorf("%w: source contains syntax errors", ErrParse)
	}

	buckets := &decl.Buckets{}
	for i := uint(0); i < root.NamedChildCount(); i++ {
		e.bucketStatement(root.NamedChild(i), source, buckets)
	}

	total := len(buckets.Imports)
	buckets.Imports = e.filters.Apply(buckets.Imports)
	if dropped := total - len(buckets.Imports); dropped > 0 {
		e.log.Debug("filtered external imports", "dropped", dropped)
	}
	return buckets, nil
}

// bucketStatement classifies one top-level statement. Statements outside
// the four tracked kinds are ignored.
func (e *Extractor) bucketStatement(node *sitter.Node, source []byte, buckets *decl.Buckets) {
	switch node.Kind() {
	case "import_statement", "import_from_statement":
		if d := parseImport(node, source); d != nil {
			buckets.Imports = append(buckets.Imports, d)
		}
	case "function_definition":
		buckets.Functions = append(buckets.Functions, definitionDecl(node, node, source, decl.KindFunction))
	case "class_definition":
		buckets.Classes = append(buckets.Classes, definitionDecl(node, node, source, decl.KindClass))
	case "decorated_definition":
		// The declaration text keeps the decorators; the name comes from
		// the wrapped definition.
		inner := node.ChildByFieldName("definition")
		if inner == nil {
			return
		}
		switch inner.Kind() {
		case "function_definition":
			buckets.Functions = append(buckets.Functions, definitionDecl(node, inner, source, decl.KindFunction))
		case "class_definition":
			buckets.Classes = append(buckets.Classes, definitionDecl(node, inner, source, decl.KindClass))
		}
	case "expression_statement":
		assign := findChildByKind(node, "assignment")
		if assign == nil {
			return
		}
		name := firstIdentifier(assign.ChildByFieldName("left"), source)
		if name == "" {
			return
		}
		buckets.Variables = append(buckets.Variables, &decl.Declaration{
			Kind: decl.KindVariable,
			Name: name,
			Text: nodeText(node, source),
		})
	}
}

// definitionDecl builds a function or class declaration. outer is the node
// whose full text is kept (decorators included); named is the definition
// node carrying the name field.
func definitionDecl(outer, named *sitter.Node, source []byte, kind decl.Kind) *decl.Declaration {
	return &decl.Declaration{
		Kind: kind,
		Name: nodeText(named.ChildByFieldName("name"), source),
		Text: nodeText(outer, source),
	}
}

// nodeText extracts the text content of a tree-sitter node.
func nodeText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	return string(source[node.StartByte():node.EndByte()])
}

// findChildByKind finds the first named child node with the given kind.
func findChildByKind(node *sitter.Node, kind string) *sitter.Node {
	if node == nil {
		return nil
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child.Kind() == kind {
			return child
		}
	}
	return nil
}

// firstIdentifier returns the text of the first identifier at or below
// node: the assignment target for "x = 1" as well as for tuple targets
// like "x, y = pair()".
func firstIdentifier(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if node.Kind() == "identifier" {
		return nodeText(node, source)
	}
	for i := uint(0); i < node.NamedChildCount(); i++ {
		if name := firstIdentifier(node.NamedChild(i), source); name != "" {
			return name
		}
	}
	return ""
}
