package pyparse

import (
	"regexp"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/snipdex/snipdex/internal/decl"
)

var (
	leadingDotsRe = regexp.MustCompile(`^(?:import|from)\s+(\.+)`)
	dottedPathRe  = regexp.MustCompile(`^[A-Za-z_]\w*(?:\.[A-Za-z_]\w*)*$`)
)

// parseImport converts an import_statement or import_from_statement node
// into an import declaration. Malformed statements never fail: an
// unparseable module path yields an empty Module, which downstream stages
// treat as unresolvable rather than as an error.
func parseImport(node *sitter.Node, source []byte) *decl.Declaration {
	d := &decl.Declaration{
		Kind: decl.KindImport,
		Text: nodeText(node, source),
	}
	d.Dots = countLeadingDots(d.Text)

	switch node.Kind() {
	case "import_statement":
		// "import a.b as c, d": the imported names are the modules
		// themselves. The module path is the dotted join of all of them.
		d.Names = collectNames(node, source, nil)
		parts := make([]string, 0, len(d.Names))
		for _, n := range d.Names {
			parts = append(parts, n.Name)
		}
		d.Module = cleanModule(strings.Join(parts, "."))
	case "import_from_statement":
		moduleNode := node.ChildByFieldName("module_name")
		d.Module = cleanModule(moduleText(moduleNode, source))
		d.Names = collectNames(node, source, moduleNode)
		for _, n := range d.Names {
			if n.Name == "*" {
				d.Wildcard = true
			}
		}
	}

	if len(d.Names) > 0 {
		d.Name = d.Names[0].Name
	}
	return d
}

// countLeadingDots counts the relative-path dots in an import statement's
// rendered text, e.g. "from ..a import b" has two.
func countLeadingDots(text string) int {
	m := leadingDotsRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	return len(m[1])
}

// moduleText renders the module part of a from-import, stripping the
// relative prefix: "from ..a.b import c" yields "a.b", "from . import c"
// yields "".
func moduleText(node *sitter.Node, source []byte) string {
	if node == nil {
		return ""
	}
	if node.Kind() == "relative_import" {
		if dotted := findChildByKind(node, "dotted_name"); dotted != nil {
			return nodeText(dotted, source)
		}
		return ""
	}
	return nodeText(node, source)
}

// cleanModule validates a dotted module path. Anything that is not a
// well-formed sequence of identifier segments is discarded as empty.
func cleanModule(module string) string {
	if module == "" || !dottedPathRe.MatchString(module) {
		return ""
	}
	return module
}

// collectNames gathers the imported (name, alias) pairs, skipping the
// module node of a from-import. A wildcard import contributes "*".
func collectNames(node *sitter.Node, source []byte, moduleNode *sitter.Node) []decl.ImportedName {
	var names []decl.ImportedName
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
			continue
		}
		switch child.Kind() {
		case "dotted_name", "identifier":
			names = append(names, decl.ImportedName{Name: nodeText(child, source)})
		case "aliased_import":
			names = append(names, decl.ImportedName{
				Name:  nodeText(child.ChildByFieldName("name"), source),
				Alias: nodeText(child.ChildByFieldName("alias"), source),
			})
		case "wildcard_import":
			names = append(names, decl.ImportedName{Name: "*"})
		}
	}
	return names
}

// firstSegment returns the first identifier segment of a dotted module
// path, the name used for standard-library and third-party membership
// checks. Empty input stays empty.
func firstSegment(module string) string {
	if module == "" {
		return ""
	}
	if i := strings.IndexByte(module, '.'); i >= 0 {
		return module[:i]
	}
	return module
}
