package repotree

import (
	"strings"

	"github.com/snipdex/snipdex/internal/decl"
)

// Render returns an indented textual view of the tree, one node per line.
// File nodes list their declaration names grouped by kind. Debugging aid;
// no stage consumes the output.
func Render(root *Node) string {
	var b strings.Builder
	renderNode(&b, root, 0)
	return b.String()
}

func renderNode(b *strings.Builder, n *Node, depth int) {
	prefix := strings.Repeat("  ", depth)
	b.WriteString(prefix)
	b.WriteString("- ")
	b.WriteString(n.Name())
	b.WriteByte('\n')

	if n.IsFile() {
		if n.Decls == nil {
			return
		}
		renderBucket(b, prefix, "imports", n.Decls.Imports)
		renderBucket(b, prefix, "functions", n.Decls.Functions)
		renderBucket(b, prefix, "variables", n.Decls.Variables)
		renderBucket(b, prefix, "classes", n.Decls.Classes)
		return
	}
	for _, child := range n.Children {
		renderNode(b, child, depth+1)
	}
}

func renderBucket(b *strings.Builder, prefix, label string, decls []*decl.Declaration) {
	if len(decls) == 0 {
		return
	}
	b.WriteString(prefix)
	b.WriteString("  - ")
	b.WriteString(label)
	b.WriteString(":\n")
	for _, d := range decls {
		b.WriteString(prefix)
		b.WriteString("    - ")
		b.WriteString(d.Name)
		b.WriteByte('\n')
	}
}
