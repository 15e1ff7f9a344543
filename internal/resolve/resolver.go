package resolve

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/snipdex/snipdex/internal/decl"
	"github.com/snipdex/snipdex/internal/objtable"
	"github.com/snipdex/snipdex/internal/repotree"
)

// Edge records one resolved import: the importing file and the file whose
// declarations it pulled in. Edges feed the import graph report.
type Edge struct {
	From string
	To   string
}

// Resolver links each file's relative import statements to the concrete
// declarations they reference elsewhere in the repository. It consumes the
// object table, which must be fully built before resolution starts: point
// lookups into a partial table silently come back empty.
type Resolver struct {
	table objtable.Table
	root  string
	ext   string
	log   *slog.Logger

	edges []Edge
}

// New creates a resolver for the repository rooted at root. ext is the
// source-file extension appended to every candidate target path.
func New(table objtable.Table, root, ext string, log *slog.Logger) *Resolver {
	return &Resolver{table: table, root: root, ext: ext, log: log}
}

// ResolveTree resolves every file node under root. Re-running is
// idempotent: each file's resolved imports are overwritten, never appended.
func (r *Resolver) ResolveTree(root *repotree.Node) {
	r.edges = nil
	repotree.Walk(root, func(n *repotree.Node) {
		if n.IsFile() {
			r.resolveFile(n)
		}
	})
}

// resolveFile computes the file's resolved imports: every import
// statement's resolution, concatenated in statement order.
func (r *Resolver) resolveFile(n *repotree.Node) {
	resolved := []*decl.Declaration{}
	if n.Decls != nil {
		for _, imp := range n.Decls.Imports {
			resolved = append(resolved, r.resolveImport(n, imp)...)
		}
	}
	n.ResolvedImports = resolved
	n.ImportsResolved = true
}

// resolveImport resolves a single import statement. An import that cannot
// be located resolves to an empty list; that is a logged condition, not a
// failure of the run.
func (r *Resolver) resolveImport(n *repotree.Node, imp *decl.Declaration) []*decl.Declaration {
	segments := splitModule(imp.Module)

	// "from . import name": no module path, so each imported name is
	// itself the final path segment and the whole target module is
	// exposed.
	if len(segments) == 0 {
		return r.resolveBareRelative(n, imp)
	}

	names, wildcard := requestedNames(imp)

	// Two independent walks compute the candidate targets: one anchored
	// at the repository root, one at the importing file's own directory.
	// The first dot anchors; each additional dot climbs a level.
	rootTarget := r.target(r.root, imp.Dots, segments)
	fileTarget := r.target(filepath.Dir(n.Path()), imp.Dots, segments)

	if decls := r.lookup(rootTarget, names, wildcard); len(decls) > 0 {
		r.addEdge(n.Path(), rootTarget)
		return decls
	}
	if decls := r.lookup(fileTarget, names, wildcard); len(decls) > 0 {
		r.addEdge(n.Path(), fileTarget)
		return decls
	}

	// Package fallback: retry one directory level up, matching only
	// declarations named after the last path segment.
	last := segments[len(segments)-1]
	for _, target := range []string{rootTarget, fileTarget} {
		parent := strings.TrimSuffix(filepath.Dir(target), r.ext) + r.ext
		if decls := r.lookup(parent, []string{last}, false); len(decls) > 0 {
			r.addEdge(n.Path(), parent)
			return decls
		}
	}

	r.log.Warn("unresolved import", "file", n.Path(), "import", imp.Text)
	return nil
}

// resolveBareRelative handles "from . import name" statements.
func (r *Resolver) resolveBareRelative(n *repotree.Node, imp *decl.Declaration) []*decl.Declaration {
	var resolved []*decl.Declaration
	for _, name := range imp.Names {
		if name.Name == "" || name.Name == "*" {
			continue
		}
		rootTarget := r.target(r.root, imp.Dots, []string{name.Name})
		fileTarget := r.target(filepath.Dir(n.Path()), imp.Dots, []string{name.Name})

		if decls := r.lookup(rootTarget, nil, true); len(decls) > 0 {
			r.addEdge(n.Path(), rootTarget)
			resolved = append(resolved, decls...)
			continue
		}
		if decls := r.lookup(fileTarget, nil, true); len(decls) > 0 {
			r.addEdge(n.Path(), fileTarget)
			resolved = append(resolved, decls...)
			continue
		}
		r.log.Warn("unresolved import", "file", n.Path(), "import", imp.Text, "name", name.Name)
	}
	return resolved
}

// target builds a candidate file path: climb for the dots beyond the
// anchoring one, descend into the module segments, append the source
// extension.
func (r *Resolver) target(base string, dots int, segments []string) string {
	for i := 1; i < dots; i++ {
		base = filepath.Dir(base)
	}
	return filepath.Join(append([]string{base}, segments...)...) + r.ext
}

// lookup fetches a candidate path's declarations from the table. Entries
// tagged import are dropped: imports are not re-exported transitively.
// Unless wildcard, only the requested names survive.
func (r *Resolver) lookup(path string, names []string, wildcard bool) []*decl.Declaration {
	entries, ok := r.table[path]
	if !ok {
		return nil
	}
	var decls []*decl.Declaration
	for _, e := range entries {
		if e.Kind == decl.KindImport {
			continue
		}
		if !wildcard && !contains(names, e.Name) {
			continue
		}
		decls = append(decls, e.Decl)
	}
	return decls
}

func (r *Resolver) addEdge(from, to string) {
	if from == to {
		return
	}
	r.edges = append(r.edges, Edge{From: from, To: to})
}

// Edges returns the resolved import edges collected so far, one per
// import statement that found a target.
func (r *Resolver) Edges() []Edge {
	return r.edges
}

// requestedNames lists the names an import statement asks for, normalized:
// an aliased "X as Y" matches declarations named X.
func requestedNames(imp *decl.Declaration) (names []string, wildcard bool) {
	for _, n := range imp.Names {
		if n.Name == "*" {
			wildcard = true
			continue
		}
		names = append(names, n.Name)
	}
	return names, wildcard || imp.Wildcard
}

func splitModule(module string) []string {
	if module == "" {
		return nil
	}
	return strings.Split(module, ".")
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
