package snippet

import (
	"log/slog"
	"strings"

	"github.com/snipdex/snipdex/internal/decl"
	"github.com/snipdex/snipdex/internal/repotree"
)

// Snippet pairs a target public declaration with the dependency
// declarations whose rendered source text must precede it to make the
// excerpt self-contained.
type Snippet struct {
	TargetObject    *decl.Declaration
	ImportedObjects []*decl.Declaration
}

// Render concatenates the dependency texts, in pool order, followed by the
// target's own text.
func (s *Snippet) Render() string {
	parts := make([]string, 0, len(s.ImportedObjects)+1)
	for _, d := range s.ImportedObjects {
		parts = append(parts, d.Text)
	}
	parts = append(parts, s.TargetObject.Text)
	return strings.Join(parts, "\n\n")
}

// Assembler builds one snippet per public function or class declaration by
// tracing which other declarations its source text references.
//
// The trace is a deliberately coarse name-substring heuristic: it has no
// lexical scoping and can both over-match (a dependency name inside a
// string literal) and under-match (references it cannot see through). That
// imprecision is the accepted trade-off for simplicity.
type Assembler struct {
	log *slog.Logger
}

// NewAssembler creates a snippet assembler.
func NewAssembler(log *slog.Logger) *Assembler {
	return &Assembler{log: log}
}

// AssembleFile produces the snippets for one extracted, import-resolved
// file node, in declaration order of the public pool.
func (a *Assembler) AssembleFile(n *repotree.Node) []Snippet {
	if !n.IsFile() || n.Decls == nil {
		return nil
	}

	// Local pool: this file's functions and classes. Candidates add the
	// declarations pulled in through resolved imports.
	pool := make([]*decl.Declaration, 0, len(n.Decls.Functions)+len(n.Decls.Classes))
	pool = append(pool, n.Decls.Functions...)
	pool = append(pool, n.Decls.Classes...)

	candidates := make([]*decl.Declaration, 0, len(pool)+len(n.ResolvedImports))
	candidates = append(candidates, pool...)
	for _, d := range n.ResolvedImports {
		if d.Kind != decl.KindImport {
			candidates = append(candidates, d)
		}
	}

	aliases := aliasSubstitutions(n.Decls.Imports)

	var snippets []Snippet
	for _, target := range pool {
		if !target.Public() {
			continue
		}
		snippets = append(snippets, Snippet{
			TargetObject:    target,
			ImportedObjects: usedDependencies(target, candidates, aliases),
		})
	}
	if len(snippets) > 0 {
		a.log.Debug("assembled snippets", "file", n.Path(), "count", len(snippets))
	}
	return snippets
}

// usedDependencies classifies every other candidate whose bare name appears
// in the target's alias-substituted text as a used dependency.
func usedDependencies(target *decl.Declaration, candidates []*decl.Declaration, aliases *strings.Replacer) []*decl.Declaration {
	text := aliases.Replace(target.Text)
	used := []*decl.Declaration{}
	for _, c := range candidates {
		if c == target || c.Name == "" || c.Name == target.Name {
			continue
		}
		if strings.Contains(text, c.Name) {
			used = append(used, c)
		}
	}
	return used
}

// aliasSubstitutions maps every import alias back to the name it stands
// for, so a call written through a short alias still matches the resolved
// declaration's name.
func aliasSubstitutions(imports []*decl.Declaration) *strings.Replacer {
	var pairs []string
	for _, imp := range imports {
		for _, n := range imp.Names {
			if n.Alias != "" && n.Alias != n.Name {
				pairs = append(pairs, n.Alias, n.Name)
			}
		}
	}
	return strings.NewReplacer(pairs...)
}
