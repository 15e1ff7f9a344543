package snippet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipdex/snipdex/internal/decl"
	"github.com/snipdex/snipdex/internal/repotree"
	"github.com/snipdex/snipdex/internal/slogutil"
)

func fileNode(buckets *decl.Buckets, resolved ...*decl.Declaration) *repotree.Node {
	n := repotree.NewFileNode("a.py", "/repo/a.py")
	n.Decls = buckets
	n.ResolvedImports = resolved
	n.ImportsResolved = true
	return n
}

func fn(name, text string) *decl.Declaration {
	return &decl.Declaration{Kind: decl.KindFunction, Name: name, Text: text}
}

func TestAssembler_PrivateHelperPrecedesTarget(t *testing.T) {
	t.Parallel()

	helper := fn("_h", "def _h(x):\n    return x + 1")
	target := fn("g", "def g(x):\n    return _h(x) * 2")
	n := fileNode(&decl.Buckets{Functions: []*decl.Declaration{helper, target}})

	snippets := NewAssembler(slogutil.NewDiscard()).AssembleFile(n)
	require.Len(t, snippets, 1, "only the public declaration gets a snippet")

	s := snippets[0]
	assert.Equal(t, target, s.TargetObject)
	require.Len(t, s.ImportedObjects, 1)
	assert.Equal(t, helper, s.ImportedObjects[0])

	rendered := s.Render()
	hPos := strings.Index(rendered, helper.Text)
	gPos := strings.Index(rendered, target.Text)
	require.GreaterOrEqual(t, hPos, 0)
	require.GreaterOrEqual(t, gPos, 0)
	assert.Less(t, hPos, gPos, "the helper's text must precede the target's")
}

func TestAssembler_UnusedDeclarationsExcluded(t *testing.T) {
	t.Parallel()

	unused := fn("_unused", "def _unused():\n    pass")
	target := fn("g", "def g():\n    return 1")
	n := fileNode(&decl.Buckets{Functions: []*decl.Declaration{unused, target}})

	snippets := NewAssembler(slogutil.NewDiscard()).AssembleFile(n)
	require.Len(t, snippets, 1)
	assert.Empty(t, snippets[0].ImportedObjects)
}

func TestAssembler_ResolvedImportsJoinThePool(t *testing.T) {
	t.Parallel()

	imported := fn("remote_fn", "def remote_fn(v):\n    return v")
	target := fn("g", "def g():\n    return remote_fn(3)")
	n := fileNode(&decl.Buckets{Functions: []*decl.Declaration{target}}, imported)

	snippets := NewAssembler(slogutil.NewDiscard()).AssembleFile(n)
	require.Len(t, snippets, 1)
	require.Len(t, snippets[0].ImportedObjects, 1)
	assert.Equal(t, imported, snippets[0].ImportedObjects[0])
}

func TestAssembler_AliasSubstitution(t *testing.T) {
	t.Parallel()

	// g calls the helper through its alias; substituting the alias back
	// to the original name lets the substring match find it.
	imported := fn("format_row", "def format_row(v):\n    return str(v)")
	target := fn("g", "def g():\n    return fr(3)")
	n := fileNode(&decl.Buckets{
		Imports: []*decl.Declaration{{
			Kind:   decl.KindImport,
			Name:   "format_row",
			Module: "helpers",
			Names:  []decl.ImportedName{{Name: "format_row", Alias: "fr"}},
			Text:   "from .helpers import format_row as fr",
		}},
		Functions: []*decl.Declaration{target},
	}, imported)

	snippets := NewAssembler(slogutil.NewDiscard()).AssembleFile(n)
	require.Len(t, snippets, 1)
	require.Len(t, snippets[0].ImportedObjects, 1)
	assert.Equal(t, imported, snippets[0].ImportedObjects[0])
}

func TestAssembler_SubstringHeuristicOverMatches(t *testing.T) {
	t.Parallel()

	// The name appears only inside a string literal, yet it still counts
	// as a dependency. That imprecision is the documented trade-off.
	helper := fn("_h", "def _h():\n    pass")
	target := fn("g", "def g():\n    return \"_h is mentioned\"")
	n := fileNode(&decl.Buckets{Functions: []*decl.Declaration{helper, target}})

	snippets := NewAssembler(slogutil.NewDiscard()).AssembleFile(n)
	require.Len(t, snippets, 1)
	assert.Len(t, snippets[0].ImportedObjects, 1)
}

func TestAssembler_ClassesAreTargetsToo(t *testing.T) {
	t.Parallel()

	helper := fn("_validate", "def _validate(v):\n    return v")
	cls := &decl.Declaration{
		Kind: decl.KindClass,
		Name: "Engine",
		Text: "class Engine:\n    def start(self):\n        return _validate(1)",
	}
	n := fileNode(&decl.Buckets{
		Functions: []*decl.Declaration{helper},
		Classes:   []*decl.Declaration{cls},
	})

	snippets := NewAssembler(slogutil.NewDiscard()).AssembleFile(n)
	require.Len(t, snippets, 1)
	assert.Equal(t, cls, snippets[0].TargetObject)
	require.Len(t, snippets[0].ImportedObjects, 1)
}

func TestAssembler_DirectoryNodeYieldsNothing(t *testing.T) {
	t.Parallel()

	dir := repotree.NewDirNode("pkg", "/repo/pkg")
	assert.Nil(t, NewAssembler(slogutil.NewDiscard()).AssembleFile(dir))
}

func TestSnippet_ToRecord(t *testing.T) {
	t.Parallel()

	helper := fn("_h", "def _h():\n    pass")
	target := fn("g", "def g():\n    return _h()")
	s := Snippet{TargetObject: target, ImportedObjects: []*decl.Declaration{helper}}

	rec := s.ToRecord()
	require.Len(t, rec, 1)
	body, ok := rec["g"]
	require.True(t, ok)
	assert.Equal(t, target.Text, body.TargetFunction)
	assert.Equal(t, helper.Text, body.ImportedFunction)
}
