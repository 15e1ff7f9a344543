package pyparse

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/snipdex/snipdex/internal/decl"
)

func importDecl(module string) *decl.Declaration {
	return &decl.Declaration{Kind: decl.KindImport, Module: module}
}

func TestImportFilters_Defaults(t *testing.T) {
	t.Parallel()

	f := NewImportFilters(nil, nil)

	assert.False(t, f.Keep(importDecl("os")), "stdlib modules are dropped")
	assert.False(t, f.Keep(importDecl("json.decoder")), "membership checks the first segment")
	assert.False(t, f.Keep(importDecl("numpy")), "common third-party packages are dropped")
	assert.False(t, f.Keep(importDecl("pandas.core.frame")))

	assert.True(t, f.Keep(importDecl("myproject")))
	assert.True(t, f.Keep(importDecl("myproject.utils")))
}

func TestImportFilters_EmptyModuleIsKept(t *testing.T) {
	t.Parallel()

	// A module name that could not be parsed is conservatively kept:
	// classification failure never counts as standard library.
	f := NewImportFilters(nil, nil)
	assert.True(t, f.Keep(importDecl("")))
}

func TestImportFilters_RelativeImportsAlwaysKept(t *testing.T) {
	t.Parallel()

	// "from .os import x" targets the repository, not the stdlib.
	f := NewImportFilters(nil, nil)
	d := importDecl("os")
	d.Dots = 1
	assert.True(t, f.Keep(d))
}

func TestImportFilters_Extras(t *testing.T) {
	t.Parallel()

	f := NewImportFilters([]string{"legacylib"}, []string{"companypkg"})

	assert.False(t, f.Keep(importDecl("legacylib")))
	assert.False(t, f.Keep(importDecl("companypkg.api")))
	// An explicit common-package list replaces the default one.
	assert.True(t, f.Keep(importDecl("numpy")))
	// The stdlib defaults stay active alongside extras.
	assert.False(t, f.Keep(importDecl("os.path")))
}

func TestImportFilters_Apply(t *testing.T) {
	t.Parallel()

	f := NewImportFilters(nil, nil)
	kept := f.Apply([]*decl.Declaration{
		importDecl("os"),
		importDecl("myproject.utils"),
		importDecl("numpy"),
		importDecl(""),
	})

	assert.Len(t, kept, 2)
	assert.Equal(t, "myproject.utils", kept[0].Module)
	assert.Empty(t, kept[1].Module)
}
