package decl

import "strings"

// Kind identifies the variant of a Declaration. The set is closed:
// consumers switch over these four values exhaustively.
type Kind string

const (
	KindImport   Kind = "import"
	KindFunction Kind = "function"
	KindVariable Kind = "variable"
	KindClass    Kind = "class"
)

// ImportedName is one (name, optional alias) pair from an import statement,
// e.g. "foo as f" yields {Name: "foo", Alias: "f"}.
type ImportedName struct {
	Name  string
	Alias string
}

// Declaration is one top-level entity in a source file: an import statement,
// a function definition, a class definition, or a module-level assignment.
// Kind selects the variant; the import payload fields are populated only
// when Kind == KindImport.
type Declaration struct {
	Kind Kind

	// Name is the declared name: the first imported name for imports, the
	// definition name for functions and classes, the first assignment
	// target for variables.
	Name string

	// Text is the raw source slice of the declaration, used both for
	// rendering snippets and for locating nested references.
	Text string

	// Import payload.

	// Module is the dotted module path without leading dots. Empty when
	// the import text could not be parsed into a module path.
	Module string
	// Dots is the number of leading relative-path dots in the statement.
	Dots int
	// Names lists the imported (name, alias) pairs.
	Names []ImportedName
	// Wildcard reports whether the statement imports "*".
	Wildcard bool
}

// Public reports whether the declaration is public by Python naming
// convention: a leading underscore marks it private.
func (d *Declaration) Public() bool {
	return d.Name != "" && !strings.HasPrefix(d.Name, "_")
}

// Buckets holds one file's top-level declarations partitioned by kind,
// in source order within each bucket.
type Buckets struct {
	Imports   []*Declaration
	Functions []*Declaration
	Variables []*Declaration
	Classes   []*Declaration
}

// Len returns the total number of declarations across all four buckets.
func (b *Buckets) Len() int {
	if b == nil {
		return 0
	}
	return len(b.Imports) + len(b.Functions) + len(b.Variables) + len(b.Classes)
}

// Empty reports whether every bucket is empty.
func (b *Buckets) Empty() bool {
	return b.Len() == 0
}
