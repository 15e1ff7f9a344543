package objtable

import (
	"github.com/snipdex/snipdex/internal/decl"
	"github.com/snipdex/snipdex/internal/repotree"
)

// Entry is one declaration flattened out of a file's buckets.
type Entry struct {
	Kind decl.Kind
	Name string
	Decl *decl.Declaration
}

// Table is the repository-wide object index: absolute file path to that
// file's ordered declaration list. It is built once after extraction and
// read-only during resolution.
type Table map[string][]Entry

// Build walks the fully extracted tree depth-first and flattens each file
// node's buckets into ordered entries. Directory nodes contribute nothing.
// Files belong to the table even when extraction left them empty.
func Build(root *repotree.Node) Table {
	table := make(Table)
	repotree.Walk(root, func(n *repotree.Node) {
		if !n.IsFile() {
			return
		}
		table[n.Path()] = flatten(n.Decls)
	})
	return table
}

// flatten lists a file's declarations bucket by bucket: imports, functions,
// variables, classes.
func flatten(buckets *decl.Buckets) []Entry {
	if buckets == nil {
		return []Entry{}
	}
	entries := make([]Entry, 0, buckets.Len())
	for _, d := range buckets.Imports {
		entries = append(entries, Entry{Kind: decl.KindImport, Name: d.Name, Decl: d})
	}
	for _, d := range buckets.Functions {
		entries = append(entries, Entry{Kind: decl.KindFunction, Name: d.Name, Decl: d})
	}
	for _, d := range buckets.Variables {
		entries = append(entries, Entry{Kind: decl.KindVariable, Name: d.Name, Decl: d})
	}
	for _, d := range buckets.Classes {
		entries = append(entries, Entry{Kind: decl.KindClass, Name: d.Name, Decl: d})
	}
	return entries
}
