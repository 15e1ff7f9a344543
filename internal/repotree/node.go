package repotree

import "github.com/snipdex/snipdex/internal/decl"

// Node is one entry in the repository index tree: either a source file or a
// directory. Directories are pure containers; only file nodes ever carry
// declarations or resolved imports. Name and path are fixed at construction.
type Node struct {
	name   string
	path   string
	isFile bool

	// Children is populated for directory nodes only.
	Children []*Node

	// Decls holds the file's extracted declaration buckets. Nil until the
	// extraction stage runs, and always nil for directories.
	Decls *decl.Buckets

	// ResolvedImports holds the declarations pulled in from elsewhere in
	// the repository by this file's import statements.
	ResolvedImports []*decl.Declaration

	// ImportsResolved marks that the resolver has visited this node.
	// Re-resolving overwrites ResolvedImports rather than appending.
	ImportsResolved bool
}

// NewDirNode creates a directory node.
func NewDirNode(name, path string) *Node {
	return &Node{name: name, path: path}
}

// NewFileNode creates a file node.
func NewFileNode(name, path string) *Node {
	return &Node{name: name, path: path, isFile: true}
}

// Name returns the file or directory base name.
func (n *Node) Name() string { return n.name }

// Path returns the absolute path of the node.
func (n *Node) Path() string { return n.path }

// IsFile reports whether the node represents a file.
func (n *Node) IsFile() bool { return n.isFile }

// AddChild attaches a child to a directory node. Attaching to a file node
// is a programming error and panics: file nodes have no children.
func (n *Node) AddChild(child *Node) {
	if n.isFile {
		panic("repotree: cannot attach a child to a file node")
	}
	n.Children = append(n.Children, child)
}
