package repotree

// Walk visits node and every descendant depth-first, in child order,
// calling fn for each. Every pipeline stage after tree construction is
// built on this traversal.
func Walk(node *Node, fn func(*Node)) {
	if node == nil {
		return
	}
	fn(node)
	for _, child := range node.Children {
		Walk(child, fn)
	}
}

// Size holds the result of the size-accounting pass.
type Size struct {
	Dirs  int
	Files int
}

// Total returns the combined node count.
func (s Size) Total() int { return s.Dirs + s.Files }

// Measure walks the completed tree once and counts directories and files.
// Pure read; no semantic field is touched.
func Measure(root *Node) Size {
	var s Size
	Walk(root, func(n *Node) {
		if n.IsFile() {
			s.Files++
		} else {
			s.Dirs++
		}
	})
	return s
}
