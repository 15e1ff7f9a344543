package repotree

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// ErrPathNotFound reports that the repository root, or a directory inside
// it, did not exist at the time of traversal. It aborts the whole run.
var ErrPathNotFound = errors.New("path not found")

// internalPrefix marks language-internal housekeeping entries such as
// __pycache__ and __init__.py. They never enter the tree.
const internalPrefix = "__"

// Builder walks a directory hierarchy and produces the index tree. File
// nodes are attached for the backend's source extension; recognized but
// unimplemented extensions are skipped with a warning.
type Builder struct {
	sourceExt     string
	recognizedExt []string
	ignore        []glob.Glob
	log           *slog.Logger
}

// NewBuilder creates a tree builder. sourceExt is the supported source
// extension (".py"); recognizedExts lists extensions that are known but not
// parseable (".ipynb"); ignorePatterns are glob patterns, matched against
// the path relative to the root, whose matches are excluded from the tree.
func NewBuilder(sourceExt string, recognizedExts, ignorePatterns []string, log *slog.Logger) (*Builder, error) {
	b := &Builder{
		sourceExt:     sourceExt,
		recognizedExt: recognizedExts,
		log:           log,
	}
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("compile ignore pattern %q: %w", pattern, err)
		}
		b.ignore = append(b.ignore, g)
	}
	return b, nil
}

// Build constructs the full tree rooted at rootPath. The root itself is
// always a directory node.
func (b *Builder) Build(rootPath string) (*Node, error) {
	abs, err := filepath.Abs(rootPath)
	if err != nil {
		return nil, fmt.Errorf("resolve root path %q: %w", rootPath, err)
	}
	root := NewDirNode(filepath.Base(abs), abs)
	if err := b.build(root, abs); err != nil {
		return nil, err
	}
	return root, nil
}

func (b *Builder) build(node *Node, rootPath string) error {
	entries, err := os.ReadDir(node.Path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrPathNotFound, node.Path())
		}
		return fmt.Errorf("read directory %s: %w", node.Path(), err)
	}

	for _, entry := range entries {
		name := entry.Name()
		stem := strings.TrimSuffix(name, filepath.Ext(name))
		if strings.HasPrefix(stem, internalPrefix) {
			continue
		}

		path := filepath.Join(node.Path(), name)
		if b.ignored(rootPath, path) {
			continue
		}

		if entry.IsDir() {
			child := NewDirNode(name, path)
			node.AddChild(child)
			if err := b.build(child, rootPath); err != nil {
				return err
			}
			continue
		}

		switch ext := filepath.Ext(name); {
		case ext == b.sourceExt:
			node.AddChild(NewFileNode(name, path))
		case b.recognized(ext):
			b.log.Warn("unsupported file kind, skipping", "file", path, "ext", ext)
		}
	}
	return nil
}

// ignored matches the path, relative to the root, against the configured
// ignore globs.
func (b *Builder) ignored(rootPath, path string) bool {
	if len(b.ignore) == 0 {
		return false
	}
	rel, err := filepath.Rel(rootPath, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, g := range b.ignore {
		if g.Match(rel) {
			return true
		}
	}
	return false
}

func (b *Builder) recognized(ext string) bool {
	for _, r := range b.recognizedExt {
		if ext == r {
			return true
		}
	}
	return false
}
