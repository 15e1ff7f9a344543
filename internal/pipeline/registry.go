package pipeline

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/snipdex/snipdex/internal/config"
	"github.com/snipdex/snipdex/internal/decl"
	"github.com/snipdex/snipdex/internal/pyparse"
)

// ErrInvalidConfiguration reports a configuration the pipeline cannot be
// constructed from, such as an unregistered language backend key. It is
// raised before any traversal starts.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Backend is the language-specific half of the pipeline: it knows which
// file extensions belong to the language and how to extract one file's
// declarations. The tree, table, resolution, and snippet stages are all
// language-independent.
type Backend interface {
	// Name returns the registry key.
	Name() string

	// SourceExt returns the supported source extension, e.g. ".py".
	SourceExt() string

	// RecognizedExts lists extensions that are recognized but not
	// parseable; files carrying them are skipped with a warning.
	RecognizedExts() []string

	// ExtractFile parses one source file into declaration buckets.
	ExtractFile(path string) (*decl.Buckets, error)
}

type backendFactory func(cfg *config.Config, log *slog.Logger) Backend

// backends is the registry of language backends. Python is the only
// registered backend today.
var backends = map[string]backendFactory{
	"python": newPythonBackend,
}

// newBackend instantiates the backend registered under key.
func newBackend(key string, cfg *config.Config, log *slog.Logger) (Backend, error) {
	factory, ok := backends[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown language backend %q", ErrInvalidConfiguration, key)
	}
	return factory(cfg, log), nil
}

// pythonBackend adapts the pyparse extractor to the Backend interface.
type pythonBackend struct {
	extractor *pyparse.Extractor
}

func newPythonBackend(cfg *config.Config, log *slog.Logger) Backend {
	filters := pyparse.NewImportFilters(cfg.Filters.ExtraStdlib, cfg.Filters.CommonPackages)
	return &pythonBackend{
		extractor: pyparse.NewExtractor(filters, log),
	}
}

func (b *pythonBackend) Name() string { return "python" }

func (b *pythonBackend) SourceExt() string { return ".py" }

func (b *pythonBackend) RecognizedExts() []string { return []string{".ipynb"} }

func (b *pythonBackend) ExtractFile(path string) (*decl.Buckets, error) {
	return b.extractor.ExtractFile(path)
}
