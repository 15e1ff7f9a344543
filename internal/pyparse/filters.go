package pyparse

import "github.com/snipdex/snipdex/internal/decl"

// ImportFilters decides which import declarations are kept for dependency
// tracing. Standard-library modules and well-known third-party packages are
// dropped. Both name sets are explicit configuration: callers may extend
// the built-in defaults, and tests can inspect the policy in isolation.
type ImportFilters struct {
	stdlib map[string]struct{}
	common map[string]struct{}
}

// NewImportFilters builds the filter sets from the documented defaults plus
// any configured extras. A nil commonPackages keeps the default list; an
// explicit empty slice disables third-party filtering entirely.
func NewImportFilters(extraStdlib, commonPackages []string) *ImportFilters {
	f := &ImportFilters{
		stdlib: make(map[string]struct{}, len(stdlibModules)+len(extraStdlib)),
		common: make(map[string]struct{}),
	}
	for _, name := range stdlibModules {
		f.stdlib[name] = struct{}{}
	}
	for _, name := range extraStdlib {
		f.stdlib[name] = struct{}{}
	}
	if commonPackages == nil {
		commonPackages = DefaultCommonPackages()
	}
	for _, name := range commonPackages {
		f.common[name] = struct{}{}
	}
	return f
}

// Apply filters a bucket of import declarations, keeping only those worth
// tracing through the repository.
func (f *ImportFilters) Apply(imports []*decl.Declaration) []*decl.Declaration {
	kept := imports[:0]
	for _, d := range imports {
		if f.Keep(d) {
			kept = append(kept, d)
		}
	}
	return kept
}

// Keep reports whether an import declaration survives filtering. Relative
// imports always survive: they point inside the repository regardless of
// what their first segment is called. A declaration whose module name could
// not be parsed is conservatively kept: failure to classify is never
// treated as standard-library membership.
func (f *ImportFilters) Keep(d *decl.Declaration) bool {
	if d.Dots > 0 {
		return true
	}
	seg := firstSegment(d.Module)
	if seg == "" {
		return true
	}
	if _, ok := f.stdlib[seg]; ok {
		return false
	}
	if _, ok := f.common[seg]; ok {
		return false
	}
	return true
}
