package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"

	"github.com/snipdex/snipdex/internal/config"
	"github.com/snipdex/snipdex/internal/decl"
	"github.com/snipdex/snipdex/internal/depgraph"
	"github.com/snipdex/snipdex/internal/emit"
	"github.com/snipdex/snipdex/internal/objtable"
	"github.com/snipdex/snipdex/internal/repotree"
	"github.com/snipdex/snipdex/internal/resolve"
	"github.com/snipdex/snipdex/internal/snippet"
)

// Report summarizes one pipeline run.
type Report struct {
	RunID       string         `json:"run_id"`
	Root        string         `json:"root"`
	Dirs        int            `json:"dirs"`
	Files       int            `json:"files"`
	FailedFiles int            `json:"failed_files"`
	Snippets    int            `json:"snippets"`
	Graph       depgraph.Stats `json:"graph"`
	Elapsed     time.Duration  `json:"elapsed"`
}

// Runner executes the indexing pipeline: tree, size accounting,
// extraction, object table, import resolution, snippet assembly, emission.
// The stage order is a hard precondition, not a convention: resolution
// performs point lookups into a table assumed complete, and a partial table
// yields silently empty results.
type Runner struct {
	cfg     *config.Config
	backend Backend
	log     *slog.Logger
	quiet   bool
}

// New creates a pipeline runner. The language backend is looked up here,
// before any traversal: an unregistered key fails immediately with
// ErrInvalidConfiguration, as does a missing repository root setting.
func New(cfg *config.Config, log *slog.Logger, quiet bool) (*Runner, error) {
	if cfg.Repo.Root == "" {
		return nil, fmt.Errorf("%w: repository root is required", ErrInvalidConfiguration)
	}
	backend, err := newBackend(cfg.Repo.Language, cfg, log)
	if err != nil {
		return nil, err
	}
	return &Runner{cfg: cfg, backend: backend, log: log, quiet: quiet}, nil
}

// Run executes one full batch run over the repository.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	started := time.Now()
	report := &Report{
		RunID: uuid.NewString(),
		Root:  r.cfg.Repo.Root,
	}

	// Stage 1: repository tree.
	builder, err := repotree.NewBuilder(r.backend.SourceExt(), r.backend.RecognizedExts(), r.cfg.Repo.Ignore, r.log)
	if err != nil {
		return nil, err
	}
	tree, err := builder.Build(r.cfg.Repo.Root)
	if err != nil {
		return nil, err
	}

	// Stage 2: size accounting.
	size := repotree.Measure(tree)
	report.Dirs, report.Files = size.Dirs, size.Files
	r.log.Info("repository tree built", "dirs", size.Dirs, "files", size.Files)

	// Stage 3: per-file declaration extraction.
	if err := r.extract(ctx, tree, size.Files, report); err != nil {
		return nil, err
	}

	if r.log.Enabled(ctx, slog.LevelDebug) {
		r.log.Debug("extracted repository tree\n" + repotree.Render(tree))
	}

	// Stage 4: repository-wide object table.
	table := objtable.Build(tree)

	// Stage 5: relative import resolution.
	resolver := resolve.New(table, tree.Path(), r.backend.SourceExt(), r.log)
	resolver.ResolveTree(tree)

	// Stage 6: snippet assembly.
	assembler := snippet.NewAssembler(r.log)
	var records []snippet.Record
	repotree.Walk(tree, func(n *repotree.Node) {
		for _, s := range assembler.AssembleFile(n) {
			records = append(records, s.ToRecord())
		}
	})
	report.Snippets = len(records)

	_, report.Graph = depgraph.Build(resolver.Edges())

	if err := emit.WriteJSONL(r.cfg.Output.Path, records); err != nil {
		return nil, fmt.Errorf("emit snippet records: %w", err)
	}

	report.Elapsed = time.Since(started)
	r.log.Info("run complete",
		"run_id", report.RunID,
		"snippets", report.Snippets,
		"failed_files", report.FailedFiles,
		"elapsed", report.Elapsed)
	return report, nil
}

// extract walks the tree and fills each file node's declaration buckets.
// A parse failure is isolated to its file: the node keeps empty buckets, a
// warning is logged, and the run continues.
func (r *Runner) extract(ctx context.Context, tree *repotree.Node, fileCount int, report *Report) error {
	var bar *progressbar.ProgressBar
	if !r.quiet {
		bar = progressbar.Default(int64(fileCount), "extracting")
	}

	var ctxErr error
	repotree.Walk(tree, func(n *repotree.Node) {
		if ctxErr != nil || !n.IsFile() {
			return
		}
		if err := ctx.Err(); err != nil {
			ctxErr = err
			return
		}

		buckets, err := r.backend.ExtractFile(n.Path())
		if err != nil {
			r.log.Warn("extraction failed, skipping file", "file", n.Path(), "error", err)
			buckets = &decl.Buckets{}
			report.FailedFiles++
		}
		n.Decls = buckets

		if bar != nil {
			_ = bar.Add(1)
		}
	})
	if bar != nil {
		_ = bar.Finish()
	}
	return ctxErr
}
