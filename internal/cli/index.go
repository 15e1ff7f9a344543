package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/snipdex/snipdex/internal/config"
	"github.com/snipdex/snipdex/internal/pipeline"
	"github.com/snipdex/snipdex/internal/slogutil"
)

var (
	rootFlag     string
	outputFlag   string
	languageFlag string
	quietFlag    bool
	watchFlag    bool
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index a repository and emit snippet records",
	Long: `Index builds the repository tree, extracts top-level declarations from
every source file, resolves relative imports across files, and writes one
JSONL record per public declaration with its traced dependencies.

Examples:
  # Index a repository
  snipdex index --root /path/to/repo

  # Write records somewhere specific
  snipdex index --root . --output out/snippets.jsonl

  # Re-run automatically on changes
  snipdex index --root . --watch
`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().StringVar(&rootFlag, "root", "", "repository root to index")
	indexCmd.Flags().StringVar(&outputFlag, "output", "", "output JSONL path")
	indexCmd.Flags().StringVar(&languageFlag, "language", "", "language backend (default \"python\")")
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "disable progress output")
	indexCmd.Flags().BoolVarP(&watchFlag, "watch", "w", false, "watch for changes and re-run")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if rootFlag != "" {
		cfg.Repo.Root = rootFlag
	}
	if outputFlag != "" {
		cfg.Output.Path = outputFlag
	}
	if languageFlag != "" {
		cfg.Repo.Language = languageFlag
	}

	level := slogutil.LevelFromString(cfg.Logging.Level)
	if verbose {
		level = slogutil.LevelFromString("debug")
	}
	log := slogutil.New(os.Stderr, level)

	runner, err := pipeline.New(cfg, log, quietFlag)
	if err != nil {
		return err
	}

	if watchFlag {
		watcher := pipeline.NewWatcher(runner, cfg.Watch.Debounce, log)
		if err := watcher.Watch(ctx); err != nil && ctx.Err() == nil {
			return err
		}
		return nil
	}

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if !quietFlag {
		fmt.Printf("indexed %d files (%d dirs), %d snippets -> %s\n",
			report.Files, report.Dirs, report.Snippets, cfg.Output.Path)
	}
	return nil
}
