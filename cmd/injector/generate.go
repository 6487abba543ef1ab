package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/toyz/injector/internal/cli"
	"github.com/toyz/injector/internal/processor"
	"github.com/toyz/injector/internal/utils"
	"github.com/toyz/injector/internal/writer"
)

type generateOptions struct {
	dir       string
	output    string
	pkg       string
	prefix    string
	maxRounds int
	tags      []string
	dryRun    bool
}

func newGenerateCmd(root *rootOptions) *cobra.Command {
	opts := &generateOptions{}
	cmd := &cobra.Command{
		Use:   "generate [patterns...]",
		Short: "Generate injection modules for marked types",
		Long: "Loads the packages matching the patterns (default ./...), binds every\n" +
			"type marked //inject::single whose constructor resolves, and repeats\n" +
			"until nothing is left deferred.",
		Example: "  injector generate ./...\n" +
			"  injector generate --out internal/di --package di ./internal/...\n" +
			"  injector generate --dry-run --verbose",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			opts.apply(cmd, &cfg, args)
			return runGenerate(cmd, cfg)
		},
	}

	defaults := cli.DefaultConfig()
	cmd.Flags().StringVar(&opts.dir, "dir", defaults.Dir, "directory patterns are resolved against")
	cmd.Flags().StringVar(&opts.output, "out", defaults.OutputDir, "output directory, relative to --dir")
	cmd.Flags().StringVar(&opts.pkg, "package", defaults.Package, "package name of generated modules")
	cmd.Flags().StringVar(&opts.prefix, "prefix", defaults.FilePrefix, "file name prefix of generated modules")
	cmd.Flags().IntVar(&opts.maxRounds, "max-rounds", defaults.MaxRounds, "maximum number of rounds")
	cmd.Flags().StringSliceVar(&opts.tags, "tags", nil, "build tags passed to the package loader")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "print generated modules instead of writing them")
	return cmd
}

// apply copies explicitly set flags and positional patterns over cfg
func (o *generateOptions) apply(cmd *cobra.Command, cfg *cli.Config, args []string) {
	flags := cmd.Flags()
	if flags.Changed("dir") {
		cfg.Dir = o.dir
	}
	if flags.Changed("out") {
		cfg.OutputDir = o.output
	}
	if flags.Changed("package") {
		cfg.Package = o.pkg
	}
	if flags.Changed("prefix") {
		cfg.FilePrefix = o.prefix
	}
	if flags.Changed("max-rounds") {
		cfg.MaxRounds = o.maxRounds
	}
	if flags.Changed("tags") {
		cfg.BuildTags = o.tags
	}
	if flags.Changed("dry-run") {
		cfg.DryRun = o.dryRun
	}
	if len(args) > 0 {
		cfg.Patterns = args
	}
}

func runGenerate(cmd *cobra.Command, cfg cli.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !filepath.IsAbs(cfg.OutputDir) {
		cfg.OutputDir = filepath.Join(cfg.Dir, cfg.OutputDir)
	}

	diagnostics, err := newDiagnostics(cmd, cfg)
	if err != nil {
		return err
	}
	logger, closeLogger, err := newLogger(cfg, diagnostics)
	if err != nil {
		return err
	}
	defer closeLogger()

	diagnostics.Header("generating injection modules")
	host, err := cli.InitializeHost(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize generator: %w", err)
	}
	diagnostics.Verbose("module %s, output package %s", host.Target.Module.Path, host.Target.ImportPath)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	summary, runErr := host.Driver.Run(ctx)
	if summary != nil {
		printSummary(diagnostics, summary)
		if store, ok := host.Store.(*writer.MemoryStore); ok {
			printDryRun(cmd, store)
		}
	}
	if runErr != nil {
		return report(cmd, cfg, logger, runErr)
	}

	diagnostics.GenerationComplete()
	return nil
}

// newLogger picks the sink rounds log to: zap JSON records or the console
func newLogger(cfg cli.Config, diagnostics *utils.DiagnosticSystem) (processor.Logger, func(), error) {
	if !cfg.JSON {
		return diagnostics, func() {}, nil
	}
	sink, err := utils.NewJSONSink(diagnostics.Level())
	if err != nil {
		return nil, nil, err
	}
	return sink, func() { _ = sink.Sync() }, nil
}

func printSummary(diagnostics *utils.DiagnosticSystem, summary *cli.Summary) {
	if diagnostics.Level() >= utils.DiagnosticVerbose {
		for _, file := range summary.Replaced {
			diagnostics.Verbose("replaced %s", file)
		}
		for _, file := range summary.Files() {
			diagnostics.PhaseItem(file)
		}
	}
	keys := []string{"Rounds", "Modules", "Bindings", "Unresolved", "Duration"}
	diagnostics.Summary("Summary", keys, map[string]interface{}{
		"Rounds":     summary.Rounds,
		"Modules":    len(summary.Modules),
		"Bindings":   summary.Bindings,
		"Unresolved": summary.Unresolved,
		"Duration":   summary.Duration.Round(time.Millisecond),
	})
}

func printDryRun(cmd *cobra.Command, store *writer.MemoryStore) {
	out := cmd.OutOrStdout()
	for _, name := range store.Names() {
		content, _ := store.File(name)
		fmt.Fprintf(out, "// %s\n%s\n", name, content)
	}
}

// report prints run diagnostics and returns errReported so main stays quiet
func report(cmd *cobra.Command, cfg cli.Config, logger processor.Logger, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}
	if cfg.JSON {
		logger.Error("%v", err)
		return errReported
	}
	cli.NewDiagnosticReporter(cmd.ErrOrStderr(), cfg.Level == "verbose" || cfg.Level == "debug").ReportError(err)
	return errReported
}
