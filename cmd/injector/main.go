package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/toyz/injector/internal/cli"
	"github.com/toyz/injector/internal/utils"
)

// errReported means the failure was already printed
var errReported = errors.New("errors reported")

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		}
		os.Exit(1)
	}
}

// rootOptions are the flags every subcommand shares
type rootOptions struct {
	configPath string
	verbose    bool
	quiet      bool
	json       bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "injector",
		Short: "Incremental dependency injection code generator",
		Long: "Scans Go packages for //inject::single markers and writes one numbered\n" +
			"injection module per round that binds each marked type as a singleton.",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.verbose && opts.quiet {
				return errors.New("--verbose and --quiet cannot be used together")
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: "+cli.DefaultConfigFile+" when present)")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "enable verbose output and detailed error reporting")
	cmd.PersistentFlags().BoolVar(&opts.quiet, "quiet", false, "only show errors")
	cmd.PersistentFlags().BoolVar(&opts.json, "json", false, "emit diagnostics as JSON records")

	cmd.AddCommand(newGenerateCmd(opts))
	cmd.AddCommand(newCleanCmd(opts))
	return cmd
}

// loadConfig reads the config file and applies the shared flags over it
func (o *rootOptions) loadConfig(cmd *cobra.Command) (cli.Config, error) {
	cfg, err := cli.LoadConfig(o.configPath)
	if err != nil {
		return cfg, err
	}
	if cmd.Flags().Changed("json") {
		cfg.JSON = o.json
	}
	switch {
	case o.verbose:
		cfg.Level = "verbose"
	case o.quiet:
		cfg.Level = "error"
	}
	return cfg, nil
}

// newDiagnostics builds console output bound to the command's writers
func newDiagnostics(cmd *cobra.Command, cfg cli.Config) (*utils.DiagnosticSystem, error) {
	level, err := utils.ParseDiagnosticLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	diagnostics := utils.NewDiagnosticSystem(level)
	if out, errOut := cmd.OutOrStdout(), cmd.ErrOrStderr(); !isStd(out, os.Stdout) || !isStd(errOut, os.Stderr) {
		diagnostics.SetOutput(out, errOut)
	}
	return diagnostics, nil
}

func isStd(w io.Writer, f *os.File) bool {
	file, ok := w.(*os.File)
	return ok && file == f
}
