package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/toyz/injector/internal/cli"
)

func newCleanCmd(root *rootOptions) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Delete generated injection modules",
		Long: "Removes files named <prefix><N>.go. Without arguments the configured\n" +
			"output directory is cleaned; a trailing /... cleans recursively.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.loadConfig(cmd)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{filepath.Join(cfg.Dir, cfg.OutputDir)}
			}

			diagnostics, err := newDiagnostics(cmd, cfg)
			if err != nil {
				return err
			}

			removed, err := cli.NewCleaner(cfg.FilePrefix, dryRun).CleanGeneratedFiles(args)
			for _, file := range removed {
				diagnostics.List("%s", file)
			}
			if err != nil {
				return err
			}

			verb := "removed"
			if dryRun {
				verb = "would remove"
			}
			diagnostics.Info("%s %d generated file(s)", verb, len(removed))
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "list files without deleting them")
	return cmd
}
