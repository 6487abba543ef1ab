package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/toyz/injector/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	prefix string
	dryRun bool
}

// NewCleaner creates a cleaner for files named prefix<N>.go
func NewCleaner(prefix string, dryRun bool) *Cleaner {
	return &Cleaner{prefix: prefix, dryRun: dryRun}
}

// CleanGeneratedFiles removes generated modules from the given directories.
// A directory ending in /... is cleaned recursively. It returns the files
// removed, or that would be removed in a dry run.
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	var removed []string
	for _, dir := range directories {
		files, err := c.find(dir)
		if err != nil {
			return removed, fmt.Errorf("failed to clean directory %s: %w", dir, err)
		}
		for _, file := range files {
			if !c.dryRun {
				if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
					return removed, fmt.Errorf("failed to remove file %s: %w", file, err)
				}
			}
			removed = append(removed, file)
		}
	}
	return removed, nil
}

func (c *Cleaner) find(dir string) ([]string, error) {
	if base, ok := strings.CutSuffix(dir, "/..."); ok {
		if base == "" {
			base = "."
		}
		return utils.WalkGeneratedFiles(base, c.prefix)
	}
	return utils.GeneratedFiles(dir, c.prefix)
}
