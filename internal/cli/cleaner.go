package cli

import (
	"os"
	"path/filepath"

	"github.com/toyz/autoinject/internal/errors"
	"github.com/toyz/autoinject/internal/utils"
)

// Cleaner handles cleaning up generated files
type Cleaner struct {
	fileProcessor *utils.FileProcessor
}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{
		fileProcessor: utils.NewFileProcessor(),
	}
}

// CleanGeneratedFiles removes every generated registration file reached by
// patterns, resolved against baseDir, and returns the removed paths
func (c *Cleaner) CleanGeneratedFiles(baseDir string, patterns []string) ([]string, error) {
	var removed []string

	for _, pattern := range patterns {
		dir, recursive := SplitPattern(pattern)
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(baseDir, dir)
		}
		if _, err := os.Stat(dir); err != nil {
			return removed, errors.WrapFileSystemError("clean", dir, err)
		}

		files, err := c.fileProcessor.CleanGenerated(dir, recursive)
		removed = append(removed, files...)
		if err != nil {
			return removed, err
		}
	}

	return removed, nil
}
