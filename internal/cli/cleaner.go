package cli

import (
	"path/filepath"

	"github.com/toyz/actiongen/internal/generator"
	"github.com/toyz/actiongen/internal/utils"
	"github.com/toyz/actiongen/internal/utils/fileops"
)

// Cleaner removes generated files
type Cleaner struct {
	fileOps     *fileops.FileOps
	diagnostics *utils.DiagnosticSystem
}

// NewCleaner creates a new cleaner
func NewCleaner(diagnostics *utils.DiagnosticSystem) *Cleaner {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &Cleaner{
		fileOps:     fileops.NewFileOps(),
		diagnostics: diagnostics,
	}
}

// Clean removes the files of dir whose first line carries a stamp and returns
// their paths. Other files and subdirectories are left alone. A missing
// directory is not an error.
func (c *Cleaner) Clean(dir string) ([]string, error) {
	if !c.fileOps.IsDir(dir) {
		c.diagnostics.Verbose("Nothing to clean in %s", dir)
		return nil, nil
	}

	entries, err := c.fileOps.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var removed []string
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		line, err := c.fileOps.ReadFirstLine(path)
		if err != nil {
			return removed, err
		}
		if !generator.IsGenerated(line) {
			continue
		}
		if err := c.fileOps.RemoveFile(path); err != nil {
			return removed, err
		}
		c.diagnostics.Progress("Removed %s", entry.Name())
		removed = append(removed, path)
	}
	return removed, nil
}
