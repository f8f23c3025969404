// Package pathutil provides path helpers shared by the writers of pathways
// output files.
package pathutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pathways-sim/pathways/internal/constants"
)

// RedactPath reduces a full path to .../<parent>/<basename> for safe error messages.
// For example, "/home/user/.pathways/pathways.db" becomes ".../.pathways/pathways.db".
func RedactPath(path string) string {
	if path == "" {
		return ""
	}
	cleaned := filepath.Clean(path)
	dir := filepath.Dir(cleaned)
	base := filepath.Base(cleaned)
	parent := filepath.Base(dir)
	if parent == "." || parent == string(filepath.Separator) {
		return base
	}
	return ".../" + parent + "/" + base
}

// LocalDataDir returns the .pathways directory for the given project root.
func LocalDataDir(projectRoot string) string {
	return filepath.Join(projectRoot, constants.DataDirName)
}

// DefaultDBPath returns the experiment database path for the given project root.
func DefaultDBPath(projectRoot string) string {
	return filepath.Join(LocalDataDir(projectRoot), constants.DatabaseFileName)
}

// EnsureParentDir creates the directory that will hold path.
func EnsureParentDir(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", RedactPath(dir), err)
	}
	return nil
}
