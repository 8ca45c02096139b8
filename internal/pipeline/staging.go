package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
)

// Staging collects a run's output files in a hidden directory next to the
// final ones. Commit moves them into place; until then the output directory
// still holds the previous run's files.
type Staging struct {
	dir    string
	final  string
	rename func(oldpath, newpath string) error
}

// NewStaging creates a staging directory under outputDir.
func NewStaging(outputDir string) (*Staging, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	dir, err := os.MkdirTemp(outputDir, ".staging-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create staging directory: %w", err)
	}
	return &Staging{dir: dir, final: outputDir, rename: os.Rename}, nil
}

// Path returns where a file named name is staged.
func (s *Staging) Path(name string) string {
	return filepath.Join(s.dir, name)
}

// FinalPath returns where a file named name lands after Commit.
func (s *Staging) FinalPath(name string) string {
	return filepath.Join(s.final, name)
}

// Commit renames every staged file into the output directory and removes
// the staging directory. Files it replaces are parked in the staging
// directory first; if any rename fails they are restored, so the output
// directory holds either the whole new set or the previous one.
func (s *Staging) Commit() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return fmt.Errorf("failed to list staged files: %w", err)
	}
	backup := filepath.Join(s.dir, ".previous")
	if err := os.Mkdir(backup, 0755); err != nil {
		return fmt.Errorf("failed to create backup directory: %w", err)
	}

	var moved []string
	for _, e := range entries {
		name := e.Name()
		moved = append(moved, name)
		if _, err := os.Lstat(s.FinalPath(name)); err == nil {
			if err := s.rename(s.FinalPath(name), filepath.Join(backup, name)); err != nil {
				s.rollback(moved, backup)
				return fmt.Errorf("failed to replace %s: %w", name, err)
			}
		}
		if err := s.rename(s.Path(name), s.FinalPath(name)); err != nil {
			s.rollback(moved, backup)
			return fmt.Errorf("failed to publish %s: %w", name, err)
		}
	}
	return os.RemoveAll(s.dir)
}

// rollback removes published files and restores the ones they replaced.
func (s *Staging) rollback(names []string, backup string) {
	for i := len(names) - 1; i >= 0; i-- {
		name := names[i]
		previous := filepath.Join(backup, name)
		if _, err := os.Lstat(previous); err != nil {
			if _, staged := os.Lstat(s.Path(name)); staged != nil {
				_ = os.RemoveAll(s.FinalPath(name))
			}
			continue
		}
		_ = os.RemoveAll(s.FinalPath(name))
		_ = os.Rename(previous, s.FinalPath(name))
	}
}

// Discard removes the staging directory and everything in it.
func (s *Staging) Discard() error {
	return os.RemoveAll(s.dir)
}
