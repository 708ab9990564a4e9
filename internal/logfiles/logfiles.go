package logfiles

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lakshaymaurya-felt/linmole/internal/config"
	"github.com/lakshaymaurya-felt/linmole/internal/logging"
)

// File is one log file eligible for deletion.
type File struct {
	Path    string
	Size    int64
	AgeDays int
}

// Scan walks the configured log targets and returns regular files
// older than retentionDays, skipping protected paths. Unreadable
// directories are skipped, not fatal: a missing /var/log/dnf on a
// Debian box is normal.
func Scan(targets []config.LogTarget, protected []string, retentionDays int, now time.Time) []File {
	logger := logging.GetLogger("logfiles")
	cutoff := now.AddDate(0, 0, -retentionDays)

	seen := make(map[string]bool)
	var files []File

	for _, target := range targets {
		err := filepath.WalkDir(target.Dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				logger.Debug().Err(err).Str("path", path).Msg("skipping unreadable entry")
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if isProtected(path, protected) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() || !d.Type().IsRegular() {
				return nil
			}
			if seen[path] {
				return nil
			}
			if !matchesAny(filepath.Base(path), target.Patterns) {
				return nil
			}

			info, statErr := d.Info()
			if statErr != nil || !info.ModTime().Before(cutoff) {
				return nil
			}

			seen[path] = true
			files = append(files, File{
				Path:    path,
				Size:    info.Size(),
				AgeDays: int(now.Sub(info.ModTime()).Hours() / 24),
			})
			return nil
		})
		if err != nil {
			logger.Debug().Err(err).Str("target", target.Name).Msg("target walk failed")
		}
	}

	return files
}

// Remove deletes a single scanned file.
func Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("deleting %s: %w", path, err)
	}
	return nil
}

// VacuumArgs builds the journalctl arguments that drop journal entries
// older than retentionDays.
func VacuumArgs(retentionDays int) []string {
	return []string{fmt.Sprintf("--vacuum-time=%dd", retentionDays)}
}

func isProtected(path string, protected []string) bool {
	for _, p := range protected {
		if path == p || strings.HasPrefix(path, p+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func matchesAny(name string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	for _, pattern := range patterns {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
