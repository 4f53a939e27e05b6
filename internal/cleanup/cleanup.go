// Package cleanup removes stored files past a retention window. It operates
// directly on the flat storage directory, independent of the running server.
package cleanup

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"
)

// Sweep removes every regular file in dir whose modification time is older
// than maxAge and returns how many were (or would be) removed. With dryRun
// set, candidates are only logged. Unreadable entries are skipped with a log
// line rather than aborting the whole sweep.
func Sweep(dir string, maxAge time.Duration, dryRun bool) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read storage dir %q: %w", dir, err)
	}

	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		info, err := entry.Info()
		if err != nil {
			log.Printf("skipping %s: %v", entry.Name(), err)
			continue
		}
		if !info.Mode().IsRegular() {
			log.Printf("skipping %s: not a regular file", entry.Name())
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}

		if dryRun {
			log.Printf("would remove %s", entry.Name())
			removed++
			continue
		}
		if err := os.Remove(filepath.Join(dir, entry.Name())); err != nil {
			log.Printf("failed to remove %s: %v", entry.Name(), err)
			continue
		}
		removed++
	}
	return removed, nil
}
