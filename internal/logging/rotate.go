package logging

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/probekit/probekit/pkg/errors"
)

// MaxLogFiles bounds how many historical log files survive a rotation pass.
const MaxLogFiles = 20

// logFileEntry is a single rotation candidate. Entries are recomputed on
// every run, nothing about them is persisted.
type logFileEntry struct {
	path    string
	created time.Time
}

// Prune deletes all but the MaxLogFiles most recent log files in dir.
//
// It must run before the current invocation creates its own file, so a
// freshly written log is never a deletion candidate in the same pass.
// Unreadable directory entries are skipped; individual deletion failures do
// not stop the remaining cleanup, the first one is reported after every
// candidate has been attempted.
func Prune(dir string) error {
	dirents, err := os.ReadDir(dir)
	if err != nil {
		return errors.NewIOError("log directory could not be read", err).WithPath(dir)
	}

	var files []logFileEntry
	for _, dirent := range dirents {
		if dirent.IsDir() || filepath.Ext(dirent.Name()) != LogSuffix {
			continue
		}
		info, err := dirent.Info()
		if err != nil {
			// Entry vanished or is unreadable; not fatal for rotation.
			continue
		}
		files = append(files, logFileEntry{
			path:    filepath.Join(dir, dirent.Name()),
			created: info.ModTime(),
		})
	}

	// Most recent first. Identical timestamps are ordered by filename,
	// descending, so the pruning decision is deterministic.
	sort.Slice(files, func(i, j int) bool {
		if files[i].created.Equal(files[j].created) {
			return files[i].path > files[j].path
		}
		return files[i].created.After(files[j].created)
	})

	var firstErr error
	for _, entry := range files[min(MaxLogFiles, len(files)):] {
		if err := os.Remove(entry.path); err != nil && firstErr == nil {
			firstErr = errors.NewIOError("stale log file could not be removed", err).WithPath(entry.path)
		}
	}
	return firstErr
}
