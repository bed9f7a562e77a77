package eventlog

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Mavwarf/iconbundle/internal/paths"
)

// FileStore implements Store using a flat log file.
type FileStore struct {
	path string
}

// NewFileStore returns a FileStore that reads and writes the given log file.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// openLog opens (or creates) the log file for appending, creating the
// parent directory if needed.
func (f *FileStore) openLog() (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(f.path), paths.DirPerm); err != nil {
		return nil, err
	}
	return os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, paths.FilePerm)
}

// Log appends one line per run.
func (f *FileStore) Log(e Entry) error {
	file, err := f.openLog()
	if err != nil {
		return err
	}
	defer file.Close()

	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	_, err = fmt.Fprintln(file, FormatEntry(e))
	return err
}

func (f *FileStore) Entries(limit int) ([]Entry, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return tail(ParseEntries(string(data)), limit), nil
}

func (f *FileStore) Path() string { return f.path }

func (f *FileStore) Close() error { return nil }

// tail returns the last limit entries, or all of them when limit <= 0.
func tail(entries []Entry, limit int) []Entry {
	if limit > 0 && len(entries) > limit {
		return entries[len(entries)-limit:]
	}
	return entries
}
