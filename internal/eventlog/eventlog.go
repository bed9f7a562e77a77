// Package eventlog records generator runs so a build pipeline can tell
// when the icon bundles last changed and why a run failed.
package eventlog

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/Mavwarf/iconbundle/internal/config"
	"github.com/Mavwarf/iconbundle/internal/paths"
)

// Open returns the store selected by cfg.Options.LogStore, rooted at dir.
// An empty dir means paths.DataDir().
func Open(cfg config.Config, dir string) (Store, error) {
	if dir == "" {
		dir = paths.DataDir()
	}
	switch cfg.Options.LogStore {
	case config.StoreSQLite:
		return NewSQLiteStore(filepath.Join(dir, paths.DBFileName))
	case config.StoreFile, "":
		return NewFileStore(filepath.Join(dir, paths.LogFileName)), nil
	default:
		return nil, fmt.Errorf("unknown log store %q", cfg.Options.LogStore)
	}
}

// Record logs e to s. Errors are printed to w but never returned; logging
// is best-effort.
func Record(s Store, e Entry, w io.Writer) {
	if err := s.Log(e); err != nil {
		fmt.Fprintf(w, "eventlog: %v\n", err)
	}
}
