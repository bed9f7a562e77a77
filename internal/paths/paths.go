package paths

import (
	"os"
	"path/filepath"
)

const (
	AppDirName     = "iconbundle"
	ConfigFileName = "iconbundle-config.json"
	LogFileName    = "iconbundle.log"
	DBFileName     = "iconbundle.db"
	DirPerm        = 0755
	FilePerm       = 0644
)

// Default build locations, relative to the working directory.
const (
	DefaultSource = "build/icon.png"
	DefaultICO    = "build/icon.ico"
	DefaultICNS   = "build/icon.icns"
)

// AtomicWrite writes data to path via a temporary file + rename to avoid
// partial writes. The parent directory is created if needed.
func AtomicWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, FilePerm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// Exists reports whether path names an existing file or directory.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// DataDir returns the platform-specific data directory for iconbundle:
//   - Windows: %APPDATA%\iconbundle
//   - Unix:    ~/.config/iconbundle
//
// Falls back to os.TempDir()/iconbundle if neither is available.
func DataDir() string {
	if appdata := os.Getenv("APPDATA"); appdata != "" {
		return filepath.Join(appdata, AppDirName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), AppDirName)
	}
	return filepath.Join(home, ".config", AppDirName)
}
