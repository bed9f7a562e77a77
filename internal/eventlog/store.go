package eventlog

import "time"

// Entry is one recorded generator run.
type Entry struct {
	Time      time.Time
	Outcome   string // "ok" | "missing" | "icns_failed" | "failed"
	Source    string
	SourceSum string // hex sha256, empty when the source was missing
	ICO       string
	ICNS      string
	Detail    string // error text for failed runs
}

// Store abstracts run history storage. FileStore keeps a flat log file,
// SQLiteStore a database; both live in paths.DataDir() by default.
type Store interface {
	Log(e Entry) error
	Entries(limit int) ([]Entry, error) // newest last, 0 = all
	Path() string
	Close() error
}
