package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/Mavwarf/iconbundle/internal/paths"
)

// Run log backends.
const (
	StoreFile   = "file"
	StoreSQLite = "sqlite"
)

// Options holds global settings parsed from the "config" key.
type Options struct {
	Log      bool   `json:"log,omitempty"`
	LogStore string `json:"log_store,omitempty"` // "file" | "sqlite"
}

// Config names the source image, the two bundle outputs and run options.
type Config struct {
	Source  string  `json:"source"`
	ICO     string  `json:"ico"`
	ICNS    string  `json:"icns"`
	Options Options `json:"config"`
}

// Default returns the build/ layout used when no config file is given.
func Default() Config {
	return Config{
		Source:  paths.DefaultSource,
		ICO:     paths.DefaultICO,
		ICNS:    paths.DefaultICNS,
		Options: Options{LogStore: StoreFile},
	}
}

// UnmarshalJSON sets defaults then decodes the JSON structure.
// Go's json.Unmarshal merges into existing struct fields, so only
// values present in JSON override the defaults.
func (c *Config) UnmarshalJSON(data []byte) error {
	*c = Default()
	type Alias Config
	return json.Unmarshal(data, (*Alias)(c))
}

// Validate reports the first problem with cfg, if any.
func (c Config) Validate() error {
	if c.Source == "" {
		return errors.New("source path is empty")
	}
	if c.ICO == "" {
		return errors.New("ico output path is empty")
	}
	if c.ICNS == "" {
		return errors.New("icns output path is empty")
	}
	switch c.Options.LogStore {
	case "", StoreFile, StoreSQLite:
	default:
		return fmt.Errorf("unknown log_store %q (want %q or %q)", c.Options.LogStore, StoreFile, StoreSQLite)
	}
	return nil
}

// Load reads and parses a config file. It tries, in order:
//  1. explicitPath (if non-empty)
//  2. iconbundle-config.json in the working directory
//
// With neither present it returns Default().
func Load(explicitPath string) (Config, error) {
	if explicitPath != "" {
		return readConfig(explicitPath)
	}
	if paths.Exists(paths.ConfigFileName) {
		return readConfig(paths.ConfigFileName)
	}
	return Default(), nil
}

func readConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}
