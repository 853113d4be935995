package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Paths holds the library roots and the state directory
type Paths struct {
	StillsRoot string `toml:"stills_root"`
	VideosRoot string `toml:"videos_root"`
	StateDir   string `toml:"state_dir"` // journal database and import lock
}

// Import controls how files reach the libraries
type Import struct {
	Mode      string `toml:"mode"` // copy | move
	Overwrite bool   `toml:"overwrite"`
}

// Metadata selects the readers and how their values are interpreted
type Metadata struct {
	StillReader       string  `toml:"still_reader"` // goexif | exiftool
	VideoReader       string  `toml:"video_reader"` // auto | mp4 | ffprobe
	Timezone          string  `toml:"timezone"`
	ExpectedFrameRate float64 `toml:"expected_frame_rate"`
	FallbackOffset    string  `toml:"fallback_offset"`
}

// Logging contains configuration for log output
type Logging struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console | json
}

// Config encapsulates all configuration values for mediaimport.
//
// Configuration sections:
//   - Paths: library roots and state directory
//   - Import: copy or move, overwrite policy
//   - Metadata: reader selection, timezone and video fallback tuning
//   - Logging: log level and format
type Config struct {
	Paths    Paths    `toml:"paths"`
	Import   Import   `toml:"import"`
	Metadata Metadata `toml:"metadata"`
	Logging  Logging  `toml:"logging"`
}

const defaultConfigPath = "~/.config/mediaimport/config.toml"

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load parses the configuration file at path, or the default location when path is empty.
// A missing file yields the defaults. The returned config has all path fields expanded.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config %s: %w", resolvedPath, err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = defaultConfigPath
	}
	expanded, err := expandPath(path)
	if err != nil {
		return "", false, err
	}

	info, err := os.Stat(expanded)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return expanded, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path %s is a directory", expanded)
	}
	return expanded, true, nil
}

// Location returns the zone wall-clock metadata is interpreted in
func (c *Config) Location() (*time.Location, error) {
	if c.Metadata.Timezone == "" || strings.EqualFold(c.Metadata.Timezone, "local") {
		return time.Local, nil
	}
	return time.LoadLocation(c.Metadata.Timezone)
}

// FallbackOffset returns the parsed video fallback offset
func (c *Config) FallbackOffset() (time.Duration, error) {
	return time.ParseDuration(c.Metadata.FallbackOffset)
}

// JournalPath is the sqlite database recording committed batches
func (c *Config) JournalPath() string {
	return filepath.Join(c.Paths.StateDir, "journal.db")
}

// LockPath is the file locked for the duration of a commit
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.StateDir, "import.lock")
}

// EnsureStateDir creates the state directory
func (c *Config) EnsureStateDir() error {
	if err := os.MkdirAll(c.Paths.StateDir, 0o755); err != nil {
		return fmt.Errorf("create state directory %q: %w", c.Paths.StateDir, err)
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}

// ExpandPath applies the same home and absolute path rules as the config file to a flag value
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}
