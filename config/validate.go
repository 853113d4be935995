package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateImport(); err != nil {
		return err
	}
	if err := c.validateMetadata(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.StillsRoot == "" {
		return errors.New("paths.stills_root must be set")
	}
	if c.Paths.VideosRoot == "" {
		return errors.New("paths.videos_root must be set")
	}
	return nil
}

func (c *Config) validateImport() error {
	switch c.Import.Mode {
	case "copy", "move":
		return nil
	}
	return fmt.Errorf("import.mode must be copy or move, got %q", c.Import.Mode)
}

func (c *Config) validateMetadata() error {
	switch c.Metadata.StillReader {
	case "goexif", "exiftool":
	default:
		return fmt.Errorf("metadata.still_reader must be goexif or exiftool, got %q", c.Metadata.StillReader)
	}
	switch c.Metadata.VideoReader {
	case "auto", "mp4", "ffprobe":
	default:
		return fmt.Errorf("metadata.video_reader must be auto, mp4 or ffprobe, got %q", c.Metadata.VideoReader)
	}
	if c.Metadata.ExpectedFrameRate <= 0 {
		return errors.New("metadata.expected_frame_rate must be positive")
	}
	if _, err := c.FallbackOffset(); err != nil {
		return fmt.Errorf("metadata.fallback_offset: %w", err)
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("metadata.timezone: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}
