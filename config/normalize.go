package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeImport()
	c.normalizeMetadata()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StillsRoot, err = expandPath(strings.TrimSpace(c.Paths.StillsRoot)); err != nil {
		return fmt.Errorf("paths.stills_root: %w", err)
	}
	if c.Paths.VideosRoot, err = expandPath(strings.TrimSpace(c.Paths.VideosRoot)); err != nil {
		return fmt.Errorf("paths.videos_root: %w", err)
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeImport() {
	c.Import.Mode = strings.ToLower(strings.TrimSpace(c.Import.Mode))
	if c.Import.Mode == "" {
		c.Import.Mode = "copy"
	}
}

func (c *Config) normalizeMetadata() {
	c.Metadata.StillReader = strings.ToLower(strings.TrimSpace(c.Metadata.StillReader))
	if c.Metadata.StillReader == "" {
		c.Metadata.StillReader = "goexif"
	}
	c.Metadata.VideoReader = strings.ToLower(strings.TrimSpace(c.Metadata.VideoReader))
	if c.Metadata.VideoReader == "" {
		c.Metadata.VideoReader = "auto"
	}
	c.Metadata.Timezone = strings.TrimSpace(c.Metadata.Timezone)
	if c.Metadata.Timezone == "" {
		c.Metadata.Timezone = "Local"
	}
	c.Metadata.FallbackOffset = strings.TrimSpace(c.Metadata.FallbackOffset)
	if c.Metadata.FallbackOffset == "" {
		c.Metadata.FallbackOffset = "2h"
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
}
