package types

import (
	"github.com/rs/zerolog"

	"github.com/lepinkainen/mediaimport/config"
)

// DefaultVersion is the fallback version when AppContext is nil
const DefaultVersion = "dev"

// AppContext holds application-wide context information passed to commands
type AppContext struct {
	Version    string
	Config     *config.Config
	ConfigPath string
	Logger     zerolog.Logger
}

// VersionString returns the version, tolerating a nil context
func (c *AppContext) VersionString() string {
	if c == nil || c.Version == "" {
		return DefaultVersion
	}
	return c.Version
}
