// Package config loads the mediaimport TOML configuration, applies defaults,
// expands paths and validates the result before any command runs.
package config
