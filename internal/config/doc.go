// Package config loads, validates, and normalizes wavehunterctl's TOML
// configuration. It resolves the config file from an explicit flag, the
// default user location, or a project-local file, expands home-relative
// paths, and applies repository defaults for any missing keys.
package config
