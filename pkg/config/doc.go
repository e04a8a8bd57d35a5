// Package config handles configuration management for texmerge.
// It layers embedded defaults, the user's config file, a project file,
// TEXMERGE_* environment variables and command-line overrides using koanf.
package config
