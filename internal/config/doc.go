// Package config loads, normalizes, and validates clipmark configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. Input and output folders are ordinary
// config values; their absence is reported as NotConfigured when an export
// is submitted rather than failing config load, so browsing commands work
// before the operator has picked folders.
package config
