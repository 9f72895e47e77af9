// Package config loads, normalizes, and validates tichme configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the TICHME_DATA_DIR environment
// override. The Config type centralizes every knob the CLI needs so the
// database location, archive epoch and log output are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
