// Package config loads, normalizes, and validates skyreview configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SKYREVIEW_BATCH and SKYREVIEW_API_TOKEN. The Config type also derives the
// per-batch locations (batch input directory, feedback CSV, lock file and
// journal database) so every command agrees on where a batch lives.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
