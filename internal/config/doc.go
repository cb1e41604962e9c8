// Package config loads, normalizes, and validates the TOML configuration
// for the webcam monitor.
//
// Lookup order: the --config flag, then ~/.config/webcam-monitor/config.toml,
// then webcam-monitor.toml in the working directory. Missing files fall back
// to defaults, which are complete enough to run against the public ashcam
// API without any configuration at all.
package config
