// Package config loads and validates the telegate YAML configuration.
// Secrets are pulled from the environment via ${VAR} expansion so the file
// itself can be committed without credentials. Missing required fields fail
// process startup; configuration is never a per-request error.
package config
