// Package config loads CLI settings from defaults, an optional JSON file,
// the environment, and command-line flags, in that order of precedence.
package config
