// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, .env and config files, mounted
// secrets). The resulting Config is built once at startup and passed to the
// components that need it; nothing reads configuration from globals.
package config
