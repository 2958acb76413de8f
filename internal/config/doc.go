// Package config handles configuration loading, parsing, and validation
// from various sources (environment variables, files). It provides type-safe
// access to server and scheduler settings while keeping configuration details
// separate from the scheduling engine.
package config
