// Package config handles configuration loading, parsing, and validation
// from various sources (a .env file, a config.yaml file, and environment
// variables). It provides type-safe access to settings for the server and
// both LLM providers while keeping configuration details separate from
// request handling.
package config
