// Package config loads the application configuration from environment
// variables. A missing API key is not an error: the game runs offline on
// the deterministic fallback narrator.
package config

import "os"

// Config holds the application configuration.
type Config struct {
	GeminiAPIKey string // empty = offline play
	ContentDir   string // empty = embedded builtin content
}

// Load reads the configuration from environment variables.
func Load() *Config {
	return &Config{
		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		ContentDir:   os.Getenv("PILGRIM_CONTENT_DIR"),
	}
}

// Online reports whether an external narrative generator is configured.
func (c *Config) Online() bool {
	return c.GeminiAPIKey != ""
}
