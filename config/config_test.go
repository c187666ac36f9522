package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("PILGRIM_CONTENT_DIR", "")

	cfg := Load()
	if cfg.Online() {
		t.Error("Online() = true without an API key")
	}
	if cfg.ContentDir != "" {
		t.Errorf("ContentDir = %q, want empty", cfg.ContentDir)
	}
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("PILGRIM_CONTENT_DIR", "/srv/content")

	cfg := Load()
	if !cfg.Online() {
		t.Error("Online() = false with an API key set")
	}
	if cfg.GeminiAPIKey != "test-key" {
		t.Errorf("GeminiAPIKey = %q", cfg.GeminiAPIKey)
	}
	if cfg.ContentDir != "/srv/content" {
		t.Errorf("ContentDir = %q", cfg.ContentDir)
	}
}
