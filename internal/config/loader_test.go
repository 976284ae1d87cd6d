package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadFromAppliesDefaultsWithoutFiles(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.LLM.Model != "gemini-2.5-pro" {
		t.Errorf("model = %q", cfg.LLM.Model)
	}
	if cfg.Credential.Backend != "file" {
		t.Errorf("credential backend = %q", cfg.Credential.Backend)
	}
	if cfg.Studio.DefaultWords != "500" {
		t.Errorf("default word count = %q", cfg.Studio.DefaultWords)
	}
	if cfg.Studio.FeedbackWindow != 2*time.Second {
		t.Errorf("feedback window = %v", cfg.Studio.FeedbackWindow)
	}
}

func TestLoadFromMergesEnvFileAndExpandsPlaceholders(t *testing.T) {
	dir := t.TempDir()
	base := "llm:\n  model: ${VEO_TEST_MODEL:gemini-2.5-flash}\nserver:\n  http:\n    port: 9000\n"
	env := "server:\n  http:\n    port: 9100\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(base), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.staging.yaml"), []byte(env), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("APP_ENV", "staging")

	cfg, err := LoadFrom(dir)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.LLM.Model != "gemini-2.5-flash" {
		t.Errorf("placeholder default not applied: %q", cfg.LLM.Model)
	}
	if cfg.Server.HTTP.Port != 9100 {
		t.Errorf("env file not merged: port %d", cfg.Server.HTTP.Port)
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("VEO_SET", "value")
	cases := map[string]string{
		"${VEO_SET}":            "value",
		"${VEO_SET:fallback}":   "value",
		"${VEO_UNSET:fallback}": "fallback",
		"${VEO_UNSET:}":         "",
		"${VEO_UNSET}":          "${VEO_UNSET}",
	}
	for in, want := range cases {
		if got := expandEnv(in); got != want {
			t.Errorf("expandEnv(%q) = %q, want %q", in, got, want)
		}
	}
}
