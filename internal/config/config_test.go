package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseDefaultConfig(t *testing.T) {
	cfg, err := parse(DefaultConfigYAML)
	if err != nil {
		t.Fatalf("failed to parse default config: %v", err)
	}

	if cfg.Feedly.BaseURL != "https://cloud.feedly.com/v3" {
		t.Errorf("unexpected feedly base url %q", cfg.Feedly.BaseURL)
	}
	if cfg.Feedly.Days != 7 {
		t.Errorf("expected 7 days, got %d", cfg.Feedly.Days)
	}
	if cfg.Scoring.Model != "gpt-4o-mini" {
		t.Errorf("expected model 'gpt-4o-mini', got %q", cfg.Scoring.Model)
	}
	if cfg.Scoring.BatchSize != 15 {
		t.Errorf("expected batch size 15, got %d", cfg.Scoring.BatchSize)
	}
	if cfg.Server.Port != 8000 {
		t.Errorf("expected port 8000, got %d", cfg.Server.Port)
	}
}

func TestParseMinimalConfig(t *testing.T) {
	data := []byte(`
scoring:
  model: gpt-4o
  batch_size: 10
server:
  port: 9000
`)
	cfg, err := parse(data)
	if err != nil {
		t.Fatalf("failed to parse minimal config: %v", err)
	}

	if cfg.Scoring.Model != "gpt-4o" {
		t.Errorf("expected model 'gpt-4o', got %q", cfg.Scoring.Model)
	}
	if cfg.Scoring.BatchSize != 10 {
		t.Errorf("expected batch size 10, got %d", cfg.Scoring.BatchSize)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("expected port 9000, got %d", cfg.Server.Port)
	}
	// Defaults should still be set for unspecified fields
	if cfg.Feedly.AuthURL != "https://api.feedly.com/v3/auth/token" {
		t.Errorf("expected default auth_url, got %q", cfg.Feedly.AuthURL)
	}
	if cfg.Scoring.ThrottleMS != 1200 {
		t.Errorf("expected default throttle 1200ms, got %d", cfg.Scoring.ThrottleMS)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, DefaultConfigYAML, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}
	if cfg.Scoring.TopN != 5 {
		t.Errorf("expected top_n 5, got %d", cfg.Scoring.TopN)
	}
}

func TestLoadCredentialsComplete(t *testing.T) {
	for name := range credentialVars {
		t.Setenv(name, "value-"+name)
	}

	creds, err := LoadCredentials()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if creds.StreamID != "value-FEEDLY_STREAM_ID" {
		t.Errorf("stream id not loaded, got %q", creds.StreamID)
	}
	if creds.OpenAIKey != "value-OPENAI_API_KEY" {
		t.Errorf("api key not loaded, got %q", creds.OpenAIKey)
	}
}

func TestLoadCredentialsNamesAllMissing(t *testing.T) {
	for name := range credentialVars {
		t.Setenv(name, "")
	}
	t.Setenv("FEEDLY_CLIENT_ID", "id")

	_, err := LoadCredentials()
	if err == nil {
		t.Fatal("expected error for missing credentials")
	}
	for _, want := range []string{"OPENAI_API_KEY", "FEEDLY_CLIENT_SECRET", "FEEDLY_REFRESH_TOKEN", "FEEDLY_STREAM_ID"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should name %s: %v", want, err)
		}
	}
	if strings.Contains(err.Error(), "FEEDLY_CLIENT_ID") {
		t.Errorf("error should not name a variable that is set: %v", err)
	}
}
