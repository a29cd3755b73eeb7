package config

import (
	"path/filepath"
	"testing"
)

func TestLoadOrCreateCreatesAndReloadsConfig(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("SWAPSHELF_DATA_DIR", tempDir)

	firstCfg, firstPath, err := LoadOrCreate()
	if err != nil {
		t.Fatalf("first LoadOrCreate failed: %v", err)
	}
	if firstCfg.ClientID == "" {
		t.Fatalf("expected non-empty client ID")
	}
	if firstCfg.BaseURL != DefaultBaseURL {
		t.Fatalf("expected default base URL %q, got %q", DefaultBaseURL, firstCfg.BaseURL)
	}
	if firstCfg.RequestTimeout != DefaultRequestTimeout {
		t.Fatalf("expected default timeout %v, got %v", DefaultRequestTimeout, firstCfg.RequestTimeout)
	}

	expectedConfigPath := filepath.Join(tempDir, "config.yml")
	if firstPath != expectedConfigPath {
		t.Fatalf("expected config path %q, got %q", expectedConfigPath, firstPath)
	}

	secondCfg, secondPath, err := LoadOrCreate()
	if err != nil {
		t.Fatalf("second LoadOrCreate failed: %v", err)
	}
	if secondPath != firstPath {
		t.Fatalf("expected config path to be stable, got %q then %q", firstPath, secondPath)
	}
	if secondCfg.ClientID != firstCfg.ClientID {
		t.Fatalf("expected stable client ID, got %q then %q", firstCfg.ClientID, secondCfg.ClientID)
	}
}

func TestLoadOrCreateFillsMissingFields(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("SWAPSHELF_DATA_DIR", tempDir)

	partial := &Config{BaseURL: "https://swapshelf.example"}
	if err := Save(ConfigPath(tempDir), partial); err != nil {
		t.Fatalf("Save partial config failed: %v", err)
	}

	cfg, _, err := LoadOrCreate()
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}
	if cfg.BaseURL != "https://swapshelf.example" {
		t.Fatalf("expected configured base URL to be retained, got %q", cfg.BaseURL)
	}
	if cfg.ClientID == "" {
		t.Fatalf("expected missing client ID to be generated")
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Fatalf("expected missing timeout to default to %v, got %v", DefaultRequestTimeout, cfg.RequestTimeout)
	}

	reloaded, err := Load(ConfigPath(tempDir))
	if err != nil {
		t.Fatalf("Load after normalize failed: %v", err)
	}
	if reloaded.ClientID != cfg.ClientID {
		t.Fatalf("expected normalized config to be written back, got %q then %q", cfg.ClientID, reloaded.ClientID)
	}
}
