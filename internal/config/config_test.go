package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultConfig()
	cfg.Engine.BaseURL = "http://engine:3001"
	cfg.Providers = []ProviderConfig{
		{ID: "openai", Kind: "openai", APIKey: "sk-test"},
		{ID: "local", Kind: "ollama", BaseURL: "http://localhost:11434"},
	}
	cfg.LogLevel = "debug"

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Engine.BaseURL != "http://engine:3001" {
		t.Errorf("engine base url = %q", loaded.Engine.BaseURL)
	}
	if loaded.SQLDatabase.Provider != "sqlite" || loaded.NoSQLDatabase.Provider != "mongodb" {
		t.Errorf("database providers = %q/%q", loaded.SQLDatabase.Provider, loaded.NoSQLDatabase.Provider)
	}
	if len(loaded.Providers) != 2 || loaded.Providers[1].Kind != "ollama" {
		t.Errorf("providers = %+v", loaded.Providers)
	}
	if loaded.LogLevel != "debug" {
		t.Errorf("log level = %q", loaded.LogLevel)
	}
}

func TestSaveCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.yaml")

	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file missing: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if Exists(path) {
		t.Error("Exists(true) for missing file")
	}
	if err := DefaultConfig().Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists(path) {
		t.Error("Exists(false) for saved file")
	}
}

func TestDefaultConfigCrons(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.ProbeCron == "" || cfg.ReportCron == "" {
		t.Errorf("default crons empty: probe=%q report=%q", cfg.ProbeCron, cfg.ReportCron)
	}
}
