package core

import (
	"os"
	"path/filepath"
	"testing"
)

func TestConfigManager_LoadDefaultsWhenMissing(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())

	cfg, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.RefreshIntervalMinutes != DefaultRefreshIntervalMinutes {
		t.Errorf("RefreshIntervalMinutes = %d, want default", cfg.RefreshIntervalMinutes)
	}
	if cfg.FeedToken != "" || cfg.Debug {
		t.Errorf("default config not zero: %+v", cfg)
	}
}

func TestConfigManager_SaveLoadRoundTrip(t *testing.T) {
	cm := NewConfigManagerWithDir(t.TempDir())

	want := &Config{
		FeedToken:              "ghp_test",
		DataRoot:               "/data/enderfall",
		RefreshIntervalMinutes: 5,
		Debug:                  true,
	}
	if err := cm.Save(want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := cm.Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *got != *want {
		t.Errorf("round trip: got %+v, want %+v", got, want)
	}

	// No stray temp file after the atomic write.
	if _, err := os.Stat(cm.ConfigPath() + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file left behind")
	}
}

func TestConfigManager_ZeroRefreshIntervalGetsDefault(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte(`{"feedToken":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	cm := NewConfigManagerWithDir(dir)
	cfg, err := cm.Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.RefreshIntervalMinutes != DefaultRefreshIntervalMinutes {
		t.Errorf("RefreshIntervalMinutes = %d, want default applied", cfg.RefreshIntervalMinutes)
	}
}

func TestConfigManager_MalformedConfig(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, configFileName), []byte("{nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	cm := NewConfigManagerWithDir(dir)
	if _, err := cm.Load(); err == nil {
		t.Fatal("malformed config accepted")
	}
}
