package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.General.LogYear != time.Now().Year() {
		t.Errorf("LogYear = %d, want current year", cfg.General.LogYear)
	}
	if cfg.General.RealmID != 1 {
		t.Errorf("RealmID = %d, want 1", cfg.General.RealmID)
	}
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Appearance.Theme != "flexoki-dark" {
		t.Errorf("Theme = %q, want default", cfg.Appearance.Theme)
	}
	if Exists() {
		t.Error("Exists() = true before any Save()")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg := DefaultConfig()
	cfg.General.LogYear = 2008
	cfg.General.RealmID = 7
	cfg.General.LogDir = "/games/wow/Logs"
	cfg.Storage.DBPath = "/tmp/raidtally-test.db"

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !Exists() {
		t.Fatal("Exists() = false after Save()")
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.General.LogYear != 2008 || loaded.General.RealmID != 7 {
		t.Errorf("loaded general = %+v, want year 2008 realm 7", loaded.General)
	}
	if loaded.General.LogDir != "/games/wow/Logs" {
		t.Errorf("LogDir = %q, want /games/wow/Logs", loaded.General.LogDir)
	}
	if DBPath(loaded) != "/tmp/raidtally-test.db" {
		t.Errorf("DBPath() = %q, want the configured override", DBPath(loaded))
	}
}

func TestDBPathDefault(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_DATA_HOME", dir)

	got := DBPath(DefaultConfig())
	want := filepath.Join(dir, "raidtally", "raidtally.db")
	if got != want {
		t.Errorf("DBPath() = %q, want %q", got, want)
	}
	// Opening lazily creates the directory, so it must not exist yet.
	if _, err := os.Stat(filepath.Dir(got)); !os.IsNotExist(err) {
		t.Errorf("data dir created too early: %v", err)
	}
}
