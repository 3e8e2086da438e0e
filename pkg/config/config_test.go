package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("got %+v, want defaults %+v", cfg, Default())
	}
}

func TestSaveThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "walletd.toml")
	cfg := Default()
	cfg.APIAddr = "0.0.0.0:1234"
	cfg.ChunkSize = 500
	cfg.PollInterval = 25 * time.Millisecond

	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.APIAddr != cfg.APIAddr || loaded.ChunkSize != cfg.ChunkSize {
		t.Fatalf("got %+v, want %+v", loaded, cfg)
	}
}
