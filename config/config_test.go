package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Crypt.Binary != "veracrypt" {
		t.Errorf("default crypt binary = %s", cfg.Crypt.Binary)
	}
	if cfg.Wiper.ChunkSize != 4*1024*1024 {
		t.Errorf("default chunk size = %d", cfg.Wiper.ChunkSize)
	}
	if cfg.Fixture.Compression != "zstd" {
		t.Errorf("default compression = %s", cfg.Fixture.Compression)
	}
}

func TestLoadEmptyPathKeepsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if cfg != Default() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sanitizer.yaml")
	content := "crypt:\n  binary: /opt/veracrypt/bin/veracrypt\n  slot: 5\nfixture:\n  compression: gzip\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if cfg.Crypt.Binary != "/opt/veracrypt/bin/veracrypt" || cfg.Crypt.Slot != 5 {
		t.Errorf("crypt config not overridden: %+v", cfg.Crypt)
	}
	if cfg.Fixture.Compression != "gzip" {
		t.Errorf("fixture compression not overridden: %+v", cfg.Fixture)
	}
	// untouched sections keep defaults
	if cfg.Wiper.ChunkSize != Default().Wiper.ChunkSize {
		t.Errorf("wiper defaults lost: %+v", cfg.Wiper)
	}
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("crypt: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for invalid yaml")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
