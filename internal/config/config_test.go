package config

import (
	"os"
	"path/filepath"
	"testing"

	"snaptrack/internal/fsio"
)

func TestLoadConfig_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `exclude:
  - ".git"
  - "build"
max_signature_bytes: 1048576
workers: 4
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	expectedExclude := []string{".git", "build"}
	if len(cfg.Exclude) != len(expectedExclude) {
		t.Fatalf("Expected %d exclude prefixes, got %d", len(expectedExclude), len(cfg.Exclude))
	}
	for i, expected := range expectedExclude {
		if cfg.Exclude[i] != expected {
			t.Errorf("Exclude[%d]: expected %q, got %q", i, expected, cfg.Exclude[i])
		}
	}

	if cfg.MaxSignatureBytes != 1048576 {
		t.Errorf("Expected max_signature_bytes 1048576, got %d", cfg.MaxSignatureBytes)
	}
	if cfg.Workers != 4 {
		t.Errorf("Expected 4 workers, got %d", cfg.Workers)
	}
}

func TestLoadConfig_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig should not fail for a missing file: %v", err)
	}

	if cfg.MaxSignatureBytes != 0 {
		t.Errorf("Default max_signature_bytes should be 0, got %d", cfg.MaxSignatureBytes)
	}
	if cfg.Workers <= 0 {
		t.Errorf("Default workers should be positive, got %d", cfg.Workers)
	}
	if cfg.Exclude == nil {
		t.Error("Default exclude list should not be nil")
	}
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	if err := os.WriteFile(configPath, []byte("exclude: [unterminated"), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	if _, err := LoadConfig(configPath); err == nil {
		t.Error("LoadConfig should fail on malformed YAML")
	}
}

func TestSignatureFilter_NoCapAcceptsEverything(t *testing.T) {
	cfg := DefaultConfig()
	filter := cfg.SignatureFilter(fsio.NewOS())

	if !filter("/definitely/not/a/real/path") {
		t.Error("Uncapped filter should accept any path without touching the filesystem")
	}
}

func TestSignatureFilter_CapExcludesLargeFiles(t *testing.T) {
	tmpDir := t.TempDir()

	small := filepath.Join(tmpDir, "small.bin")
	large := filepath.Join(tmpDir, "large.bin")
	if err := os.WriteFile(small, make([]byte, 10), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if err := os.WriteFile(large, make([]byte, 100), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}

	cfg := &Config{MaxSignatureBytes: 50}
	filter := cfg.SignatureFilter(fsio.NewOS())

	if !filter(small) {
		t.Error("File below the cap should be hashed")
	}
	if filter(large) {
		t.Error("File above the cap should not be hashed")
	}
	if filter(filepath.Join(tmpDir, "missing.bin")) {
		t.Error("Unreadable file should not be hashed")
	}
}
