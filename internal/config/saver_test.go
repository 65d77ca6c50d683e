package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestAtomicWrite(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	data := []byte(`{"test": "data"}`)
	if err := atomicWrite(testPath, data); err != nil {
		t.Fatalf("atomicWrite failed: %v", err)
	}

	// Verify temp file was cleaned up
	if _, err := os.Stat(testPath + ".tmp"); !os.IsNotExist(err) {
		t.Error("temp file was not cleaned up")
	}

	readData, err := os.ReadFile(testPath)
	if err != nil {
		t.Fatalf("failed to read config: %v", err)
	}
	if string(readData) != string(data) {
		t.Errorf("content mismatch: got %q, want %q", string(readData), string(data))
	}
}

func TestAtomicWriteCreatesDir(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "subdir", "config.json")

	if err := atomicWrite(testPath, []byte(`{}`)); err != nil {
		t.Fatalf("atomicWrite failed: %v", err)
	}
	if _, err := os.Stat(testPath); os.IsNotExist(err) {
		t.Error("config file was not created")
	}
}

func TestBackupConfig(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	originalData := []byte(`{"original": true}`)
	if err := os.WriteFile(testPath, originalData, 0644); err != nil {
		t.Fatalf("failed to create original config: %v", err)
	}

	if err := backupConfig(testPath); err != nil {
		t.Fatalf("backupConfig failed: %v", err)
	}

	bakData, err := os.ReadFile(testPath + ".bak")
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if string(bakData) != string(originalData) {
		t.Errorf("backup content mismatch: got %q, want %q", string(bakData), string(originalData))
	}
}

func TestBackupConfigFirstRun(t *testing.T) {
	if err := backupConfig(filepath.Join(t.TempDir(), "absent.json")); err != nil {
		t.Errorf("backupConfig should succeed when no config exists, got %v", err)
	}
}

func TestSaveJSONRoundTrip(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	cfg := NewConfig()
	cfg.Insight.Mode = ModeHybrid
	cfg.Insight.APIKey = "sk-secret"

	if err := Save(cfg, testPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	data, err := os.ReadFile(testPath)
	if err != nil {
		t.Fatalf("failed to read saved config: %v", err)
	}
	if strings.Contains(string(data), "sk-secret") {
		t.Error("API key must not be written to the config file")
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("saved config is not JSON: %v", err)
	}

	loaded, err := LoadFrom(testPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Insight.Mode != ModeHybrid {
		t.Errorf("expected hybrid mode after reload, got %s", loaded.Insight.Mode)
	}
}

func TestSaveYAMLAndBackup(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.yaml")

	first := NewConfig()
	if err := Save(first, testPath); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}

	second := NewConfig()
	second.Server.Addr = ":9999"
	if err := Save(second, testPath); err != nil {
		t.Fatalf("second Save failed: %v", err)
	}

	bakData, err := os.ReadFile(testPath + ".bak")
	if err != nil {
		t.Fatalf("failed to read backup: %v", err)
	}
	if !strings.Contains(string(bakData), "8000") || strings.Contains(string(bakData), "9999") {
		t.Errorf("backup should hold the previous YAML, got %q", string(bakData))
	}

	loaded, err := LoadFrom(testPath)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.Server.Addr != ":9999" {
		t.Errorf("expected :9999 after reload, got %s", loaded.Server.Addr)
	}
}

func TestSaveRejectsInvalidConfig(t *testing.T) {
	testPath := filepath.Join(t.TempDir(), "config.json")

	cfg := NewConfig()
	cfg.Insight.Mode = "fuzzy"

	err := Save(cfg, testPath)
	if err == nil {
		t.Fatal("Save should reject invalid config")
	}
	if _, ok := err.(*InvalidConfigError); !ok {
		t.Errorf("expected InvalidConfigError, got %T", err)
	}
	if _, statErr := os.Stat(testPath); !os.IsNotExist(statErr) {
		t.Error("invalid config must not be written")
	}
}

func TestSaveReadOnlyDirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}

	dir := t.TempDir()
	if err := os.Chmod(dir, 0555); err != nil {
		t.Fatalf("chmod failed: %v", err)
	}
	defer os.Chmod(dir, 0755)

	err := Save(NewConfig(), filepath.Join(dir, "config.json"))
	if _, ok := err.(*PermissionError); !ok {
		t.Errorf("expected PermissionError, got %T: %v", err, err)
	}
}
