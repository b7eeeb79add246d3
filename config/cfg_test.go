package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfiguration_NoFile(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() with empty path error = %v", err)
	}

	if cfg == nil {
		t.Fatal("LoadConfiguration() returned nil config")
	}

	if cfg.Version != 1 {
		t.Errorf("Default config version = %d, want 1", cfg.Version)
	}
}

func TestConfig_DefaultValues(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !cfg.Generator.Important || !cfg.Generator.IncludeAdditionalSelectors {
		t.Errorf("Generator defaults = %+v, want important and aliases on", cfg.Generator)
	}
	if cfg.Persistence.QueryParam != "s" {
		t.Errorf("Persistence.QueryParam = %q, want s", cfg.Persistence.QueryParam)
	}
	if cfg.Persistence.Debounce != time.Second {
		t.Errorf("Persistence.Debounce = %v, want 1s", cfg.Persistence.Debounce)
	}
	if !strings.HasSuffix(cfg.Branding.Endpoint, "/GetCredentialType") {
		t.Errorf("Branding.Endpoint = %q", cfg.Branding.Endpoint)
	}
	if cfg.Branding.Timeout <= 0 {
		t.Errorf("Branding.Timeout = %v", cfg.Branding.Timeout)
	}
	if cfg.Branding.Username != "" {
		t.Error("Branding.Username must be empty by default")
	}
	if cfg.Store.Path == "" {
		t.Error("Store.Path is empty")
	}
	if cfg.Logging.ConsoleLogger.Level != "normal" || cfg.Logging.FileLogger.Level != "none" {
		t.Errorf("Logging defaults = %+v", cfg.Logging)
	}
}

func TestLoadConfiguration_WithFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `version: 1
generator:
  important: false
  verify: true
persistence:
  query_param: state
  debounce: 250ms
branding:
  timeout: 3s
  username: someone@contoso.com
store:
  path: ` + filepath.Join(tmpDir, "db", "designs.db") + `
logging:
  console:
    level: debug
  file:
    level: debug
    destination: ` + filepath.Join(tmpDir, "test.log") + `
    mode: append
reporting:
  destination: ` + filepath.Join(tmpDir, "report.zip") + `
`

	if err := os.WriteFile(configPath, []byte(configContent), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := LoadConfiguration(configPath)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if cfg.Generator.Important {
		t.Error("Generator.Important should be overridden to false")
	}
	if !cfg.Generator.IncludeAdditionalSelectors {
		t.Error("Generator.IncludeAdditionalSelectors should keep default")
	}
	if !cfg.Generator.Verify {
		t.Error("Generator.Verify should be true")
	}
	if cfg.Persistence.QueryParam != "state" || cfg.Persistence.Debounce != 250*time.Millisecond {
		t.Errorf("Persistence = %+v", cfg.Persistence)
	}
	if cfg.Persistence.BaseURL == "" {
		t.Error("Persistence.BaseURL should keep default")
	}
	if cfg.Branding.Timeout != 3*time.Second {
		t.Errorf("Branding.Timeout = %v", cfg.Branding.Timeout)
	}
	if cfg.Branding.Username != "someone@contoso.com" {
		t.Errorf("Branding.Username = %q", cfg.Branding.Username)
	}
	if cfg.Logging.FileLogger.Mode != "append" {
		t.Errorf("FileLogger.Mode = %q", cfg.Logging.FileLogger.Mode)
	}
	// sanitizer creates directory for the database
	if info, err := os.Stat(filepath.Join(tmpDir, "db")); err != nil || !info.IsDir() {
		t.Errorf("store directory was not created: %v", err)
	}
}

func TestLoadConfiguration_NonExistentFile(t *testing.T) {
	_, err := LoadConfiguration("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("LoadConfiguration() with non-existent file should return error")
	}
}

func TestLoadConfiguration_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "invalid.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\ngenerator: [\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	if _, err := LoadConfiguration(configPath); err == nil {
		t.Error("LoadConfiguration() with invalid YAML should return error")
	}
}

func TestLoadConfiguration_UnknownFields(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "unknown.yaml")
	if err := os.WriteFile(configPath, []byte("version: 1\ngenerator:\n  minify: true\n"), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	_, err := LoadConfiguration(configPath)
	if err == nil {
		t.Fatal("LoadConfiguration() with unknown fields should return error")
	}
	if !strings.Contains(err.Error(), "minify") {
		t.Errorf("error should name unknown field, got: %v", err)
	}
}

func TestLoadConfiguration_ValidationError(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"version", "version: 2\n"},
		{"query param", "version: 1\npersistence:\n  query_param: \"a b\"\n"},
		{"base url", "version: 1\npersistence:\n  base_url: not-a-url\n"},
		{"timeout", "version: 1\nbranding:\n  timeout: 0s\n"},
		{"username", "version: 1\nbranding:\n  username: nobody\n"},
		{"log level", "version: 1\nlogging:\n  console:\n    level: loud\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			configPath := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(configPath, []byte(tt.content), 0644); err != nil {
				t.Fatalf("Failed to write config file: %v", err)
			}
			if _, err := LoadConfiguration(configPath); err == nil {
				t.Error("LoadConfiguration() should fail validation")
			}
		})
	}
}

func TestPrepare(t *testing.T) {
	data, err := Prepare()
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	for _, section := range []string{"generator:", "persistence:", "branding:", "store:", "logging:", "reporting:"} {
		if !strings.Contains(string(data), section) {
			t.Errorf("Prepare() output missing %s", section)
		}
	}
}

func TestDump(t *testing.T) {
	cfg, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	cfg.Branding.Username = "someone@contoso.com"

	data, err := Dump(cfg)
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	out := string(data)
	if strings.Contains(out, "someone@contoso.com") {
		t.Error("Dump() leaked user name")
	}
	if !strings.Contains(out, SecretStringValue) {
		t.Error("Dump() should mask user name")
	}
	if !strings.Contains(out, "debounce: 1s") {
		t.Errorf("Dump() should write durations as text:\n%s", out)
	}

	// dumped configuration must load back
	path := filepath.Join(t.TempDir(), "dump.yaml")
	cfg.Branding.Username = ""
	if data, err = Dump(cfg); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfiguration(path); err != nil {
		t.Errorf("dumped configuration does not load: %v", err)
	}
}

func TestUnmarshalConfig_WrapsValidationError(t *testing.T) {
	// version: 99 will fail validation (validate:"eq=1").
	data := []byte("version: 99\n")
	cfg := &Config{}

	_, err := unmarshalConfig(data, cfg, true)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if !strings.Contains(err.Error(), "validat") {
		t.Errorf("expected error to mention validation, got: %v", err)
	}
	if errors.Unwrap(err) == nil {
		t.Errorf("expected wrapped error (errors.Unwrap non-nil), got bare error: %v", err)
	}
}
