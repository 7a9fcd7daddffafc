package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if !cfg.Cache.Enabled {
		t.Error("Cache should be enabled by default")
	}
	if cfg.Cache.TTLSeconds != DefaultCacheTTLSeconds {
		t.Errorf("Unexpected default TTL: %d", cfg.Cache.TTLSeconds)
	}
	if cfg.Cache.MaxEntries != DefaultCacheMaxEntries {
		t.Errorf("Unexpected default max entries: %d", cfg.Cache.MaxEntries)
	}
	if cfg.Performance.TimeoutSeconds != DefaultTimeoutSeconds {
		t.Errorf("Unexpected default timeout: %d", cfg.Performance.TimeoutSeconds)
	}
	if cfg.Output.Format != "text" {
		t.Errorf("Unexpected default format: %s", cfg.Output.Format)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config should validate: %v", err)
	}
}

func TestRulesConfig_IsDisabled(t *testing.T) {
	rc := RulesConfig{Disabled: []string{"no-tx-origin"}}
	if !rc.IsDisabled("no-tx-origin") {
		t.Error("Listed rule should be disabled")
	}
	if rc.IsDisabled("floating-pragma") {
		t.Error("Unlisted rule should not be disabled")
	}
}

func TestLoadConfig_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".soliscan.yml")
	content := `
rules:
  disabled:
    - no-selfdestruct
  severity:
    floating-pragma: error
cache:
  enabled: false
  ttl_seconds: 600
performance:
  max_concurrency: 2
  timeout_seconds: 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.Rules.IsDisabled("no-selfdestruct") {
		t.Error("Disabled rule not parsed")
	}
	if cfg.Rules.Severity["floating-pragma"] != "error" {
		t.Error("Severity override not parsed")
	}
	if cfg.Cache.Enabled {
		t.Error("cache.enabled=false not parsed")
	}
	if cfg.Cache.TTLSeconds != 600 {
		t.Errorf("ttl_seconds not parsed: %d", cfg.Cache.TTLSeconds)
	}
	if cfg.Performance.MaxConcurrency != 2 || cfg.Performance.TimeoutSeconds != 30 {
		t.Errorf("Performance section not parsed: %+v", cfg.Performance)
	}
	// Unset sections keep defaults.
	if cfg.Cache.MaxEntries != DefaultCacheMaxEntries {
		t.Errorf("Unset max_entries should keep the default, got %d", cfg.Cache.MaxEntries)
	}
}

func TestLoadConfig_InvalidSeverity(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".soliscan.yml")
	content := "rules:\n  severity:\n    no-tx-origin: fatal\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("Unknown severity should fail validation")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yml")); err == nil {
		t.Error("Missing file should fail")
	}
}

func TestFindConfigFile_WalksParents(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "contracts", "src")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	cfgPath := filepath.Join(root, ".soliscan.yml")
	if err := os.WriteFile(cfgPath, []byte("cache:\n  enabled: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	found := FindConfigFile(nested)
	if found != cfgPath {
		t.Errorf("Expected %s, found %q", cfgPath, found)
	}
}

func TestLoadOrDefault_FallsBack(t *testing.T) {
	cfg := LoadOrDefault(t.TempDir())
	if cfg == nil || !cfg.Cache.Enabled {
		t.Error("LoadOrDefault should return usable defaults")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"negative ttl", func(c *Config) { c.Cache.TTLSeconds = -1 }, true},
		{"negative max entries", func(c *Config) { c.Cache.MaxEntries = -1 }, true},
		{"negative concurrency", func(c *Config) { c.Performance.MaxConcurrency = -1 }, true},
		{"valid override", func(c *Config) { c.Rules.Severity = map[string]string{"x": "warning"} }, false},
		{"invalid override", func(c *Config) { c.Rules.Severity = map[string]string{"x": "panic"} }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestConfigTemplates(t *testing.T) {
	full := GetFullConfigTemplate(StrictnessStandard)
	if !strings.HasPrefix(full, "# soliscan configuration") {
		t.Error("Template should start with the documentation header")
	}

	// The generated template must itself be valid YAML mapping onto Config.
	body := full[strings.Index(full, "\nrules"):]
	var cfg Config
	if err := yaml.Unmarshal([]byte(body), &cfg); err != nil {
		t.Fatalf("Generated template is not valid YAML: %v", err)
	}

	strict := GetFullConfigTemplate(StrictnessStrict)
	if !strings.Contains(strict, "floating-pragma: error") {
		t.Error("Strict template should escalate floating-pragma")
	}

	minimal := GetMinimalConfigTemplate()
	if !strings.Contains(minimal, "max_concurrency") {
		t.Error("Minimal template should mention max_concurrency")
	}
}
