package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/soliscan/soliscan/domain"
	"github.com/soliscan/soliscan/internal/config"
)

func TestConfigurationLoader_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "soliscan.config.json")
	content := `{"performance": {"max_concurrency": 8}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	loader := NewConfigurationLoader()
	cfg, err := loader.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.Performance.MaxConcurrency != 8 {
		t.Errorf("expected max_concurrency 8, got %d", cfg.Performance.MaxConcurrency)
	}
}

func TestConfigurationLoader_LoadConfigMissing(t *testing.T) {
	loader := NewConfigurationLoader()
	_, err := loader.LoadConfig(filepath.Join(t.TempDir(), "nope.json"))
	if !domain.IsErrorCode(err, domain.ErrCodeConfigError) {
		t.Errorf("expected CONFIG_ERROR, got %v", err)
	}
}

func TestConfigurationLoader_MergeConfig(t *testing.T) {
	loader := NewConfigurationLoader()
	base := config.DefaultConfig()
	base.Rules.Disabled = []string{"missing-spdx-identifier"}

	merged := loader.MergeConfig(base, ConfigOverrides{
		Format:         "sarif",
		MaxConcurrency: 6,
		NoCache:        true,
		DisabledRules:  []string{"no-tx-origin"},
	})

	if merged.Output.Format != "sarif" {
		t.Errorf("format override not applied: %s", merged.Output.Format)
	}
	if merged.Performance.MaxConcurrency != 6 {
		t.Errorf("concurrency override not applied: %d", merged.Performance.MaxConcurrency)
	}
	if merged.Cache.Enabled || merged.Cache.Persist {
		t.Error("NoCache should disable caching and persistence")
	}
	if !merged.Rules.IsDisabled("missing-spdx-identifier") || !merged.Rules.IsDisabled("no-tx-origin") {
		t.Errorf("disabled rules should accumulate, got %v", merged.Rules.Disabled)
	}
	// Unset overrides keep the base values.
	if merged.Performance.TimeoutSeconds != base.Performance.TimeoutSeconds {
		t.Error("unset timeout override must keep the base value")
	}
	// The base is never mutated.
	if base.Output.Format == "sarif" {
		t.Error("MergeConfig must not mutate the base config")
	}
}

func TestConfigurationLoader_MergeConfigNoOverrides(t *testing.T) {
	loader := NewConfigurationLoader()
	base := config.DefaultConfig()
	merged := loader.MergeConfig(base, ConfigOverrides{})
	if merged.Output.Format != base.Output.Format ||
		merged.Cache.Enabled != base.Cache.Enabled ||
		merged.Performance.MaxConcurrency != base.Performance.MaxConcurrency {
		t.Error("empty overrides should leave the config unchanged")
	}
}
