package service

import (
	"os"

	"github.com/soliscan/soliscan/domain"
	"github.com/soliscan/soliscan/internal/config"
)

// ConfigurationLoaderImpl loads and merges analysis configuration
type ConfigurationLoaderImpl struct{}

// NewConfigurationLoader creates a new configuration loader service
func NewConfigurationLoader() *ConfigurationLoaderImpl {
	return &ConfigurationLoaderImpl{}
}

// LoadConfig loads configuration from the specified path
func (c *ConfigurationLoaderImpl) LoadConfig(path string) (*config.Config, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, domain.NewConfigError("failed to load configuration file", err)
	}
	return cfg, nil
}

// LoadDefaultConfig discovers a config file starting from the current
// directory, falling back to the built-in defaults
func (c *ConfigurationLoaderImpl) LoadDefaultConfig() *config.Config {
	cwd, err := os.Getwd()
	if err != nil {
		return config.DefaultConfig()
	}
	return config.LoadOrDefault(cwd)
}

// FindDefaultConfigFile searches for a configuration file in the current
// directory and its parents
func (c *ConfigurationLoaderImpl) FindDefaultConfigFile() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return config.FindConfigFile(cwd)
}

// ConfigOverrides carries command line flag values that take precedence
// over the configuration file. Zero values mean "not set".
type ConfigOverrides struct {
	Format         string
	MaxConcurrency int
	TimeoutSeconds int
	NoCache        bool
	DisabledRules  []string
}

// MergeConfig applies command line overrides on top of a loaded
// configuration and returns the result
func (c *ConfigurationLoaderImpl) MergeConfig(base *config.Config, overrides ConfigOverrides) *config.Config {
	merged := *base

	if overrides.Format != "" {
		merged.Output.Format = overrides.Format
	}
	if overrides.MaxConcurrency > 0 {
		merged.Performance.MaxConcurrency = overrides.MaxConcurrency
	}
	if overrides.TimeoutSeconds > 0 {
		merged.Performance.TimeoutSeconds = overrides.TimeoutSeconds
	}
	if overrides.NoCache {
		merged.Cache.Enabled = false
		merged.Cache.Persist = false
	}
	if len(overrides.DisabledRules) > 0 {
		disabled := make([]string, 0, len(base.Rules.Disabled)+len(overrides.DisabledRules))
		disabled = append(disabled, base.Rules.Disabled...)
		disabled = append(disabled, overrides.DisabledRules...)
		merged.Rules.Disabled = disabled
	}
	return &merged
}
