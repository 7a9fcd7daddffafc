package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Default analysis settings
const (
	// DefaultCacheTTLSeconds keeps cached file results for one day
	DefaultCacheTTLSeconds = 86400

	// DefaultCacheMaxEntries bounds the in-memory cache size
	DefaultCacheMaxEntries = 1000

	// DefaultTimeoutSeconds is the per-file deadline in concurrent runs
	DefaultTimeoutSeconds = 60

	// DefaultCacheDirName is created under the user cache dir
	DefaultCacheDirName = "soliscan"
)

// Config represents the main configuration structure
type Config struct {
	// Rules holds rule selection and severity overrides
	Rules RulesConfig `json:"rules" mapstructure:"rules" yaml:"rules"`

	// Cache holds result cache configuration
	Cache CacheConfig `json:"cache" mapstructure:"cache" yaml:"cache"`

	// Performance holds concurrency and timeout configuration
	Performance PerformanceConfig `json:"performance" mapstructure:"performance" yaml:"performance"`

	// Analysis holds file selection configuration
	Analysis AnalysisConfig `json:"analysis" mapstructure:"analysis" yaml:"analysis"`

	// Output holds output formatting configuration
	Output OutputConfig `json:"output" mapstructure:"output" yaml:"output"`
}

// RulesConfig controls which rules run and with what severity
type RulesConfig struct {
	// Disabled lists rule ids that are skipped entirely
	Disabled []string `json:"disabled,omitempty" mapstructure:"disabled" yaml:"disabled,omitempty"`

	// Severity maps rule id to an overriding severity (error, warning, info)
	Severity map[string]string `json:"severity,omitempty" mapstructure:"severity" yaml:"severity,omitempty"`
}

// IsDisabled reports whether a rule id has been disabled
func (r *RulesConfig) IsDisabled(ruleID string) bool {
	for _, id := range r.Disabled {
		if id == ruleID {
			return true
		}
	}
	return false
}

// CacheConfig controls the per-file result cache
type CacheConfig struct {
	// Enabled turns result caching on
	Enabled bool `json:"enabled" mapstructure:"enabled" yaml:"enabled"`

	// TTLSeconds is how long entries stay fresh
	TTLSeconds int `json:"ttlSeconds" mapstructure:"ttl_seconds" yaml:"ttl_seconds"`

	// MaxEntries bounds the store size
	MaxEntries int `json:"maxEntries" mapstructure:"max_entries" yaml:"max_entries"`

	// Persist writes the cache to disk between runs
	Persist bool `json:"persist" mapstructure:"persist" yaml:"persist"`

	// Dir overrides the cache directory; empty uses the user cache dir
	Dir string `json:"dir,omitempty" mapstructure:"dir" yaml:"dir,omitempty"`
}

// ResolveDir returns the effective cache directory
func (c *CacheConfig) ResolveDir() string {
	if c.Dir != "" {
		return c.Dir
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(base, DefaultCacheDirName)
}

// PerformanceConfig controls concurrency and deadlines
type PerformanceConfig struct {
	// MaxConcurrency bounds in-flight file analyses; 0 picks a default
	MaxConcurrency int `json:"maxConcurrency" mapstructure:"max_concurrency" yaml:"max_concurrency"`

	// TimeoutSeconds is the per-file deadline in concurrent runs
	TimeoutSeconds int `json:"timeoutSeconds" mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// AnalysisConfig controls which files are picked up
type AnalysisConfig struct {
	IncludePatterns []string `json:"includePatterns,omitempty" mapstructure:"include_patterns" yaml:"include_patterns,omitempty"`
	ExcludePatterns []string `json:"excludePatterns,omitempty" mapstructure:"exclude_patterns" yaml:"exclude_patterns,omitempty"`

	// IgnoreFile is a gitignore-style file listing paths to skip
	IgnoreFile string `json:"ignoreFile,omitempty" mapstructure:"ignore_file" yaml:"ignore_file,omitempty"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	Format string `json:"format" mapstructure:"format" yaml:"format"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{},
		Cache: CacheConfig{
			Enabled:    true,
			TTLSeconds: DefaultCacheTTLSeconds,
			MaxEntries: DefaultCacheMaxEntries,
		},
		Performance: PerformanceConfig{
			MaxConcurrency: 0, // resolved to NumCPU at run time
			TimeoutSeconds: DefaultTimeoutSeconds,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.sol"},
			ExcludePatterns: []string{"node_modules", "artifacts", "cache", "out"},
			IgnoreFile:      ".soliscanignore",
		},
		Output: OutputConfig{Format: "text"},
	}
}

// configFileNames are searched in order of preference
var configFileNames = []string{
	"soliscan.config.json",
	".soliscanrc.json",
	".soliscan.yml",
	".soliscan.yaml",
	"soliscan.yml",
	"soliscan.yaml",
	".soliscan.toml",
}

// LoadConfig loads configuration from the specified path via viper.
// Unset keys keep their defaults.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FindConfigFile searches the start directory and its parents for a
// config file, returning "" when none exists
func FindConfigFile(startDir string) string {
	dir := startDir
	if dir == "" {
		var err error
		dir, err = os.Getwd()
		if err != nil {
			return ""
		}
	}

	for {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

// LoadOrDefault loads the discovered config file, falling back to the
// built-in defaults when none is found or the file is unreadable
func LoadOrDefault(startDir string) *Config {
	path := FindConfigFile(startDir)
	if path == "" {
		return DefaultConfig()
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// Validate rejects configurations the pipeline cannot honor
func (c *Config) Validate() error {
	if c.Cache.TTLSeconds < 0 {
		return fmt.Errorf("cache.ttl_seconds must not be negative")
	}
	if c.Cache.MaxEntries < 0 {
		return fmt.Errorf("cache.max_entries must not be negative")
	}
	if c.Performance.MaxConcurrency < 0 {
		return fmt.Errorf("performance.max_concurrency must not be negative")
	}
	for id, sev := range c.Rules.Severity {
		switch strings.ToLower(sev) {
		case "error", "warning", "info":
		default:
			return fmt.Errorf("rules.severity[%s]: unknown severity %q", id, sev)
		}
	}
	return nil
}

func applyDefaults(v *viper.Viper) {
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.ttl_seconds", DefaultCacheTTLSeconds)
	v.SetDefault("cache.max_entries", DefaultCacheMaxEntries)
	v.SetDefault("performance.timeout_seconds", DefaultTimeoutSeconds)
	v.SetDefault("output.format", "text")
}
