package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/soliscan/soliscan/domain"
	"github.com/soliscan/soliscan/internal/cache"
	"github.com/soliscan/soliscan/internal/config"
	"github.com/soliscan/soliscan/internal/rules"
	"github.com/soliscan/soliscan/service"
)

// AnalyzeConfig holds configuration for the analyze use case
type AnalyzeConfig struct {
	// Paths are the files or directories to analyze
	Paths []string

	// ConfigPath points at an explicit config file; empty discovers one
	ConfigPath string

	// Output options
	OutputFormat domain.OutputFormat
	OutputWriter io.Writer

	// Overrides applied on top of the loaded config file
	MaxConcurrency int
	TimeoutSeconds int
	NoCache        bool
	DisabledRules  []string

	// ShowProgress enables the interactive progress bar
	ShowProgress bool
}

// DefaultAnalyzeConfig returns default configuration
func DefaultAnalyzeConfig() AnalyzeConfig {
	return AnalyzeConfig{
		OutputFormat: domain.OutputFormatText,
		OutputWriter: os.Stdout,
	}
}

// AnalyzeUseCase orchestrates file collection, analysis and output
type AnalyzeUseCase struct {
	loader     *service.ConfigurationLoaderImpl
	fileHelper *FileHelper
}

// NewAnalyzeUseCase creates a new analyze use case
func NewAnalyzeUseCase() *AnalyzeUseCase {
	return &AnalyzeUseCase{
		loader:     service.NewConfigurationLoader(),
		fileHelper: NewFileHelper(),
	}
}

// Execute runs the full analysis pipeline and writes the formatted
// result to the configured writer
func (uc *AnalyzeUseCase) Execute(ctx context.Context, acfg AnalyzeConfig) (*domain.AnalysisResult, error) {
	if len(acfg.Paths) == 0 {
		return nil, domain.NewValidationError("no paths to analyze")
	}

	cfg, err := uc.loadConfig(acfg)
	if err != nil {
		return nil, err
	}

	files, err := ResolveFilePaths(
		uc.fileHelper,
		acfg.Paths,
		cfg.Analysis.IncludePatterns,
		cfg.Analysis.ExcludePatterns,
		cfg.Analysis.IgnoreFile,
	)
	if err != nil {
		return nil, domain.NewAnalysisError("failed to collect files", err)
	}
	if len(files) == 0 {
		return nil, domain.NewValidationError("no Solidity files found in the given paths")
	}

	registry := rules.NewRegistry()
	if err := registry.RegisterBuiltin(); err != nil {
		return nil, err
	}

	cacheMgr := uc.buildCache(cfg)
	svc, err := service.NewAnalysisService(registry, cacheMgr, cfg)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.Performance.MaxConcurrency
	if concurrency <= 0 {
		concurrency = service.NumCPUConcurrency()
	}

	pm := service.NewProgressManager(acfg.ShowProgress)
	defer pm.Close()
	task := pm.StartTask("Analyzing", len(files))

	req := domain.AnalysisRequest{
		Files:          files,
		MaxConcurrency: concurrency,
		Timeout:        time.Duration(cfg.Performance.TimeoutSeconds) * time.Second,
		OnProgress: func(current, total int) {
			task.Describe(fmt.Sprintf("Analyzing %d/%d", current, total))
			task.Increment(1)
		},
	}

	result, err := svc.Analyze(ctx, req)
	task.Complete()
	if err != nil {
		return nil, err
	}

	if cacheMgr != nil && cfg.Cache.Persist {
		cacheMgr.Save()
	}

	writer := acfg.OutputWriter
	if writer == nil {
		writer = os.Stdout
	}
	format := acfg.OutputFormat
	if format == "" {
		format = domain.OutputFormat(cfg.Output.Format)
	}

	metas := make([]domain.RuleMetadata, 0, registry.Len())
	for _, rule := range registry.All() {
		metas = append(metas, rule.Metadata())
	}
	formatter := service.NewOutputFormatterWithRules(metas)
	if err := formatter.Write(result, format, writer); err != nil {
		return nil, err
	}
	return result, nil
}

// loadConfig resolves the effective configuration for one run
func (uc *AnalyzeUseCase) loadConfig(acfg AnalyzeConfig) (*config.Config, error) {
	var cfg *config.Config
	if acfg.ConfigPath != "" {
		loaded, err := uc.loader.LoadConfig(acfg.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else {
		cfg = uc.loader.LoadDefaultConfig()
	}

	cfg = uc.loader.MergeConfig(cfg, service.ConfigOverrides{
		Format:         string(acfg.OutputFormat),
		MaxConcurrency: acfg.MaxConcurrency,
		TimeoutSeconds: acfg.TimeoutSeconds,
		NoCache:        acfg.NoCache,
		DisabledRules:  acfg.DisabledRules,
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildCache constructs the cache manager per configuration, loading the
// persisted snapshot when enabled
func (uc *AnalyzeUseCase) buildCache(cfg *config.Config) *cache.Manager {
	if !cfg.Cache.Enabled {
		return nil
	}
	opts := cache.Options{
		TTL:        time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		MaxEntries: cfg.Cache.MaxEntries,
	}
	if cfg.Cache.Persist {
		opts.Dir = cfg.Cache.ResolveDir()
	}
	mgr := cache.NewManager(opts)
	if cfg.Cache.Persist {
		mgr.Load()
	}
	return mgr
}

// IssuesAtOrAbove counts issues whose severity is at least min
func IssuesAtOrAbove(result *domain.AnalysisResult, min domain.Severity) int {
	switch min {
	case domain.SeverityError:
		return result.Summary.Errors
	case domain.SeverityWarning:
		return result.Summary.Errors + result.Summary.Warnings
	default:
		return result.TotalIssues
	}
}
