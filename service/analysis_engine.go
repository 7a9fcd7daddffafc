package service

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/soliscan/soliscan/domain"
	"github.com/soliscan/soliscan/internal/cache"
	"github.com/soliscan/soliscan/internal/config"
	"github.com/soliscan/soliscan/internal/parser"
	"github.com/soliscan/soliscan/internal/rules"
)

// SourceParser abstracts the Solidity front end so the engine can be
// tested with a fake parser
type SourceParser interface {
	ParseFile(ctx context.Context, filename string, source []byte) (*parser.Result, error)
}

// AnalysisServiceImpl implements the AnalysisService interface. It wires
// the rule registry, the result cache and the parser into one pipeline:
// read, cache lookup, parse, run rules, cache store. A failing or
// panicking rule is logged and skipped; the remaining rules still run.
type AnalysisServiceImpl struct {
	registry *rules.Registry
	cache    *cache.Manager
	parser   SourceParser
	cfg      *config.Config

	// configHash keys cache entries to the active configuration
	configHash string
}

// NewAnalysisService creates the analysis service. cacheMgr may be nil
// to disable caching entirely.
func NewAnalysisService(registry *rules.Registry, cacheMgr *cache.Manager, cfg *config.Config) (*AnalysisServiceImpl, error) {
	if registry == nil {
		return nil, domain.NewValidationError("rule registry is required")
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	configHash, err := cache.HashConfig(cfg)
	if err != nil {
		return nil, domain.NewConfigError("failed to hash configuration", err)
	}
	return &AnalysisServiceImpl{
		registry:   registry,
		cache:      cacheMgr,
		parser:     parser.NewParser(),
		cfg:        cfg,
		configHash: configHash,
	}, nil
}

// Cache exposes the underlying cache manager, or nil when caching is
// disabled
func (s *AnalysisServiceImpl) Cache() *cache.Manager {
	return s.cache
}

// Analyze runs the full pipeline over req.Files and returns one
// aggregate result whose Files slice preserves the input order.
func (s *AnalysisServiceImpl) Analyze(ctx context.Context, req domain.AnalysisRequest) (*domain.AnalysisResult, error) {
	start := time.Now()

	fileResults, err := s.analyzeFiles(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &domain.AnalysisResult{
		Files:    fileResults,
		Duration: time.Since(start),
	}
	for i := range fileResults {
		fr := &fileResults[i]
		if fr.HasParseErrors() {
			result.HasParseErrors = true
		}
		for _, issue := range fr.Issues {
			result.TotalIssues++
			result.Summary.Add(issue.Severity)
		}
	}
	return result, nil
}

// analyzeFiles picks the sequential or the concurrent path based on the
// requested concurrency
func (s *AnalysisServiceImpl) analyzeFiles(ctx context.Context, req domain.AnalysisRequest) ([]domain.FileAnalysisResult, error) {
	if req.MaxConcurrency > 1 && len(req.Files) > 1 {
		return s.analyzeConcurrent(ctx, req)
	}
	return s.analyzeSequential(ctx, req)
}

func (s *AnalysisServiceImpl) analyzeSequential(ctx context.Context, req domain.AnalysisRequest) ([]domain.FileAnalysisResult, error) {
	results := make([]domain.FileAnalysisResult, 0, len(req.Files))
	for i, filePath := range req.Files {
		if err := ctx.Err(); err != nil {
			return nil, domain.NewAnalysisError("analysis cancelled", err)
		}
		fr, err := s.AnalyzeFile(ctx, s.resolvePath(req.Cwd, filePath))
		if err != nil {
			fr = failedFileResult(filePath, err)
		}
		fr.FilePath = filePath
		results = append(results, *fr)
		if req.OnProgress != nil {
			req.OnProgress(i+1, len(req.Files))
		}
	}
	return results, nil
}

func (s *AnalysisServiceImpl) analyzeConcurrent(ctx context.Context, req domain.AnalysisRequest) ([]domain.FileAnalysisResult, error) {
	opts := PoolOptions{
		MaxConcurrency: req.MaxConcurrency,
		TaskTimeout:    req.Timeout,
	}
	if req.OnProgress != nil {
		progress := req.OnProgress
		opts.OnProgress = func(completed, total int, _ string) {
			progress(completed, total)
		}
	}

	pool := NewWorkerPool[string, *domain.FileAnalysisResult](opts)
	for i, filePath := range req.Files {
		resolved := s.resolvePath(req.Cwd, filePath)
		task := Task[string, *domain.FileAnalysisResult]{
			ID:   strconv.Itoa(i),
			Data: resolved,
			Execute: func(taskCtx context.Context, path string) (*domain.FileAnalysisResult, error) {
				return s.AnalyzeFile(taskCtx, path)
			},
		}
		if err := pool.AddTask(task); err != nil {
			return nil, err
		}
	}

	taskResults, err := pool.Execute(ctx)
	if err != nil {
		return nil, err
	}

	// Reassemble in input order regardless of completion order. Tasks
	// that failed outright (timeout, read error, stop) still get a slot.
	results := make([]domain.FileAnalysisResult, 0, len(req.Files))
	for i, filePath := range req.Files {
		tr, ok := taskResults[strconv.Itoa(i)]
		var fr *domain.FileAnalysisResult
		switch {
		case ok && tr.Success && tr.Result != nil:
			fr = tr.Result
		case ok && tr.Err != nil:
			fr = failedFileResult(filePath, tr.Err)
		default:
			fr = failedFileResult(filePath, fmt.Errorf("no result produced"))
		}
		fr.FilePath = filePath
		results = append(results, *fr)
	}
	return results, nil
}

// AnalyzeFile analyzes one file, consulting the cache first. The
// returned result is cached only when the file parsed without trouble.
func (s *AnalysisServiceImpl) AnalyzeFile(ctx context.Context, filePath string) (*domain.FileAnalysisResult, error) {
	start := time.Now()

	content, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.NewFileNotFoundError(filePath, err)
		}
		return nil, domain.NewAnalysisError(fmt.Sprintf("failed to read %s", filePath), err)
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(filePath, content, s.configHash); ok {
			hit := *cached
			hit.Duration = time.Since(start)
			return &hit, nil
		}
	}

	result := &domain.FileAnalysisResult{FilePath: filePath}

	parseResult, err := s.parser.ParseFile(ctx, filePath, content)
	if err != nil {
		// Fatal parse failure: the file result carries the error and no
		// rule runs. Never cached.
		result.ParseErrors = []domain.ParseError{{Message: err.Error()}}
		result.Duration = time.Since(start)
		return result, nil
	}
	for _, se := range parseResult.Errors {
		result.ParseErrors = append(result.ParseErrors, domain.ParseError{
			Message: se.Message,
			Line:    se.Line,
			Column:  se.Column,
		})
	}

	actx := rules.NewContext(filePath, content, parseResult.Unit)
	for _, rule := range s.registry.All() {
		meta := rule.Metadata()
		if s.cfg.Rules.IsDisabled(meta.ID) {
			continue
		}
		s.runRule(ctx, rule, meta.ID, actx)
	}

	result.Issues = actx.Issues()
	s.applySeverityOverrides(result.Issues)
	result.Duration = time.Since(start)

	if s.cache != nil && !result.HasParseErrors() {
		// Store a copy: callers restamp FilePath on the returned struct
		// and must not reach the cached entry.
		stored := *result
		s.cache.Set(filePath, content, s.configHash, &stored)
	}
	return result, nil
}

// runRule executes one rule, containing both returned errors and panics
// so a misbehaving rule cannot take down the file analysis
func (s *AnalysisServiceImpl) runRule(ctx context.Context, rule rules.Rule, id string, actx *rules.Context) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("rule %s panicked on %s: %v", id, actx.FilePath(), r)
		}
	}()
	if err := rule.Analyze(ctx, actx); err != nil {
		log.Printf("rule %s failed on %s: %v", id, actx.FilePath(), err)
	}
}

// applySeverityOverrides rewrites issue severities per configuration
func (s *AnalysisServiceImpl) applySeverityOverrides(issues []domain.Issue) {
	if len(s.cfg.Rules.Severity) == 0 {
		return
	}
	for i := range issues {
		if override, ok := s.cfg.Rules.Severity[issues[i].RuleID]; ok {
			issues[i].Severity = domain.ParseSeverity(override)
		}
	}
}

// resolvePath makes filePath readable from anywhere while keeping the
// caller's original spelling in the reported results
func (s *AnalysisServiceImpl) resolvePath(cwd, filePath string) string {
	if cwd == "" || filepath.IsAbs(filePath) {
		return filePath
	}
	return filepath.Join(cwd, filePath)
}

// failedFileResult wraps an analysis failure as a per-file result so
// one bad file never aborts the whole run
func failedFileResult(filePath string, err error) *domain.FileAnalysisResult {
	log.Printf("analysis of %s failed: %v", filePath, err)
	return &domain.FileAnalysisResult{
		FilePath:    filePath,
		ParseErrors: []domain.ParseError{{Message: fmt.Sprintf("analysis failed: %s", err)}},
	}
}
