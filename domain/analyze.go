package domain

import (
	"context"
	"io"
	"strings"
	"time"
)

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText  OutputFormat = "text"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatSARIF OutputFormat = "sarif"
)

// Severity represents the severity of a reported issue
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// ParseSeverity converts a string into a Severity, defaulting to info.
// Matching ignores case and surrounding whitespace so config values like
// "Error" behave as expected.
func ParseSeverity(s string) Severity {
	switch strings.TrimSpace(strings.ToLower(s)) {
	case string(SeverityError):
		return SeverityError
	case string(SeverityWarning):
		return SeverityWarning
	default:
		return SeverityInfo
	}
}

// Category groups rules by the kind of problem they detect
type Category string

const (
	CategorySecurity     Category = "security"
	CategoryBestPractice Category = "best-practice"
	CategoryStyle        Category = "style"
	CategoryGas          Category = "gas"
)

// Position is a single point in a source file.
// Lines are 1-indexed, columns are 0-indexed.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Range is a start/end span in a source file
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Fix describes a textual replacement that a fix applicator may perform.
// The engine never applies fixes itself.
type Fix struct {
	Description string `json:"description"`
	Range       Range  `json:"range"`
	Text        string `json:"text"`
}

// Issue represents a single finding reported by a rule
type Issue struct {
	RuleID   string            `json:"rule_id"`
	Severity Severity          `json:"severity"`
	Category Category          `json:"category"`
	Message  string            `json:"message"`
	FilePath string            `json:"file_path"`
	Location Range             `json:"location"`
	Fix      *Fix              `json:"fix,omitempty"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ParseError represents a syntax problem encountered while parsing a file.
// Recoverable errors are attached to the file result alongside any issues;
// a fatal error is the only content of the result.
type ParseError struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// FileAnalysisResult holds the outcome of analyzing a single file
type FileAnalysisResult struct {
	FilePath    string        `json:"file_path"`
	Issues      []Issue       `json:"issues"`
	ParseErrors []ParseError  `json:"parse_errors,omitempty"`
	Duration    time.Duration `json:"duration_ns"`
}

// HasParseErrors reports whether the file carried any parse-level trouble
func (r *FileAnalysisResult) HasParseErrors() bool {
	return len(r.ParseErrors) > 0
}

// Summary counts issues per severity across an analysis pass
type Summary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// Add counts one issue of the given severity
func (s *Summary) Add(sev Severity) {
	switch sev {
	case SeverityError:
		s.Errors++
	case SeverityWarning:
		s.Warnings++
	default:
		s.Info++
	}
}

// AnalysisResult is the aggregate outcome of one Analyze call.
// Files preserves the input order regardless of completion order.
type AnalysisResult struct {
	Files          []FileAnalysisResult `json:"files"`
	TotalIssues    int                  `json:"total_issues"`
	Summary        Summary              `json:"summary"`
	Duration       time.Duration        `json:"duration_ns"`
	HasParseErrors bool                 `json:"has_parse_errors"`
}

// ProgressFunc is invoked after each file settles with the number of
// completed files and the total file count.
type ProgressFunc func(current, total int)

// AnalysisRequest configures one call to AnalysisService.Analyze
type AnalysisRequest struct {
	// Files to analyze, in the order results should be returned
	Files []string

	// Cwd is the working directory used to normalize file paths
	Cwd string

	// MaxConcurrency bounds how many file analyses are in flight at once.
	// Zero or one forces the sequential path.
	MaxConcurrency int

	// Timeout is the per-file deadline when running concurrently
	Timeout time.Duration

	// OnProgress, when set, is fired once per completed file
	OnProgress ProgressFunc
}

// AnalysisService defines the core analysis pipeline
type AnalysisService interface {
	// Analyze runs every registered rule over the requested files and
	// returns one aggregate result in input order
	Analyze(ctx context.Context, req AnalysisRequest) (*AnalysisResult, error)

	// AnalyzeFile analyzes a single file, consulting the cache first
	AnalyzeFile(ctx context.Context, filePath string) (*FileAnalysisResult, error)
}

// OutputFormatter renders an AnalysisResult for downstream consumers
type OutputFormatter interface {
	Write(result *AnalysisResult, format OutputFormat, writer io.Writer) error
}

// ProgressManager creates progress tasks for long-running operations
type ProgressManager interface {
	StartTask(description string, total int) TaskProgress
	IsInteractive() bool
	Close()
}

// TaskProgress tracks progress of a single task
type TaskProgress interface {
	Increment(n int)
	Describe(description string)
	Complete()
}
