package service

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"time"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/soliscan/soliscan/domain"
	"github.com/soliscan/soliscan/internal/constants"
	"github.com/soliscan/soliscan/internal/version"
)

// OutputFormatterImpl implements the OutputFormatter interface
type OutputFormatterImpl struct {
	// ruleMeta enriches SARIF rule definitions; keyed by rule id
	ruleMeta map[string]domain.RuleMetadata
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter() *OutputFormatterImpl {
	return &OutputFormatterImpl{ruleMeta: make(map[string]domain.RuleMetadata)}
}

// NewOutputFormatterWithRules creates a formatter that can describe the
// given rules in SARIF output
func NewOutputFormatterWithRules(metas []domain.RuleMetadata) *OutputFormatterImpl {
	f := NewOutputFormatter()
	for _, meta := range metas {
		f.ruleMeta[meta.ID] = meta
	}
	return f
}

// WriteJSON writes data as JSON to the writer
func WriteJSON(writer io.Writer, data interface{}) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// AnalysisResponseJSON wraps AnalysisResult with JSON metadata
type AnalysisResponseJSON struct {
	Version        string                      `json:"version"`
	GeneratedAt    string                      `json:"generated_at"`
	DurationMs     int64                       `json:"duration_ms"`
	Files          []domain.FileAnalysisResult `json:"files"`
	TotalIssues    int                         `json:"total_issues"`
	Summary        domain.Summary              `json:"summary"`
	HasParseErrors bool                        `json:"has_parse_errors"`
}

// Write writes the analysis result in the specified format
func (f *OutputFormatterImpl) Write(result *domain.AnalysisResult, format domain.OutputFormat, writer io.Writer) error {
	switch format {
	case domain.OutputFormatJSON:
		return f.writeJSON(result, writer)
	case domain.OutputFormatText:
		return f.writeText(result, writer)
	case domain.OutputFormatSARIF:
		return f.writeSARIF(result, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

// writeJSON writes the analysis result as JSON
func (f *OutputFormatterImpl) writeJSON(result *domain.AnalysisResult, writer io.Writer) error {
	response := AnalysisResponseJSON{
		Version:        version.GetVersion(),
		GeneratedAt:    time.Now().UTC().Format(time.RFC3339),
		DurationMs:     result.Duration.Milliseconds(),
		Files:          result.Files,
		TotalIssues:    result.TotalIssues,
		Summary:        result.Summary,
		HasParseErrors: result.HasParseErrors,
	}
	if err := WriteJSON(writer, response); err != nil {
		return domain.NewOutputError("failed to encode JSON output", err)
	}
	return nil
}

// writeText writes the analysis result as plain text
func (f *OutputFormatterImpl) writeText(result *domain.AnalysisResult, writer io.Writer) error {
	for _, file := range result.Files {
		if len(file.Issues) == 0 && len(file.ParseErrors) == 0 {
			continue
		}
		fmt.Fprintf(writer, "%s\n", file.FilePath)
		for _, pe := range file.ParseErrors {
			if pe.Line > 0 {
				fmt.Fprintf(writer, "  %d:%d  parse error  %s\n", pe.Line, pe.Column, pe.Message)
			} else {
				fmt.Fprintf(writer, "  parse error  %s\n", pe.Message)
			}
		}
		for _, issue := range file.Issues {
			fmt.Fprintf(writer, "  %d:%d  %s  %s  (%s)\n",
				issue.Location.Start.Line, issue.Location.Start.Column,
				issue.Severity, issue.Message, issue.RuleID)
		}
		fmt.Fprintf(writer, "\n")
	}

	fmt.Fprintf(writer, "Summary:\n")
	fmt.Fprintf(writer, "  Files analyzed: %d\n", len(result.Files))
	fmt.Fprintf(writer, "  Issues: %d (%d errors, %d warnings, %d info)\n",
		result.TotalIssues, result.Summary.Errors, result.Summary.Warnings, result.Summary.Info)
	if result.HasParseErrors {
		fmt.Fprintf(writer, "  Some files had parse errors\n")
	}
	return nil
}

// writeSARIF writes the analysis result as SARIF 2.1.0
func (f *OutputFormatterImpl) writeSARIF(result *domain.AnalysisResult, writer io.Writer) error {
	report := sarif.NewReport()
	run := sarif.NewRunWithInformationURI(constants.ToolName, constants.ToolURI)
	run.Tool.Driver.WithVersion(version.GetVersion())

	// Rule definitions and artifacts, each added once, in stable order.
	ruleIDs := make(map[string]struct{})
	fileSet := make(map[string]struct{})
	for _, file := range result.Files {
		for _, issue := range file.Issues {
			ruleIDs[issue.RuleID] = struct{}{}
			fileSet[filepath.ToSlash(issue.FilePath)] = struct{}{}
		}
	}

	sortedRules := make([]string, 0, len(ruleIDs))
	for id := range ruleIDs {
		sortedRules = append(sortedRules, id)
	}
	sort.Strings(sortedRules)
	for _, id := range sortedRules {
		rule := run.AddRule(id)
		if meta, ok := f.ruleMeta[id]; ok {
			if meta.Title != "" {
				rule.WithShortDescription(sarif.NewMultiformatMessageString().WithText(meta.Title))
			}
			if meta.Description != "" {
				rule.WithFullDescription(sarif.NewMultiformatMessageString().WithText(meta.Description))
			}
			if meta.DocumentationURL != "" {
				rule.WithHelpURI(meta.DocumentationURL)
			}
		}
	}

	sortedFiles := make([]string, 0, len(fileSet))
	for file := range fileSet {
		sortedFiles = append(sortedFiles, file)
	}
	sort.Strings(sortedFiles)
	for _, file := range sortedFiles {
		run.AddDistinctArtifact(file)
	}

	for _, file := range result.Files {
		for _, issue := range file.Issues {
			filePath := filepath.ToSlash(issue.FilePath)

			// SARIF uses 1-based columns
			region := sarif.NewRegion().
				WithStartLine(issue.Location.Start.Line).
				WithStartColumn(issue.Location.Start.Column + 1)
			if issue.Location.End.Line > 0 {
				region.WithEndLine(issue.Location.End.Line).
					WithEndColumn(issue.Location.End.Column + 1)
			}

			physicalLocation := sarif.NewPhysicalLocation().
				WithArtifactLocation(sarif.NewSimpleArtifactLocation(filePath)).
				WithRegion(region)

			sarifResult := sarif.NewRuleResult(issue.RuleID).
				WithMessage(sarif.NewTextMessage(issue.Message)).
				WithLevel(severityToSARIFLevel(issue.Severity)).
				WithLocations([]*sarif.Location{
					sarif.NewLocationWithPhysicalLocation(physicalLocation),
				})
			run.AddResult(sarifResult)
		}
	}

	report.AddRun(run)
	if err := report.PrettyWrite(writer); err != nil {
		return domain.NewOutputError("failed to write SARIF output", err)
	}
	return nil
}

// severityToSARIFLevel maps a Severity to the SARIF levels
// "error", "warning" and "note"
func severityToSARIFLevel(s domain.Severity) string {
	switch s {
	case domain.SeverityError:
		return "error"
	case domain.SeverityWarning:
		return "warning"
	default:
		return "note"
	}
}
