package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/soliscan/soliscan/domain"
)

// floatingPragma flags missing or unpinned `pragma solidity` directives.
// Contracts deployed with a floating compiler range may be compiled with
// a different compiler than the one they were tested against.
type floatingPragma struct{}

func (r *floatingPragma) Metadata() domain.RuleMetadata {
	return domain.RuleMetadata{
		ID:               "floating-pragma",
		Category:         domain.CategoryBestPractice,
		Severity:         domain.SeverityWarning,
		Title:            "Floating or missing compiler pragma",
		Description:      "The solidity version pragma should pin an exact compiler version instead of a floating range.",
		Recommendation:   "Pin the pragma to the compiler version the contract was tested with, e.g. `pragma solidity 0.8.20;`.",
		DocumentationURL: "https://swcregistry.io/docs/SWC-103",
	}
}

func (r *floatingPragma) Analyze(_ context.Context, actx *Context) error {
	meta := r.Metadata()

	unit := actx.Unit()
	if unit == nil {
		return nil
	}
	pragma := unit.SolidityPragma()
	if pragma == nil {
		actx.Report(domain.Issue{
			RuleID:   meta.ID,
			Severity: meta.Severity,
			Category: meta.Category,
			Message:  "missing solidity version pragma",
			Location: tokenRange(1, 0, 0),
		})
		return nil
	}

	if !strings.ContainsAny(pragma.Value, "^~<>") {
		return nil
	}

	col := strings.Index(actx.LineText(pragma.Line), pragma.Value)
	if col < 0 {
		col = 0
	}
	actx.Report(domain.Issue{
		RuleID:   meta.ID,
		Severity: meta.Severity,
		Category: meta.Category,
		Message:  fmt.Sprintf("floating compiler version %q; pin an exact version", pragma.Value),
		Location: tokenRange(pragma.Line, col, len(pragma.Value)),
	})
	return nil
}
