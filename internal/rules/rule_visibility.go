package rules

import (
	"context"
	"fmt"
	"strings"

	"github.com/soliscan/soliscan/domain"
	"github.com/soliscan/soliscan/internal/parser"
)

// missingVisibility flags functions declared without an explicit
// visibility keyword. Works off the parsed contract skeleton rather
// than raw text.
type missingVisibility struct{}

func (r *missingVisibility) Metadata() domain.RuleMetadata {
	return domain.RuleMetadata{
		ID:               "explicit-function-visibility",
		Category:         domain.CategoryBestPractice,
		Severity:         domain.SeverityWarning,
		Title:            "Function visibility not declared",
		Description:      "Functions without an explicit visibility keyword are easy to misread and, in older compilers, defaulted to public.",
		Recommendation:   "Declare every function public, external, internal or private.",
		DocumentationURL: "https://swcregistry.io/docs/SWC-100",
	}
}

func (r *missingVisibility) Analyze(_ context.Context, actx *Context) error {
	unit := actx.Unit()
	if unit == nil {
		return nil
	}

	meta := r.Metadata()
	for _, contract := range unit.Contracts {
		// Interface members are implicitly external.
		if contract.Kind == parser.KindInterface {
			continue
		}
		for _, fn := range contract.Functions {
			if fn.Visibility != "" {
				continue
			}
			col := strings.Index(actx.LineText(fn.Line), "function")
			if col < 0 {
				col = 0
			}
			actx.Report(domain.Issue{
				RuleID:   meta.ID,
				Severity: meta.Severity,
				Category: meta.Category,
				Message:  fmt.Sprintf("function %q has no explicit visibility", fn.Name),
				Location: tokenRange(fn.Line, col, len("function")),
			})
		}
	}
	return nil
}
