package rules

import (
	"context"
	"strings"

	"github.com/soliscan/soliscan/domain"
)

// uncheckedCall flags low-level call invocations whose success value is
// discarded. A failed low-level call does not revert by itself.
type uncheckedCall struct{}

func (r *uncheckedCall) Metadata() domain.RuleMetadata {
	return domain.RuleMetadata{
		ID:               "unchecked-low-level-call",
		Category:         domain.CategorySecurity,
		Severity:         domain.SeverityError,
		Title:            "Unchecked low-level call",
		Description:      "Low-level call/staticcall return a success flag instead of reverting; ignoring it silently swallows failures.",
		Recommendation:   "Capture the success flag and require() it, or use a checked transfer helper.",
		DocumentationURL: "https://swcregistry.io/docs/SWC-104",
	}
}

func (r *uncheckedCall) Analyze(_ context.Context, actx *Context) error {
	meta := r.Metadata()
	for lineNo := 1; lineNo <= actx.LineCount(); lineNo++ {
		text := actx.LineText(lineNo)

		idx := strings.Index(text, ".call(")
		if idx < 0 {
			idx = strings.Index(text, ".call{")
		}
		if idx < 0 {
			idx = strings.Index(text, ".staticcall(")
		}
		if idx < 0 {
			continue
		}
		// Assigned or wrapped results count as checked; this is a
		// line-local heuristic, not data-flow analysis.
		if strings.Contains(text, "=") || strings.Contains(text, "require(") || strings.Contains(text, "assert(") {
			continue
		}
		actx.Report(domain.Issue{
			RuleID:   meta.ID,
			Severity: meta.Severity,
			Category: meta.Category,
			Message:  "return value of low-level call is not checked",
			Location: tokenRange(lineNo, idx, len(".call(")),
		})
	}
	return nil
}
