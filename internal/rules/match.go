package rules

import (
	"strings"

	"github.com/soliscan/soliscan/domain"
)

// tokenRange covers one occurrence of a token on a single line
func tokenRange(line, column, width int) domain.Range {
	return domain.Range{
		Start: domain.Position{Line: line, Column: column},
		End:   domain.Position{Line: line, Column: column + width},
	}
}

// reportOccurrences reports one issue per occurrence of needle anywhere in
// the file, using the rule's default severity and category.
func reportOccurrences(actx *Context, meta domain.RuleMetadata, needle, message string) {
	for lineNo := 1; lineNo <= actx.LineCount(); lineNo++ {
		text := actx.LineText(lineNo)
		offset := 0
		for {
			idx := strings.Index(text[offset:], needle)
			if idx < 0 {
				break
			}
			col := offset + idx
			actx.Report(domain.Issue{
				RuleID:   meta.ID,
				Severity: meta.Severity,
				Category: meta.Category,
				Message:  message,
				Location: tokenRange(lineNo, col, len(needle)),
			})
			offset = col + len(needle)
		}
	}
}
