package rules

import (
	"context"
	"strings"

	"github.com/soliscan/soliscan/domain"
)

// deprecatedTransferSend flags ether transfers via .transfer()/.send(),
// which forward a fixed 2300 gas stipend and break when the recipient's
// receive hook costs more.
type deprecatedTransferSend struct{}

func (r *deprecatedTransferSend) Metadata() domain.RuleMetadata {
	return domain.RuleMetadata{
		ID:               "avoid-transfer-send",
		Category:         domain.CategoryBestPractice,
		Severity:         domain.SeverityWarning,
		Title:            "Ether transfer with fixed gas stipend",
		Description:      "address.transfer and address.send forward exactly 2300 gas, an assumption that has already been broken by gas repricings.",
		Recommendation:   "Use `(bool ok, ) = recipient.call{value: amount}(\"\")` and check the result.",
		DocumentationURL: "https://swcregistry.io/docs/SWC-134",
	}
}

func (r *deprecatedTransferSend) Analyze(_ context.Context, actx *Context) error {
	meta := r.Metadata()
	for lineNo := 1; lineNo <= actx.LineCount(); lineNo++ {
		text := actx.LineText(lineNo)
		for _, needle := range []string{".transfer(", ".send("} {
			offset := 0
			for {
				idx := strings.Index(text[offset:], needle)
				if idx < 0 {
					break
				}
				col := offset + idx
				offset = col + len(needle)
				// ERC20 helpers like safeTransfer(...) are a
				// different thing entirely.
				if strings.Contains(text, ".safeTransfer(") || strings.Contains(text, ".transferFrom(") {
					continue
				}
				actx.Report(domain.Issue{
					RuleID:   meta.ID,
					Severity: meta.Severity,
					Category: meta.Category,
					Message:  "ether transfer relies on the 2300 gas stipend; prefer call{value: ...} with a checked result",
					Location: tokenRange(lineNo, col, len(needle)),
				})
			}
		}
	}
	return nil
}
