package rules

import (
	"context"

	"github.com/soliscan/soliscan/domain"
)

// txOrigin flags authorization checks based on tx.origin, which are
// vulnerable to phishing through an intermediate contract.
type txOrigin struct{}

func (r *txOrigin) Metadata() domain.RuleMetadata {
	return domain.RuleMetadata{
		ID:               "no-tx-origin",
		Category:         domain.CategorySecurity,
		Severity:         domain.SeverityError,
		Title:            "Authorization through tx.origin",
		Description:      "tx.origin refers to the original external account of the transaction, so any contract called along the way can impersonate the user.",
		Recommendation:   "Use msg.sender for authorization checks.",
		DocumentationURL: "https://swcregistry.io/docs/SWC-115",
	}
}

func (r *txOrigin) Analyze(_ context.Context, actx *Context) error {
	reportOccurrences(actx, r.Metadata(), "tx.origin",
		"use of tx.origin; use msg.sender for authorization")
	return nil
}
