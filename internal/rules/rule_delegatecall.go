package rules

import (
	"context"

	"github.com/soliscan/soliscan/domain"
)

// unsafeDelegatecall flags delegatecall invocations. delegatecall runs
// foreign code against this contract's storage, so a corrupted or
// attacker-chosen target takes over the contract.
type unsafeDelegatecall struct{}

func (r *unsafeDelegatecall) Metadata() domain.RuleMetadata {
	return domain.RuleMetadata{
		ID:               "no-delegatecall",
		Category:         domain.CategorySecurity,
		Severity:         domain.SeverityError,
		Title:            "Delegatecall to potentially untrusted callee",
		Description:      "delegatecall executes the callee's code in the caller's storage context; a wrong target rewrites arbitrary state.",
		Recommendation:   "Restrict delegatecall targets to immutable, audited implementation addresses.",
		DocumentationURL: "https://swcregistry.io/docs/SWC-112",
	}
}

func (r *unsafeDelegatecall) Analyze(_ context.Context, actx *Context) error {
	reportOccurrences(actx, r.Metadata(), ".delegatecall(",
		"delegatecall executes foreign code in this contract's storage context")
	return nil
}
