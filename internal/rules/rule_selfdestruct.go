package rules

import (
	"context"

	"github.com/soliscan/soliscan/domain"
)

// selfdestructPresence flags selfdestruct (and the legacy suicide alias).
// An inadequately guarded selfdestruct lets anyone destroy the contract
// and redirect its balance.
type selfdestructPresence struct{}

func (r *selfdestructPresence) Metadata() domain.RuleMetadata {
	return domain.RuleMetadata{
		ID:               "no-selfdestruct",
		Category:         domain.CategorySecurity,
		Severity:         domain.SeverityWarning,
		Title:            "Contract can be destroyed",
		Description:      "selfdestruct removes the contract code and forcibly sends its balance; combined with weak access control this bricks the protocol.",
		Recommendation:   "Avoid selfdestruct, or guard it with strict multi-party access control.",
		DocumentationURL: "https://swcregistry.io/docs/SWC-106",
	}
}

func (r *selfdestructPresence) Analyze(_ context.Context, actx *Context) error {
	meta := r.Metadata()
	reportOccurrences(actx, meta, "selfdestruct(",
		"contract uses selfdestruct; verify it cannot be reached by unauthorized callers")
	reportOccurrences(actx, meta, "suicide(",
		"contract uses the deprecated suicide alias for selfdestruct")
	return nil
}
