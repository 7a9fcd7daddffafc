package rules

import (
	"context"
	"strings"

	"github.com/soliscan/soliscan/domain"
)

const spdxMarker = "SPDX-License-Identifier"

// missingSPDX flags files without an SPDX license identifier comment.
// The Solidity compiler emits a warning for these since 0.6.8.
type missingSPDX struct{}

func (r *missingSPDX) Metadata() domain.RuleMetadata {
	return domain.RuleMetadata{
		ID:               "missing-spdx-identifier",
		Category:         domain.CategoryStyle,
		Severity:         domain.SeverityInfo,
		Title:            "Missing SPDX license identifier",
		Description:      "Every Solidity source file should declare its license with an SPDX identifier comment.",
		Recommendation:   "Add `// SPDX-License-Identifier: <license>` as the first line of the file.",
		DocumentationURL: "https://docs.soliditylang.org/en/latest/layout-of-source-files.html#spdx-license-identifier",
		Fixable:          true,
	}
}

func (r *missingSPDX) Analyze(_ context.Context, actx *Context) error {
	for lineNo := 1; lineNo <= actx.LineCount(); lineNo++ {
		if strings.Contains(actx.LineText(lineNo), spdxMarker) {
			return nil
		}
	}

	meta := r.Metadata()
	actx.Report(domain.Issue{
		RuleID:   meta.ID,
		Severity: meta.Severity,
		Category: meta.Category,
		Message:  "missing SPDX license identifier in source file",
		Location: tokenRange(1, 0, 0),
		Fix: &domain.Fix{
			Description: "Insert an SPDX license identifier comment",
			Range:       tokenRange(1, 0, 0),
			Text:        "// SPDX-License-Identifier: UNLICENSED\n",
		},
	})
	return nil
}
