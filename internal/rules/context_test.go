package rules

import (
	"testing"

	"github.com/soliscan/soliscan/domain"
)

const contextSource = `pragma solidity 0.8.20;
contract A {
    function f() public {}
}`

func newTestContext(t *testing.T, source string) *Context {
	t.Helper()
	return NewContext("test.sol", []byte(source), nil)
}

func TestContext_ReportStampsFilePath(t *testing.T) {
	ctx := newTestContext(t, contextSource)
	ctx.Report(domain.Issue{RuleID: "r1", Message: "first"})
	ctx.Report(domain.Issue{RuleID: "r2", Message: "second", FilePath: "spoofed.sol"})

	issues := ctx.Issues()
	if len(issues) != 2 {
		t.Fatalf("Expected 2 issues, got %d", len(issues))
	}
	for _, issue := range issues {
		if issue.FilePath != "test.sol" {
			t.Errorf("Issue %s should carry the owning file path, got %q", issue.RuleID, issue.FilePath)
		}
	}
	if issues[0].RuleID != "r1" || issues[1].RuleID != "r2" {
		t.Error("Issues must preserve insertion order")
	}
}

func TestContext_LineText(t *testing.T) {
	ctx := newTestContext(t, contextSource)

	if got := ctx.LineText(1); got != "pragma solidity 0.8.20;" {
		t.Errorf("Unexpected line 1: %q", got)
	}
	if got := ctx.LineText(0); got != "" {
		t.Errorf("Line 0 should be empty, got %q", got)
	}
	if got := ctx.LineText(99); got != "" {
		t.Errorf("Out-of-range line should be empty, got %q", got)
	}
}

func TestContext_SourceText(t *testing.T) {
	ctx := newTestContext(t, contextSource)

	tests := []struct {
		name     string
		r        domain.Range
		expected string
	}{
		{
			name: "single line slice",
			r: domain.Range{
				Start: domain.Position{Line: 1, Column: 7},
				End:   domain.Position{Line: 1, Column: 15},
			},
			expected: "solidity",
		},
		{
			name: "multi line splice",
			r: domain.Range{
				Start: domain.Position{Line: 2, Column: 9},
				End:   domain.Position{Line: 3, Column: 12},
			},
			expected: "A {\n    function",
		},
		{
			name: "full middle line",
			r: domain.Range{
				Start: domain.Position{Line: 1, Column: 0},
				End:   domain.Position{Line: 3, Column: 0},
			},
			expected: "pragma solidity 0.8.20;\ncontract A {\n",
		},
		{
			name: "out of range lines yield empty",
			r: domain.Range{
				Start: domain.Position{Line: 50, Column: 0},
				End:   domain.Position{Line: 50, Column: 10},
			},
			expected: "",
		},
		{
			name: "column past end of line is clamped",
			r: domain.Range{
				Start: domain.Position{Line: 2, Column: 9},
				End:   domain.Position{Line: 2, Column: 500},
			},
			expected: "A {",
		},
		{
			name: "inverted columns yield empty",
			r: domain.Range{
				Start: domain.Position{Line: 1, Column: 10},
				End:   domain.Position{Line: 1, Column: 2},
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ctx.SourceText(tt.r); got != tt.expected {
				t.Errorf("SourceText(%+v) = %q, want %q", tt.r, got, tt.expected)
			}
		})
	}
}
