package rules

import (
	"context"
	"testing"

	"github.com/soliscan/soliscan/domain"
	"github.com/soliscan/soliscan/internal/parser"
)

// analyzeSource runs a single rule over a source snippet and returns the
// reported issues.
func analyzeSource(t *testing.T, rule Rule, source string) []domain.Issue {
	t.Helper()
	result, err := parser.NewParser().ParseFile(context.Background(), "test.sol", []byte(source))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	actx := NewContext("test.sol", []byte(source), result.Unit)
	if err := rule.Analyze(context.Background(), actx); err != nil {
		t.Fatalf("Rule %s failed: %v", rule.Metadata().ID, err)
	}
	return actx.Issues()
}

func issueCount(issues []domain.Issue, ruleID string) int {
	n := 0
	for _, issue := range issues {
		if issue.RuleID == ruleID {
			n++
		}
	}
	return n
}

func TestTxOrigin(t *testing.T) {
	source := `pragma solidity 0.8.20;
contract Wallet {
    address owner;
    function withdraw() public {
        require(tx.origin == owner, "denied");
    }
}`
	issues := analyzeSource(t, &txOrigin{}, source)
	if issueCount(issues, "no-tx-origin") != 1 {
		t.Fatalf("Expected 1 tx.origin finding, got %d", len(issues))
	}
	issue := issues[0]
	if issue.Severity != domain.SeverityError || issue.Category != domain.CategorySecurity {
		t.Errorf("Unexpected severity/category: %+v", issue)
	}
	if issue.Location.Start.Line != 5 {
		t.Errorf("Expected finding on line 5, got %d", issue.Location.Start.Line)
	}

	clean := analyzeSource(t, &txOrigin{}, "contract A { function f() public { require(msg.sender != address(0)); } }")
	if len(clean) != 0 {
		t.Errorf("msg.sender must not be flagged: %+v", clean)
	}
}

func TestFloatingPragma(t *testing.T) {
	floating := analyzeSource(t, &floatingPragma{}, "pragma solidity ^0.8.0;\ncontract A {}")
	if issueCount(floating, "floating-pragma") != 1 {
		t.Errorf("Caret range should be flagged, got %+v", floating)
	}

	missing := analyzeSource(t, &floatingPragma{}, "contract A {}")
	if issueCount(missing, "floating-pragma") != 1 {
		t.Errorf("Missing pragma should be flagged, got %+v", missing)
	}

	pinned := analyzeSource(t, &floatingPragma{}, "pragma solidity 0.8.20;\ncontract A {}")
	if len(pinned) != 0 {
		t.Errorf("Pinned pragma must not be flagged: %+v", pinned)
	}
}

func TestUncheckedCall(t *testing.T) {
	unchecked := analyzeSource(t, &uncheckedCall{}, `contract A {
    function pay(address to) public {
        to.call{value: 1 ether}("");
    }
}`)
	if issueCount(unchecked, "unchecked-low-level-call") != 1 {
		t.Errorf("Bare call should be flagged, got %+v", unchecked)
	}

	checked := analyzeSource(t, &uncheckedCall{}, `contract A {
    function pay(address to) public {
        (bool ok, ) = to.call{value: 1 ether}("");
        require(ok, "transfer failed");
    }
}`)
	if len(checked) != 0 {
		t.Errorf("Assigned call result must not be flagged: %+v", checked)
	}
}

func TestDeprecatedTransferSend(t *testing.T) {
	source := `contract A {
    function pay(address payable to, IERC20 token) public {
        to.transfer(1 ether);
        to.send(1 ether);
        token.safeTransfer(to, 1);
    }
}`
	issues := analyzeSource(t, &deprecatedTransferSend{}, source)
	if issueCount(issues, "avoid-transfer-send") != 2 {
		t.Errorf("Expected transfer and send flagged, got %+v", issues)
	}
}

func TestUnsafeDelegatecall(t *testing.T) {
	issues := analyzeSource(t, &unsafeDelegatecall{}, `contract Proxy {
    function forward(address impl, bytes memory data) public {
        impl.delegatecall(data);
    }
}`)
	if issueCount(issues, "no-delegatecall") != 1 {
		t.Errorf("delegatecall should be flagged, got %+v", issues)
	}
}

func TestSelfdestructPresence(t *testing.T) {
	issues := analyzeSource(t, &selfdestructPresence{}, `contract Kill {
    function boom() public {
        selfdestruct(payable(msg.sender));
    }
}`)
	if issueCount(issues, "no-selfdestruct") != 1 {
		t.Errorf("selfdestruct should be flagged, got %+v", issues)
	}
}

func TestMissingSPDX(t *testing.T) {
	missing := analyzeSource(t, &missingSPDX{}, "pragma solidity 0.8.20;\ncontract A {}")
	if issueCount(missing, "missing-spdx-identifier") != 1 {
		t.Fatalf("Missing SPDX should be flagged, got %+v", missing)
	}
	if missing[0].Fix == nil {
		t.Error("SPDX finding should carry a machine-applicable fix")
	}

	present := analyzeSource(t, &missingSPDX{}, "// SPDX-License-Identifier: MIT\ncontract A {}")
	if len(present) != 0 {
		t.Errorf("Existing SPDX must not be flagged: %+v", present)
	}
}

func TestMissingVisibility(t *testing.T) {
	source := `pragma solidity 0.8.20;
contract A {
    function implicit() { }
    function explicit() public { }
}
interface IA {
    function ext();
}`
	issues := analyzeSource(t, &missingVisibility{}, source)
	if issueCount(issues, "explicit-function-visibility") != 1 {
		t.Fatalf("Expected exactly the implicit function flagged, got %+v", issues)
	}
	if issues[0].Location.Start.Line != 3 {
		t.Errorf("Expected finding on line 3, got %d", issues[0].Location.Start.Line)
	}
}
