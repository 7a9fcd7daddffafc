package parser

import (
	"context"
	"strings"
	"testing"
)

const sampleContract = `// SPDX-License-Identifier: MIT
pragma solidity ^0.8.20;

contract Vault is Ownable, ReentrancyGuard {
    mapping(address => uint256) public balances;

    function deposit() external payable {
        balances[msg.sender] += msg.value;
    }

    function withdraw(uint256 amount) public {
        balances[msg.sender] -= amount;
    }

    function _sweep() private view returns (uint256) {
        return address(this).balance;
    }
}

library SafeTransfer {
    function transferOut(address to) internal {}
}
`

func TestParseFile_WellFormed(t *testing.T) {
	p := NewParser()
	result, err := p.ParseFile(context.Background(), "vault.sol", []byte(sampleContract))
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no syntax errors, got %v", result.Errors)
	}

	unit := result.Unit
	if len(unit.Pragmas) != 1 {
		t.Fatalf("Expected 1 pragma, got %d", len(unit.Pragmas))
	}
	pragma := unit.SolidityPragma()
	if pragma == nil || pragma.Value != "^0.8.20" {
		t.Errorf("Unexpected solidity pragma: %+v", pragma)
	}

	if len(unit.Contracts) != 2 {
		t.Fatalf("Expected 2 top-level declarations, got %d", len(unit.Contracts))
	}

	vault := unit.ContractByName("Vault")
	if vault == nil {
		t.Fatal("Vault contract not found")
	}
	if vault.Kind != KindContract {
		t.Errorf("Expected contract kind, got %s", vault.Kind)
	}
	if len(vault.Inherits) != 2 || vault.Inherits[0] != "Ownable" {
		t.Errorf("Unexpected inheritance list: %v", vault.Inherits)
	}
	if len(vault.Functions) != 3 {
		t.Fatalf("Expected 3 functions in Vault, got %d", len(vault.Functions))
	}

	deposit := vault.Functions[0]
	if deposit.Name != "deposit" || deposit.Visibility != "external" || deposit.Mutability != "payable" {
		t.Errorf("Unexpected deposit declaration: %+v", deposit)
	}

	lib := unit.ContractByName("SafeTransfer")
	if lib == nil || lib.Kind != KindLibrary {
		t.Errorf("SafeTransfer should be parsed as a library: %+v", lib)
	}
	if len(lib.Functions) != 1 || lib.Functions[0].Visibility != "internal" {
		t.Errorf("Unexpected library functions: %+v", lib.Functions)
	}
}

func TestParseFile_TolerantRecoverableErrors(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		wantMessage string
	}{
		{
			name:        "missing pragma semicolon",
			source:      "pragma solidity ^0.8.0\ncontract A {}\n",
			wantMessage: "missing ';'",
		},
		{
			name:        "unbalanced braces",
			source:      "contract A {\n    function f() public {\n}\n",
			wantMessage: "unbalanced braces",
		},
		{
			name:        "unexpected closing brace",
			source:      "contract A {}\n}\n",
			wantMessage: "unexpected '}'",
		},
		{
			name:        "nameless contract",
			source:      "contract {\n}\n",
			wantMessage: "missing a name",
		},
		{
			name:        "unterminated block comment",
			source:      "contract A {}\n/* trailing\n",
			wantMessage: "unterminated block comment",
		},
	}

	p := NewParser()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := p.ParseString(context.Background(), tt.source)
			if err != nil {
				t.Fatalf("Tolerant parse should not fail outright: %v", err)
			}
			if result.Unit == nil {
				t.Fatal("Tolerant parse must return a usable partial AST")
			}
			if len(result.Errors) == 0 {
				t.Fatal("Expected at least one recoverable error")
			}
			found := false
			for _, e := range result.Errors {
				if strings.Contains(e.Message, tt.wantMessage) {
					found = true
				}
			}
			if !found {
				t.Errorf("Expected an error containing %q, got %v", tt.wantMessage, result.Errors)
			}
		})
	}
}

func TestParseFile_FatalOnBinaryInput(t *testing.T) {
	p := NewParser()
	if _, err := p.ParseFile(context.Background(), "blob.sol", []byte{0x00, 0x01, 0x02}); err == nil {
		t.Error("Binary input should fail the parse outright")
	}
	if _, err := p.ParseFile(context.Background(), "bad.sol", []byte{0xff, 0xfe, 'a'}); err == nil {
		t.Error("Invalid UTF-8 should fail the parse outright")
	}
}

func TestParseFile_CommentsAndStringsIgnored(t *testing.T) {
	source := `pragma solidity 0.8.20;
// contract NotReal {
/* contract AlsoNotReal { */
contract Real {
    string constant n = "function fake() {";
    function real() public {}
}
`
	p := NewParser()
	result, err := p.ParseString(context.Background(), source)
	if err != nil {
		t.Fatalf("ParseString failed: %v", err)
	}
	if len(result.Errors) != 0 {
		t.Errorf("Expected no errors, got %v", result.Errors)
	}
	if len(result.Unit.Contracts) != 1 || result.Unit.Contracts[0].Name != "Real" {
		t.Errorf("Commented-out declarations should be ignored: %+v", result.Unit.Contracts)
	}
	real := result.Unit.ContractByName("Real")
	if len(real.Functions) != 1 || real.Functions[0].Name != "real" {
		t.Errorf("Function inside string literal should be ignored: %+v", real.Functions)
	}
}

func TestParseFile_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewParser()
	if _, err := p.ParseFile(ctx, "a.sol", []byte("contract A {}")); err == nil {
		t.Error("Cancelled context should abort the parse")
	}
}
