package parser

// ContractKind distinguishes the Solidity top-level declaration kinds
type ContractKind string

const (
	KindContract  ContractKind = "contract"
	KindLibrary   ContractKind = "library"
	KindInterface ContractKind = "interface"
)

// Pragma represents a pragma directive, e.g. `pragma solidity ^0.8.20;`
type Pragma struct {
	Name  string
	Value string
	Line  int
}

// Function represents a function declaration inside a contract
type Function struct {
	Name       string
	Line       int
	Visibility string // public, external, internal, private or "" when omitted
	Mutability string // view, pure, payable or "" when omitted
}

// Contract represents a contract, library or interface declaration
type Contract struct {
	Name      string
	Kind      ContractKind
	Abstract  bool
	Line      int
	Inherits  []string
	Functions []Function
}

// SourceUnit is the partial AST produced by tolerant parsing.
// It intentionally covers only the structure rules need: pragmas and the
// contract/function skeleton. Statement-level matching works on source text.
type SourceUnit struct {
	Path      string
	Pragmas   []Pragma
	Contracts []Contract
}

// ContractByName finds a contract declaration by name, nil when absent
func (u *SourceUnit) ContractByName(name string) *Contract {
	for i := range u.Contracts {
		if u.Contracts[i].Name == name {
			return &u.Contracts[i]
		}
	}
	return nil
}

// SolidityPragma returns the first `pragma solidity` directive, nil when absent
func (u *SourceUnit) SolidityPragma() *Pragma {
	for i := range u.Pragmas {
		if u.Pragmas[i].Name == "solidity" {
			return &u.Pragmas[i]
		}
	}
	return nil
}
