// Package parser provides tolerant parsing of Solidity source into a
// lightweight structural AST. Tolerant means minor syntax problems are
// collected as recoverable errors alongside a usable partial SourceUnit
// instead of aborting the parse. Only unreadable input (binary data,
// invalid UTF-8) fails outright.
package parser

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// SyntaxError is a recoverable problem found during tolerant parsing.
// Lines are 1-indexed, columns 0-indexed.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Message)
}

// Result holds the outcome of a tolerant parse: a usable partial AST plus
// any recoverable errors encountered along the way.
type Result struct {
	Unit   *SourceUnit
	Errors []SyntaxError
}

// Parser parses Solidity source files
type Parser struct{}

// NewParser creates a new Solidity parser
func NewParser() *Parser {
	return &Parser{}
}

var (
	pragmaRe   = regexp.MustCompile(`^\s*pragma\s+([A-Za-z_]\w*)\s+([^;]+?)\s*(;)?\s*$`)
	contractRe = regexp.MustCompile(`^\s*(abstract\s+)?(contract|library|interface)\b\s*([A-Za-z_$][\w$]*)?(?:\s+is\s+([^{]+))?`)
	functionRe = regexp.MustCompile(`\bfunction\s+([A-Za-z_$][\w$]*)\s*\(`)
	keywordRe  = regexp.MustCompile(`\b(public|external|internal|private|view|pure|payable)\b`)
)

// ParseFile parses Solidity source in tolerant mode.
// The returned Result always carries a usable (possibly partial) SourceUnit
// together with any recoverable syntax errors. A non-nil error is returned
// only for unparseable input: binary data or invalid UTF-8.
func (p *Parser) ParseFile(ctx context.Context, filename string, source []byte) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if bytes.IndexByte(source, 0) >= 0 {
		return nil, fmt.Errorf("not a Solidity source file: %s contains binary data", filename)
	}
	if !utf8.Valid(source) {
		return nil, fmt.Errorf("not a Solidity source file: %s is not valid UTF-8", filename)
	}

	unit := &SourceUnit{Path: filename}
	var errs []SyntaxError

	depth := 0
	inBlockComment := false
	var current *Contract

	lines := strings.Split(string(source), "\n")
	for i, raw := range lines {
		lineNo := i + 1
		line, nowInComment := stripComments(raw, inBlockComment)
		inBlockComment = nowInComment
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if m := pragmaRe.FindStringSubmatch(line); m != nil {
			unit.Pragmas = append(unit.Pragmas, Pragma{Name: m[1], Value: m[2], Line: lineNo})
			if m[3] == "" {
				errs = append(errs, SyntaxError{
					Message: "missing ';' after pragma directive",
					Line:    lineNo,
					Column:  len(raw),
				})
			}
		} else if m := contractRe.FindStringSubmatch(line); m != nil && depth == 0 {
			c := Contract{
				Kind:     ContractKind(m[2]),
				Abstract: m[1] != "",
				Line:     lineNo,
			}
			if m[3] == "" {
				errs = append(errs, SyntaxError{
					Message: fmt.Sprintf("%s declaration is missing a name", m[2]),
					Line:    lineNo,
					Column:  strings.Index(raw, m[2]),
				})
			} else {
				c.Name = m[3]
			}
			if m[4] != "" {
				for _, parent := range strings.Split(m[4], ",") {
					if name := strings.TrimSpace(parent); name != "" {
						c.Inherits = append(c.Inherits, name)
					}
				}
			}
			unit.Contracts = append(unit.Contracts, c)
			current = &unit.Contracts[len(unit.Contracts)-1]
		} else if m := functionRe.FindStringSubmatch(line); m != nil && current != nil {
			fn := Function{Name: m[1], Line: lineNo}
			for _, kw := range keywordRe.FindAllString(line, -1) {
				switch kw {
				case "public", "external", "internal", "private":
					fn.Visibility = kw
				case "view", "pure", "payable":
					fn.Mutability = kw
				}
			}
			current.Functions = append(current.Functions, fn)
		}

		for col, ch := range line {
			switch ch {
			case '{':
				depth++
			case '}':
				depth--
				if depth < 0 {
					errs = append(errs, SyntaxError{
						Message: "unexpected '}'",
						Line:    lineNo,
						Column:  col,
					})
					depth = 0
				}
				if depth == 0 {
					current = nil
				}
			}
		}
	}

	if depth > 0 {
		errs = append(errs, SyntaxError{
			Message: fmt.Sprintf("unbalanced braces: %d unclosed '{' at end of file", depth),
			Line:    len(lines),
			Column:  0,
		})
	}
	if inBlockComment {
		errs = append(errs, SyntaxError{
			Message: "unterminated block comment",
			Line:    len(lines),
			Column:  0,
		})
	}

	return &Result{Unit: unit, Errors: errs}, nil
}

// ParseString parses Solidity source from a string
func (p *Parser) ParseString(ctx context.Context, source string) (*Result, error) {
	return p.ParseFile(ctx, "<input>", []byte(source))
}

// stripComments removes line and block comments from a single line.
// String literals are skipped so comment markers inside them are ignored.
// Returns the stripped line and whether a block comment is still open.
func stripComments(line string, inBlock bool) (string, bool) {
	var sb strings.Builder
	i := 0
	inString := byte(0)
	for i < len(line) {
		if inBlock {
			if end := strings.Index(line[i:], "*/"); end >= 0 {
				i += end + 2
				inBlock = false
				continue
			}
			return sb.String(), true
		}
		c := line[i]
		if inString != 0 {
			if c == '\\' && i+1 < len(line) {
				sb.WriteByte(c)
				sb.WriteByte(line[i+1])
				i += 2
				continue
			}
			if c == inString {
				inString = 0
			}
			sb.WriteByte(c)
			i++
			continue
		}
		switch {
		case c == '"' || c == '\'':
			inString = c
			sb.WriteByte(c)
			i++
		case strings.HasPrefix(line[i:], "//"):
			return sb.String(), false
		case strings.HasPrefix(line[i:], "/*"):
			inBlock = true
			i += 2
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String(), inBlock
}
