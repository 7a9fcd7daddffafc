package rules

import (
	"strings"

	"github.com/soliscan/soliscan/domain"
	"github.com/soliscan/soliscan/internal/parser"
)

// Context is the per-file collector rules report findings into and read
// source text from. It is the sole mutable surface a rule may touch and
// has no knowledge of other files. One Context is created per file
// analysis; rules for a given file run sequentially, so no locking.
type Context struct {
	filePath string
	source   string
	lines    []string
	unit     *parser.SourceUnit
	issues   []domain.Issue
}

// NewContext creates the analysis context for one file
func NewContext(filePath string, source []byte, unit *parser.SourceUnit) *Context {
	src := string(source)
	return &Context{
		filePath: filePath,
		source:   src,
		lines:    strings.Split(src, "\n"),
		unit:     unit,
	}
}

// FilePath returns the path of the file under analysis
func (c *Context) FilePath() string {
	return c.filePath
}

// Unit returns the partial AST produced by tolerant parsing
func (c *Context) Unit() *parser.SourceUnit {
	return c.unit
}

// LineCount returns the number of lines in the file
func (c *Context) LineCount() int {
	return len(c.lines)
}

// Report appends an issue to the ordered list, stamping it with the
// owning file path. Rules never set FilePath themselves.
func (c *Context) Report(issue domain.Issue) {
	issue.FilePath = c.filePath
	c.issues = append(c.issues, issue)
}

// Issues returns the accumulated findings in insertion order
func (c *Context) Issues() []domain.Issue {
	return c.issues
}

// LineText returns the text of a 1-indexed line, "" when out of range
func (c *Context) LineText(line int) string {
	if line < 1 || line > len(c.lines) {
		return ""
	}
	return c.lines[line-1]
}

// SourceText returns the exact substring covered by a range, splicing
// partial first/last lines and full middle lines. Out-of-range lines
// contribute nothing rather than failing.
func (c *Context) SourceText(r domain.Range) string {
	if r.Start.Line == r.End.Line {
		return sliceLine(c.LineText(r.Start.Line), r.Start.Column, r.End.Column)
	}

	var sb strings.Builder
	first := c.LineText(r.Start.Line)
	if r.Start.Column < len(first) {
		sb.WriteString(first[r.Start.Column:])
	}
	for line := r.Start.Line + 1; line < r.End.Line; line++ {
		sb.WriteString("\n")
		sb.WriteString(c.LineText(line))
	}
	sb.WriteString("\n")
	sb.WriteString(sliceLine(c.LineText(r.End.Line), 0, r.End.Column))
	return sb.String()
}

// sliceLine slices with clamped columns so malformed ranges degrade to ""
func sliceLine(line string, from, to int) string {
	if from < 0 {
		from = 0
	}
	if to > len(line) {
		to = len(line)
	}
	if from >= to {
		return ""
	}
	return line[from:to]
}
