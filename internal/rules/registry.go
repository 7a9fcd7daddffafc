// Package rules holds the rule registry, the per-file analysis context
// and the built-in Solidity checks. Rules are stateless AST/text pattern
// matchers: they inspect one file through a Context and report zero or
// more issues into it.
package rules

import (
	"context"

	"github.com/soliscan/soliscan/domain"
)

// Rule is a pluggable check. Implementations must be immutable once
// registered; the engine shares them read-only across files.
type Rule interface {
	// Metadata describes the rule. ID must be globally unique.
	Metadata() domain.RuleMetadata

	// Analyze inspects the file behind actx and reports findings via
	// actx.Report. Returning an error (or panicking) skips this rule
	// for this file without affecting sibling rules.
	Analyze(ctx context.Context, actx *Context) error
}

// Registry holds the active set of rules keyed by id, preserving
// registration order. It is populated once before analysis begins and
// needs no concurrency guarantees.
type Registry struct {
	rules map[string]Rule
	order []string
}

// NewRegistry creates an empty rule registry
func NewRegistry() *Registry {
	return &Registry{rules: make(map[string]Rule)}
}

// Register adds a rule. A duplicate id fails with a DuplicateRuleError
// unless force is set, in which case the existing rule is replaced in
// its original position.
func (r *Registry) Register(rule Rule, force bool) error {
	id := rule.Metadata().ID
	if _, exists := r.rules[id]; exists {
		if !force {
			return domain.NewDuplicateRuleError(id)
		}
		r.rules[id] = rule
		return nil
	}
	r.rules[id] = rule
	r.order = append(r.order, id)
	return nil
}

// RegisterBulk registers each rule in turn, failing fast on the first
// duplicate
func (r *Registry) RegisterBulk(rules []Rule, force bool) error {
	for _, rule := range rules {
		if err := r.Register(rule, force); err != nil {
			return err
		}
	}
	return nil
}

// Get returns the rule with the given id
func (r *Registry) Get(id string) (Rule, bool) {
	rule, ok := r.rules[id]
	return rule, ok
}

// Has reports whether a rule with the given id is registered
func (r *Registry) Has(id string) bool {
	_, ok := r.rules[id]
	return ok
}

// All returns every registered rule in stable insertion order
func (r *Registry) All() []Rule {
	out := make([]Rule, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.rules[id])
	}
	return out
}

// ByCategory returns the registered rules of one category, in insertion
// order
func (r *Registry) ByCategory(category domain.Category) []Rule {
	var out []Rule
	for _, id := range r.order {
		if rule := r.rules[id]; rule.Metadata().Category == category {
			out = append(out, rule)
		}
	}
	return out
}

// Unregister removes a rule by id
func (r *Registry) Unregister(id string) error {
	if _, ok := r.rules[id]; !ok {
		return domain.NewRuleNotFoundError(id)
	}
	delete(r.rules, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Clear removes all rules
func (r *Registry) Clear() {
	r.rules = make(map[string]Rule)
	r.order = nil
}

// Len returns the number of registered rules
func (r *Registry) Len() int {
	return len(r.order)
}

// Builtin returns the built-in Solidity rule set in registration order
func Builtin() []Rule {
	return []Rule{
		&missingSPDX{},
		&floatingPragma{},
		&txOrigin{},
		&uncheckedCall{},
		&deprecatedTransferSend{},
		&unsafeDelegatecall{},
		&selfdestructPresence{},
		&missingVisibility{},
	}
}

// RegisterBuiltin registers the built-in Solidity rule set
func (r *Registry) RegisterBuiltin() error {
	return r.RegisterBulk(Builtin(), false)
}
