package domain

// RuleMetadata describes a rule's identity and documentation.
// ID must be globally unique across all registered rules.
type RuleMetadata struct {
	ID               string   `json:"id"`
	Category         Category `json:"category"`
	Severity         Severity `json:"severity"`
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Recommendation   string   `json:"recommendation"`
	DocumentationURL string   `json:"documentation_url,omitempty"`
	Fixable          bool     `json:"fixable,omitempty"`
}
