package config

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Strictness represents preset severity profiles for generated configs
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

const templateHeader = `# soliscan configuration
# Generated by 'soliscan init'. All keys are optional; unset keys keep
# their built-in defaults. See 'soliscan rules' for the rule catalog.
`

// GetFullConfigTemplate renders a documented YAML config for the given
// strictness preset
func GetFullConfigTemplate(strictness Strictness) string {
	cfg := DefaultConfig()

	switch strictness {
	case StrictnessRelaxed:
		cfg.Rules.Severity = map[string]string{
			"no-selfdestruct":         "info",
			"avoid-transfer-send":     "info",
			"missing-spdx-identifier": "info",
		}
	case StrictnessStrict:
		cfg.Rules.Severity = map[string]string{
			"avoid-transfer-send":          "error",
			"explicit-function-visibility": "error",
			"floating-pragma":              "error",
		}
	}

	var sb strings.Builder
	sb.WriteString(templateHeader)
	out, err := yaml.Marshal(cfg)
	if err != nil {
		// DefaultConfig always marshals; reaching this is a bug.
		return templateHeader
	}
	sb.Write(out)
	return sb.String()
}

// GetMinimalConfigTemplate renders a short config with the options most
// projects end up touching
func GetMinimalConfigTemplate() string {
	minimal := map[string]any{
		"rules": map[string]any{
			"disabled": []string{},
		},
		"cache": map[string]any{
			"enabled": true,
		},
		"performance": map[string]any{
			"max_concurrency": 0,
		},
	}
	out, err := yaml.Marshal(minimal)
	if err != nil {
		return templateHeader
	}
	return templateHeader + string(out)
}
