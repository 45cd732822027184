package llm

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ihavespoons/smellbench/internal/cases"
)

// PromptMetrics are the metric placeholders every template may reference
var PromptMetrics = []string{"NOF", "NOPF", "NOM", "NOPM", "LOC", "WMC", "DIT", "LCOM", "FANIN", "FANOUT"}

// Prompts is the prompt set loaded from prompts.yaml
type Prompts struct {
	System                 string `yaml:"system"`
	ExplainTemplate        string `yaml:"explain_template"`
	RefactorTemplate       string `yaml:"refactor_template"`
	MetaValidationTemplate string `yaml:"meta_validation_template"`
}

// LoadPrompts reads and validates a prompts file
func LoadPrompts(path string) (*Prompts, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts: %w", err)
	}
	return ParsePrompts(data)
}

// ParsePrompts parses prompts YAML
func ParsePrompts(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts: %w", err)
	}

	var missing []string
	if p.System == "" {
		missing = append(missing, "system")
	}
	if p.ExplainTemplate == "" {
		missing = append(missing, "explain_template")
	}
	if p.RefactorTemplate == "" {
		missing = append(missing, "refactor_template")
	}
	if p.MetaValidationTemplate == "" {
		missing = append(missing, "meta_validation_template")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("prompts missing keys: %v", missing)
	}
	return &p, nil
}

// Vars builds the template variables for a case. The excerpt is wrapped
// so the model reads it as data.
func Vars(c *cases.Case) map[string]string {
	vars := map[string]string{
		"smell_type":      c.SmellType,
		"detector_reason": c.DetectorReason,
		"code_excerpt":    SanitizeCode(c.CodeExcerpt),
		"problem_bullets": c.DetectorReason,
		"class_name":      c.ClassName,
		"package":         c.Package,
	}
	for _, name := range PromptMetrics {
		vars[name] = c.Metrics.Format(name)
	}
	return vars
}

// PromptHash fingerprints the variables a case's prompts were built from
func PromptHash(vars map[string]string) string {
	// encoding/json sorts map keys, so the encoding is stable
	data, _ := json.Marshal(vars)
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])[:10]
}

// Render fills {name} placeholders from vars. "{{" and "}}" produce
// literal braces; an unknown placeholder is an error.
func Render(template string, vars map[string]string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(template); i++ {
		ch := template[i]
		switch {
		case ch == '{' && i+1 < len(template) && template[i+1] == '{':
			b.WriteByte('{')
			i++
		case ch == '}' && i+1 < len(template) && template[i+1] == '}':
			b.WriteByte('}')
			i++
		case ch == '{':
			end := strings.IndexByte(template[i:], '}')
			if end < 0 {
				return "", fmt.Errorf("unclosed placeholder at offset %d", i)
			}
			name := template[i+1 : i+end]
			value, ok := vars[name]
			if !ok {
				return "", fmt.Errorf("unknown placeholder {%s}", name)
			}
			b.WriteString(value)
			i += end
		default:
			b.WriteByte(ch)
		}
	}
	return b.String(), nil
}
