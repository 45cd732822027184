package report

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// MarkdownExporter renders all entries into one markdown document
type MarkdownExporter struct{}

// NewMarkdownExporter creates a new markdown exporter
func NewMarkdownExporter() *MarkdownExporter {
	return &MarkdownExporter{}
}

// Export renders entries to markdown
func (e *MarkdownExporter) Export(entries []Entry) ([]byte, error) {
	var b strings.Builder
	summary := summarize(entries)

	b.WriteString("# Smell Explanation Report\n\n")
	fmt.Fprintf(&b, "Generated by %s v%s on %s\n\n", toolName, toolVersion, time.Now().Format("2006-01-02 15:04:05"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Model | Generations |\n|-------|-------------|\n")
	for _, model := range sortedKeys(summary.ByModel) {
		fmt.Fprintf(&b, "| %s | %d |\n", model, summary.ByModel[model])
	}
	fmt.Fprintf(&b, "| **Total** | **%d** |\n\n", summary.Total)

	if len(summary.BySmell) > 0 {
		b.WriteString("| Smell | Generations |\n|-------|-------------|\n")
		for _, smell := range sortedKeys(summary.BySmell) {
			fmt.Fprintf(&b, "| %s | %d |\n", smell, summary.BySmell[smell])
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n")
	for i := range entries {
		// demote the per-case headings one level
		doc := CaseMarkdown(&entries[i])
		doc = strings.ReplaceAll(doc, "\n## ", "\n### ")
		b.WriteString("#" + doc)
		b.WriteString("\n---\n\n")
	}
	return []byte(b.String()), nil
}

// FileExtension returns the file extension for markdown
func (e *MarkdownExporter) FileExtension() string {
	return ".md"
}

// FormatName returns the format name
func (e *MarkdownExporter) FormatName() string {
	return "markdown"
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
