package report

import (
	"fmt"
	"html"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// HTMLExporter exports entries to a standalone HTML page
type HTMLExporter struct{}

// NewHTMLExporter creates a new HTML exporter
func NewHTMLExporter() *HTMLExporter {
	return &HTMLExporter{}
}

// strategyLabel turns "header_only_fallback" into "Header Only Fallback"
func strategyLabel(s string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(s, "_", " "))
}

// Export exports entries to HTML format
func (e *HTMLExporter) Export(entries []Entry) ([]byte, error) {
	var b strings.Builder
	summary := summarize(entries)

	b.WriteString(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>Smell Explanation Report</title>
    <style>
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; background: #f8fafc; color: #1e293b; line-height: 1.6; padding: 2rem; }
        .container { max-width: 1200px; margin: 0 auto; }
        .meta { color: #64748b; margin-bottom: 2rem; }
        .summary { display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr)); gap: 1rem; margin-bottom: 2rem; }
        .stat-card { background: #fff; border: 1px solid #e2e8f0; border-radius: 0.5rem; padding: 1rem; text-align: center; }
        .stat-value { font-size: 2rem; font-weight: bold; }
        .stat-label { color: #64748b; font-size: 0.875rem; }
        .case { background: #fff; border: 1px solid #e2e8f0; border-radius: 0.5rem; margin-bottom: 1rem; padding: 1rem; }
        .case h4 { font-size: 0.875rem; text-transform: uppercase; color: #64748b; margin: 1rem 0 0.5rem; }
        .badge { background: #2563eb; color: #fff; border-radius: 9999px; padding: 0.1rem 0.6rem; font-size: 0.75rem; }
        pre { background: #1e293b; color: #e2e8f0; padding: 1rem; border-radius: 0.25rem; white-space: pre-wrap; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Smell Explanation Report</h1>
`)
	fmt.Fprintf(&b, "        <p class=\"meta\">Generated by %s v%s on %s</p>\n", toolName, toolVersion, time.Now().Format("2006-01-02 15:04:05"))

	b.WriteString("        <div class=\"summary\">\n")
	writeStat(&b, "Generations", summary.Total)
	for _, model := range sortedKeys(summary.ByModel) {
		writeStat(&b, model, summary.ByModel[model])
	}
	for _, strategy := range sortedKeys(summary.ByStrategy) {
		writeStat(&b, strategyLabel(strategy), summary.ByStrategy[strategy])
	}
	b.WriteString("        </div>\n")

	for i := range entries {
		writeEntry(&b, &entries[i])
	}

	b.WriteString("    </div>\n</body>\n</html>\n")
	return []byte(b.String()), nil
}

func writeStat(b *strings.Builder, label string, value int) {
	fmt.Fprintf(b, `            <div class="stat-card"><div class="stat-value">%d</div><div class="stat-label">%s</div></div>
`, value, html.EscapeString(label))
}

func writeEntry(b *strings.Builder, e *Entry) {
	g := &e.Generation
	fmt.Fprintf(b, "        <div class=\"case\" id=\"case-%s\">\n", html.EscapeString(SafeID(g.CaseID)))
	fmt.Fprintf(b, "            <h3>%s <span class=\"badge\">%s</span></h3>\n", html.EscapeString(g.CaseID), html.EscapeString(g.Model))
	if c := e.Case; c != nil {
		fmt.Fprintf(b, "            <p>%s in <code>%s</code> (%s)</p>\n",
			html.EscapeString(c.SmellType), html.EscapeString(qualifiedName(c)), html.EscapeString(strategyLabel(string(c.ExcerptStrategy))))
		fmt.Fprintf(b, "            <h4>Excerpt</h4>\n            <pre>%s</pre>\n", html.EscapeString(c.CodeExcerpt))
	}
	for _, section := range []struct{ title, text string }{
		{"Explanation", g.Explain.Text},
		{"Refactoring Plan", g.Refactor.Text},
		{"Meta Validation", g.MetaValidation.Text},
	} {
		fmt.Fprintf(b, "            <h4>%s</h4>\n            <pre>%s</pre>\n", section.title, html.EscapeString(section.text))
	}
	b.WriteString("        </div>\n")
}

// FileExtension returns the file extension for HTML
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// FormatName returns the format name
func (e *HTMLExporter) FormatName() string {
	return "html"
}
