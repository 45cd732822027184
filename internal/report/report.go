// Package report renders model generations for human review.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/ihavespoons/smellbench/internal/cases"
	"github.com/ihavespoons/smellbench/internal/eval"
)

const (
	toolName    = "smellbench"
	toolVersion = "1.0.0"
)

// Entry is one generation with the case it answers and its scores, when known
type Entry struct {
	Generation cases.Generation `json:"generation"`
	Case       *cases.Case      `json:"case,omitempty"`
	Score      *eval.Row        `json:"score,omitempty"`
}

// Join pairs generations with their cases and scores
func Join(all []cases.Case, generations []cases.Generation, rows []eval.Row) []Entry {
	byID := make(map[string]*cases.Case, len(all))
	for i := range all {
		byID[all[i].CaseID] = &all[i]
	}
	type key struct{ caseID, model string }
	scores := make(map[key]*eval.Row, len(rows))
	for i := range rows {
		scores[key{rows[i].CaseID, rows[i].Model}] = &rows[i]
	}

	entries := make([]Entry, len(generations))
	for i, g := range generations {
		entries[i] = Entry{
			Generation: g,
			Case:       byID[g.CaseID],
			Score:      scores[key{g.CaseID, g.Model}],
		}
	}
	return entries
}

// SafeID keeps letters, digits, '-' and '_' of a case ID and trims
// leading and trailing underscores.
func SafeID(caseID string) string {
	var b strings.Builder
	for _, r := range caseID {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			b.WriteRune(r)
		}
	}
	id := strings.Trim(b.String(), "_")
	if id == "" {
		return "unknown"
	}
	return id
}

// CaseMarkdown renders one entry as a standalone markdown document
func CaseMarkdown(e *Entry) string {
	g := &e.Generation
	var b strings.Builder
	fmt.Fprintf(&b, "# Case %s\n\n", g.CaseID)

	if c := e.Case; c != nil {
		fmt.Fprintf(&b, "- **Smell:** %s\n", c.SmellType)
		fmt.Fprintf(&b, "- **Class:** %s\n", qualifiedName(c))
		fmt.Fprintf(&b, "- **File:** `%s`\n", c.FilePath)
		fmt.Fprintf(&b, "- **Excerpt strategy:** %s\n", c.ExcerptStrategy)
		fmt.Fprintf(&b, "- **Model:** %s\n\n", g.Model)
	}

	fmt.Fprintf(&b, "## Explanation\n%s\n\n", g.Explain.Text)
	fmt.Fprintf(&b, "## Refactoring Plan\n%s\n\n", g.Refactor.Text)
	fmt.Fprintf(&b, "## Meta Validation\n%s\n", g.MetaValidation.Text)

	if s := e.Score; s != nil {
		b.WriteString("\n## Scores\n\n")
		b.WriteString("| Metric | Value |\n|--------|-------|\n")
		fmt.Fprintf(&b, "| Detector alignment | %g |\n", s.DetectorAlignment)
		fmt.Fprintf(&b, "| Principle grounding | %g |\n", s.PrincipleGrounding)
		fmt.Fprintf(&b, "| Refactoring coverage | %d |\n", s.RefactoringCoverage)
		fmt.Fprintf(&b, "| Specificity | %d |\n", s.SpecificityIDs)
		fmt.Fprintf(&b, "| Hallucinations | %d |\n", s.HallucinationsCount)
		fmt.Fprintf(&b, "| Readability | %d |\n", s.Readability)
	}
	return b.String()
}

func qualifiedName(c *cases.Case) string {
	if c.Package == "" {
		return c.ClassName
	}
	return c.Package + "." + c.ClassName
}

// WriteMarkdownDir writes case_<id>.md per entry plus an INDEX.md linking
// them. Entries whose safe IDs collide get a numeric suffix. It returns the
// written file names.
func WriteMarkdownDir(dir string, entries []Entry) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	seen := make(map[string]int)
	var index []string
	var files []string
	for i := range entries {
		e := &entries[i]
		safe := SafeID(e.Generation.CaseID)
		seen[safe]++
		if n := seen[safe]; n > 1 {
			safe = fmt.Sprintf("%s-%d", safe, n)
		}

		name := "case_" + safe + ".md"
		if err := os.WriteFile(filepath.Join(dir, name), []byte(CaseMarkdown(e)), 0644); err != nil {
			return files, fmt.Errorf("failed to write %s: %w", name, err)
		}
		files = append(files, name)
		index = append(index, fmt.Sprintf("- [Case %s](%s)", e.Generation.CaseID, name))
	}

	content := "# Index of Cases\n\n" + strings.Join(index, "\n")
	if err := os.WriteFile(filepath.Join(dir, "INDEX.md"), []byte(content), 0644); err != nil {
		return files, fmt.Errorf("failed to write INDEX.md: %w", err)
	}
	return files, nil
}
