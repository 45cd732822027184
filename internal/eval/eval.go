// Package eval scores model generations against their cases with cheap
// lexical heuristics.
package eval

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/viterin/vek"

	"github.com/ihavespoons/smellbench/internal/cases"
)

// Row holds the scores of one generation
type Row struct {
	CaseID              string  `json:"case_id"`
	Model               string  `json:"model"`
	SmellType           string  `json:"smell_type"`
	DetectorAlignment   float64 `json:"detector_alignment"`
	PrincipleGrounding  float64 `json:"principle_grounding"`
	RefactoringCoverage int     `json:"refactoring_coverage"`
	SpecificityIDs      int     `json:"specificity_ids"`
	HallucinationsCount int     `json:"hallucinations_count"`
	Readability         int     `json:"readability"`
}

// Columns is the CSV header written by WriteCSV
var Columns = []string{
	"case_id", "model", "smell_type", "detector_alignment", "principle_grounding",
	"refactoring_coverage", "specificity_ids", "hallucinations_count", "readability",
}

// Score computes the row for one generation of a case
func Score(c *cases.Case, g *cases.Generation) Row {
	explain := g.Explain.Text
	refactor := g.Refactor.Text
	combined := explain + "\n" + refactor

	return Row{
		CaseID:              g.CaseID,
		Model:               g.Model,
		SmellType:           c.SmellType,
		DetectorAlignment:   KeywordScore(c.SmellType, c.DetectorReason, explain),
		PrincipleGrounding:  PrincipleGrounding(explain),
		RefactoringCoverage: len(TagRefactorings(refactor)),
		SpecificityIDs:      SharedIdentifiers(c.CodeExcerpt, refactor),
		HallucinationsCount: len(IdentifierHallucinations(c.CodeExcerpt, combined)),
		Readability:         ReadabilityScore(refactor),
	}
}

// Evaluate scores every generation whose case is known. Generations for
// unknown cases are dropped.
func Evaluate(all []cases.Case, generations []cases.Generation) []Row {
	byID := make(map[string]*cases.Case, len(all))
	for i := range all {
		byID[all[i].CaseID] = &all[i]
	}

	rows := make([]Row, 0, len(generations))
	for i := range generations {
		c, ok := byID[generations[i].CaseID]
		if !ok {
			continue
		}
		rows = append(rows, Score(c, &generations[i]))
	}
	return rows
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// WriteCSV writes rows with a header
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, r := range rows {
		record := []string{
			r.CaseID,
			r.Model,
			r.SmellType,
			formatFloat(r.DetectorAlignment),
			formatFloat(r.PrincipleGrounding),
			strconv.Itoa(r.RefactoringCoverage),
			strconv.Itoa(r.SpecificityIDs),
			strconv.Itoa(r.HallucinationsCount),
			strconv.Itoa(r.Readability),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes rows to path, creating parent directories
func WriteCSVFile(path string, rows []Row) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(f, rows); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// ModelSummary holds per-model mean scores
type ModelSummary struct {
	Model               string  `json:"model"`
	Cases               int     `json:"cases"`
	DetectorAlignment   float64 `json:"detector_alignment"`
	PrincipleGrounding  float64 `json:"principle_grounding"`
	RefactoringCoverage float64 `json:"refactoring_coverage"`
	SpecificityIDs      float64 `json:"specificity_ids"`
	HallucinationsCount float64 `json:"hallucinations_count"`
	Readability         float64 `json:"readability"`
}

// Summarize averages rows per model, sorted by model name
func Summarize(rows []Row) []ModelSummary {
	byModel := make(map[string][]Row)
	for _, r := range rows {
		byModel[r.Model] = append(byModel[r.Model], r)
	}

	models := make([]string, 0, len(byModel))
	for m := range byModel {
		models = append(models, m)
	}
	sort.Strings(models)

	out := make([]ModelSummary, 0, len(models))
	for _, m := range models {
		group := byModel[m]
		mean := func(field func(Row) float64) float64 {
			xs := make([]float64, len(group))
			for i, r := range group {
				xs[i] = field(r)
			}
			return round3(vek.Mean(xs))
		}
		out = append(out, ModelSummary{
			Model:               m,
			Cases:               len(group),
			DetectorAlignment:   mean(func(r Row) float64 { return r.DetectorAlignment }),
			PrincipleGrounding:  mean(func(r Row) float64 { return r.PrincipleGrounding }),
			RefactoringCoverage: mean(func(r Row) float64 { return float64(r.RefactoringCoverage) }),
			SpecificityIDs:      mean(func(r Row) float64 { return float64(r.SpecificityIDs) }),
			HallucinationsCount: mean(func(r Row) float64 { return float64(r.HallucinationsCount) }),
			Readability:         mean(func(r Row) float64 { return float64(r.Readability) }),
		})
	}
	return out
}
