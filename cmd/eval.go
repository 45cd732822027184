package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/smellbench/internal/cases"
	"github.com/ihavespoons/smellbench/internal/eval"
)

var (
	evalCases string
	evalOut   string
)

// evalCmd represents the eval command
var evalCmd = &cobra.Command{
	Use:   "eval <generations.jsonl>...",
	Short: "Score generations with automatic heuristics",
	Long: `Score every generation against its case: detector alignment, principle
grounding, refactoring coverage, identifier specificity, hallucinated
identifiers and readability. Rows are written as CSV and per-model means are
printed.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()

		casesPath := evalCases
		if casesPath == "" {
			casesPath = c.Paths.Cases
		}
		out := evalOut
		if out == "" {
			out = c.Paths.Eval
		}

		all, err := cases.ReadCases(casesPath)
		if err != nil {
			exitErrorJSON(err)
		}

		var generations []cases.Generation
		for _, path := range args {
			g, err := cases.ReadGenerations(path)
			if err != nil {
				exitErrorJSON(err)
			}
			generations = append(generations, g...)
		}

		rows := eval.Evaluate(all, generations)
		if err := eval.WriteCSVFile(out, rows); err != nil {
			exitErrorJSON(err)
		}
		summary := eval.Summarize(rows)

		result := map[string]interface{}{
			"output":    out,
			"rows":      len(rows),
			"unmatched": len(generations) - len(rows),
			"models":    summary,
		}
		output(result, func(interface{}) string {
			var b strings.Builder
			fmt.Fprintf(&b, "Wrote %d rows to %s\n", len(rows), out)
			if n := len(generations) - len(rows); n > 0 {
				fmt.Fprintf(&b, "Ignored %d generations with unknown case IDs\n", n)
			}
			if len(summary) > 0 {
				fmt.Fprintf(&b, "\n%-30s %5s %6s %6s %6s %6s %6s %6s\n", "MODEL", "N", "ALIGN", "GROUND", "REFAC", "SPEC", "HALLU", "READ")
				for _, s := range summary {
					fmt.Fprintf(&b, "%-30s %5d %6.3f %6.3f %6.2f %6.2f %6.2f %6.2f\n",
						s.Model, s.Cases, s.DetectorAlignment, s.PrincipleGrounding,
						s.RefactoringCoverage, s.SpecificityIDs, s.HallucinationsCount, s.Readability)
				}
			}
			return b.String()
		})
	},
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVar(&evalCases, "cases", "", "Cases NDJSON (default: paths.cases)")
	evalCmd.Flags().StringVarP(&evalOut, "output", "o", "", "Output CSV (default: paths.eval)")
}
