package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/smellbench/internal/cases"
	"github.com/ihavespoons/smellbench/internal/eval"
	"github.com/ihavespoons/smellbench/internal/report"
)

var (
	reportCases  string
	reportFormat string
	reportOut    string
)

// reportCmd represents the report command
var reportCmd = &cobra.Command{
	Use:   "report <generations.jsonl>...",
	Short: "Render generations for review",
	Long: `Render generations for human review.

The default "dir" format writes case_<id>.md per generation plus INDEX.md into
the output directory (default: paths.reports). The md, json and html formats
write a single file. When the cases file is readable, case details and
heuristic scores are included.`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()

		var generations []cases.Generation
		for _, path := range args {
			g, err := cases.ReadGenerations(path)
			if err != nil {
				exitErrorJSON(err)
			}
			generations = append(generations, g...)
		}

		casesPath := reportCases
		if casesPath == "" {
			casesPath = c.Paths.Cases
		}
		all, err := cases.ReadCases(casesPath)
		if err != nil {
			logger().Printf("reporting without case details: %v", err)
			all = nil
		}
		entries := report.Join(all, generations, eval.Evaluate(all, generations))

		if reportFormat == "dir" {
			dir := reportOut
			if dir == "" {
				dir = c.Paths.Reports
			}
			files, err := report.WriteMarkdownDir(dir, entries)
			if err != nil {
				exitErrorJSON(err)
			}
			output(map[string]interface{}{"output": dir, "files": len(files)}, func(interface{}) string {
				abs, _ := filepath.Abs(dir)
				return fmt.Sprintf("Wrote %d markdown files and INDEX.md to %s\n", len(files), abs)
			})
			return
		}

		exporter, err := report.GetExporter(reportFormat)
		if err != nil {
			exitErrorJSON(err)
		}
		data, err := exporter.Export(entries)
		if err != nil {
			exitErrorJSON(err)
		}

		if reportOut == "" {
			_, _ = os.Stdout.Write(data)
			return
		}
		if err := os.MkdirAll(filepath.Dir(reportOut), 0755); err != nil {
			exitErrorJSON(err)
		}
		if err := os.WriteFile(reportOut, data, 0644); err != nil {
			exitErrorJSON(err)
		}
		output(map[string]interface{}{"output": reportOut, "format": exporter.FormatName()}, func(interface{}) string {
			return fmt.Sprintf("Wrote %s report to %s\n", exporter.FormatName(), reportOut)
		})
	},
}

func init() {
	rootCmd.AddCommand(reportCmd)

	reportCmd.Flags().StringVar(&reportCases, "cases", "", "Cases NDJSON (default: paths.cases)")
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "dir", "Output format: dir, md, json, html")
	reportCmd.Flags().StringVarP(&reportOut, "output", "o", "", "Output directory (dir) or file (default: stdout)")
}
