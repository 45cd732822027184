package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/smellbench/internal/smell"
)

var (
	parseOut     string
	mergeSmells  string
	mergeMetrics string
	mergeOut     string
)

// parseCmd represents the parse command
var parseCmd = &cobra.Command{
	Use:   "parse <designite-report>",
	Short: "Normalize a design smells report",
	Long: `Normalize a DesigniteJava design smells report (CSV or TSV) into the interim
smells CSV. Each row gets a stable case ID, its metrics extracted from the
detector's reason and its type name split into outer and inner class.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()

		table, err := smell.ReadTable(args[0])
		if err != nil {
			exitErrorJSON(err)
		}
		records, err := smell.NormalizeSmells(table)
		if err != nil {
			exitErrorJSON(err)
		}

		out := parseOut
		if out == "" {
			out = filepath.Join(c.Paths.Interim, "smells.csv")
		}
		if err := smell.WriteCSVFile(out, records); err != nil {
			exitErrorJSON(err)
		}

		withLine := 0
		for i := range records {
			if records[i].HasLine() {
				withLine++
			}
		}

		result := map[string]interface{}{
			"records":   len(records),
			"with_line": withLine,
			"output":    out,
		}
		output(result, func(interface{}) string {
			return fmt.Sprintf("Wrote %d rows (%d with line numbers) to %s\n", len(records), withLine, out)
		})
	},
}

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge",
	Short: "Join a type metrics table onto normalized smells",
	Long: `Left-join a type metrics export (Project Name, Package Name, Type Name plus
numeric columns) onto the interim smells CSV. Metrics already taken from the
detector's reason are kept.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()
		if mergeMetrics == "" {
			exitError("--metrics is required")
		}

		smellsPath := mergeSmells
		if smellsPath == "" {
			smellsPath = filepath.Join(c.Paths.Interim, "smells.csv")
		}
		out := mergeOut
		if out == "" {
			out = filepath.Join(c.Paths.Interim, "smells_with_metrics.csv")
		}

		records, err := smell.ReadCSV(smellsPath)
		if err != nil {
			exitErrorJSON(err)
		}
		metrics, err := smell.ReadTable(mergeMetrics)
		if err != nil {
			exitErrorJSON(err)
		}
		matched, err := smell.MergeMetrics(records, metrics)
		if err != nil {
			exitErrorJSON(err)
		}
		if err := smell.WriteCSVFile(out, records); err != nil {
			exitErrorJSON(err)
		}

		result := map[string]interface{}{
			"records": len(records),
			"matched": matched,
			"output":  out,
		}
		output(result, func(interface{}) string {
			return fmt.Sprintf("Merged metrics into %d of %d rows; wrote %s\n", matched, len(records), out)
		})
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(mergeCmd)

	parseCmd.Flags().StringVarP(&parseOut, "output", "o", "", "Output CSV (default: <interim>/smells.csv)")

	mergeCmd.Flags().StringVar(&mergeSmells, "smells", "", "Normalized smells CSV (default: <interim>/smells.csv)")
	mergeCmd.Flags().StringVar(&mergeMetrics, "metrics", "", "Type metrics CSV")
	mergeCmd.Flags().StringVarP(&mergeOut, "output", "o", "", "Output CSV (default: <interim>/smells_with_metrics.csv)")
}
