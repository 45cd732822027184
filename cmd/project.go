package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/smellbench/internal/cases"
	"github.com/ihavespoons/smellbench/internal/config"
)

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a smellbench workspace",
	Long: `Write a default smellbench.yaml and prompts file in the current directory
and create the data directories the pipeline writes to.`,
	Run: func(cmd *cobra.Command, args []string) {
		cwd, err := os.Getwd()
		if err != nil {
			exitError("failed to get current directory: %v", err)
		}

		written, err := config.Initialize(cwd)
		if err != nil {
			exitErrorJSON(err)
		}

		if jsonOutput {
			if err := outputJSON(map[string]interface{}{
				"success": true,
				"files":   written,
				"message": "Workspace initialized successfully",
			}); err != nil {
				exitError("failed to encode JSON: %v", err)
			}
		} else {
			for _, f := range written {
				fmt.Printf("Wrote %s\n", f)
			}
			fmt.Println("\nNext steps:")
			fmt.Println("  smellbench parse designite/designCodeSmells.csv")
			fmt.Println("  smellbench build --repo path/to/java/project --store")
			fmt.Println("  smellbench run --model llama3")
		}
	},
}

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show workspace status",
	Long:  `Display the effective configuration and how far the pipeline has progressed.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()

		status := map[string]interface{}{
			"config": c,
		}

		casesCount := -1
		if all, err := cases.ReadCases(c.Paths.Cases); err == nil {
			casesCount = len(all)
		}
		status["cases"] = casesCount

		generations := map[string]int{}
		if files, err := filepath.Glob(filepath.Join(c.Paths.Generations, "*.jsonl")); err == nil {
			for _, f := range files {
				if g, err := cases.ReadGenerations(f); err == nil {
					generations[filepath.Base(f)] = len(g)
				}
			}
		}
		status["generations"] = generations

		if _, err := os.Stat(c.Paths.DB); err == nil {
			if db, err := cases.OpenDB(c.Paths.DB); err == nil {
				if counts, err := db.CountByStrategy(); err == nil {
					status["stored_by_strategy"] = counts
				}
				_ = db.Close()
			}
		}

		output(status, func(interface{}) string {
			var b strings.Builder
			fmt.Fprintf(&b, "Provider: %s (%s)\n", c.LLM.Provider, c.LLM.Model)
			fmt.Fprintf(&b, "Excerpt limit: %d lines, %d workers\n\n", c.Extract.LocLimit, c.Extract.Workers)
			if casesCount < 0 {
				fmt.Fprintf(&b, "Cases: none yet (%s)\n", c.Paths.Cases)
			} else {
				fmt.Fprintf(&b, "Cases: %d (%s)\n", casesCount, c.Paths.Cases)
			}
			names := make([]string, 0, len(generations))
			for n := range generations {
				names = append(names, n)
			}
			sort.Strings(names)
			for _, n := range names {
				fmt.Fprintf(&b, "Generations: %-40s %d\n", n, generations[n])
			}
			return b.String()
		})
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(statusCmd)
}
