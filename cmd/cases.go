package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/smellbench/internal/cases"
	"github.com/ihavespoons/smellbench/internal/excerpt"
)

var (
	searchSmell string
	searchLimit int
	listSmell   string
)

// casesCmd represents the cases command
var casesCmd = &cobra.Command{
	Use:   "cases",
	Short: "Inspect stored cases",
	Long:  `Search, list and show cases saved by 'smellbench build --store'.`,
}

var casesSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Full-text search over case reasons and excerpts",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()

		idx, err := cases.OpenIndex(c.Paths.Index)
		if err != nil {
			exitErrorJSON(err)
		}
		defer func() { _ = idx.Close() }()

		query := strings.Join(args, " ")
		results, err := idx.Search(query, searchSmell, searchLimit)
		if err != nil {
			exitErrorJSON(err)
		}

		output(map[string]interface{}{"query": query, "results": results, "total": len(results)}, func(interface{}) string {
			if len(results) == 0 {
				return "No matching cases\n"
			}
			var b strings.Builder
			for _, r := range results {
				fmt.Fprintf(&b, "%-40s %-28s %-24s %.3f\n", r.CaseID, r.SmellType, r.ClassName, r.Score)
				if r.Snippet != "" {
					fmt.Fprintf(&b, "    %s\n", strings.ReplaceAll(r.Snippet, "\n", " "))
				}
			}
			return b.String()
		})
	},
}

var casesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored cases",
	Run: func(cmd *cobra.Command, args []string) {
		db := openCasesDB()
		defer func() { _ = db.Close() }()

		all, err := db.ListCases(listSmell)
		if err != nil {
			exitErrorJSON(err)
		}

		output(map[string]interface{}{"cases": all, "total": len(all)}, func(interface{}) string {
			var b strings.Builder
			for _, cs := range all {
				fmt.Fprintf(&b, "%-40s %-28s %-22s %s.%s\n", cs.CaseID, cs.SmellType, cs.ExcerptStrategy, cs.Package, cs.ClassName)
			}
			fmt.Fprintf(&b, "\nTotal: %d\n", len(all))
			return b.String()
		})
	},
}

var casesShowCmd = &cobra.Command{
	Use:   "show <case-id>",
	Short: "Show one case with its excerpt",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		db := openCasesDB()
		defer func() { _ = db.Close() }()

		cs, err := db.GetCase(args[0])
		if err != nil {
			exitErrorJSON(err)
		}

		output(cs, func(interface{}) string {
			var b strings.Builder
			fmt.Fprintf(&b, "Case:     %s\n", cs.CaseID)
			fmt.Fprintf(&b, "Smell:    %s\n", cs.SmellType)
			fmt.Fprintf(&b, "Type:     %s.%s\n", cs.Package, cs.ClassName)
			fmt.Fprintf(&b, "File:     %s\n", cs.FilePath)
			fmt.Fprintf(&b, "Strategy: %s\n", cs.ExcerptStrategy)
			fmt.Fprintf(&b, "Reason:   %s\n", cs.DetectorReason)
			if names := cs.Metrics.Names(); len(names) > 0 {
				var parts []string
				for _, n := range names {
					parts = append(parts, n+"="+cs.Metrics.Format(n))
				}
				fmt.Fprintf(&b, "Metrics:  %s\n", strings.Join(parts, " "))
			}
			fmt.Fprintf(&b, "\n%s\n", cs.CodeExcerpt)
			return b.String()
		})
	},
}

var casesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Count stored cases by excerpt strategy",
	Run: func(cmd *cobra.Command, args []string) {
		db := openCasesDB()
		defer func() { _ = db.Close() }()

		counts, err := db.CountByStrategy()
		if err != nil {
			exitErrorJSON(err)
		}

		output(counts, func(interface{}) string {
			strategies := make([]excerpt.Strategy, 0, len(counts))
			total := 0
			for s, n := range counts {
				strategies = append(strategies, s)
				total += n
			}
			sort.Slice(strategies, func(i, j int) bool { return strategies[i] < strategies[j] })

			var b strings.Builder
			for _, s := range strategies {
				fmt.Fprintf(&b, "%-24s %d\n", s, counts[s])
			}
			fmt.Fprintf(&b, "%-24s %d\n", "total", total)
			return b.String()
		})
	},
}

func openCasesDB() *cases.DB {
	db, err := cases.OpenDB(loadConfig().Paths.DB)
	if err != nil {
		exitErrorJSON(err)
	}
	return db
}

func init() {
	rootCmd.AddCommand(casesCmd)
	casesCmd.AddCommand(casesSearchCmd)
	casesCmd.AddCommand(casesListCmd)
	casesCmd.AddCommand(casesShowCmd)
	casesCmd.AddCommand(casesStatsCmd)

	casesSearchCmd.Flags().StringVar(&searchSmell, "smell", "", "Restrict to a smell type")
	casesSearchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 20, "Maximum results")
	casesListCmd.Flags().StringVar(&listSmell, "smell", "", "Restrict to a smell type")
}
