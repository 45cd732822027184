package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sort"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/smellbench/internal/cases"
	"github.com/ihavespoons/smellbench/internal/smell"
	"github.com/ihavespoons/smellbench/internal/source"
)

var (
	buildRepo     string
	buildSmells   string
	buildOut      string
	buildLocLimit int
	buildWorkers  int
	buildWatch    bool
	buildStore    bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build LLM-ready cases from smells and a source tree",
	Long: `Build one case per smell row: locate the Java file declaring the type,
extract the type's source region (falling back to a window around the
reported line) and write the cases as NDJSON.

Rows without a line number or a resolvable file are skipped and counted.
With --store the cases are also saved to the SQLite store and the search
index. With --watch the build reruns whenever the smells CSV or a Java file
under the repository changes.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()
		if buildRepo == "" {
			exitError("--repo is required")
		}
		if info, err := os.Stat(buildRepo); err != nil || !info.IsDir() {
			exitError("repository not found: %s", buildRepo)
		}

		smellsPath := buildSmells
		if smellsPath == "" {
			smellsPath = filepath.Join(c.Paths.Interim, "smells.csv")
		}
		out := buildOut
		if out == "" {
			out = c.Paths.Cases
		}
		if buildLocLimit <= 0 {
			buildLocLimit = c.Extract.LocLimit
		}
		if buildWorkers <= 0 {
			buildWorkers = c.Extract.Workers
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		stats, err := runBuild(ctx, smellsPath, out)
		if err != nil {
			exitErrorJSON(err)
		}
		printBuildStats(stats, out)

		if !buildWatch {
			return
		}

		if !jsonOutput {
			fmt.Printf("Watching %s and %s for changes (Ctrl-C to stop)\n", smellsPath, buildRepo)
		}
		err = cases.Watch(ctx, cases.WatchConfig{
			Root:     buildRepo,
			Inputs:   []string{smellsPath},
			Excludes: c.Paths.Excludes,
			Logger:   logger(),
		}, func(ctx context.Context) error {
			stats, err := runBuild(ctx, smellsPath, out)
			if err != nil {
				return err
			}
			printBuildStats(stats, out)
			return nil
		})
		if err != nil {
			exitErrorJSON(err)
		}
	},
}

// runBuild performs one full build. The resolver and cache are recreated so
// watch rebuilds see new and changed files.
func runBuild(ctx context.Context, smellsPath, out string) (*cases.BuildStats, error) {
	c := loadConfig()

	records, err := smell.ReadCSV(smellsPath)
	if err != nil {
		return nil, err
	}

	cache, err := source.NewCache(c.Extract.CacheSize)
	if err != nil {
		return nil, err
	}
	builder := cases.NewBuilder(source.NewResolver(buildRepo, c.Paths.Excludes), cache, cases.BuilderConfig{
		MaxLines: buildLocLimit,
		Workers:  buildWorkers,
		Logger:   logger(),
	})

	bar := newProgressBar(len(records), "Building cases", "rows/s")
	builder.OnRecord = func() { tick(bar) }

	f, err := cases.CreateFile(out, false)
	if err != nil {
		return nil, err
	}
	w := cases.NewWriter(f)
	stats, err := builder.Build(ctx, records, w)
	finish(bar)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	if buildStore {
		if err := storeCases(out); err != nil {
			return stats, err
		}
	}
	return stats, nil
}

// storeCases saves built cases to the SQLite store and the search index
func storeCases(path string) error {
	c := loadConfig()

	all, err := cases.ReadCases(path)
	if err != nil {
		return err
	}

	db, err := cases.OpenDB(c.Paths.DB)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()
	if err := db.ReplaceCases(all); err != nil {
		return err
	}

	idx, err := cases.OpenIndex(c.Paths.Index)
	if err != nil {
		return err
	}
	defer func() { _ = idx.Close() }()
	return idx.Replace(all)
}

func printBuildStats(stats *cases.BuildStats, out string) {
	if jsonOutput {
		if err := outputJSON(map[string]interface{}{
			"output": out,
			"stats":  stats,
		}); err != nil {
			exitError("failed to encode JSON: %v", err)
		}
		return
	}

	fmt.Printf("Wrote %d cases to %s\n", stats.Written, out)
	var parts []string
	for reason, n := range stats.Skipped {
		parts = append(parts, fmt.Sprintf("%s=%d", reason, n))
	}
	sort.Strings(parts)
	if len(parts) > 0 {
		fmt.Printf("Skipped: %s\n", strings.Join(parts, ", "))
	}
	parts = parts[:0]
	for strategy, n := range stats.ByStrategy {
		parts = append(parts, fmt.Sprintf("%s=%d", strategy, n))
	}
	sort.Strings(parts)
	if len(parts) > 0 {
		fmt.Printf("Strategies: %s\n", strings.Join(parts, ", "))
	}
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildCmd.Flags().StringVar(&buildRepo, "repo", "", "Root of the Java source tree")
	buildCmd.Flags().StringVar(&buildSmells, "smells", "", "Normalized smells CSV (default: <interim>/smells.csv)")
	buildCmd.Flags().StringVarP(&buildOut, "output", "o", "", "Cases NDJSON (default: paths.cases)")
	buildCmd.Flags().IntVar(&buildLocLimit, "loc-limit", 0, "Maximum lines per excerpt (default: extract.loc_limit)")
	buildCmd.Flags().IntVar(&buildWorkers, "workers", 0, "Concurrent extractions (default: extract.workers)")
	buildCmd.Flags().BoolVar(&buildWatch, "watch", false, "Rebuild when inputs change")
	buildCmd.Flags().BoolVar(&buildStore, "store", false, "Also save cases to the SQLite store and search index")
}
