package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/smellbench/internal/cases"
	"github.com/ihavespoons/smellbench/internal/llm"
)

var (
	runCases    string
	runPrompts  string
	runProvider string
	runModel    string
	runEndpoint string
	runOut      string
	runLimit    int
	runResume   bool
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Generate explanations, refactoring plans and validations",
	Long: `Send every case to an inference backend with the three prompts from the
prompts file (explain, refactor, meta validation) and append one generation
record per case to <generations>/<model>_<provider>.jsonl.

Providers: ollama (native API), vllm and llamacpp (OpenAI-compatible servers).
With --resume, cases the model already answered according to the SQLite store
are skipped.`,
	Run: func(cmd *cobra.Command, args []string) {
		c := loadConfig()

		llmConfig := c.LLM
		if runProvider != "" {
			llmConfig.Provider = runProvider
			// a different backend brings its own defaults
			if runEndpoint == "" {
				llmConfig.Endpoint = ""
			}
		}
		if runModel != "" {
			llmConfig.Model = runModel
		}
		if runEndpoint != "" {
			llmConfig.Endpoint = runEndpoint
		}

		provider, err := llm.NewProvider(llmConfig.ProviderConfig())
		if err != nil {
			exitErrorJSON(err)
		}

		casesPath := runCases
		if casesPath == "" {
			casesPath = c.Paths.Cases
		}
		promptsPath := runPrompts
		if promptsPath == "" {
			promptsPath = c.Paths.Prompts
		}

		all, err := cases.ReadCases(casesPath)
		if err != nil {
			exitErrorJSON(err)
		}
		if runLimit > 0 && runLimit < len(all) {
			all = all[:runLimit]
		}
		prompts, err := llm.LoadPrompts(promptsPath)
		if err != nil {
			exitErrorJSON(err)
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		if ollama, ok := provider.(*llm.OllamaProvider); ok {
			if err := ollama.CheckAvailable(ctx); err != nil {
				exitErrorJSON(err)
			}
		}

		var db *cases.DB
		if runResume {
			db, err = cases.OpenDB(c.Paths.DB)
			if err != nil {
				exitErrorJSON(err)
			}
			defer func() { _ = db.Close() }()
		}

		out := runOut
		if out == "" {
			out = filepath.Join(c.Paths.Generations, llm.OutputFileName(provider.Name(), provider.Model()))
		}
		f, err := cases.CreateFile(out, true)
		if err != nil {
			exitErrorJSON(err)
		}
		defer func() { _ = f.Close() }()

		runner := llm.NewRunner(provider, prompts, llmConfig.Sampling(), db, logger())
		bar := newProgressBar(len(all), fmt.Sprintf("Generating (%s)", provider.Model()), "cases/s")
		runner.OnCase = func() { tick(bar) }

		stats, err := runner.Run(ctx, all, cases.NewWriter(f))
		finish(bar)
		if err != nil && stats == nil {
			exitErrorJSON(err)
		}

		result := map[string]interface{}{
			"output": out,
			"model":  provider.Model(),
			"stats":  stats,
		}
		if err != nil {
			result["error"] = err.Error()
		}
		output(result, func(interface{}) string {
			s := fmt.Sprintf("Run %s: %d generated, %d resumed, %d failed of %d cases\nWrote %s\n",
				stats.RunID, stats.Generated, stats.Resumed, stats.Failed, stats.Cases, out)
			if err != nil {
				s += fmt.Sprintf("Stopped early: %v\n", err)
			}
			return s
		})
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVar(&runCases, "cases", "", "Cases NDJSON (default: paths.cases)")
	runCmd.Flags().StringVar(&runPrompts, "prompts", "", "Prompts YAML (default: paths.prompts)")
	runCmd.Flags().StringVar(&runProvider, "provider", "", "Inference provider: ollama, vllm, llamacpp (default: llm.provider)")
	runCmd.Flags().StringVar(&runModel, "model", "", "Model name (default: llm.model)")
	runCmd.Flags().StringVar(&runEndpoint, "endpoint", "", "Server base URL (default: provider default)")
	runCmd.Flags().StringVarP(&runOut, "output", "o", "", "Generations NDJSON (default: <generations>/<model>_<provider>.jsonl)")
	runCmd.Flags().IntVar(&runLimit, "limit", 0, "Only run the first N cases")
	runCmd.Flags().BoolVar(&runResume, "resume", false, "Skip cases already generated and record new ones in the SQLite store")
}
