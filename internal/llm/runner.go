package llm

import (
	"context"
	"fmt"
	"io"
	"log"
	"math"

	"github.com/google/uuid"

	"github.com/ihavespoons/smellbench/internal/cases"
)

// DefaultSeed keeps sampling reproducible across runs
const DefaultSeed = 42

// Sampling contains generation parameters shared by every request
type Sampling struct {
	Temperature float64 `mapstructure:"temperature"`
	TopP        float64 `mapstructure:"top_p"`
	MaxTokens   int     `mapstructure:"max_tokens"`
}

// DefaultSampling matches the settings used across providers
var DefaultSampling = Sampling{Temperature: 0.2, TopP: 0.9, MaxTokens: 768}

// RunStats summarizes a run
type RunStats struct {
	RunID     string `json:"run_id"`
	Cases     int    `json:"cases"`
	Generated int    `json:"generated"`
	Resumed   int    `json:"resumed"`
	Failed    int    `json:"failed"`
}

// Runner sends every case's three prompts to a provider
type Runner struct {
	provider Provider
	prompts  *Prompts
	sampling Sampling
	runID    string
	db       *cases.DB
	logger   *log.Logger

	// OnCase is called after each case, generated or not
	OnCase func()
}

// NewRunner creates a runner. db is optional; when set, cases the model
// already answered are skipped and new answers are stored.
func NewRunner(provider Provider, prompts *Prompts, sampling Sampling, db *cases.DB, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Runner{
		provider: provider,
		prompts:  prompts,
		sampling: sampling,
		runID:    uuid.NewString(),
		db:       db,
		logger:   logger,
	}
}

// RunID identifies this runner's generations
func (r *Runner) RunID() string {
	return r.runID
}

// Run generates answers for each case and writes one Generation per case.
// A failing case is logged and counted; cancellation stops the run.
func (r *Runner) Run(ctx context.Context, all []cases.Case, w *cases.Writer) (*RunStats, error) {
	stats := &RunStats{RunID: r.runID, Cases: len(all)}

	for i := range all {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		c := &all[i]
		if r.db != nil {
			done, err := r.db.HasGeneration(c.CaseID, r.provider.Model())
			if err != nil {
				return stats, fmt.Errorf("failed to check generation for %s: %w", c.CaseID, err)
			}
			if done {
				stats.Resumed++
				r.notify()
				continue
			}
		}

		g, err := r.generate(ctx, c)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			r.logger.Printf("case %s failed: %v", c.CaseID, err)
			stats.Failed++
			r.notify()
			continue
		}

		if err := w.Write(g); err != nil {
			return stats, err
		}
		if r.db != nil {
			if err := r.db.PutGeneration(g); err != nil {
				return stats, fmt.Errorf("failed to store generation for %s: %w", c.CaseID, err)
			}
		}
		stats.Generated++
		r.notify()
	}
	return stats, nil
}

func (r *Runner) notify() {
	if r.OnCase != nil {
		r.OnCase()
	}
}

func (r *Runner) generate(ctx context.Context, c *cases.Case) (*cases.Generation, error) {
	if found := InstructionComments(c.CodeExcerpt); len(found) > 0 {
		r.logger.Printf("case %s: %d comment(s) read as instructions, first: %.80q", c.CaseID, len(found), found[0])
	}

	vars := Vars(c)
	g := &cases.Generation{
		CaseID:     c.CaseID,
		FilePath:   c.FilePath,
		Model:      r.provider.Model(),
		PromptHash: PromptHash(vars),
		RunID:      r.runID,
	}

	steps := []struct {
		template string
		out      *cases.Output
	}{
		{r.prompts.ExplainTemplate, &g.Explain},
		{r.prompts.RefactorTemplate, &g.Refactor},
		{r.prompts.MetaValidationTemplate, &g.MetaValidation},
	}

	for _, step := range steps {
		prompt, err := Render(step.template, vars)
		if err != nil {
			return nil, err
		}
		resp, err := r.provider.Generate(ctx, &Request{
			System:      r.prompts.System,
			Prompt:      prompt,
			Temperature: r.sampling.Temperature,
			TopP:        r.sampling.TopP,
			MaxTokens:   r.sampling.MaxTokens,
			Seed:        DefaultSeed,
		})
		if err != nil {
			return nil, err
		}
		*step.out = cases.Output{
			Text:     resp.Text,
			LatencyS: math.Round(resp.Latency.Seconds()*100) / 100,
		}
	}
	return g, nil
}
