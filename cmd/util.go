package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// instructionsCmd represents the instructions command
var instructionsCmd = &cobra.Command{
	Use:   "instructions",
	Short: "Print the pipeline walkthrough",
	Long:  `Print a walkthrough of the smellbench pipeline and its file formats.`,
	Run: func(cmd *cobra.Command, args []string) {
		instructions := `# smellbench - design smell explanation benchmark

All commands output JSON when --json flag is provided. Settings come from
smellbench.yaml, SMELLBENCH_* environment variables and .env.

## Quick Start

1. Create a workspace:
   smellbench init

2. Normalize the detector report:
   smellbench parse designite/designCodeSmells.csv

3. Optionally add type metrics:
   smellbench merge --metrics designite/typeMetrics.csv

4. Build cases from the Java sources:
   smellbench build --repo ../k9mail --store

5. Generate answers:
   smellbench run --provider ollama --model llama3
   smellbench run --provider vllm --model mistralai/Mistral-7B-Instruct-v0.3

6. Score and review:
   smellbench eval data/generations/*.jsonl
   smellbench report data/generations/llama3_ollama.jsonl

## Command Reference

- smellbench init                 Write smellbench.yaml and prompts
- smellbench status               Show pipeline progress
- smellbench parse <report>       Normalize a smells report
- smellbench merge --metrics F    Join type metrics
- smellbench build --repo DIR     Build cases.jsonl
  --watch                         Rebuild on changes
  --store                         Save to SQLite and the search index
- smellbench extract              Extract one type from one file
  --file F --line N --type T
- smellbench run                  Generate answers
  --resume                        Skip cases already answered
- smellbench eval <gens>...       Score generations
- smellbench report <gens>...     Render markdown, json or html
- smellbench cases search <q>     Search stored cases
- smellbench cases list|show|stats

## Case Record (cases.jsonl)

{"case_id": "...", "project": "...", "file_path": "...", "package": "...",
 "class_name": "...", "smell_type": "...", "detector_reason": "...",
 "metrics": {"WMC": 57}, "code_excerpt": "...",
 "excerpt_strategy": "exact_match"}

excerpt_strategy is one of exact_match, header_only_fallback,
window_fallback, out_of_range_fallback.

## Prompts (prompts.yaml)

Keys: system, explain_template, refactor_template, meta_validation_template.
Placeholders: {smell_type} {detector_reason} {code_excerpt} {problem_bullets}
{class_name} {package} and the metrics {NOF} {NOPF} {NOM} {NOPM} {LOC} {WMC}
{DIT} {LCOM} {FANIN} {FANOUT}. Write {{ and }} for literal braces.
`

		if jsonOutput {
			_ = outputJSON(map[string]string{"instructions": instructions})
		} else {
			fmt.Print(instructions)
		}
	},
}

func init() {
	rootCmd.AddCommand(instructionsCmd)
}
