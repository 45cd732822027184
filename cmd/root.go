package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/ihavespoons/smellbench/internal/config"
)

var (
	// Global flags
	jsonOutput bool
	verbose    bool
	configFile string

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "smellbench",
	Short: "Design-smell case builder and LLM explanation benchmark",
	Long: `smellbench turns a design-smell detector report and a Java source tree into
LLM-ready cases, runs them through local inference backends and scores the
answers.

Pipeline:
- parse    Normalize a DesigniteJava smells report
- merge    Join a type metrics table onto the smells
- build    Extract a source excerpt per smell into cases.jsonl
- run      Ask a model to explain, refactor and validate every case
- eval     Score generations with lexical heuristics
- report   Render generations as markdown, JSON or HTML

Use 'smellbench init' to write a default smellbench.yaml and prompts file.`,
	Version: "1.0.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			log.SetOutput(os.Stderr)
		} else {
			log.SetOutput(io.Discard)
		}
		log.SetPrefix("[smellbench] ")
		log.SetFlags(log.Ltime)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default: smellbench.yaml in this or a parent directory)")
}

// loadConfig loads configuration once per process
func loadConfig() *config.Config {
	if cfg != nil {
		return cfg
	}
	c, err := config.Load(configFile)
	if err != nil {
		exitErrorJSON(err)
	}
	cfg = c
	return cfg
}

// logger returns the process logger; output is enabled by --verbose
func logger() *log.Logger {
	return log.Default()
}

// outputJSON outputs data as JSON
func outputJSON(data interface{}) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// output outputs data in the appropriate format
func output(data interface{}, textFormatter func(interface{}) string) {
	if jsonOutput {
		if err := outputJSON(data); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding JSON: %v\n", err)
			os.Exit(1)
		}
	} else {
		fmt.Print(textFormatter(data))
	}
}

// exitError prints an error message and exits
func exitError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// exitErrorJSON outputs an error in JSON format if --json flag is set
func exitErrorJSON(err error) {
	if jsonOutput {
		_ = outputJSON(map[string]string{"error": err.Error()})
	} else {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(1)
}
