// Package config loads smellbench settings from smellbench.yaml, the
// environment and .env files.
package config

import (
	"time"

	"github.com/ihavespoons/smellbench/internal/excerpt"
	"github.com/ihavespoons/smellbench/internal/llm"
	"github.com/ihavespoons/smellbench/internal/source"
)

const (
	// FileName is the config file looked up from the working directory upward
	FileName = "smellbench.yaml"
	// EnvPrefix prefixes environment overrides, e.g. SMELLBENCH_LLM_MODEL
	EnvPrefix = "SMELLBENCH"
)

// Config represents the complete smellbench configuration
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	Extract ExtractConfig `yaml:"extract" mapstructure:"extract"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
}

// PathsConfig locates pipeline inputs and outputs
type PathsConfig struct {
	Interim     string   `yaml:"interim" mapstructure:"interim"`         // normalized smells CSVs
	Cases       string   `yaml:"cases" mapstructure:"cases"`             // cases NDJSON
	Generations string   `yaml:"generations" mapstructure:"generations"` // one NDJSON per model
	Eval        string   `yaml:"eval" mapstructure:"eval"`               // auto metrics CSV
	Reports     string   `yaml:"reports" mapstructure:"reports"`         // markdown output dir
	Prompts     string   `yaml:"prompts" mapstructure:"prompts"`
	DB          string   `yaml:"db" mapstructure:"db"`
	Index       string   `yaml:"index" mapstructure:"index"`
	Excludes    []string `yaml:"excludes" mapstructure:"excludes"` // doublestar patterns skipped by the resolver
}

// ExtractConfig tunes case building
type ExtractConfig struct {
	LocLimit  int `yaml:"loc_limit" mapstructure:"loc_limit"`
	Workers   int `yaml:"workers" mapstructure:"workers"`
	CacheSize int `yaml:"cache_size" mapstructure:"cache_size"`
}

// LLMConfig selects the inference backend and sampling
type LLMConfig struct {
	Provider    string        `yaml:"provider" mapstructure:"provider"`
	Model       string        `yaml:"model" mapstructure:"model"`
	Endpoint    string        `yaml:"endpoint" mapstructure:"endpoint"`
	APIKeyEnv   string        `yaml:"api_key_env" mapstructure:"api_key_env"`
	Timeout     time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Temperature float64       `yaml:"temperature" mapstructure:"temperature"`
	TopP        float64       `yaml:"top_p" mapstructure:"top_p"`
	MaxTokens   int           `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// Default returns a configuration with the pipeline's standard layout
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			Interim:     "data/interim",
			Cases:       "data/cases/cases.jsonl",
			Generations: "data/generations",
			Eval:        "data/eval/auto_metrics.csv",
			Reports:     "md_out",
			Prompts:     "configs/prompts.yaml",
			DB:          "data/smellbench.db",
			Index:       "data/cases.bleve",
			Excludes:    source.DefaultExcludes,
		},
		Extract: ExtractConfig{
			LocLimit:  excerpt.DefaultMaxLines,
			Workers:   4,
			CacheSize: source.DefaultCacheSize,
		},
		LLM: LLMConfig{
			Provider:    "ollama",
			Model:       "llama3",
			Timeout:     600 * time.Second,
			Temperature: llm.DefaultSampling.Temperature,
			TopP:        llm.DefaultSampling.TopP,
			MaxTokens:   llm.DefaultSampling.MaxTokens,
		},
	}
}

// ProviderConfig converts the LLM section for llm.NewProvider
func (c *LLMConfig) ProviderConfig() *llm.Config {
	return &llm.Config{
		Provider:  c.Provider,
		Model:     c.Model,
		Endpoint:  c.Endpoint,
		APIKeyEnv: c.APIKeyEnv,
		Timeout:   c.Timeout,
	}
}

// Sampling returns the generation parameters
func (c *LLMConfig) Sampling() llm.Sampling {
	return llm.Sampling{
		Temperature: c.Temperature,
		TopP:        c.TopP,
		MaxTokens:   c.MaxTokens,
	}
}
