package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ihavespoons/smellbench/internal/llm"
)

func llmProviders() []string {
	return llm.AvailableProviders()
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables (SMELLBENCH_*), including those from .env
// 2. Config file: configFile when set, else smellbench.yaml found from the
//    working directory upward
// 3. Default values
func Load(configFile string) (*Config, error) {
	// .env only fills variables that are not already set
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigType("yaml")
	if configFile != "" {
		if _, err := os.Stat(configFile); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(strings.TrimSuffix(FileName, filepath.Ext(FileName)))
		if wd, err := os.Getwd(); err == nil {
			if dir, err := FindConfigDir(wd); err == nil {
				v.AddConfigPath(dir)
			}
		}
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override it
func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("paths.interim", d.Paths.Interim)
	v.SetDefault("paths.cases", d.Paths.Cases)
	v.SetDefault("paths.generations", d.Paths.Generations)
	v.SetDefault("paths.eval", d.Paths.Eval)
	v.SetDefault("paths.reports", d.Paths.Reports)
	v.SetDefault("paths.prompts", d.Paths.Prompts)
	v.SetDefault("paths.db", d.Paths.DB)
	v.SetDefault("paths.index", d.Paths.Index)
	v.SetDefault("paths.excludes", d.Paths.Excludes)

	v.SetDefault("extract.loc_limit", d.Extract.LocLimit)
	v.SetDefault("extract.workers", d.Extract.Workers)
	v.SetDefault("extract.cache_size", d.Extract.CacheSize)

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.endpoint", d.LLM.Endpoint)
	v.SetDefault("llm.api_key_env", d.LLM.APIKeyEnv)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.top_p", d.LLM.TopP)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
}

// FindConfigDir looks for smellbench.yaml starting from path and going up
func FindConfigDir(startPath string) (string, error) {
	path := startPath
	for {
		if info, err := os.Stat(filepath.Join(path, FileName)); err == nil && !info.IsDir() {
			return path, nil
		}
		parent := filepath.Dir(path)
		if parent == path {
			return "", fmt.Errorf("no %s found (searched from %s to root)", FileName, startPath)
		}
		path = parent
	}
}
