package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ihavespoons/smellbench/internal/llm"
)

// Save writes cfg as YAML to path
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// Initialize creates smellbench.yaml and a default prompts file under
// rootPath, plus the data directories. It returns the files it wrote.
func Initialize(rootPath string) ([]string, error) {
	configPath := filepath.Join(rootPath, FileName)
	if _, err := os.Stat(configPath); err == nil {
		return nil, fmt.Errorf("already initialized: %s exists", configPath)
	}

	cfg := Default()
	dirs := []string{
		cfg.Paths.Interim,
		filepath.Dir(cfg.Paths.Cases),
		cfg.Paths.Generations,
		filepath.Dir(cfg.Paths.Eval),
		filepath.Dir(cfg.Paths.Prompts),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(rootPath, dir), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	if err := Save(cfg, configPath); err != nil {
		return nil, err
	}
	written := []string{configPath}

	promptsPath := filepath.Join(rootPath, cfg.Paths.Prompts)
	if _, err := os.Stat(promptsPath); os.IsNotExist(err) {
		if err := os.WriteFile(promptsPath, []byte(llm.DefaultPromptsYAML), 0644); err != nil {
			return written, fmt.Errorf("failed to write prompts: %w", err)
		}
		written = append(written, promptsPath)
	}
	return written, nil
}
