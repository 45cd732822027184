package config

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrInvalidLimit indicates a non-positive size or count
	ErrInvalidLimit = errors.New("invalid limit")

	// ErrInvalidSampling indicates out-of-range sampling parameters
	ErrInvalidSampling = errors.New("invalid sampling parameters")

	// ErrEmptyPath indicates a required path is unset
	ErrEmptyPath = errors.New("empty path")
)

// Validate checks that the configuration is usable. All problems are
// reported together.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.Extract.LocLimit <= 0 {
		errs = append(errs, fmt.Errorf("%w: extract.loc_limit must be positive, got %d", ErrInvalidLimit, cfg.Extract.LocLimit))
	}
	if cfg.Extract.Workers <= 0 {
		errs = append(errs, fmt.Errorf("%w: extract.workers must be positive, got %d", ErrInvalidLimit, cfg.Extract.Workers))
	}
	if cfg.Extract.CacheSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: extract.cache_size must be positive, got %d", ErrInvalidLimit, cfg.Extract.CacheSize))
	}

	if cfg.Paths.Cases == "" {
		errs = append(errs, fmt.Errorf("%w: paths.cases", ErrEmptyPath))
	}
	if cfg.Paths.Generations == "" {
		errs = append(errs, fmt.Errorf("%w: paths.generations", ErrEmptyPath))
	}

	if !slices.Contains(llmProviders(), cfg.LLM.Provider) {
		errs = append(errs, fmt.Errorf("unknown llm.provider %q (valid: %v)", cfg.LLM.Provider, llmProviders()))
	}
	if cfg.LLM.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("%w: llm.max_tokens must be positive, got %d", ErrInvalidLimit, cfg.LLM.MaxTokens))
	}
	if cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		errs = append(errs, fmt.Errorf("%w: llm.temperature must be in [0, 2], got %g", ErrInvalidSampling, cfg.LLM.Temperature))
	}
	if cfg.LLM.TopP <= 0 || cfg.LLM.TopP > 1 {
		errs = append(errs, fmt.Errorf("%w: llm.top_p must be in (0, 1], got %g", ErrInvalidSampling, cfg.LLM.TopP))
	}

	return errors.Join(errs...)
}
