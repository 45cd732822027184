package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// ErrUnknownProvider is returned for provider names NewProvider does not know
var ErrUnknownProvider = errors.New("unknown provider")

// Request is one chat turn sent to a model
type Request struct {
	System      string
	Prompt      string
	Temperature float64
	TopP        float64
	MaxTokens   int
	Seed        int64
}

// Response is a model answer
type Response struct {
	Text    string
	Latency time.Duration
}

// Provider is the interface for inference backends
type Provider interface {
	// Name returns the provider name
	Name() string
	// Model returns the model the provider talks to
	Model() string
	// Generate produces a completion for one request
	Generate(ctx context.Context, req *Request) (*Response, error)
}

// Config contains configuration for inference providers
type Config struct {
	// Provider is the provider name: "ollama", "vllm", "llamacpp"
	Provider string `mapstructure:"provider"`
	// Model is the model name as the server knows it
	Model string `mapstructure:"model"`
	// Endpoint is the server base URL
	Endpoint string `mapstructure:"endpoint"`
	// APIKeyEnv names the environment variable holding an API key, if any
	APIKeyEnv string `mapstructure:"api_key_env"`
	// Timeout bounds a single generation
	Timeout time.Duration `mapstructure:"timeout"`
}

// DefaultConfigs contains default configurations for each provider
var DefaultConfigs = map[string]*Config{
	"ollama": {
		Provider: "ollama",
		Model:    "llama3",
		Endpoint: "http://localhost:11434",
		Timeout:  600 * time.Second,
	},
	"vllm": {
		Provider:  "vllm",
		Endpoint:  "http://localhost:8000/v1",
		APIKeyEnv: "VLLM_API_KEY",
		Timeout:   600 * time.Second,
	},
	"llamacpp": {
		Provider:  "llamacpp",
		Model:     "local",
		Endpoint:  "http://localhost:8080/v1",
		APIKeyEnv: "LLAMACPP_API_KEY",
		Timeout:   600 * time.Second,
	},
}

// AvailableProviders returns the supported provider names
func AvailableProviders() []string {
	return []string{"ollama", "vllm", "llamacpp"}
}

// ApplyDefaults fills empty fields from the provider's defaults
func ApplyDefaults(config *Config) error {
	defaults, ok := DefaultConfigs[config.Provider]
	if !ok {
		return fmt.Errorf("%w: %s (valid: %v)", ErrUnknownProvider, config.Provider, AvailableProviders())
	}
	if config.Model == "" {
		config.Model = defaults.Model
	}
	if config.Endpoint == "" {
		config.Endpoint = defaults.Endpoint
	}
	if config.APIKeyEnv == "" {
		config.APIKeyEnv = defaults.APIKeyEnv
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.Model == "" {
		return fmt.Errorf("model is required for provider %s", config.Provider)
	}
	return nil
}

// NewProvider creates a provider from config, applying defaults first
func NewProvider(config *Config) (Provider, error) {
	c := *config
	if err := ApplyDefaults(&c); err != nil {
		return nil, err
	}

	switch c.Provider {
	case "ollama":
		return NewOllamaProvider(&c), nil
	case "vllm", "llamacpp":
		return NewOpenAICompatProvider(&c), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, c.Provider)
	}
}

// apiKey reads the key named by envVar; local servers accept any value
func apiKey(envVar string) string {
	if envVar != "" {
		if key := os.Getenv(envVar); key != "" {
			return key
		}
	}
	return "EMPTY"
}

// OutputFileName returns the generations file name for a provider and model
func OutputFileName(provider, model string) string {
	r := strings.NewReplacer("/", "_", ":", "_", "\\", "_")
	return r.Replace(model) + "_" + provider + ".jsonl"
}
