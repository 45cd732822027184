package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OllamaProvider implements Provider using Ollama's local generate API
type OllamaProvider struct {
	config   *Config
	client   *http.Client
	endpoint string
}

type ollamaOptions struct {
	Temperature float64 `json:"temperature"`
	TopP        float64 `json:"top_p"`
	NumPredict  int     `json:"num_predict"`
	Seed        int64   `json:"seed,omitempty"`
}

// ollamaGenerateRequest is the request format for /api/generate
type ollamaGenerateRequest struct {
	Model   string        `json:"model"`
	Prompt  string        `json:"prompt"`
	Options ollamaOptions `json:"options"`
	Stream  bool          `json:"stream"`
}

// ollamaGenerateResponse is the non-streaming response format
type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// NewOllamaProvider creates a new Ollama provider
func NewOllamaProvider(config *Config) *OllamaProvider {
	return &OllamaProvider{
		config:   config,
		client:   &http.Client{Timeout: config.Timeout},
		endpoint: strings.TrimSuffix(config.Endpoint, "/"),
	}
}

// Name returns the provider name
func (p *OllamaProvider) Name() string {
	return "ollama"
}

// Model returns the configured model
func (p *OllamaProvider) Model() string {
	return p.config.Model
}

// Generate sends the system and user prompt as one prompt, as Ollama's
// generate endpoint has no separate system turn.
func (p *OllamaProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	reqBody := ollamaGenerateRequest{
		Model:  p.config.Model,
		Prompt: req.System + "\n\n" + req.Prompt,
		Options: ollamaOptions{
			Temperature: req.Temperature,
			TopP:        req.TopP,
			NumPredict:  req.MaxTokens,
			Seed:        req.Seed,
		},
		Stream: false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.endpoint+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := p.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request to Ollama: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("ollama API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &Response{Text: result.Response, Latency: time.Since(start)}, nil
}

// CheckAvailable checks if Ollama is reachable
func (p *OllamaProvider) CheckAvailable(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, "GET", p.endpoint+"/api/tags", nil)
	if err != nil {
		return err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("ollama is not running at %s: %w", p.endpoint, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("ollama returned status %d", resp.StatusCode)
	}
	return nil
}
