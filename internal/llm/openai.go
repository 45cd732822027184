package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAICompatProvider talks to servers exposing the OpenAI chat
// completions API, such as vLLM and llama.cpp's llama-server.
type OpenAICompatProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAICompatProvider creates a provider for an OpenAI-compatible server
func NewOpenAICompatProvider(config *Config) *OpenAICompatProvider {
	baseURL := config.Endpoint
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}

	opts := []option.RequestOption{
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey(config.APIKeyEnv)),
		option.WithRequestTimeout(config.Timeout),
		option.WithMaxRetries(1),
	}
	client := openai.NewClient(opts...)

	return &OpenAICompatProvider{client: &client, config: config}
}

// Name returns the provider name
func (p *OpenAICompatProvider) Name() string {
	return p.config.Provider
}

// Model returns the configured model
func (p *OpenAICompatProvider) Model() string {
	return p.config.Model
}

// Generate performs a non-streaming chat completion
func (p *OpenAICompatProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(p.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
		TopP:        openai.Float(req.TopP),
		MaxTokens:   openai.Int(int64(req.MaxTokens)),
		Seed:        openai.Int(req.Seed),
	}

	start := time.Now()
	completion, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("%s generate: %w", p.config.Provider, err)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("%s generate: response has no choices", p.config.Provider)
	}

	return &Response{
		Text:    completion.Choices[0].Message.Content,
		Latency: time.Since(start),
	}, nil
}
