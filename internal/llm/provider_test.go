package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDefaults(t *testing.T) {
	c := &Config{Provider: "ollama"}
	require.NoError(t, ApplyDefaults(c))
	assert.Equal(t, "llama3", c.Model)
	assert.Equal(t, "http://localhost:11434", c.Endpoint)
	assert.Positive(t, c.Timeout)

	err := ApplyDefaults(&Config{Provider: "vllm"})
	assert.Error(t, err, "vllm has no default model")

	err = ApplyDefaults(&Config{Provider: "gpt5"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestNewProvider(t *testing.T) {
	p, err := NewProvider(&Config{Provider: "ollama"})
	require.NoError(t, err)
	assert.Equal(t, "ollama", p.Name())

	p, err = NewProvider(&Config{Provider: "vllm", Model: "mistral"})
	require.NoError(t, err)
	assert.Equal(t, "vllm", p.Name())
	assert.Equal(t, "mistral", p.Model())

	_, err = NewProvider(&Config{Provider: "nope"})
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestOutputFileName(t *testing.T) {
	assert.Equal(t, "llama3_8b_ollama.jsonl", OutputFileName("ollama", "llama3:8b"))
	assert.Equal(t, "meta-llama_Llama-3-8B_vllm.jsonl", OutputFileName("vllm", "meta-llama/Llama-3-8B"))
}

func TestOllamaGenerate(t *testing.T) {
	var got ollamaGenerateRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_ = json.NewEncoder(w).Encode(map[string]any{"response": "an answer", "done": true})
	}))
	defer server.Close()

	p, err := NewProvider(&Config{Provider: "ollama", Endpoint: server.URL + "/"})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), &Request{
		System: "sys", Prompt: "user", Temperature: 0.2, TopP: 0.9, MaxTokens: 768, Seed: 42,
	})
	require.NoError(t, err)
	assert.Equal(t, "an answer", resp.Text)

	assert.Equal(t, "llama3", got.Model)
	assert.Equal(t, "sys\n\nuser", got.Prompt)
	assert.False(t, got.Stream)
	assert.Equal(t, 768, got.Options.NumPredict)
	assert.InDelta(t, 0.9, got.Options.TopP, 1e-9)
}

func TestOllamaGenerateError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))
	defer server.Close()

	p := NewOllamaProvider(&Config{Provider: "ollama", Model: "x", Endpoint: server.URL})
	_, err := p.Generate(context.Background(), &Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "model not found")
}

func TestOllamaCheckAvailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		_, _ = w.Write([]byte(`{"models":[]}`))
	}))
	defer server.Close()

	p := NewOllamaProvider(&Config{Provider: "ollama", Model: "x", Endpoint: server.URL})
	assert.NoError(t, p.CheckAvailable(context.Background()))
}

func TestOpenAICompatGenerate(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "cmpl-1",
			"object": "chat.completion",
			"created": 1,
			"model": "mistral",
			"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": "refactor it"}}]
		}`))
	}))
	defer server.Close()

	t.Setenv("TEST_VLLM_KEY", "secret")
	p, err := NewProvider(&Config{Provider: "vllm", Model: "mistral", Endpoint: server.URL + "/v1", APIKeyEnv: "TEST_VLLM_KEY"})
	require.NoError(t, err)

	resp, err := p.Generate(context.Background(), &Request{System: "sys", Prompt: "user", Temperature: 0.2, TopP: 0.9, MaxTokens: 64, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, "refactor it", resp.Text)

	assert.Equal(t, "mistral", got["model"])
	assert.EqualValues(t, 42, got["seed"])
	assert.EqualValues(t, 64, got["max_tokens"])
	messages, ok := got["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, messages, 2)
}

func TestOpenAICompatNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"x","object":"chat.completion","created":1,"model":"m","choices":[]}`))
	}))
	defer server.Close()

	p := NewOpenAICompatProvider(&Config{Provider: "llamacpp", Model: "local", Endpoint: server.URL, Timeout: 5 * time.Second})
	_, err := p.Generate(context.Background(), &Request{Prompt: "p"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no choices")
}

func TestAPIKeyFallback(t *testing.T) {
	assert.Equal(t, "EMPTY", apiKey(""))
	t.Setenv("SMELLBENCH_TEST_KEY", "k")
	assert.Equal(t, "k", apiKey("SMELLBENCH_TEST_KEY"))
}
