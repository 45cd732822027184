package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihavespoons/smellbench/internal/llm"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, Validate(cfg))
	assert.Equal(t, 400, cfg.Extract.LocLimit)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "data/cases/cases.jsonl", cfg.Paths.Cases)
	assert.Equal(t, llm.DefaultSampling, cfg.LLM.Sampling())
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default().Paths, cfg.Paths)
	assert.Equal(t, 600*time.Second, cfg.LLM.Timeout)
}

func TestLoad_FileMergesWithDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `
extract:
  loc_limit: 120
llm:
  provider: vllm
  model: mistral
  timeout: 30s
`)
	sub := filepath.Join(dir, "nested", "deeper")
	require.NoError(t, os.MkdirAll(sub, 0755))
	t.Chdir(sub)

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Extract.LocLimit)
	assert.Equal(t, 4, cfg.Extract.Workers)
	assert.Equal(t, "vllm", cfg.LLM.Provider)
	assert.Equal(t, "mistral", cfg.LLM.Model)
	assert.Equal(t, 30*time.Second, cfg.LLM.Timeout)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "llm:\n  model: mistral\n")
	t.Setenv("SMELLBENCH_LLM_MODEL", "qwen2")
	t.Setenv("SMELLBENCH_EXTRACT_WORKERS", "8")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "qwen2", cfg.LLM.Model)
	assert.Equal(t, 8, cfg.Extract.Workers)
}

func TestLoad_ExplicitMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "extract: [unclosed\n")
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to read config file")
}

func TestLoad_InvalidValues(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "extract:\n  loc_limit: 0\n")
	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidLimit)
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := Default()
	cfg.Extract.Workers = 0
	cfg.LLM.Provider = "gpt"
	cfg.LLM.TopP = 1.5
	cfg.Paths.Cases = ""

	err := Validate(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidLimit)
	assert.ErrorIs(t, err, ErrInvalidSampling)
	assert.ErrorIs(t, err, ErrEmptyPath)
	assert.Contains(t, err.Error(), `unknown llm.provider "gpt"`)
}

func TestFindConfigDir(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "")
	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))

	found, err := FindConfigDir(sub)
	require.NoError(t, err)
	assert.Equal(t, dir, found)

	_, err = FindConfigDir(t.TempDir())
	assert.Error(t, err)
}

func TestInitialize(t *testing.T) {
	dir := t.TempDir()
	written, err := Initialize(dir)
	require.NoError(t, err)
	require.Len(t, written, 2)

	cfg, err := Load(filepath.Join(dir, FileName))
	require.NoError(t, err)
	assert.Equal(t, Default().Extract, cfg.Extract)
	assert.Equal(t, Default().LLM, cfg.LLM)

	prompts, err := llm.LoadPrompts(filepath.Join(dir, cfg.Paths.Prompts))
	require.NoError(t, err)
	assert.Contains(t, prompts.ExplainTemplate, "{code_excerpt}")
	assert.DirExists(t, filepath.Join(dir, "data", "generations"))

	_, err = Initialize(dir)
	assert.ErrorContains(t, err, "already initialized")
}

func TestProviderConfig(t *testing.T) {
	c := LLMConfig{Provider: "llamacpp", Endpoint: "http://gpu:8080/v1", Timeout: time.Minute}
	pc := c.ProviderConfig()
	assert.Equal(t, "llamacpp", pc.Provider)
	assert.Equal(t, "http://gpu:8080/v1", pc.Endpoint)
	assert.Equal(t, time.Minute, pc.Timeout)
}
