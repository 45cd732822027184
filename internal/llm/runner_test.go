package llm

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihavespoons/smellbench/internal/cases"
)

type fakeProvider struct {
	mu       sync.Mutex
	requests []*Request
	failOn   string
}

func (f *fakeProvider) Name() string  { return "fake" }
func (f *fakeProvider) Model() string { return "fake-model" }

func (f *fakeProvider) Generate(ctx context.Context, req *Request) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	if f.failOn != "" && strings.Contains(req.Prompt, f.failOn) {
		return nil, errors.New("backend exploded")
	}
	return &Response{Text: "answer: " + req.Prompt[:5], Latency: 1234 * time.Millisecond}, nil
}

func testRunnerPrompts(t *testing.T) *Prompts {
	t.Helper()
	p, err := ParsePrompts([]byte(testPrompts))
	require.NoError(t, err)
	return p
}

func TestRunnerRun(t *testing.T) {
	provider := &fakeProvider{}
	runner := NewRunner(provider, testRunnerPrompts(t), DefaultSampling, nil, nil)

	c1 := *testCase()
	c2 := *testCase()
	c2.CaseID = "K9_def"

	var buf bytes.Buffer
	stats, err := runner.Run(context.Background(), []cases.Case{c1, c2}, cases.NewWriter(&buf))
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Generated)
	assert.Equal(t, runner.RunID(), stats.RunID)
	require.Len(t, provider.requests, 6)

	first := provider.requests[0]
	assert.Equal(t, "You are a senior Java reviewer.", first.System)
	assert.Equal(t, int64(DefaultSeed), first.Seed)
	assert.Equal(t, 768, first.MaxTokens)
	assert.Contains(t, first.Prompt, "WMC=57 LCOM=0.82 NOM=")

	gens, err := cases.Decode[cases.Generation](&buf)
	require.NoError(t, err)
	require.Len(t, gens, 2)
	g := gens[0]
	assert.Equal(t, "K9_abc", g.CaseID)
	assert.Equal(t, "fake-model", g.Model)
	assert.Equal(t, PromptHash(Vars(&c1)), g.PromptHash)
	assert.Equal(t, runner.RunID(), g.RunID)
	assert.InDelta(t, 1.23, g.Explain.LatencyS, 1e-9)
	assert.Equal(t, "answer: Smell", g.Explain.Text)
	assert.Equal(t, "answer: Plan ", g.Refactor.Text)
	assert.Equal(t, "answer: Was t", g.MetaValidation.Text)
}

func TestRunnerFailureIsCounted(t *testing.T) {
	provider := &fakeProvider{failOn: "Was the detector right"}
	var calls int
	runner := NewRunner(provider, testRunnerPrompts(t), DefaultSampling, nil, nil)
	runner.OnCase = func() { calls++ }

	var buf bytes.Buffer
	stats, err := runner.Run(context.Background(), []cases.Case{*testCase()}, cases.NewWriter(&buf))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Generated)
	assert.Equal(t, 1, calls)
	assert.Empty(t, buf.String())
}

func TestRunnerResumesFromDB(t *testing.T) {
	db, err := cases.OpenDB(filepath.Join(t.TempDir(), "smellbench.db"))
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	provider := &fakeProvider{}
	all := []cases.Case{*testCase()}

	var buf bytes.Buffer
	first := NewRunner(provider, testRunnerPrompts(t), DefaultSampling, db, nil)
	stats, err := first.Run(context.Background(), all, cases.NewWriter(&buf))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Generated)

	second := NewRunner(provider, testRunnerPrompts(t), DefaultSampling, db, nil)
	stats, err = second.Run(context.Background(), all, cases.NewWriter(&buf))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Resumed)
	assert.Equal(t, 0, stats.Generated)
	assert.Len(t, provider.requests, 3)
	assert.NotEqual(t, first.RunID(), second.RunID())
}

func TestRunnerCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	runner := NewRunner(&fakeProvider{}, testRunnerPrompts(t), DefaultSampling, nil, nil)
	var buf bytes.Buffer
	_, err := runner.Run(ctx, []cases.Case{*testCase()}, cases.NewWriter(&buf))
	assert.ErrorIs(t, err, context.Canceled)
}
