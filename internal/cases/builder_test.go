package cases

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/ihavespoons/smellbench/internal/excerpt"
	"github.com/ihavespoons/smellbench/internal/smell"
	"github.com/ihavespoons/smellbench/internal/source"
)

const accountSrc = `package com.fsck.k9;

import java.util.List;

public class Account {
    private String uuid;

    public String getUuid() {
        return uuid;
    }

    static class Builder {
        Account build() { return new Account(); }
    }
}
`

func setupRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	dir := filepath.Join(root, "app", "src", "com", "fsck", "k9")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Account.java"), []byte(accountSrc), 0644))
	// Invalid UTF-8 forces the latin-1 codec
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Legacy.java"), []byte("// caf\xe9\nclass Legacy {\n}\n"), 0644))
	return root
}

func record(class string, line *int) smell.Record {
	outer, inner := smell.SplitInner(class)
	return smell.Record{
		CaseID:         "K9_" + strings.ReplaceAll(class, ".", "_"),
		Project:        "K9",
		Package:        "com.fsck.k9",
		ClassName:      class,
		OuterClass:     outer,
		InnerClass:     inner,
		SmellType:      "Deficient Encapsulation",
		DetectorReason: "public field",
		LineNumber:     line,
	}
}

func intPtr(n int) *int { return &n }

func newTestBuilder(t *testing.T, root string, workers int) *Builder {
	t.Helper()
	cache, err := source.NewCache(8)
	require.NoError(t, err)
	return NewBuilder(source.NewResolver(root, nil), cache, BuilderConfig{MaxLines: 400, Workers: workers})
}

func TestBuild(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := setupRepo(t)
	b := newTestBuilder(t, root, 4)

	var seen atomic.Int32
	b.OnRecord = func() { seen.Add(1) }

	records := []smell.Record{
		record("Account", intPtr(8)),
		record("Account.Builder", intPtr(13)),
		record("Account", nil),
		record("Missing", intPtr(3)),
		record("Legacy", intPtr(2)),
		record("Account", intPtr(500)),
	}

	var buf bytes.Buffer
	stats, err := b.Build(context.Background(), records, NewWriter(&buf))
	require.NoError(t, err)

	assert.Equal(t, int32(len(records)), seen.Load())
	assert.Equal(t, 6, stats.Records)
	assert.Equal(t, 4, stats.Written)
	assert.Equal(t, 1, stats.Skipped[SkipNoLine])
	assert.Equal(t, 1, stats.Skipped[SkipNoFile])
	assert.Equal(t, 3, stats.ByStrategy[excerpt.StrategyExactMatch])
	assert.Equal(t, 1, stats.ByStrategy[excerpt.StrategyOutOfRange])

	got, err := Decode[Case](&buf)
	require.NoError(t, err)
	require.Len(t, got, 4)

	// Output preserves input order
	assert.Equal(t, "K9_Account", got[0].CaseID)
	assert.Equal(t, "K9_Account_Builder", got[1].CaseID)
	assert.Equal(t, "K9_Legacy", got[2].CaseID)
	assert.Equal(t, "K9_Account", got[3].CaseID)

	assert.True(t, strings.HasPrefix(got[0].CodeExcerpt, "public class Account {"))
	assert.True(t, strings.HasSuffix(got[0].CodeExcerpt, "\n}"))
	assert.Equal(t, "    static class Builder {\n        Account build() { return new Account(); }\n    }", got[1].CodeExcerpt)
	assert.Equal(t, "class Legacy {\n}", got[2].CodeExcerpt)
	assert.Equal(t, excerpt.StrategyOutOfRange, got[3].ExcerptStrategy)
	assert.True(t, strings.HasPrefix(got[3].CodeExcerpt, "package com.fsck.k9;"))

	assert.Equal(t, filepath.Join(root, "app", "src", "com", "fsck", "k9", "Account.java"), got[0].FilePath)
	assert.NotNil(t, got[0].Metrics)
}

func TestBuildIsDeterministicAcrossWorkerCounts(t *testing.T) {
	defer goleak.VerifyNone(t)

	root := setupRepo(t)
	var records []smell.Record
	for line := 1; line <= 20; line++ {
		records = append(records, record("Account", intPtr(line)))
		records = append(records, record("Account.Builder", intPtr(line)))
	}

	var serial, parallel bytes.Buffer
	_, err := newTestBuilder(t, root, 1).Build(context.Background(), records, NewWriter(&serial))
	require.NoError(t, err)
	_, err = newTestBuilder(t, root, 8).Build(context.Background(), records, NewWriter(&parallel))
	require.NoError(t, err)

	assert.Equal(t, serial.String(), parallel.String())
}

func TestBuildCancelled(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := newTestBuilder(t, setupRepo(t), 2)
	_, err := b.Build(ctx, []smell.Record{record("Account", intPtr(1))}, NewWriter(&bytes.Buffer{}))
	assert.ErrorIs(t, err, context.Canceled)
}
