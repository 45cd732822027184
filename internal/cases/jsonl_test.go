package cases

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihavespoons/smellbench/internal/excerpt"
	"github.com/ihavespoons/smellbench/internal/smell"
)

func TestWriterOneObjectPerLine(t *testing.T) {
	var sb strings.Builder
	w := NewWriter(&sb)

	c := Case{
		CaseID:          "K9_1",
		CodeExcerpt:     "if (a < b && c) {\n}",
		Metrics:         smell.Metrics{"WMC": 3},
		ExcerptStrategy: excerpt.StrategyExactMatch,
	}
	require.NoError(t, w.Write(c))
	require.NoError(t, w.Write(c))
	assert.Equal(t, 2, w.Count())

	lines := strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Contains(t, lines[0], `"code_excerpt":"if (a < b && c) {\n}"`)
	assert.Contains(t, lines[0], `"excerpt_strategy":"exact_match"`)
	assert.Contains(t, lines[0], `"metrics":{"WMC":3}`)
}

func TestDecodeSkipsBlankLines(t *testing.T) {
	in := "{\"case_id\":\"a\"}\n\n  \n{\"case_id\":\"b\"}\n"
	got, err := Decode[Case](strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[1].CaseID)
}

func TestDecodeReportsBadLine(t *testing.T) {
	_, err := Decode[Case](strings.NewReader("{\"case_id\":\"a\"}\nnot json\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 2")
}

func TestCreateFileAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "gen.jsonl")

	for i := 0; i < 2; i++ {
		f, err := CreateFile(path, true)
		require.NoError(t, err)
		require.NoError(t, NewWriter(f).Write(Generation{CaseID: "c", Model: "m"}))
		require.NoError(t, f.Close())
	}

	got, err := ReadGenerations(path)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	f, err := CreateFile(path, false)
	require.NoError(t, err)
	require.NoError(t, f.Close())
	got, err = ReadGenerations(path)
	require.NoError(t, err)
	assert.Empty(t, got)
}
