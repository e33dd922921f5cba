package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/az-ai-labs/ru-numtext/tokenizer"
)

func TestFirstDivergence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b      string
		pos       int
		got, want byte
	}{
		{"abc", "abc", 3, 0, 0},
		{"abc", "abd", 2, 'd', 'c'},
		{"abc", "ab", 2, 0, 'c'},
		{"ab", "abc", 2, 'c', 0},
	}
	for _, tt := range tests {
		pos, got, want := firstDivergence(tt.a, tt.b)
		assert.Equal(t, tt.pos, pos, "%q vs %q", tt.a, tt.b)
		assert.Equal(t, tt.got, got)
		assert.Equal(t, tt.want, want)
	}
}

func TestComputeMedian(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 0.0, computeMedian(nil), 1e-9)
	assert.InDelta(t, 2.0, computeMedian([]float64{3, 1, 2}), 1e-9)
	assert.InDelta(t, 2.5, computeMedian([]float64{4, 1, 3, 2}), 1e-9)
}

func TestRun(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	files := map[string]string{
		"a.txt":        "привет сто двадцать пять потом проверка двадцать семь\n",
		"b.txt":        "обычный текст без чисел\n",
		"sub/c.txt":    strings.Repeat("тысяча девятьсот восемьдесят четвёртый год\n", 100),
		"empty.txt":    "",
		"ignored.json": "сто",
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	var log bytes.Buffer
	stats, err := run(dir, &log)
	require.NoError(t, err)

	assert.Equal(t, 4, stats.filesScanned)
	assert.Equal(t, 4, stats.reconOK)
	assert.Zero(t, stats.reconFail)
	assert.Equal(t, 4, stats.idempotentOK)
	assert.Zero(t, stats.idempotentFail)
	assert.Equal(t, 102, stats.runs)
	assert.Positive(t, stats.tokenTypeCounts[tokenizer.Word])
	assert.Contains(t, log.String(), "Found 4 files to process")

	var out bytes.Buffer
	printStats(&out, stats)
	assert.Contains(t, out.String(), "Numeral runs:            102")
}

func TestRunMissingDir(t *testing.T) {
	t.Parallel()

	_, err := run(filepath.Join(t.TempDir(), "missing"), &bytes.Buffer{})
	assert.Error(t, err)
}
