package mmapfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadString(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "text.txt")
	require.NoError(t, os.WriteFile(path, []byte("сто двадцать пять\n"), 0o644))

	s, err := ReadString(path)
	require.NoError(t, err)
	assert.Equal(t, "сто двадцать пять\n", s)
}

func TestEmptyFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	called := false
	err := With(path, func(data []byte) error {
		called = true
		assert.Nil(t, data)
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)
}

func TestErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := ReadString(filepath.Join(dir, "missing.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ReadString(dir)
	assert.Error(t, err)

	path := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o644))
	sentinel := errors.New("stop")
	err = With(path, func([]byte) error { return sentinel })
	assert.ErrorIs(t, err, sentinel)
}
