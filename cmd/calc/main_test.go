package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	name := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(name, []byte("1+1\n\n  \nhex 10\n"), 0o600))

	exprs, err := load(name, true, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"1+1", "hex 10"}, exprs)

	exprs, err = load(name, false, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"1+1\n\n  \nhex 10\n"}, exprs)

	// The file is closed once read, so it can be removed and replaced.
	require.NoError(t, os.Remove(name))
	require.NoError(t, os.WriteFile(name, []byte("2"), 0o600))
	exprs, err = load(name, false, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, exprs)

	_, err = load(filepath.Join(t.TempDir(), "missing"), false, false)
	assert.Error(t, err)

	exprs, err = load("", false, true)
	require.NoError(t, err)
	assert.Empty(t, exprs)
}
