package completion

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/Neev4n/gosh/pkg/shell"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeExecutable(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0755))
}

func TestCompleteMatchesBuiltinsAndPathExecutables(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit semantics differ on windows")
	}
	dir := t.TempDir()
	writeExecutable(t, dir, "cat")
	writeExecutable(t, dir, "cp")

	env := shell.NewEnvironment([]string{"PATH=" + dir})
	src := New(env, []string{"cd", "cat-builtin"})

	var got []string
	for i := 0; ; i++ {
		name, ok := src.Complete("c", i)
		if !ok {
			break
		}
		got = append(got, name)
	}
	assert.Equal(t, []string{"cat", "cat-builtin", "cd", "cp"}, got)
}

func TestCompleteNoMatchReturnsFalse(t *testing.T) {
	env := shell.NewEnvironment([]string{"PATH=" + t.TempDir()})
	src := New(env, []string{"pwd"})
	_, ok := src.Complete("zzz", 0)
	assert.False(t, ok)
}

func TestCompleteCachesAcrossCalls(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("executable bit semantics differ on windows")
	}
	dir := t.TempDir()
	writeExecutable(t, dir, "first")

	env := shell.NewEnvironment([]string{"PATH=" + dir})
	src := New(env, nil)

	name, ok := src.Complete("f", 0)
	require.True(t, ok)
	assert.Equal(t, "first", name)

	writeExecutable(t, dir, "second")
	_, ok = src.Complete("s", 0)
	assert.False(t, ok, "cache built on first call should not pick up files added afterward")
}
