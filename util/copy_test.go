package util

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyTree(t *testing.T) {
	src := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(src, "debian", "source"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "debian", "rules"), []byte("#!/usr/bin/make -f\n"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(src, "debian", "source", "format"), []byte("1.0\n"), 0644))
	if runtime.GOOS != "windows" {
		require.NoError(t, os.Symlink("rules", filepath.Join(src, "debian", "rules.link")))
	}

	dst := filepath.Join(t.TempDir(), "copy")
	require.NoError(t, CopyTree(src, dst))

	contents, err := os.ReadFile(filepath.Join(dst, "debian", "source", "format"))
	require.NoError(t, err)
	assert.Equal(t, "1.0\n", string(contents))

	info, err := os.Stat(filepath.Join(dst, "debian", "rules"))
	require.NoError(t, err)
	if runtime.GOOS != "windows" {
		assert.NotZero(t, info.Mode().Perm()&0100, "executable bit should be preserved")

		link, err := os.Readlink(filepath.Join(dst, "debian", "rules.link"))
		require.NoError(t, err)
		assert.Equal(t, "rules", link)
	}

	t.Run("ExistingDestination", func(t *testing.T) {
		assert.Error(t, CopyTree(src, dst))
	})
	t.Run("MissingSource", func(t *testing.T) {
		assert.Error(t, CopyTree(filepath.Join(src, "nope"), filepath.Join(t.TempDir(), "copy")))
	})
	t.Run("SourceIsFile", func(t *testing.T) {
		assert.Error(t, CopyTree(filepath.Join(src, "debian", "rules"), filepath.Join(t.TempDir(), "copy")))
	})
}
