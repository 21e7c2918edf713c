package util

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedWd(t *testing.T) string {
	wd, err := os.Getwd()
	require.NoError(t, err)
	wd, err = filepath.EvalSymlinks(wd)
	require.NoError(t, err)
	return wd
}

func TestPushd(t *testing.T) {
	before := resolvedWd(t)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	restore, err := Pushd(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, resolvedWd(t))

	require.NoError(t, restore())
	assert.Equal(t, before, resolvedWd(t))

	t.Run("RestoreTwiceIsNoop", func(t *testing.T) {
		assert.NoError(t, restore())
		assert.Equal(t, before, resolvedWd(t))
	})

	t.Run("MissingDirectory", func(t *testing.T) {
		restore, err := Pushd(filepath.Join(dir, "does-not-exist"))
		assert.Error(t, err)
		assert.Nil(t, restore)
		assert.Equal(t, before, resolvedWd(t))
	})
	t.Run("Nested", func(t *testing.T) {
		inner, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)

		restoreOuter, err := Pushd(dir)
		require.NoError(t, err)
		restoreInner, err := Pushd(inner)
		require.NoError(t, err)
		assert.Equal(t, inner, resolvedWd(t))

		require.NoError(t, restoreInner())
		assert.Equal(t, dir, resolvedWd(t))
		require.NoError(t, restoreOuter())
		assert.Equal(t, before, resolvedWd(t))
	})
}

func TestWithWorkingDirectory(t *testing.T) {
	before := resolvedWd(t)
	dir, err := filepath.EvalSymlinks(t.TempDir())
	require.NoError(t, err)

	t.Run("Success", func(t *testing.T) {
		var during string
		err := WithWorkingDirectory(dir, func() error {
			during = resolvedWd(t)
			return nil
		})
		assert.NoError(t, err)
		assert.Equal(t, dir, during)
		assert.Equal(t, before, resolvedWd(t))
	})
	t.Run("OperationError", func(t *testing.T) {
		sentinel := errors.New("operation failed")
		err := WithWorkingDirectory(dir, func() error {
			return errors.Wrap(sentinel, "wrapped")
		})
		assert.Equal(t, sentinel, errors.Cause(err))
		assert.Equal(t, before, resolvedWd(t))
	})
	t.Run("Nested", func(t *testing.T) {
		inner, err := filepath.EvalSymlinks(t.TempDir())
		require.NoError(t, err)

		getwd := func() string {
			wd, _ := os.Getwd()
			wd, _ = filepath.EvalSymlinks(wd)
			return wd
		}

		done := make(chan error, 1)
		var duringOuter, duringInner, afterInner string
		go func() {
			done <- WithWorkingDirectory(dir, func() error {
				duringOuter = getwd()
				err := WithWorkingDirectory(inner, func() error {
					duringInner = getwd()
					return nil
				})
				afterInner = getwd()
				return err
			})
		}()

		select {
		case err := <-done:
			require.NoError(t, err)
		case <-time.After(10 * time.Second):
			t.Fatal("nested WithWorkingDirectory did not return")
		}
		assert.Equal(t, dir, duringOuter)
		assert.Equal(t, inner, duringInner)
		assert.Equal(t, dir, afterInner)
		assert.Equal(t, before, resolvedWd(t))
	})
	t.Run("Panic", func(t *testing.T) {
		assert.Panics(t, func() {
			_ = WithWorkingDirectory(dir, func() error {
				panic("boom")
			})
		})
		assert.Equal(t, before, resolvedWd(t))
	})
}
